package exporters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// Formats lists the accepted snapshot encodings.
var Formats = []string{FormatJSON, FormatYAML, FormatMarkdown}

// ParseFormat normalises a user-provided format name.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want one of %s)", s, strings.Join(Formats, ", "))
}

// Extension returns the file extension used for a format.
func Extension(format string) string {
	switch format {
	case FormatYAML:
		return "yaml"
	case FormatMarkdown:
		return "md"
	}
	return "json"
}

// Encode renders the snapshot in the given format.
func Encode(snap *Snapshot, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return nil, fmt.Errorf("failed to encode snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return buf.Bytes(), nil
	case FormatMarkdown:
		return []byte(GenerateMarkdown(snap)), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// Decode reads a JSON or YAML snapshot back.
func Decode(data []byte, format string) (*Snapshot, error) {
	var snap Snapshot
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &snap)
	case FormatYAML:
		err = yaml.Unmarshal(data, &snap)
	default:
		return nil, fmt.Errorf("cannot decode %s snapshots", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}
