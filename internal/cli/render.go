package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mrlokans/university/internal/entities"
	"github.com/mrlokans/university/internal/search"
)

const (
	formatTable    = "table"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

func parseOutputFormat(s string) (string, error) {
	switch s {
	case "", formatTable:
		return formatTable, nil
	case formatJSON:
		return formatJSON, nil
	case formatMarkdown, "md":
		return formatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported format %q (want table, json or markdown)", s)
}

// resultRows flattens the active collection of r into a header and rows.
func resultRows(kind entities.Kind, r search.Results) (table.Row, []table.Row) {
	var rows []table.Row
	switch kind {
	case entities.KindStudent:
		for _, s := range r.Students {
			rows = append(rows, table.Row{s.ID, s.Name, s.LastName, s.PESEL, formatDate(s.BirthDate), s.PostalCode})
		}
		return table.Row{"ID", "Name", "Last Name", "PESEL", "Birth Date", "Postal Code"}, rows
	case entities.KindSubject:
		for _, s := range r.Subjects {
			rows = append(rows, table.Row{s.ID, s.Name, s.Semester, s.Lecturer})
		}
		return table.Row{"ID", "Name", "Semester", "Lecturer"}, rows
	case entities.KindBook:
		for _, b := range r.Books {
			rows = append(rows, table.Row{b.ID, b.Title, b.Author, b.Publisher, b.ISBN})
		}
		return table.Row{"ID", "Title", "Author", "Publisher", "ISBN"}, rows
	case entities.KindClassroom:
		for _, c := range r.Classrooms {
			rows = append(rows, table.Row{c.ID, c.Location, c.Capacity, c.AvailableSeats,
				yesNo(c.Projector), yesNo(c.Whiteboard), yesNo(c.Microphone)})
		}
		return table.Row{"ID", "Location", "Capacity", "Available", "Projector", "Whiteboard", "Microphone"}, rows
	}
	return nil, nil
}

func renderResults(w io.Writer, kind entities.Kind, r search.Results, format string) error {
	if format == formatJSON {
		return renderJSON(w, r, kind)
	}

	header, rows := resultRows(kind, r)
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)

	if format == formatMarkdown {
		t.RenderMarkdown()
		return nil
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderJSON(w io.Writer, r search.Results, kind entities.Kind) error {
	var payload any
	switch kind {
	case entities.KindStudent:
		payload = nonNil(r.Students)
	case entities.KindSubject:
		payload = nonNil(r.Subjects)
	case entities.KindBook:
		payload = nonNil(r.Books)
	case entities.KindClassroom:
		payload = nonNil(r.Classrooms)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// nonNil keeps empty results encoded as [] rather than null.
func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
