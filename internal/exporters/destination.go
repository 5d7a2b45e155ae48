package exporters

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/university/internal/config"
	"github.com/mrlokans/university/internal/storage"
	"github.com/mrlokans/university/internal/storage/providers/local"
	"github.com/mrlokans/university/internal/storage/providers/s3"
)

const s3Scheme = "s3://"

// Destination is where snapshots are written: a storage client and the
// prefix snapshots are kept under.
type Destination struct {
	Client storage.Client
	Prefix string
	// Location is a human-readable form, e.g. "s3://bucket/snapshots".
	Location string
}

// OpenDestination resolves dest to a storage client. dest is either a local
// directory or an s3://bucket/prefix URL. An empty dest falls back to the
// configured bucket, then to the configured directory. Region, endpoint and
// credentials for S3 always come from cfg.
func OpenDestination(ctx context.Context, cfg config.Export, dest string) (*Destination, error) {
	bucket, prefix := cfg.S3Bucket, cfg.S3Prefix
	switch {
	case strings.HasPrefix(dest, s3Scheme):
		bucket, prefix, _ = strings.Cut(strings.TrimPrefix(dest, s3Scheme), "/")
		if bucket == "" {
			return nil, fmt.Errorf("invalid destination %q: missing bucket", dest)
		}
	case dest != "":
		return openLocal(dest)
	case !cfg.S3Configured:
		return openLocal(cfg.Dir)
	}

	client, err := s3.NewClient(ctx, s3.Config{
		Bucket:          bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		PathStyle:       cfg.S3PathStyle,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
	})
	if err != nil {
		return nil, err
	}
	prefix = strings.Trim(prefix, "/")
	return &Destination{
		Client:   client,
		Prefix:   prefix,
		Location: s3Scheme + storage.JoinPath(bucket, prefix),
	}, nil
}

func openLocal(dir string) (*Destination, error) {
	client, err := local.NewClient(dir)
	if err != nil {
		return nil, err
	}
	return &Destination{Client: client, Location: dir}, nil
}
