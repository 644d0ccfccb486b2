package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/dd0wney/biocatalog/pkg/logging"
)

// Source produces the raw match entries of a catalog
type Source interface {
	// Name identifies the source in logs, e.g. "file:/data/all_matches.json"
	Name() string
	// Type is the metric label for the source kind
	Type() string
	Load(ctx context.Context) ([]MatchEntry, error)
}

// SourceOptions configures remote sources opened by OpenSource
type SourceOptions struct {
	S3Region   string
	S3Endpoint string // custom endpoint for S3-compatible stores; enables path-style addressing
	Logger     logging.Logger
}

// OpenSource picks a source by URI scheme: s3://bucket/key,
// postgres:// or postgresql:// DSNs, and file:// or bare paths.
func OpenSource(ctx context.Context, uri string, opts SourceOptions) (Source, error) {
	scheme, rest, hasScheme := strings.Cut(uri, "://")
	if !hasScheme {
		return NewFileSource(uri), nil
	}

	switch scheme {
	case "file":
		return NewFileSource(rest), nil
	case "s3":
		bucket, key, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || key == "" {
			return nil, fmt.Errorf("%w: s3 uri %q needs bucket and key", ErrUnsupportedSource, uri)
		}
		return NewS3Source(ctx, bucket, key, opts.S3Region, opts.S3Endpoint)
	case "postgres", "postgresql":
		return NewPostgresSource(ctx, uri)
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedSource, scheme)
	}
}
