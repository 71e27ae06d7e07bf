// Package archive uploads exported CSV files and snapshot dumps to a
// durable location: a local directory or an S3-compatible bucket.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// Driver names accepted in archive.driver.
const (
	DriverFS = "fs"
	DriverS3 = "s3"
)

// ContentTypeCSV is the content type of every archived export.
const ContentTypeCSV = "text/csv"

// Archive errors.
var (
	ErrNotConfigured = errors.New("archive not configured")
	ErrDriverUnknown = errors.New("unknown archive driver")
	ErrExists        = errors.New("archive object already exists")
	ErrInvalidKey    = errors.New("invalid archive key")
)

// Sink stores archive objects under string keys. Put never overwrites an
// existing object.
type Sink interface {
	Driver() string
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}

// Config selects and configures a Sink.
type Config struct {
	Driver    string // fs, s3, or empty for none
	Dir       string // fs root
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
	Prefix    string
}

// Open returns the Sink for cfg.Driver.
func Open(ctx context.Context, cfg Config) (Sink, error) {
	switch cfg.Driver {
	case "":
		return nil, ErrNotConfigured
	case DriverFS:
		return NewFS(cfg.Dir)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			PathStyle: cfg.PathStyle,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriverUnknown, cfg.Driver)
	}
}

// Key joins prefix and filename into an object key.
func Key(prefix, filename string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return filename
	}
	return path.Join(prefix, filename)
}

// cleanKey rejects keys that are empty, absolute, or escape the root.
func cleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidKey, key)
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q escapes the archive", ErrInvalidKey, key)
	}
	return clean, nil
}
