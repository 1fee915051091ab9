package main

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/hupe1980/pairsel/blobstore"
	"github.com/hupe1980/pairsel/blobstore/minio"
	"github.com/hupe1980/pairsel/blobstore/s3"
)

// location is a parsed blob address.
type location struct {
	scheme string
	host   string
	bucket string
	prefix string
	name   string
}

// parseLocation accepts local paths, file://, s3://bucket/key,
// minio://endpoint/bucket/key and minio+http://endpoint/bucket/key.
func parseLocation(raw string) (location, error) {
	if !strings.Contains(raw, "://") {
		return localLocation(raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return location{}, fmt.Errorf("parse %q: %w", raw, err)
	}

	switch u.Scheme {
	case "file":
		return localLocation(u.Host + u.Path)
	case "s3":
		if u.Host == "" {
			return location{}, fmt.Errorf("%q: missing bucket", raw)
		}
		prefix, name := splitKey(u.Path)
		if name == "" {
			return location{}, fmt.Errorf("%q: missing object name", raw)
		}
		return location{scheme: "s3", bucket: u.Host, prefix: prefix, name: name}, nil
	case "minio", "minio+http":
		bucket, key, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" {
			return location{}, fmt.Errorf("%q: want %s://endpoint/bucket/key", raw, u.Scheme)
		}
		prefix, name := splitKey(key)
		if name == "" {
			return location{}, fmt.Errorf("%q: missing object name", raw)
		}
		return location{scheme: u.Scheme, host: u.Host, bucket: bucket, prefix: prefix, name: name}, nil
	default:
		return location{}, fmt.Errorf("%q: unsupported scheme %q", raw, u.Scheme)
	}
}

func localLocation(p string) (location, error) {
	if p == "" {
		return location{}, fmt.Errorf("empty path")
	}
	dir, name := filepath.Split(filepath.Clean(p))
	if dir == "" {
		dir = "."
	}
	return location{scheme: "file", prefix: dir, name: name}, nil
}

func splitKey(key string) (prefix, name string) {
	key = strings.TrimPrefix(key, "/")
	prefix, name = path.Split(key)
	return prefix, name
}

// open connects to the store holding l.
func (l location) open(ctx context.Context) (blobstore.BlobStore, error) {
	switch l.scheme {
	case "file":
		return blobstore.NewLocalStore(l.prefix), nil
	case "s3":
		return s3.New(ctx, l.bucket, s3.WithPrefix(l.prefix))
	case "minio", "minio+http":
		return minio.Dial(l.host, l.bucket, minio.WithPrefix(l.prefix), minio.WithSecure(l.scheme == "minio"))
	}
	return nil, fmt.Errorf("unsupported scheme %q", l.scheme)
}
