package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw  string
		want location
	}{
		{"events.jsonl", location{scheme: "file", prefix: ".", name: "events.jsonl"}},
		{"/data/run/events.jsonl.zst", location{scheme: "file", prefix: "/data/run/", name: "events.jsonl.zst"}},
		{"file:///data/events.jsonl", location{scheme: "file", prefix: "/data/", name: "events.jsonl"}},
		{"s3://bucket/events.jsonl", location{scheme: "s3", bucket: "bucket", name: "events.jsonl"}},
		{"s3://bucket/run-2024/a/events.jsonl.lz4", location{scheme: "s3", bucket: "bucket", prefix: "run-2024/a/", name: "events.jsonl.lz4"}},
		{"minio://localhost:9000/bucket/out/results.jsonl", location{scheme: "minio", host: "localhost:9000", bucket: "bucket", prefix: "out/", name: "results.jsonl"}},
		{"minio+http://minio:9000/bucket/results.jsonl", location{scheme: "minio+http", host: "minio:9000", bucket: "bucket", name: "results.jsonl"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseLocation(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocation_Errors(t *testing.T) {
	for _, raw := range []string{
		"",
		"s3:///events.jsonl",
		"s3://bucket/",
		"minio://localhost:9000/",
		"minio://localhost:9000/bucket/",
		"gs://bucket/events.jsonl",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := parseLocation(raw)
			assert.Error(t, err)
		})
	}
}
