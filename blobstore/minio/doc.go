// Package minio provides a BlobStore backed by MinIO or any other
// S3-compatible object store reachable through the MinIO client.
//
// Event files and result files are addressed by name below an optional
// key prefix:
//
//	store, err := minio.Dial("localhost:9000", "events",
//	    minio.WithCredentials("minioadmin", "minioadmin"),
//	    minio.WithPrefix("run-2024/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, err := blobstore.ReadAll(ctx, store, "events.jsonl.zst")
//
// Streaming writes use a single unsized PutObject call, which the client
// turns into a multipart upload.
package minio
