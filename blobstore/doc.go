// Package blobstore abstracts where event files are read from and where
// results are written to.
//
// A BlobStore holds immutable, named blobs. Inputs are opened with Open and
// streamed with NewReader; outputs are written with Create (streaming) or Put
// (whole blob). Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped reads, atomic writes
//   - MemoryStore: in-process map, used by tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// Names use forward slashes regardless of the backend.
package blobstore
