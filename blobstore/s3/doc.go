// Package s3 stores event files and results in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("analysis/2024/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
// # Features
//
//   - Range reads for streaming large event files
//   - Multipart uploads for result files, with CRC32C checksums
//   - Automatic pagination for listing
//   - Custom endpoints for S3-compatible services
package s3
