// Package mmap maps event files read-only into memory.
//
// The local blob store hands out mapped files so that event decoding reads
// straight from the page cache. Sequential access is advised by default since
// event files are decoded front to back.
//
// Unix systems use mmap(2) and madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
//
// A Mapping is safe for concurrent reads. Slices obtained from Bytes or Slice
// must not be used after Close.
package mmap
