package minio

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/minio/minio-go/v7"
)

var errAborted = errors.New("minio: upload aborted")

type minioBlob struct {
	client *minio.Client
	bucket string
	key    string
	size   int64
}

func (b *minioBlob) Size() int64 { return b.size }

func (b *minioBlob) Close() error { return nil }

// span clamps [off, off+length) to the object and returns the inclusive end.
func (b *minioBlob) span(off, length int64) (int64, error) {
	if off < 0 || off >= b.size {
		return 0, io.EOF
	}
	return min(off+length, b.size) - 1, nil
}

func (b *minioBlob) get(ctx context.Context, off, end int64) (*minio.Object, error) {
	var opts minio.GetObjectOptions
	if err := opts.SetRange(off, end); err != nil {
		return nil, err
	}
	return b.client.GetObject(ctx, b.bucket, b.key, opts)
}

func (b *minioBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	end, err := b.span(off, int64(len(p)))
	if err != nil {
		return 0, err
	}

	obj, err := b.get(ctx, off, end)
	if err != nil {
		return 0, err
	}
	defer func() { _ = obj.Close() }()

	n, err := io.ReadFull(obj, p[:end-off+1])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return n, err
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *minioBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	end, err := b.span(off, length)
	if err != nil {
		return nil, err
	}
	return b.get(ctx, off, end)
}

type writableBlob struct {
	pw       *io.PipeWriter
	done     chan error
	finished atomic.Bool
	once     sync.Once
	err      error
}

func newWritableBlob(pw *io.PipeWriter) *writableBlob {
	return &writableBlob{pw: pw, done: make(chan error, 1)}
}

func (b *writableBlob) Write(p []byte) (int, error) {
	if b.finished.Load() {
		return 0, io.ErrClosedPipe
	}
	return b.pw.Write(p)
}

// Close completes the upload and reports its result. Later calls return
// the same result.
func (b *writableBlob) Close() error {
	b.once.Do(func() {
		b.finished.Store(true)
		if err := b.pw.Close(); err != nil {
			b.err = err
			return
		}
		b.err = <-b.done
	})
	return b.err
}

// Abort cancels the upload.
func (b *writableBlob) Abort() error {
	if !b.finished.CompareAndSwap(false, true) {
		return nil
	}
	return b.pw.CloseWithError(errAborted)
}

func (b *writableBlob) Sync() error { return nil }
