package pairsel

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/pairsel/blobstore"
	"github.com/hupe1980/pairsel/codec"
	"github.com/hupe1980/pairsel/event"
	"github.com/hupe1980/pairsel/internal/hash"
	"github.com/hupe1980/pairsel/resource"
)

// RunSummary describes a completed Run.
type RunSummary struct {
	RunID    string        `json:"run_id"`
	Input    string        `json:"input"`
	Output   string        `json:"output"`
	Events   int           `json:"events"`
	Vetoed   int           `json:"vetoed"`
	// Checksum is the hex CRC32C of the output blob as written.
	Checksum string        `json:"checksum"`
	Duration time.Duration `json:"duration"`
}

// Run reads newline-delimited events from input in src, processes them and
// writes one result per line to output in dst. Input compression is taken
// from the file extension. Output compression follows the configuration or,
// if unset, the output extension. The output blob is discarded on failure.
func (p *Processor) Run(ctx context.Context, src blobstore.BlobStore, input string, dst blobstore.BlobStore, output string) (*RunSummary, error) {
	start := time.Now()
	runID := uuid.NewString()

	rp := *p
	rp.opts.logger = p.opts.logger.WithRunID(runID)

	summary := &RunSummary{RunID: runID, Input: input, Output: output}
	err := rp.run(ctx, src, input, dst, output, summary)
	summary.Duration = time.Since(start)

	rp.opts.logger.LogRun(ctx, input, output, summary.Events, err)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (p *Processor) run(ctx context.Context, src blobstore.BlobStore, input string, dst blobstore.BlobStore, output string, summary *RunSummary) error {
	events, err := p.readEvents(ctx, src, input)
	if err != nil {
		return err
	}

	results, err := p.ProcessBatch(ctx, events)
	if err != nil {
		return err
	}

	sum, err := p.writeResults(ctx, dst, output, results)
	if err != nil {
		return err
	}
	summary.Checksum = hash.Hex(sum)

	summary.Events = len(results)
	for _, r := range results {
		if r.Vetoed() {
			summary.Vetoed++
		}
	}
	return nil
}

func (p *Processor) readEvents(ctx context.Context, src blobstore.BlobStore, input string) ([]*event.Event, error) {
	b, err := src.Open(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("pairsel: open %s: %w", input, err)
	}
	defer b.Close()

	reserved := b.Size()
	if limit := p.controller.Config().MemoryLimitBytes; limit > 0 && reserved > limit {
		reserved = limit
	}
	if err := p.controller.AcquireMemory(ctx, reserved); err != nil {
		return nil, err
	}
	defer p.controller.ReleaseMemory(reserved)

	rc, err := blobstore.NewReader(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("pairsel: read %s: %w", input, err)
	}
	defer rc.Close()

	zr, err := codec.NewReader(resource.NewRateLimitedReader(ctx, rc, p.controller), codec.CompressionFromPath(input))
	if err != nil {
		return nil, fmt.Errorf("pairsel: read %s: %w", input, err)
	}
	defer zr.Close()

	events, err := event.ReadAll(zr, p.opts.codec)
	if err != nil {
		return nil, fmt.Errorf("pairsel: decode %s: %w", input, err)
	}
	return events, nil
}

func (p *Processor) writeResults(ctx context.Context, dst blobstore.BlobStore, output string, results []*Result) (_ uint32, err error) {
	comp := codec.CompressionFromPath(output)
	if p.plan.compression != nil {
		comp = *p.plan.compression
	}

	w, err := dst.Create(ctx, output)
	if err != nil {
		return 0, fmt.Errorf("pairsel: create %s: %w", output, err)
	}
	defer func() {
		if err != nil {
			_ = w.Abort()
		}
	}()

	crc := hash.NewCRC32C()
	zw, err := codec.NewWriter(resource.NewRateLimitedWriter(ctx, io.MultiWriter(w, crc), p.controller), comp)
	if err != nil {
		return 0, fmt.Errorf("pairsel: write %s: %w", output, err)
	}

	enc := codec.NewLineEncoder(zw, p.opts.codec)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return 0, fmt.Errorf("pairsel: encode event %s: %w", r.ID(), err)
		}
	}
	if err := enc.Flush(); err != nil {
		return 0, fmt.Errorf("pairsel: write %s: %w", output, err)
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("pairsel: write %s: %w", output, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("pairsel: close %s: %w", output, err)
	}
	return crc.Sum32(), nil
}
