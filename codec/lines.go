package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// LineEncoder writes one encoded record per line.
type LineEncoder struct {
	w   *bufio.Writer
	c   Codec
	buf []byte
}

// NewLineEncoder creates a LineEncoder. A nil codec selects Default.
func NewLineEncoder(w io.Writer, c Codec) *LineEncoder {
	if c == nil {
		c = Default
	}
	return &LineEncoder{w: bufio.NewWriter(w), c: c}
}

// Encode writes v followed by a newline.
func (e *LineEncoder) Encode(v any) error {
	var (
		b   []byte
		err error
	)
	if a, ok := e.c.(appender); ok {
		e.buf, err = a.Append(e.buf[:0], v)
		b = e.buf
	} else {
		b, err = e.c.Marshal(v)
	}
	if err != nil {
		return err
	}
	if bytes.IndexByte(b, '\n') >= 0 {
		return fmt.Errorf("codec: %s produced a multi-line record", e.c.Name())
	}
	if _, err := e.w.Write(b); err != nil {
		return err
	}
	return e.w.WriteByte('\n')
}

// Flush writes buffered records to the underlying writer.
func (e *LineEncoder) Flush() error {
	return e.w.Flush()
}

// LineDecoder reads newline-delimited records. Blank lines are skipped.
type LineDecoder struct {
	r    *bufio.Reader
	c    Codec
	line int
}

// NewLineDecoder creates a LineDecoder. A nil codec selects Default.
func NewLineDecoder(r io.Reader, c Codec) *LineDecoder {
	if c == nil {
		c = Default
	}
	return &LineDecoder{r: bufio.NewReaderSize(r, 64*1024), c: c}
}

// Line returns the number of the last line read.
func (d *LineDecoder) Line() int {
	return d.line
}

// Decode reads the next record into v. It returns io.EOF when no records
// remain.
func (d *LineDecoder) Decode(v any) error {
	for {
		raw, err := d.r.ReadBytes('\n')
		if len(raw) == 0 && err != nil {
			return err
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		d.line++

		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			if err != nil {
				return err
			}
			continue
		}
		if uerr := d.c.Unmarshal(raw, v); uerr != nil {
			return fmt.Errorf("codec: line %d: %w", d.line, uerr)
		}
		return nil
	}
}
