package event

import (
	"errors"
	"io"

	"github.com/hupe1980/pairsel/codec"
)

// Reader decodes newline-delimited events.
type Reader struct {
	dec *codec.LineDecoder
}

// NewReader creates a Reader. A nil codec selects codec.Default.
func NewReader(r io.Reader, c codec.Codec) *Reader {
	return &Reader{dec: codec.NewLineDecoder(r, c)}
}

// Next decodes the next event. It returns io.EOF after the last one.
func (r *Reader) Next() (*Event, error) {
	var e Event
	if err := r.dec.Decode(&e); err != nil {
		return nil, err
	}
	e.Normalize()
	return &e, nil
}

// Line returns the input line of the last decoded event.
func (r *Reader) Line() int {
	return r.dec.Line()
}

// ReadAll decodes every event in r.
func ReadAll(r io.Reader, c codec.Codec) ([]*Event, error) {
	er := NewReader(r, c)
	var events []*Event
	for {
		e, err := er.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
}

// WriteAll encodes events one per line.
func WriteAll(w io.Writer, c codec.Codec, events []*Event) error {
	enc := codec.NewLineEncoder(w, c)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return enc.Flush()
}
