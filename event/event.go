package event

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/pairsel/collection"
	"github.com/hupe1980/pairsel/mask"
)

var (
	// ErrUnknownCollection is returned when a referenced collection is absent.
	ErrUnknownCollection = errors.New("event: unknown collection")
	// ErrUnknownMask is returned when a referenced mask is absent.
	ErrUnknownMask = errors.New("event: unknown mask")
	// ErrMaskMismatch is returned when a mask is used with a collection it
	// was not built for.
	ErrMaskMismatch = errors.New("event: mask belongs to another collection")
	// ErrInvalidMask is returned for a mask carrying both bits and indices or
	// a repeated index.
	ErrInvalidMask = errors.New("event: invalid mask")
)

// ID identifies an event.
type ID struct {
	Run    uint32 `json:"run"`
	Lumi   uint32 `json:"lumi"`
	Number uint64 `json:"event"`
}

// String returns run:lumi:event.
func (id ID) String() string {
	return fmt.Sprintf("%d:%d:%d", id.Run, id.Lumi, id.Number)
}

// MaskSpec is an upstream selection mask in wire form.
type MaskSpec struct {
	Collection string `json:"collection"`
	Bits       []int  `json:"bits,omitempty"`
	Indices    []int  `json:"indices,omitempty"`
}

// Event is one decoded event.
type Event struct {
	Run         uint32                            `json:"run"`
	Lumi        uint32                            `json:"lumi"`
	Number      uint64                            `json:"event"`
	Collections map[string]*collection.Collection `json:"collections"`
	Masks       map[string]MaskSpec               `json:"masks,omitempty"`
}

// ID returns the event identifier.
func (e *Event) ID() ID {
	return ID{Run: e.Run, Lumi: e.Lumi, Number: e.Number}
}

// Normalize names unnamed collections after their map key.
func (e *Event) Normalize() {
	for name, c := range e.Collections {
		if c != nil && c.Name == "" {
			c.Name = name
		}
	}
}

// Validate checks column lengths and that every mask resolves.
// Collections and masks are visited in name order so the reported error
// is stable.
func (e *Event) Validate() error {
	for _, name := range sortedKeys(e.Collections) {
		c := e.Collections[name]
		if c == nil {
			return fmt.Errorf("%w: %q is null", ErrUnknownCollection, name)
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(e.Masks) {
		if _, _, err := e.Mask(name); err != nil {
			return err
		}
	}
	return nil
}

// Collection returns the named collection.
func (e *Event) Collection(name string) (*collection.Collection, error) {
	c, ok := e.Collections[name]
	if !ok || c == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return c, nil
}

// Mask resolves the named mask against its collection. Out-of-range
// indices yield *collection.IndexError and a bit vector of the wrong
// length yields *collection.LengthError.
func (e *Event) Mask(name string) (*mask.Mask, *collection.Collection, error) {
	spec, ok := e.Masks[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownMask, name)
	}
	c, err := e.Collection(spec.Collection)
	if err != nil {
		return nil, nil, fmt.Errorf("mask %q: %w", name, err)
	}

	switch {
	case spec.Bits != nil && spec.Indices != nil:
		return nil, nil, fmt.Errorf("%w: %q has both bits and indices", ErrInvalidMask, name)
	case spec.Bits != nil:
		if len(spec.Bits) != c.Len() {
			return nil, nil, &collection.LengthError{Collection: c.Name, Column: name, Len: len(spec.Bits), Want: c.Len()}
		}
		return mask.FromInts(spec.Bits), c, nil
	default:
		if err := c.CheckIndices(spec.Indices); err != nil {
			var ie *collection.IndexError
			if errors.As(err, &ie) {
				ie.Column = name
			}
			return nil, nil, err
		}
		m, err := mask.FromIndices(c.Len(), spec.Indices)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %q: %v", ErrInvalidMask, name, err)
		}
		return m, c, nil
	}
}

// MaskFor resolves maskName and checks that it was built for
// collectionName.
func (e *Event) MaskFor(collectionName, maskName string) (*mask.Mask, *collection.Collection, error) {
	m, c, err := e.Mask(maskName)
	if err != nil {
		return nil, nil, err
	}
	if owner := e.Masks[maskName].Collection; owner != collectionName {
		return nil, nil, fmt.Errorf("%w: %q is defined on %q, not %q",
			ErrMaskMismatch, maskName, owner, collectionName)
	}
	return m, c, nil
}

// Candidates returns the collection and its candidate indices. An empty
// mask name selects every object in original order.
func (e *Event) Candidates(collectionName, maskName string) (*collection.Collection, []int, error) {
	if maskName == "" {
		c, err := e.Collection(collectionName)
		if err != nil {
			return nil, nil, err
		}
		all := make([]int, c.Len())
		for i := range all {
			all[i] = i
		}
		return c, all, nil
	}

	m, c, err := e.MaskFor(collectionName, maskName)
	if err != nil {
		return nil, nil, err
	}
	return c, m.Candidates(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
