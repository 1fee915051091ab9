package collection

import (
	"fmt"
)

// IndexError reports an index outside a column's bounds.
type IndexError struct {
	Collection string
	Column     string
	Index      int
	Len        int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("collection %q: index %d out of range for column %q of length %d",
		e.Collection, e.Index, e.Column, e.Len)
}

// LengthError reports a column (or mask) whose length differs from the collection.
type LengthError struct {
	Collection string
	Column     string
	Len        int
	Want       int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("collection %q: column %q has length %d, want %d",
		e.Collection, e.Column, e.Len, e.Want)
}

// ColumnError reports a missing column.
type ColumnError struct {
	Collection string
	Column     string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("collection %q: unknown column %q", e.Collection, e.Column)
}
