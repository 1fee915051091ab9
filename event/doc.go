// Package event models one collision event as decoded from an input file:
// its identifiers, named object collections and the upstream selection
// masks that turn collections into candidate lists.
//
// Masks arrive either as aligned 0/1 vectors (Bits) or as index lists
// (Indices). Index lists keep their delivered order.
package event
