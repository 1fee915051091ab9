// Package finder picks single objects: an additional object next to a chosen
// pair, or the best-scoring candidate of a collection.
package finder
