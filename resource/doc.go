// Package resource bounds the resources a batch run may use: concurrent
// event workers, bytes of decoded input held in memory, and blob IO
// throughput.
//
// A nil *Controller imposes no limits.
package resource
