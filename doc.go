// Package pairsel selects object pairs and angular matches in collision
// events.
//
// A Processor is compiled from a declarative Config and applies its steps to
// every event: pair selection, ΔR matching, complement lookup, best-candidate
// search, nearest-within lookup and event vetoes.
//
// # Quick Start
//
//	cfg, _ := pairsel.LoadConfig("channels.yaml")
//	p, _ := pairsel.New(cfg, pairsel.WithLogLevel(slog.LevelInfo))
//
//	res, _ := p.ProcessEvent(ctx, ev)
//	fmt.Println(res.Pairs["mutau"].Ints)
//
// Batches run on a bounded worker pool and keep the input order:
//
//	results, _ := p.ProcessBatch(ctx, events)
//
// # Runs
//
// Run streams newline-delimited events from one blob store to another.
// Compression follows the file extension (.lz4, .zst):
//
//	src := blobstore.NewLocalStore("./input")
//	dst, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("run-2024/"))
//	summary, _ := p.Run(ctx, src, "events.jsonl.zst", dst, "results.jsonl.zst")
//
// # Configuration
//
//	version: 1
//	pairs:
//	  - name: mutau
//	    preset: mt
//	    first: {collection: muon, mask: tight}
//	    second: {collection: tau, mask: medium}
//	matches:
//	  - name: tau_jets
//	    from: {pair: mutau, slot: second}
//	    secondary: {collection: jet}
//	    max_delta_r: 0.4
//
// # Errors
//
// A malformed configuration yields a *ConfigError. Per-event failures are
// wrapped in an *EventError that matches ErrPrecondition for index and
// length contract violations and ErrInvalidEvent otherwise:
//
//	if errors.Is(err, pairsel.ErrPrecondition) {
//	    // a mask or index list does not fit its collection
//	}
package pairsel
