package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/pairsel"
	"github.com/hupe1980/pairsel/blobstore"
	"github.com/hupe1980/pairsel/codec"
	"github.com/hupe1980/pairsel/metric"
	"github.com/hupe1980/pairsel/report"
)

type runFlags struct {
	config      string
	workers     int
	metricsAddr string
	reportPath  string
}

func (cli *CLI) runCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run <input> <output>",
		Short: "Process an event file and write one result per event",
		Long: `Process newline-delimited events and write newline-delimited results.

Input and output are local paths or URLs:

  file:///data/events.jsonl.zst
  s3://bucket/run-2024/events.jsonl.lz4
  minio://localhost:9000/bucket/results.jsonl

Compression follows the file extension (.zst, .lz4).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.run(cmd, f, args[0], args[1])
		},
	}
	cmd.Flags().StringVarP(&f.config, "config", "c", "pairsel.yaml", "configuration file")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "events processed concurrently (0 uses the configuration)")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	cmd.Flags().StringVar(&f.reportPath, "report", "", "write summary histograms in YODA format to this file")

	return cmd
}

func (cli *CLI) run(cmd *cobra.Command, f runFlags, input, output string) error {
	ctx := cmd.Context()

	log, err := cli.logger()
	if err != nil {
		return err
	}

	cfg, err := pairsel.LoadConfig(f.config)
	if err != nil {
		return err
	}

	rep := cfg.NewReport()
	opts := []pairsel.Option{
		pairsel.WithLogger(log),
		pairsel.WithReport(rep),
	}
	if f.workers > 0 {
		opts = append(opts, pairsel.WithWorkers(f.workers))
	}

	if f.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, pairsel.WithMetricsCollector(metric.NewCollector(reg)))

		stop, err := serveMetrics(ctx, f.metricsAddr, reg)
		if err != nil {
			return err
		}
		defer stop()
		log.Info("serving metrics", "addr", f.metricsAddr)
	}

	p, err := pairsel.New(cfg, opts...)
	if err != nil {
		return err
	}

	src, in, err := openLocation(ctx, input)
	if err != nil {
		return err
	}
	dst, out, err := openLocation(ctx, output)
	if err != nil {
		return err
	}

	summary, err := p.Run(ctx, src, in, dst, out)
	if err != nil {
		return err
	}

	if f.reportPath != "" {
		data, err := rep.MarshalYODA()
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.reportPath, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	data, err := codec.Default.Marshal(struct {
		*pairsel.RunSummary
		Report report.Summary `json:"report"`
	}{summary, rep.Summary()})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func openLocation(ctx context.Context, raw string) (blobstore.BlobStore, string, error) {
	loc, err := parseLocation(raw)
	if err != nil {
		return nil, "", err
	}
	store, err := loc.open(ctx)
	if err != nil {
		return nil, "", err
	}
	return store, loc.name, nil
}

// serveMetrics exposes reg on addr until the returned stop is called.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}, nil
}
