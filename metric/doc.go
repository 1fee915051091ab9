// Package metric exports processor metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	p, _ := pairsel.New(cfg, pairsel.WithMetricsCollector(metric.NewCollector(reg)))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metric
