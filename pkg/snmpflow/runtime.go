package snmpflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ghalamif/SNMPFlow/internal/adapters/hoststats"
	"github.com/ghalamif/SNMPFlow/internal/adapters/influx"
	"github.com/ghalamif/SNMPFlow/internal/adapters/observability"
	"github.com/ghalamif/SNMPFlow/internal/adapters/sink"
	"github.com/ghalamif/SNMPFlow/internal/adapters/snmp"
	"github.com/ghalamif/SNMPFlow/internal/adapters/spool"
	"github.com/ghalamif/SNMPFlow/internal/app/pipeline"
	"github.com/ghalamif/SNMPFlow/internal/ports"
)

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	collector     Collector
	dialer        Dialer
	sink          Sink
	spool         Spool
	observability Observability
	sources       []PointSource
	logOutput     io.Writer
}

// WithCollector replaces the SNMP collector entirely.
func WithCollector(col Collector) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.collector = col
	}
}

// WithDialer keeps the SNMP collector but opens sessions through d.
func WithDialer(d Dialer) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.dialer = d
	}
}

// WithSink sends points somewhere other than the configured databases.
func WithSink(s Sink) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.sink = s
	}
}

// WithSpool supplies a spool instead of the one selected by spool.dir/spool.memory.
func WithSpool(s Spool) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.spool = s
	}
}

// WithObservability plugs in a custom log/metrics backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithPointSource adds points from src to every cycle.
func WithPointSource(src PointSource) RuntimeOption {
	return func(o *runtimeOverrides) {
		if src != nil {
			o.sources = append(o.sources, src)
		}
	}
}

// WithLogOutput redirects the default logger, which writes to stderr.
func WithLogOutput(w io.Writer) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.logOutput = w
	}
}

// Runtime wires collector, sink, spool and observability around the scrape
// loop and owns the resources they open.
type Runtime struct {
	cfg        *Config
	deps       pipeline.Deps
	registry   *prometheus.Registry
	closers    []io.Closer
	metricsSrv *http.Server
}

// NewRuntime builds the default adapters from cfg: SNMP collector, InfluxDB
// and/or Timescale writers, optional spool, optional self-stats and Prometheus
// observability. Options override any of them.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	rt := &Runtime{
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
	}
	rt.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	obs := overrides.observability
	if obs == nil {
		out := overrides.logOutput
		if out == nil {
			out = os.Stderr
		}
		obs = observability.NewPromObs(observability.NewLogger(out, cfg.Log), rt.registry)
	}

	col := overrides.collector
	if col == nil {
		dialer := overrides.dialer
		if dialer == nil {
			dialer = snmp.NewDialer(cfg.SNMP)
		}
		col = snmp.NewCollector(dialer)
	}

	snk := overrides.sink
	if snk == nil {
		var err error
		snk, err = rt.buildSink(obs)
		if err != nil {
			_ = rt.closeAll()
			return nil, err
		}
	}

	sp := overrides.spool
	if sp == nil {
		var err error
		sp, err = rt.buildSpool()
		if err != nil {
			_ = rt.closeAll()
			return nil, err
		}
	}

	sources := overrides.sources
	if cfg.SelfMonitor {
		sources = append(sources, hoststats.NewSource())
	}

	rt.deps = pipeline.Deps{
		Devices:   cfg.Devices,
		Collector: col,
		Sources:   sources,
		Sink:      snk,
		Spool:     sp,
		Policy:    cfg.Policy,
		Obs:       obs,
	}
	return rt, nil
}

func (r *Runtime) buildSink(obs ports.Observability) (ports.Sink, error) {
	var sinks []ports.Sink

	if r.cfg.InfluxDB.Enabled() {
		s, err := influx.NewSink(r.cfg.InfluxDB, influx.WithObservability(obs))
		if err != nil {
			return nil, fmt.Errorf("influxdb sink: %w", err)
		}
		r.closers = append(r.closers, s)
		sinks = append(sinks, s)
	}

	if r.cfg.Timescale.Enabled() {
		db, err := sql.Open("postgres", r.cfg.Timescale.ConnString)
		if err != nil {
			return nil, fmt.Errorf("timescale sink: %w", err)
		}
		r.closers = append(r.closers, db)
		sinks = append(sinks, sink.NewTimescaleSink(db, r.cfg.Timescale.Table))
	}

	switch len(sinks) {
	case 0:
		return nil, fmt.Errorf("no writer configured")
	case 1:
		return sinks[0], nil
	default:
		return sink.NewFanoutSink(sinks...), nil
	}
}

func (r *Runtime) buildSpool() (ports.Spool, error) {
	switch {
	case r.cfg.Spool.Dir != "":
		s, err := spool.NewFileSpool(r.cfg.Spool.Dir)
		if err != nil {
			return nil, fmt.Errorf("spool: %w", err)
		}
		r.closers = append(r.closers, s)
		return s, nil
	case r.cfg.Spool.Memory:
		return spool.NewMemSpool(), nil
	default:
		return nil, nil
	}
}

// RunOnce runs a single scrape cycle and returns its report.
func (r *Runtime) RunOnce(ctx context.Context) CycleReport {
	return pipeline.RunCycle(ctx, r.deps)
}

// Run serves metrics when configured and blocks in the scrape loop until ctx
// is cancelled, then releases every resource the runtime opened.
func (r *Runtime) Run(ctx context.Context) error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}
	if r.cfg.Metrics.Addr != "" {
		r.startMetrics()
	}

	loopErr := pipeline.RunScrapeLoop(ctx, r.deps)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(loopErr, r.Shutdown(shutdownCtx))
}

// Shutdown stops the metrics server and closes sinks and the spool.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
		r.metricsSrv = nil
	}

	errs = append(errs, r.closeAll())
	return errors.Join(errs...)
}

func (r *Runtime) closeAll() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// MetricsHandler exposes the runtime's registry for callers that serve
// metrics on their own mux.
func (r *Runtime) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Runtime) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.MetricsHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.metricsSrv = &http.Server{
		Addr:              r.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv := r.metricsSrv
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.deps.Obs.LogError("metrics_server_exited", err, Field{Key: "addr", Value: srv.Addr})
		}
	}()
}
