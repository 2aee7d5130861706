package observability

import (
	"log/slog"

	"github.com/ghalamif/SNMPFlow/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
)

type PromObs struct {
	logger   *slog.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

// NewPromObs registers the snmpflow metrics on reg, or on the default
// registerer when reg is nil.
func NewPromObs(logger *slog.Logger, reg prometheus.Registerer) *PromObs {
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	scrapes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snmpflow_device_scrapes_total",
		Help: "Device scrapes that completed successfully.",
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snmpflow_device_failures_total",
		Help: "Device scrapes skipped because of a session, walk or get failure.",
	})
	written := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snmpflow_points_written_total",
		Help: "Points accepted by the sink.",
	})
	writeFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snmpflow_write_failures_total",
		Help: "Batch writes rejected by the sink.",
	})
	spooled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snmpflow_points_spooled_total",
		Help: "Points kept in the spool after a failed write.",
	})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snmpflow_points_dropped_total",
		Help: "Points discarded after a failed write.",
	})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snmpflow_points_skipped_total",
		Help: "Points left out of a write because they carry no fields.",
	})
	spoolGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snmpflow_spool_size_bytes",
		Help: "Size of the spool on disk.",
	})
	devicesGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snmpflow_devices_configured",
		Help: "Devices present in the loaded configuration.",
	})
	cycle := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "snmpflow_cycle_duration_seconds",
		Help:    "Wall time of one scrape cycle across all devices.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})
	writeLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "snmpflow_write_latency_seconds",
		Help:    "Latency of one batch write.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	reg.MustRegister(scrapes, failures, written, writeFailures, spooled, dropped, skipped,
		spoolGauge, devicesGauge, cycle, writeLatency)

	return &PromObs{
		logger: logger,
		counters: map[string]prometheus.Counter{
			"snmpflow_device_scrapes_total":  scrapes,
			"snmpflow_device_failures_total": failures,
			"snmpflow_points_written_total":  written,
			"snmpflow_write_failures_total":  writeFailures,
			"snmpflow_points_spooled_total":  spooled,
			"snmpflow_points_dropped_total":  dropped,
			"snmpflow_points_skipped_total":  skipped,
		},
		gauges: map[string]prometheus.Gauge{
			"snmpflow_spool_size_bytes":   spoolGauge,
			"snmpflow_devices_configured": devicesGauge,
		},
		histos: map[string]prometheus.Observer{
			"snmpflow_cycle_duration_seconds": cycle,
			"snmpflow_write_latency_seconds":  writeLatency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.logger.Info(msg, attrs(nil, fields)...)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	p.logger.Error(msg, attrs(err, fields)...)
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	p.logger.Error(msg, append(attrs(err, fields), "critical", true)...)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func attrs(err error, fields []ports.Field) []any {
	out := make([]any, 0, 2*len(fields)+2)
	if err != nil {
		out = append(out, "error", err)
	}
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}

var _ ports.Observability = (*PromObs)(nil)
