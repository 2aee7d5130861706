package influx

import (
	"context"
	"fmt"
	"strings"

	client "github.com/influxdata/influxdb1-client/v2"

	"github.com/ghalamif/SNMPFlow/internal/domain"
	"github.com/ghalamif/SNMPFlow/internal/ports"
)

// Sink writes batches to InfluxDB 1.x over its HTTP write API.
type Sink struct {
	client client.Client
	cfg    Config
	obs    ports.Observability
}

type SinkOption func(*Sink)

// WithObservability reports points that cannot be written.
func WithObservability(obs ports.Observability) SinkOption {
	return func(s *Sink) {
		s.obs = obs
	}
}

func NewSink(cfg Config, opts ...SinkOption) (*Sink, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:               cfg.Addr(),
		Username:           cfg.Username,
		Password:           cfg.Password,
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		UserAgent:          "snmpflow",
	})
	if err != nil {
		return nil, fmt.Errorf("influx client: %w", err)
	}
	s := &Sink{client: c, cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Sink) Name() string { return "influxdb" }

// WriteBatch sends every point in a single write call. Points without fields
// cannot be represented in line protocol; they are left out and counted in
// snmpflow_points_skipped_total.
func (s *Sink) WriteBatch(ctx context.Context, points []*domain.Point) error {
	if len(points) == 0 {
		return nil
	}

	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:        s.cfg.Database,
		RetentionPolicy: s.cfg.RetentionPolicy,
		Precision:       "s",
	})
	if err != nil {
		return err
	}

	var skipped []string
	for _, p := range points {
		if len(p.Fields) == 0 {
			skipped = append(skipped, p.Measurement+"/"+p.Tags["hostname"])
			continue
		}
		pt, err := client.NewPoint(p.Measurement, p.Tags, p.Fields, p.Time)
		if err != nil {
			return fmt.Errorf("build point %s: %w", p.Measurement, err)
		}
		bp.AddPoint(pt)
	}
	s.reportSkipped(skipped)
	if len(bp.Points()) == 0 {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.client.Write(bp)
}

func (s *Sink) reportSkipped(skipped []string) {
	if len(skipped) == 0 || s.obs == nil {
		return
	}
	s.obs.IncCounter("snmpflow_points_skipped_total", float64(len(skipped)))
	s.obs.LogInfo("points_skipped_without_fields",
		ports.Field{Key: "sink", Value: s.Name()},
		ports.Field{Key: "points", Value: strings.Join(skipped, ",")})
}

func (s *Sink) Close() error {
	return s.client.Close()
}

var _ ports.Sink = (*Sink)(nil)
