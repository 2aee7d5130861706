package hoststats

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSourcePoints(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	s := &Source{
		hostname:   "poller01",
		now:        func() time.Time { return ts },
		cpuPercent: func(context.Context) (float64, error) { return 12.5, nil },
		memPercent: func(context.Context) (float64, error) { return 40, nil },
		uptime:     func(context.Context) (uint64, error) { return 3600, nil },
	}

	points, err := s.Points(context.Background())
	if err != nil {
		t.Fatalf("points: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	p := points[0]
	if p.Measurement != Measurement || p.Tags["hostname"] != "poller01" {
		t.Fatalf("unexpected point identity: %s %v", p.Measurement, p.Tags)
	}
	if p.Fields["cpu_percent"] != 12.5 || p.Fields["mem_used_percent"] != 40.0 || p.Fields["uptime"] != int64(3600) {
		t.Fatalf("unexpected fields: %v", p.Fields)
	}
	if !p.Time.Equal(ts) {
		t.Fatalf("unexpected time %s", p.Time)
	}
}

func TestSourcePointsPartialFailure(t *testing.T) {
	boom := errors.New("not supported")
	s := &Source{
		hostname:   "poller01",
		now:        time.Now,
		cpuPercent: func(context.Context) (float64, error) { return 0, boom },
		memPercent: func(context.Context) (float64, error) { return 40, nil },
		uptime:     func(context.Context) (uint64, error) { return 0, boom },
	}

	points, err := s.Points(context.Background())
	if err != nil {
		t.Fatalf("partial readings should not fail: %v", err)
	}
	if len(points[0].Fields) != 1 {
		t.Fatalf("expected only mem field, got %v", points[0].Fields)
	}
}

func TestSourcePointsAllFail(t *testing.T) {
	boom := errors.New("not supported")
	s := &Source{
		hostname:   "poller01",
		now:        time.Now,
		cpuPercent: func(context.Context) (float64, error) { return 0, boom },
		memPercent: func(context.Context) (float64, error) { return 0, boom },
		uptime:     func(context.Context) (uint64, error) { return 0, boom },
	}

	if _, err := s.Points(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
}
