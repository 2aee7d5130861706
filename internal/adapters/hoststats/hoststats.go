// Package hoststats reports the poller's own resource usage as a point.
package hoststats

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/ghalamif/SNMPFlow/internal/domain"
	"github.com/ghalamif/SNMPFlow/internal/ports"
)

const Measurement = "poller_stats"

// Source reads host statistics through gopsutil.
type Source struct {
	hostname string
	now      func() time.Time

	cpuPercent func(ctx context.Context) (float64, error)
	memPercent func(ctx context.Context) (float64, error)
	uptime     func(ctx context.Context) (uint64, error)
}

func NewSource() *Source {
	name, err := os.Hostname()
	if err != nil || name == "" {
		name = "snmpflow"
	}
	return &Source{
		hostname:   name,
		now:        time.Now,
		cpuPercent: cpuPercent,
		memPercent: memPercent,
		uptime:     host.UptimeWithContext,
	}
}

func (s *Source) Name() string { return "hoststats" }

// Points returns one poller_stats point. Individual readings that fail are
// omitted; the point is returned as long as one reading succeeded.
func (s *Source) Points(ctx context.Context) ([]*domain.Point, error) {
	fields := make(map[string]any, 3)
	var errs []error

	if v, err := s.cpuPercent(ctx); err == nil {
		fields["cpu_percent"] = v
	} else {
		errs = append(errs, err)
	}
	if v, err := s.memPercent(ctx); err == nil {
		fields["mem_used_percent"] = v
	} else {
		errs = append(errs, err)
	}
	if v, err := s.uptime(ctx); err == nil {
		fields["uptime"] = int64(v)
	} else {
		errs = append(errs, err)
	}

	if len(fields) == 0 {
		return nil, errors.Join(errs...)
	}
	return []*domain.Point{{
		Measurement: Measurement,
		Tags:        map[string]string{"hostname": s.hostname},
		Fields:      fields,
		Time:        s.now(),
	}}, nil
}

// cpuPercent returns usage since the previous call; the first call after
// start reports usage since boot.
func cpuPercent(ctx context.Context) (float64, error) {
	pcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, errors.New("cpu: no samples")
	}
	return pcts[0], nil
}

func memPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}

var _ ports.PointSource = (*Source)(nil)
