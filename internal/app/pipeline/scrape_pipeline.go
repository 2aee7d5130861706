package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/ghalamif/SNMPFlow/internal/domain"
	"github.com/ghalamif/SNMPFlow/internal/ports"
)

// Deps is everything a scrape cycle touches. Spool and Sources are optional.
type Deps struct {
	Devices   []domain.Device
	Collector ports.Collector
	Sources   []ports.PointSource
	Sink      ports.Sink
	Spool     ports.Spool
	Policy    ports.Policy
	Obs       ports.Observability
}

// CycleReport summarises one cycle.
type CycleReport struct {
	Devices   int
	Failed    int
	Collected int
	Written   int
	Spooled   int
	Dropped   int
	WriteErr  error
}

// RunScrapeLoop runs a cycle, sleeps Policy.Interval and repeats until ctx is
// cancelled. A slow cycle delays the next one; cycles never overlap.
func RunScrapeLoop(ctx context.Context, d Deps) error {
	interval := d.Policy.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}

	d.Obs.SetGauge("snmpflow_devices_configured", float64(len(d.Devices)))
	d.Obs.LogInfo("scrape_loop_started",
		ports.Field{Key: "devices", Value: len(d.Devices)},
		ports.Field{Key: "interval", Value: interval.String()},
		ports.Field{Key: "sink", Value: d.Sink.Name()})

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			d.Obs.LogInfo("scrape_loop_stopped")
			return nil
		case <-timer.C:
		}

		RunCycle(ctx, d)
		timer.Reset(interval)
	}
}

// RunCycle collects every device in order, then writes the points of the cycle.
// A failing device is logged and skipped.
func RunCycle(ctx context.Context, d Deps) CycleReport {
	start := time.Now()
	report := CycleReport{Devices: len(d.Devices)}

	var points []*domain.Point
	for _, dev := range d.Devices {
		if ctx.Err() != nil {
			return report
		}
		pts, err := d.Collector.Collect(ctx, dev)
		if err != nil {
			report.Failed++
			d.Obs.IncCounter("snmpflow_device_failures_total", 1)
			d.Obs.LogError("device_scrape_failed", err,
				ports.Field{Key: "hostname", Value: dev.Hostname},
				ports.Field{Key: "ip", Value: dev.IP})
			continue
		}
		d.Obs.IncCounter("snmpflow_device_scrapes_total", 1)
		points = append(points, pts...)
	}

	for _, src := range d.Sources {
		pts, err := src.Points(ctx)
		if err != nil {
			d.Obs.LogError("source_collect_failed", err, ports.Field{Key: "source", Value: src.Name()})
			continue
		}
		points = append(points, pts...)
	}

	if ctx.Err() != nil {
		return report
	}

	report.Collected = len(points)
	flush(ctx, d, points, &report)

	d.Obs.ObserveLatency("snmpflow_cycle_duration_seconds", time.Since(start).Seconds())
	return report
}

// flush replays the spool oldest first, then writes the fresh points. Every
// write is capped at Policy.MaxBatchPoints; once one fails, the fresh points
// that were not written go to the spool.
func flush(ctx context.Context, d Deps, fresh []*domain.Point, report *CycleReport) {
	if d.Spool != nil {
		if err := replay(ctx, d, report); err != nil {
			keep(d, fresh, report)
			return
		}
	}
	for len(fresh) > 0 {
		n := chunkLen(len(fresh), d.Policy.MaxBatchPoints)
		if err := write(ctx, d, fresh[:n], report); err != nil {
			keep(d, fresh, report)
			return
		}
		fresh = fresh[n:]
	}
}

// replay drains the spool in chunks and commits each chunk as soon as the
// sink accepts it. It returns the write error that stopped it, if any.
func replay(ctx context.Context, d Deps, report *CycleReport) error {
	committed := false
	defer func() {
		if !committed {
			return
		}
		if err := d.Spool.TruncateCommitted(); err != nil {
			d.Obs.LogError("spool_truncate_failed", err)
		}
		d.Obs.SetGauge("snmpflow_spool_size_bytes", float64(d.Spool.Stats().SizeBytes))
	}()

	for {
		pending, upto, err := pendingSpooled(d.Spool, d.Policy.MaxBatchPoints)
		if err != nil {
			d.Obs.LogCritical("spool_read_failed", err)
			return nil
		}
		if len(pending) == 0 {
			return nil
		}
		if err := write(ctx, d, pending, report); err != nil {
			return err
		}
		if err := d.Spool.Commit(upto); err != nil {
			d.Obs.LogCritical("spool_commit_failed", err)
			return nil
		}
		committed = true
		d.Obs.LogInfo("spool_replayed",
			ports.Field{Key: "upto", Value: uint64(upto)},
			ports.Field{Key: "points", Value: len(pending)})
	}
}

func write(ctx context.Context, d Deps, batch []*domain.Point, report *CycleReport) error {
	start := time.Now()
	err := d.Sink.WriteBatch(ctx, batch)
	d.Obs.ObserveLatency("snmpflow_write_latency_seconds", time.Since(start).Seconds())
	if err != nil {
		report.WriteErr = err
		d.Obs.IncCounter("snmpflow_write_failures_total", 1)
		d.Obs.LogError("sink_write_failed", err,
			ports.Field{Key: "sink", Value: d.Sink.Name()},
			ports.Field{Key: "points", Value: len(batch)})
		return err
	}
	report.Written += len(batch)
	d.Obs.IncCounter("snmpflow_points_written_total", float64(len(batch)))
	return nil
}

func chunkLen(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

var errChunkFull = errors.New("replay chunk full")

// pendingSpooled reads up to limit uncommitted entries; limit <= 0 reads all.
func pendingSpooled(sp ports.Spool, limit int) ([]*domain.Point, ports.SpoolEntryID, error) {
	stats := sp.Stats()
	if stats.LatestAppended == 0 || stats.OldestUncommitted > stats.LatestAppended {
		return nil, 0, nil
	}

	var (
		out  []*domain.Point
		upto ports.SpoolEntryID
	)
	err := sp.Iterate(stats.OldestUncommitted, func(id ports.SpoolEntryID, p *domain.Point) error {
		if limit > 0 && len(out) >= limit {
			return errChunkFull
		}
		out = append(out, p)
		upto = id
		return nil
	})
	if err != nil && !errors.Is(err, errChunkFull) {
		return nil, 0, err
	}
	return out, upto, nil
}

// keep spools the points of a failed write, or drops them when no spool is
// configured or the spool is full.
func keep(d Deps, points []*domain.Point, report *CycleReport) {
	if d.Spool == nil {
		report.Dropped += len(points)
		d.Obs.IncCounter("snmpflow_points_dropped_total", float64(len(points)))
		return
	}

	for i, p := range points {
		if !hasSpoolCapacity(d.Spool, d.Policy, d.Obs) {
			rest := len(points) - i
			report.Dropped += rest
			d.Obs.IncCounter("snmpflow_points_dropped_total", float64(rest))
			break
		}
		if _, err := d.Spool.Append(p); err != nil {
			d.Obs.LogCritical("spool_append_failed", err)
			report.Dropped++
			d.Obs.IncCounter("snmpflow_points_dropped_total", 1)
			continue
		}
		report.Spooled++
		d.Obs.IncCounter("snmpflow_points_spooled_total", 1)
	}
	d.Obs.SetGauge("snmpflow_spool_size_bytes", float64(d.Spool.Stats().SizeBytes))
}
