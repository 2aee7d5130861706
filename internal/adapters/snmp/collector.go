package snmp

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ghalamif/SNMPFlow/internal/domain"
	"github.com/ghalamif/SNMPFlow/internal/ports"
)

const (
	MeasurementInterface = "interface_stats"
	MeasurementSystem    = "system_stats"
)

// Collector walks a device's interface table and reads a fixed set of
// counters per interface plus the system group.
type Collector struct {
	dialer ports.Dialer
	now    func() time.Time
}

func NewCollector(dialer ports.Dialer) *Collector {
	return &Collector{dialer: dialer, now: time.Now}
}

func (c *Collector) Collect(ctx context.Context, device domain.Device) ([]*domain.Point, error) {
	sess, err := c.dialer.Dial(ctx, device)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	defer sess.Close()

	ifaces, err := enumerateInterfaces(sess)
	if err != nil {
		return nil, fmt.Errorf("walk interfaces: %w", err)
	}

	for i := range ifaces {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := collectCounters(sess, &ifaces[i]); err != nil {
			return nil, fmt.Errorf("interface %s: %w", ifaces[i].Name, err)
		}
	}

	system, err := getFields(sess, systemFields, "")
	if err != nil {
		return nil, fmt.Errorf("system group: %w", err)
	}

	return BuildPoints(device, ifaces, system, c.now()), nil
}

func enumerateInterfaces(sess ports.Session) ([]domain.Interface, error) {
	var ifaces []domain.Interface
	err := sess.Walk(oidIfName, func(v ports.Variable) error {
		idx, ok := indexSuffix(v.OID, oidIfName)
		if !ok {
			return nil
		}
		name, _ := v.Value.(string)
		if name == "" {
			name = strconv.Itoa(idx)
		}
		ifaces = append(ifaces, domain.Interface{Index: idx, Name: name})
		return nil
	})
	return ifaces, err
}

func collectCounters(sess ports.Session, iface *domain.Interface) error {
	suffix := "." + strconv.Itoa(iface.Index)

	counters, err := getFields(sess, interfaceFields, suffix)
	if err != nil {
		return err
	}
	descr, err := sess.Get([]string{oidIfDescr + suffix})
	if err != nil {
		return err
	}
	if len(descr) > 0 {
		iface.Description, _ = descr[0].Value.(string)
	}
	iface.Counters = counters
	return nil
}

// getFields issues one GET for every OID in set and maps the answers back to
// field names. Values the device does not expose are left out.
func getFields(sess ports.Session, set []fieldOID, suffix string) (map[string]any, error) {
	oids := make([]string, len(set))
	byOID := make(map[string]string, len(set))
	for i, f := range set {
		oids[i] = f.oid + suffix
		byOID[oids[i]] = f.field
	}

	vars, err := sess.Get(oids)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(vars))
	for _, v := range vars {
		name, ok := byOID[strings.TrimPrefix(v.OID, ".")]
		if !ok {
			continue
		}
		if val := fieldValue(v.Value); val != nil {
			fields[name] = val
		}
	}
	return fields, nil
}

// BuildPoints turns one device's scrape into len(ifaces)+1 points sharing ts.
func BuildPoints(device domain.Device, ifaces []domain.Interface, system map[string]any, ts time.Time) []*domain.Point {
	points := make([]*domain.Point, 0, len(ifaces)+1)
	for _, iface := range ifaces {
		tags := map[string]string{
			"hostname":  device.Hostname,
			"interface": iface.Name,
		}
		if iface.Description != "" {
			tags["interface_description"] = iface.Description
		}
		fields := make(map[string]any, len(iface.Counters))
		for k, v := range iface.Counters {
			fields[k] = v
		}
		points = append(points, &domain.Point{
			Measurement: MeasurementInterface,
			Tags:        tags,
			Fields:      fields,
			Time:        ts,
		})
	}

	sysFields := make(map[string]any, len(system))
	for k, v := range system {
		sysFields[k] = v
	}
	points = append(points, &domain.Point{
		Measurement: MeasurementSystem,
		Tags:        map[string]string{"hostname": device.Hostname},
		Fields:      sysFields,
		Time:        ts,
	})
	return points
}

// fieldValue stores unsigned values as int64 when they fit so they render as
// plain integers downstream.
func fieldValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case uint64:
		if val <= math.MaxInt64 {
			return int64(val)
		}
		return val
	case uint:
		return fieldValue(uint64(val))
	case uint32:
		return int64(val)
	case int:
		return int64(val)
	case int32:
		return int64(val)
	default:
		return val
	}
}

func indexSuffix(oid, root string) (int, bool) {
	rest, ok := strings.CutPrefix(strings.TrimPrefix(oid, "."), root+".")
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return idx, true
}

var _ ports.Collector = (*Collector)(nil)
