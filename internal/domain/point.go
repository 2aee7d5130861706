package domain

import "time"

// Point is the canonical unit handed to sinks: one timestamped, tagged set of
// field values.
type Point struct {
	Measurement string            `json:"measurement"`
	Tags        map[string]string `json:"tags"`
	Fields      map[string]any    `json:"fields"`
	Time        time.Time         `json:"ts"`
}

// Clone returns a deep copy so sinks and spools can hold on to a point
// without sharing maps with the collector.
func (p *Point) Clone() *Point {
	if p == nil {
		return nil
	}
	out := &Point{
		Measurement: p.Measurement,
		Time:        p.Time,
	}
	if p.Tags != nil {
		out.Tags = make(map[string]string, len(p.Tags))
		for k, v := range p.Tags {
			out.Tags[k] = v
		}
	}
	if p.Fields != nil {
		out.Fields = make(map[string]any, len(p.Fields))
		for k, v := range p.Fields {
			out.Fields[k] = v
		}
	}
	return out
}
