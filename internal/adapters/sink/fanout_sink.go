package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ghalamif/SNMPFlow/internal/domain"
	"github.com/ghalamif/SNMPFlow/internal/ports"
)

// FanoutSink hands the same batch to every configured sink. A failure in one
// sink does not stop the others; the errors are joined.
type FanoutSink struct {
	sinks []ports.Sink
}

func NewFanoutSink(sinks ...ports.Sink) *FanoutSink {
	out := make([]ports.Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &FanoutSink{sinks: out}
}

func (f *FanoutSink) Name() string {
	names := make([]string, len(f.sinks))
	for i, s := range f.sinks {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

func (f *FanoutSink) WriteBatch(ctx context.Context, points []*domain.Point) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.WriteBatch(ctx, points); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

var _ ports.Sink = (*FanoutSink)(nil)
