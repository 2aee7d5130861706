package snmpflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ghalamif/SNMPFlow/internal/domain"
)

// ErrChannelSinkClosed is returned when a channel sink is written to after being closed.
var ErrChannelSinkClosed = errors.New("snmpflow: channel sink closed")

// PointBatchFunc receives a copy of every point written in one cycle.
type PointBatchFunc func([]Point) error

// NewCallbackSink adapts fn into a Sink so callers can plug a function in
// without defining a type.
func NewCallbackSink(name string, fn PointBatchFunc) Sink {
	if name == "" {
		name = "callback"
	}
	return &callbackSink{name: name, fn: fn}
}

// NewChannelSink exposes batches on a channel; it returns the sink, the
// read-only channel and a close function to call during shutdown. A write
// blocks until the batch is received or ctx is done.
func NewChannelSink(name string, buffer int) (Sink, <-chan []Point, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan []Point, buffer)
	s := &channelSink{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

type callbackSink struct {
	name string
	fn   PointBatchFunc
}

func (s *callbackSink) WriteBatch(_ context.Context, points []*domain.Point) error {
	if s.fn == nil {
		return fmt.Errorf("callback sink %q: nil handler", s.name)
	}
	if len(points) == 0 {
		return nil
	}
	return s.fn(copyBatch(points))
}

func (s *callbackSink) Name() string { return s.name }

type channelSink struct {
	name   string
	mu     sync.RWMutex
	ch     chan []Point
	closed chan struct{}
	once   sync.Once
}

func (s *channelSink) WriteBatch(ctx context.Context, points []*domain.Point) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	default:
	}

	if len(points) == 0 {
		return nil
	}

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	case <-ctx.Done():
		return ctx.Err()
	case s.ch <- copyBatch(points):
		return nil
	}
}

func (s *channelSink) Name() string { return s.name }

// close unblocks pending writers before closing the channel so no send can
// race with it.
func (s *channelSink) close() {
	s.once.Do(func() {
		close(s.closed)
		s.mu.Lock()
		close(s.ch)
		s.mu.Unlock()
	})
}

func copyBatch(points []*domain.Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p != nil {
			out = append(out, *p.Clone())
		}
	}
	return out
}
