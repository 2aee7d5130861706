package ports

import (
	"context"

	"github.com/ghalamif/SNMPFlow/internal/domain"
)

// Collector scrapes one device and returns every point for the cycle.
type Collector interface {
	Collect(ctx context.Context, device domain.Device) ([]*domain.Point, error)
}

// PointSource produces points that are not tied to a configured device,
// such as the poller's own resource usage.
type PointSource interface {
	Points(ctx context.Context) ([]*domain.Point, error)
	Name() string
}
