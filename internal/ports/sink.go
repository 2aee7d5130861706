package ports

import (
	"context"

	"github.com/ghalamif/SNMPFlow/internal/domain"
)

type Sink interface {
	WriteBatch(ctx context.Context, points []*domain.Point) error
	Name() string
}
