package ports

import (
	"context"

	"github.com/ghalamif/SNMPFlow/internal/domain"
)

// Variable is a single management-protocol value with its full OID.
// Value is nil when the device reported no such object or instance.
type Variable struct {
	OID   string
	Value any
}

// Session is an open management-protocol session to one device.
type Session interface {
	Get(oids []string) ([]Variable, error)
	Walk(rootOID string, fn func(Variable) error) error
	Close() error
}

// Dialer opens sessions.
type Dialer interface {
	Dial(ctx context.Context, device domain.Device) (Session, error)
}
