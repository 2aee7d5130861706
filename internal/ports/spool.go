package ports

import "github.com/ghalamif/SNMPFlow/internal/domain"

type SpoolEntryID uint64

type Spool interface {
	Append(p *domain.Point) (SpoolEntryID, error)
	Iterate(from SpoolEntryID, fn func(id SpoolEntryID, p *domain.Point) error) error
	Commit(upto SpoolEntryID) error
	TruncateCommitted() error
	Stats() SpoolStats
	Close() error
}

type SpoolStats struct {
	OldestUncommitted SpoolEntryID
	LatestAppended    SpoolEntryID
	SizeBytes         int64
}
