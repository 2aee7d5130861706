package spool

import (
	"sync"

	"github.com/ghalamif/SNMPFlow/internal/domain"
	"github.com/ghalamif/SNMPFlow/internal/ports"
)

// MemSpool keeps undelivered points in memory in FIFO order. Contents are lost
// on restart; sizes are accounted as their encoded length so max_spool_bytes
// means the same thing as for FileSpool.
type MemSpool struct {
	mu        sync.Mutex
	data      []memEntry
	nextID    ports.SpoolEntryID
	committed ports.SpoolEntryID
	sizeBytes int64
}

type memEntry struct {
	id    ports.SpoolEntryID
	point *domain.Point
	size  int64
}

func NewMemSpool() *MemSpool {
	return &MemSpool{}
}

func (s *MemSpool) Append(p *domain.Point) (ports.SpoolEntryID, error) {
	b, err := encodePoint(p)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	size := int64(recordHeaderLen + len(b))
	s.data = append(s.data, memEntry{id: s.nextID, point: p.Clone(), size: size})
	s.sizeBytes += size
	return s.nextID, nil
}

func (s *MemSpool) Iterate(from ports.SpoolEntryID, fn func(id ports.SpoolEntryID, p *domain.Point) error) error {
	s.mu.Lock()
	entries := make([]memEntry, len(s.data))
	copy(entries, s.data)
	s.mu.Unlock()

	for _, e := range entries {
		if e.id < from {
			continue
		}
		if err := fn(e.id, e.point.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemSpool) Commit(upto ports.SpoolEntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if upto > s.committed {
		s.committed = upto
	}
	return nil
}

func (s *MemSpool) TruncateCommitted() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for n < len(s.data) && s.data[n].id <= s.committed {
		s.sizeBytes -= s.data[n].size
		n++
	}
	s.data = append(s.data[:0], s.data[n:]...)
	return nil
}

func (s *MemSpool) Stats() ports.SpoolStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ports.SpoolStats{
		OldestUncommitted: s.committed + 1,
		LatestAppended:    s.nextID,
		SizeBytes:         s.sizeBytes,
	}
}

func (s *MemSpool) Close() error { return nil }

var _ ports.Spool = (*MemSpool)(nil)
