package pipeline

import (
	"fmt"

	"github.com/ghalamif/SNMPFlow/internal/ports"
)

// hasSpoolCapacity reports whether another point fits under
// Policy.MaxSpoolBytes. A full spool never blocks the loop.
func hasSpoolCapacity(sp ports.Spool, pol ports.Policy, obs ports.Observability) bool {
	if pol.MaxSpoolBytes <= 0 {
		return true
	}
	stats := sp.Stats()
	if stats.SizeBytes < pol.MaxSpoolBytes {
		return true
	}
	obs.LogError("spool_full_drop", fmt.Errorf("size=%d limit=%d", stats.SizeBytes, pol.MaxSpoolBytes))
	return false
}
