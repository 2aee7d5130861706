package spool

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ghalamif/SNMPFlow/internal/domain"
	"github.com/ghalamif/SNMPFlow/internal/ports"
)

func TestFileSpoolAppendIterateAndReplay(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFileSpool(dir)
	if err != nil {
		t.Fatalf("new spool: %v", err)
	}

	p1 := &domain.Point{Measurement: "interface_stats", Tags: map[string]string{"interface": "ether1"}}
	p2 := &domain.Point{Measurement: "interface_stats", Tags: map[string]string{"interface": "ether2"}}

	id1, err := s.Append(p1)
	if err != nil || id1 == 0 {
		t.Fatalf("append point 1: %v id=%d", err, id1)
	}
	id2, err := s.Append(p2)
	if err != nil || id2 == 0 {
		t.Fatalf("append point 2: %v id=%d", err, id2)
	}

	var iterated []string
	if err := s.Iterate(1, func(id ports.SpoolEntryID, p *domain.Point) error {
		iterated = append(iterated, p.Tags["interface"])
		return nil
	}); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if len(iterated) != 2 || iterated[0] != "ether1" || iterated[1] != "ether2" {
		t.Fatalf("expected ether1, ether2 in order, got %v", iterated)
	}

	if err := s.Commit(id2); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close spool: %v", err)
	}

	// Reopen and ensure committed metadata was persisted.
	s2, err := NewFileSpool(dir)
	if err != nil {
		t.Fatalf("reopen spool: %v", err)
	}

	stats := s2.Stats()
	if stats.LatestAppended != id2 {
		t.Fatalf("expected latest appended %d, got %d", id2, stats.LatestAppended)
	}
	if stats.OldestUncommitted != id2+1 {
		t.Fatalf("expected oldest uncommitted %d, got %d", id2+1, stats.OldestUncommitted)
	}

	// A torn tail from a crash mid-append must be cut off on reopen.
	path := filepath.Join(dir, "spool.log")
	if err := appendGarbage(path); err != nil {
		t.Fatalf("append garbage: %v", err)
	}
	if err := s2.Close(); err != nil {
		t.Fatalf("close spool2: %v", err)
	}

	s3, err := NewFileSpool(dir)
	if err != nil {
		t.Fatalf("reopen after garbage: %v", err)
	}
	defer s3.Close()
	if got := s3.Stats().LatestAppended; got != id2 {
		t.Fatalf("expected latest appended %d after torn tail, got %d", id2, got)
	}
}

func TestFileSpoolPreservesFieldTypes(t *testing.T) {
	s, err := NewFileSpool(t.TempDir())
	if err != nil {
		t.Fatalf("new spool: %v", err)
	}
	defer s.Close()

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	in := &domain.Point{
		Measurement: "interface_stats",
		Tags:        map[string]string{"hostname": "testhost01"},
		Fields: map[string]any{
			"ifin":      int64(9007199254740993),
			"ifout":     ^uint64(0),
			"sys_descr": "RouterOS",
			"cpu":       float64(40),
		},
		Time: ts,
	}
	if _, err := s.Append(in); err != nil {
		t.Fatalf("append: %v", err)
	}

	var out *domain.Point
	if err := s.Iterate(0, func(_ ports.SpoolEntryID, p *domain.Point) error {
		out = p
		return nil
	}); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if out == nil {
		t.Fatalf("expected a point back")
	}
	if out.Fields["ifin"] != int64(9007199254740993) {
		t.Fatalf("expected exact int64, got %v (%T)", out.Fields["ifin"], out.Fields["ifin"])
	}
	if out.Fields["ifout"] != ^uint64(0) {
		t.Fatalf("expected exact uint64, got %v (%T)", out.Fields["ifout"], out.Fields["ifout"])
	}
	if out.Fields["sys_descr"] != "RouterOS" {
		t.Fatalf("expected string field, got %v", out.Fields["sys_descr"])
	}
	if out.Fields["cpu"] != float64(40) {
		t.Fatalf("expected whole float to stay float64, got %v (%T)", out.Fields["cpu"], out.Fields["cpu"])
	}
	if !out.Time.Equal(ts) {
		t.Fatalf("expected time %s, got %s", ts, out.Time)
	}
}

func TestFileSpoolTruncateCommitted(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSpool(dir)
	if err != nil {
		t.Fatalf("new spool: %v", err)
	}

	var ids []ports.SpoolEntryID
	for _, name := range []string{"a", "b", "c"} {
		id, err := s.Append(&domain.Point{Measurement: name})
		if err != nil {
			t.Fatalf("append %s: %v", name, err)
		}
		ids = append(ids, id)
	}
	before := s.Stats().SizeBytes

	if err := s.Commit(ids[1]); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := s.TruncateCommitted(); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	stats := s.Stats()
	if stats.SizeBytes >= before {
		t.Fatalf("expected spool to shrink, before=%d after=%d", before, stats.SizeBytes)
	}

	var left []string
	if err := s.Iterate(0, func(_ ports.SpoolEntryID, p *domain.Point) error {
		left = append(left, p.Measurement)
		return nil
	}); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if len(left) != 1 || left[0] != "c" {
		t.Fatalf("expected only c to remain, got %v", left)
	}

	id, err := s.Append(&domain.Point{Measurement: "d"})
	if err != nil {
		t.Fatalf("append after truncate: %v", err)
	}
	if id != ids[2]+1 {
		t.Fatalf("expected ids to keep increasing, got %d", id)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "spool.log"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != s.Stats().SizeBytes {
		t.Fatalf("expected on-disk size %d to match stats %d", info.Size(), s.Stats().SizeBytes)
	}
}

func appendGarbage(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write([]byte{0xFF, 0xAA})
	return err
}
