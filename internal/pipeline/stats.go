package pipeline

import (
	"sync/atomic"

	"github.com/hyperifyio/gocurate/internal/corpus"
)

// Stats holds the run-wide counters. Every counter is a separate atomic so
// workers never take a lock. Create one per run with NewStats; it is never
// reset mid-run.
type Stats struct {
	seen      atomic.Int64
	kept      atomic.Int64
	malformed atomic.Int64
	reasons   map[corpus.Reason]*atomic.Int64
	other     atomic.Int64
}

// NewStats returns empty counters with one slot per known reason.
func NewStats() *Stats {
	s := &Stats{reasons: make(map[corpus.Reason]*atomic.Int64)}
	for _, r := range corpus.Reasons() {
		s.reasons[r] = new(atomic.Int64)
	}
	return s
}

func (s *Stats) addSeen()      { s.seen.Add(1) }
func (s *Stats) addKept()      { s.kept.Add(1) }
func (s *Stats) addMalformed() { s.malformed.Add(1) }

func (s *Stats) addReason(r corpus.Reason) {
	if c, ok := s.reasons[r]; ok {
		c.Add(1)
		return
	}
	// Classifiers supplied by callers may invent reasons; keep the totals right.
	s.other.Add(1)
}

// Counts is an immutable view of Stats taken after the workers drained.
type Counts struct {
	Seen      int64
	Kept      int64
	Malformed int64
	Reasons   map[corpus.Reason]int64
}

// Filtered is the number of documents that were seen but not kept.
func (c Counts) Filtered() int64 { return c.Seen - c.Kept }

// Snapshot copies the counters. Reasons with a zero count are omitted.
// Reasons covers seen documents only, so its counts sum to Filtered;
// malformed records are reported in Malformed alone.
func (s *Stats) Snapshot() Counts {
	out := Counts{
		Seen:      s.seen.Load(),
		Kept:      s.kept.Load(),
		Malformed: s.malformed.Load(),
		Reasons:   make(map[corpus.Reason]int64),
	}
	for r, c := range s.reasons {
		if n := c.Load(); n > 0 {
			out.Reasons[r] = n
		}
	}
	if n := s.other.Load(); n > 0 {
		out.Reasons["other"] = n
	}
	return out
}
