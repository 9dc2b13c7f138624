// Package coec implements the Click-Over-Expected-Clicks pipeline: it turns
// raw (query, result list, click) records into continuous relevance grades by
// normalizing observed clicks against a position-derived expectation.
//
// Every stage is a pure transform over immutable inputs; each returns a fresh
// table instead of mutating shared state, so reruns over the same corpus are
// bit-identical.
package coec

import (
	"sort"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"
)

// PositionStats holds the global impression and click counts for one
// 1-based list position.
type PositionStats struct {
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	CTR         float64 `json:"ctr"`
}

// CTRTable maps list positions to their global click-through rate, aggregated
// across all queries and documents. Read-only after construction. Positions
// with zero impressions have no entry: their CTR is undefined, and storing 0
// would falsely claim "never clicked here" and poison downstream expectations.
type CTRTable struct {
	positions map[int]PositionStats
}

// BuildCTRTable computes the global per-position CTR curve from a cleaned
// corpus. Clicks at positions that delivered no impressions are ignored; in a
// self-consistent corpus they cannot occur, since every click sits on an
// impression.
//
// It never fails: an empty corpus yields an empty table, and a corpus with
// zero events yields a table of all-zero click counts.
func BuildCTRTable(queries []domain.QueryRecord, events []domain.ClickEvent) CTRTable {
	impressions := make(map[int]int)
	for _, q := range queries {
		for _, r := range q.Results {
			impressions[r.Position]++
		}
	}

	clicks := make(map[int]int)
	for _, e := range events {
		if _, ok := impressions[e.Position]; ok {
			clicks[e.Position]++
		}
	}

	positions := make(map[int]PositionStats, len(impressions))
	for pos, imp := range impressions {
		positions[pos] = PositionStats{
			Impressions: imp,
			Clicks:      clicks[pos],
			CTR:         float64(clicks[pos]) / float64(imp),
		}
	}

	return CTRTable{positions: positions}
}

// CTR returns the click-through rate for a position and whether the position
// has a defined entry.
func (t CTRTable) CTR(pos int) (float64, bool) {
	s, ok := t.positions[pos]
	return s.CTR, ok
}

// Stats returns the full stats for a position.
func (t CTRTable) Stats(pos int) (PositionStats, bool) {
	s, ok := t.positions[pos]
	return s, ok
}

// Len returns the number of positions with a defined CTR.
func (t CTRTable) Len() int {
	return len(t.positions)
}

// Positions returns the defined positions in ascending order.
func (t CTRTable) Positions() []int {
	out := make([]int, 0, len(t.positions))
	for pos := range t.positions {
		out = append(out, pos)
	}
	sort.Ints(out)
	return out
}

// MeanCTR returns the average CTR across all defined positions. It is the
// fallback contribution for exposures at positions missing from the table,
// and 0 for an empty table.
func (t CTRTable) MeanCTR() float64 {
	if len(t.positions) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range t.positions {
		sum += s.CTR
	}
	return sum / float64(len(t.positions))
}
