package coec

import "github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"

// PairKey identifies a (query, document) pair.
type PairKey struct {
	QueryID string
	DocID   string
}

// Exposures records, per (query, document) pair, the ordered multiset of
// positions at which that document was shown across all query instances
// sharing the query id. Each occurrence in a distinct QueryRecord counts as a
// separate exposure, so a result shown twice at position 3 contributes two
// entries.
//
// Pairs are kept in first-seen order so every downstream stage, and the final
// judgment list, is deterministic for a given input corpus.
type Exposures struct {
	pairs map[PairKey][]int
	order []PairKey
	// queryText remembers the query text per query id (first seen wins) so
	// judgments can carry it for traceability.
	queryText map[string]string
}

// BuildExposures aggregates a cleaned query corpus into per-pair exposure
// multisets.
func BuildExposures(queries []domain.QueryRecord) *Exposures {
	exp := &Exposures{
		pairs:     make(map[PairKey][]int),
		queryText: make(map[string]string),
	}

	for _, q := range queries {
		if _, ok := exp.queryText[q.QueryID]; !ok {
			exp.queryText[q.QueryID] = q.Query
		}
		for _, r := range q.Results {
			key := PairKey{QueryID: q.QueryID, DocID: r.DocID}
			if _, seen := exp.pairs[key]; !seen {
				exp.order = append(exp.order, key)
			}
			exp.pairs[key] = append(exp.pairs[key], r.Position)
		}
	}

	return exp
}

// Positions returns the exposure multiset for a pair.
func (e *Exposures) Positions(key PairKey) []int {
	return e.pairs[key]
}

// Pairs returns all exposed pairs in first-seen order.
func (e *Exposures) Pairs() []PairKey {
	return e.order
}

// Len returns the number of distinct exposed pairs.
func (e *Exposures) Len() int {
	return len(e.order)
}

// QueryText returns the text recorded for a query id.
func (e *Exposures) QueryText(queryID string) string {
	return e.queryText[queryID]
}
