package coec

import "github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"

// Tally counts observed clicks per (query, document) pair. Multiple clicks on
// the same impression count separately; there is no deduplication. Every
// exposed pair receives an entry, defaulting to zero, so the scorer can grade
// the full exposure domain without missing-key checks.
//
// Clicks for pairs outside the exposure domain are still tallied (they keep
// the conservation property: the sum over the tally equals the number of
// cleaned events), but only exposed pairs are ever graded.
func Tally(events []domain.ClickEvent, exp *Exposures) map[PairKey]int {
	actual := make(map[PairKey]int, exp.Len())
	for _, key := range exp.Pairs() {
		actual[key] = 0
	}

	for _, e := range events {
		actual[PairKey{QueryID: e.QueryID, DocID: e.DocID}]++
	}

	return actual
}
