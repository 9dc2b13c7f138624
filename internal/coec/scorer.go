package coec

import "github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"

// ZeroExpectationPolicy decides what happens to a pair whose expected clicks
// are zero. Such a pair was only ever shown at positions where nobody
// historically clicks anything, so this signal cannot place it above
// baseline; the choice is between keeping it at grade 0.0 and leaving it out
// of the judgment list entirely. The choice materially changes the list's
// composition, so it is an explicit parameter rather than a hardcoded default.
type ZeroExpectationPolicy int

const (
	// PolicyGradeZero keeps zero-expectation pairs with grade 0.0 (the
	// conservative default).
	PolicyGradeZero ZeroExpectationPolicy = iota
	// PolicyOmitPair drops zero-expectation pairs from the output.
	PolicyOmitPair
)

// Score grades every pair in the exposure domain: grade = actual / expected.
// Grades are never negative, NaN, or infinite; zero-expectation pairs are
// handled per policy and counted. There is no upper clamp: a grade above 1.0
// means the document was clicked more than its positions predict, which is
// exactly the signal a ranking model should see.
func Score(
	exp *Exposures,
	expected map[PairKey]float64,
	actual map[PairKey]int,
	policy ZeroExpectationPolicy,
) ([]domain.Judgment, int) {
	judgments := make([]domain.Judgment, 0, exp.Len())
	zeroExpectation := 0

	for _, key := range exp.Pairs() {
		expectedClicks := expected[key]
		if expectedClicks == 0 {
			zeroExpectation++
			if policy == PolicyOmitPair {
				continue
			}
			judgments = append(judgments, domain.Judgment{
				QueryID: key.QueryID,
				DocID:   key.DocID,
				Grade:   0.0,
				Query:   exp.QueryText(key.QueryID),
			})
			continue
		}

		judgments = append(judgments, domain.Judgment{
			QueryID: key.QueryID,
			DocID:   key.DocID,
			Grade:   float64(actual[key]) / expectedClicks,
			Query:   exp.QueryText(key.QueryID),
		})
	}

	return judgments, zeroExpectation
}
