package coec

// Expectations computes, for every exposed pair, the number of clicks it
// would have received if it performed exactly at the global position
// baseline: the sum of ctr[p] over the pair's exposure multiset.
//
// A position missing from the CTR table should be impossible when table and
// exposures were built from the same corpus (the pair's own exposure is an
// impression at that position), but a guard is kept: the occurrence
// contributes the corpus-mean CTR instead of silently contributing 0, and the
// returned fallback count surfaces it as a data-quality warning.
func Expectations(exp *Exposures, table CTRTable) (map[PairKey]float64, int) {
	expected := make(map[PairKey]float64, exp.Len())
	fallbacks := 0
	mean := table.MeanCTR()

	for _, key := range exp.Pairs() {
		sum := 0.0
		for _, pos := range exp.Positions(key) {
			if ctr, ok := table.CTR(pos); ok {
				sum += ctr
			} else {
				sum += mean
				fallbacks++
			}
		}
		expected[key] = sum
	}

	return expected, fallbacks
}
