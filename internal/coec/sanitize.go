package coec

import "github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"

// CleanQueries returns a copy of the query corpus with malformed result
// entries removed, plus the number of entries dropped. An entry is malformed
// when its docid is empty, its position is non-positive, or its position
// duplicates an earlier entry in the same result list. A record with an empty
// query id is dropped whole and counted once.
//
// Both the CTR estimator and the exposure aggregator consume the cleaned
// corpus, so a dropped entry contributes neither an impression nor an
// exposure and the two stages stay consistent with each other.
func CleanQueries(queries []domain.QueryRecord, maxPosition int) ([]domain.QueryRecord, int) {
	cleaned := make([]domain.QueryRecord, 0, len(queries))
	skipped := 0

	for _, q := range queries {
		if q.QueryID == "" {
			skipped++
			continue
		}

		seen := make(map[int]struct{}, len(q.Results))
		results := make([]domain.ResultEntry, 0, len(q.Results))
		for _, r := range q.Results {
			if r.DocID == "" || r.Position <= 0 {
				skipped++
				continue
			}
			if _, dup := seen[r.Position]; dup {
				skipped++
				continue
			}
			seen[r.Position] = struct{}{}
			if maxPosition > 0 && r.Position > maxPosition {
				continue
			}
			results = append(results, r)
		}

		cleaned = append(cleaned, domain.QueryRecord{
			QueryID: q.QueryID,
			Query:   q.Query,
			Results: results,
		})
	}

	return cleaned, skipped
}

// CleanEvents returns the click events with malformed ones removed, plus the
// number dropped. An event is malformed when its query id or docid is empty
// or its position is non-positive. Events beyond maxPosition are dropped
// without counting as malformed; they are excluded by configuration, not
// broken.
func CleanEvents(events []domain.ClickEvent, maxPosition int) ([]domain.ClickEvent, int) {
	cleaned := make([]domain.ClickEvent, 0, len(events))
	skipped := 0

	for _, e := range events {
		if e.QueryID == "" || e.DocID == "" || e.Position <= 0 {
			skipped++
			continue
		}
		if maxPosition > 0 && e.Position > maxPosition {
			continue
		}
		cleaned = append(cleaned, e)
	}

	return cleaned, skipped
}
