// Package export serializes judgment lists to delimited files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"
)

// csvHeader is the column order of the judgment list artifact.
var csvHeader = []string{"qid", "docid", "grade", "query"}

// WriteCSV writes the judgment list to w with a header row. Grades are
// formatted with the shortest representation that round-trips the float64, so
// 0.0 and values below 1e-3 stay distinguishable; the core applies no
// rounding and neither does this adapter.
func WriteCSV(w io.Writer, judgments []domain.Judgment) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, j := range judgments {
		record := []string{
			j.QueryID,
			j.DocID,
			strconv.FormatFloat(j.Grade, 'g', -1, 64),
			j.Query,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write judgment for (%s, %s): %w", j.QueryID, j.DocID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the judgment list to the named file, creating or
// truncating it.
func WriteCSVFile(path string, judgments []domain.Judgment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteCSV(f, judgments); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
