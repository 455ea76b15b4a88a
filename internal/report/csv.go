package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/backmassage/picvmaf/internal/display"
)

// Row is one scored adjacent pair.
type Row struct {
	Left  string  // Reference picture name.
	Right string  // Distorted picture name.
	Score float64 // Score of Right against Left.
}

// Header is the fixed first record of every report.
var Header = []string{"Image 1", "Image 2", "VMAF Score"}

// WriteCSV writes Header followed by one record per row, in order,
// replacing any existing file at path.
func WriteCSV(path string, rows []Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Left, r.Right, display.FormatScore(r.Score)}); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ReadCSV parses a report written by [WriteCSV].
func ReadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("read report: missing header")
	}
	for i, h := range Header {
		if len(records[0]) != len(Header) || records[0][i] != h {
			return nil, fmt.Errorf("read report: unexpected header %q", records[0])
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for n, rec := range records[1:] {
		score, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("read report: line %d: %w", n+2, err)
		}
		rows = append(rows, Row{Left: rec[0], Right: rec[1], Score: score})
	}
	return rows, nil
}
