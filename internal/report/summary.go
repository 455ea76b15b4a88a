package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the scores of a run.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64 // Sample standard deviation; 0 for fewer than 2 rows.
	Min    Row     // Lowest-scoring pair.
	Max    Row     // Highest-scoring pair.
}

// Summarize computes a Summary over rows. The zero Summary is returned for
// no rows.
func Summarize(rows []Row) Summary {
	if len(rows) == 0 {
		return Summary{}
	}
	scores := Scores(rows)

	s := Summary{
		Count: len(rows),
		Min:   rows[floats.MinIdx(scores)],
		Max:   rows[floats.MaxIdx(scores)],
	}
	if len(scores) < 2 {
		s.Mean = scores[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(scores, nil)
	return s
}

// Outliers returns the indexes of rows scoring below mean - sigma*stddev, in
// order. Such drops usually mark a cut between unrelated pictures. A sigma
// of 0 disables detection, and fewer than 3 rows never yield outliers.
func Outliers(rows []Row, sigma float64) []int {
	if sigma <= 0 || len(rows) < 3 {
		return nil
	}
	mean, sd := stat.MeanStdDev(Scores(rows), nil)
	if sd == 0 {
		return nil
	}
	threshold := mean - sigma*sd

	var out []int
	for i, r := range rows {
		if r.Score < threshold {
			out = append(out, i)
		}
	}
	return out
}

// Scores extracts the score column of rows.
func Scores(rows []Row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Score
	}
	return out
}
