package engine

import (
	"time"

	"github.com/phaselab/phaselab/internal/section"
)

// RunStat summarizes one quantity over a batch run.
type RunStat struct {
	Min   float64
	Max   float64
	Mean  float64
	Final float64
}

// Result holds everything a batch run produced. Rows are aligned to
// Columns; Times holds the step-end time of each row.
type Result struct {
	Columns []string
	Times   []float64
	Rows    [][]float64
	Points  []section.Point
	Stats   map[string]RunStat
	Elapsed time.Duration
}

func (r *Result) Steps() int { return len(r.Times) }

// Column returns the series of one quantity, or nil if unknown.
func (r *Result) Column(name string) []float64 {
	idx := -1
	for i, c := range r.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row[idx]
	}
	return out
}

func computeStats(r *Result) map[string]RunStat {
	stats := make(map[string]RunStat, len(r.Columns))
	if len(r.Rows) == 0 {
		return stats
	}
	for ci, name := range r.Columns {
		st := RunStat{Min: r.Rows[0][ci], Max: r.Rows[0][ci]}
		sum := 0.0
		for _, row := range r.Rows {
			v := row[ci]
			if v < st.Min {
				st.Min = v
			}
			if v > st.Max {
				st.Max = v
			}
			sum += v
		}
		st.Mean = sum / float64(len(r.Rows))
		st.Final = r.Rows[len(r.Rows)-1][ci]
		stats[name] = st
	}
	return stats
}
