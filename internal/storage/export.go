package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/phaselab/phaselab/internal/engine"
	"github.com/phaselab/phaselab/internal/section"
)

// ExportData is the JSON shape of a full run dump.
type ExportData struct {
	Name    string              `json:"name"`
	Dt      float64             `json:"dt"`
	Steps   int                 `json:"steps"`
	Columns []string            `json:"columns"`
	Times   []float64           `json:"times"`
	Rows    [][]float64         `json:"rows"`
	Points  []pointData         `json:"poincare,omitempty"`
	Stats   map[string]statData `json:"stats,omitempty"`
}

type pointData struct {
	T float64 `json:"t"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type statData struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Final float64 `json:"final"`
}

// ExportJSON writes a run as indented JSON.
func ExportJSON(w io.Writer, name string, dt float64, res *engine.Result) error {
	data := ExportData{
		Name:    name,
		Dt:      dt,
		Steps:   res.Steps(),
		Columns: res.Columns,
		Times:   res.Times,
		Rows:    res.Rows,
	}

	if len(res.Points) > 0 {
		data.Points = make([]pointData, len(res.Points))
		for i, p := range res.Points {
			data.Points[i] = pointData{T: p.T, X: p.X, Y: p.Y}
		}
	}
	if len(res.Stats) > 0 {
		data.Stats = make(map[string]statData, len(res.Stats))
		for col, st := range res.Stats {
			data.Stats[col] = statData{Min: st.Min, Max: st.Max, Mean: st.Mean, Final: st.Final}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes the time series with a t column followed by every
// scope column.
func ExportCSV(w io.Writer, res *engine.Result) error {
	cw := csv.NewWriter(w)

	header := append([]string{"t"}, res.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, row := range res.Rows {
		record := make([]string, 0, len(row)+1)
		record = append(record, formatFloat(res.Times[i]))
		for _, v := range row {
			record = append(record, formatFloat(v))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writePoints(w io.Writer, points []section.Point) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"t", "x", "y"}); err != nil {
		return err
	}
	for _, p := range points {
		record := []string{formatFloat(p.T), formatFloat(p.X), formatFloat(p.Y)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
