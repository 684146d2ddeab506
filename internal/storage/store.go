// Package storage archives finished runs on disk. Every run gets its
// own directory under the store root holding metadata.json, series.csv,
// the system file that produced it and, when sampling was on,
// poincare.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/phaselab/phaselab/internal/config"
	"github.com/phaselab/phaselab/internal/engine"
	"github.com/phaselab/phaselab/internal/section"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string {
	return s.baseDir
}

type RunMetadata struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	Dt             float64   `json:"dt"`
	Steps          int       `json:"steps"`
	Duration       float64   `json:"duration"`
	Columns        []string  `json:"columns"`
	PoincarePoints int       `json:"poincare_points"`
}

// Save archives one finished run and returns its id.
func (s *Store) Save(name string, cfg *config.Config, res *engine.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	duration := 0.0
	if n := len(res.Times); n > 0 {
		duration = res.Times[n-1]
	}

	meta := RunMetadata{
		ID:             runID,
		Name:           name,
		CreatedAt:      time.Now(),
		Dt:             cfg.Dt,
		Steps:          res.Steps(),
		Duration:       duration,
		Columns:        res.Columns,
		PoincarePoints: len(res.Points),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	seriesFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer seriesFile.Close()

	if err := ExportCSV(seriesFile, res); err != nil {
		return "", err
	}

	if len(res.Points) > 0 {
		pointsFile, err := os.Create(filepath.Join(runDir, "poincare.csv"))
		if err != nil {
			return "", err
		}
		defer pointsFile.Close()

		if err := writePoints(pointsFile, res.Points); err != nil {
			return "", err
		}
	}

	if err := config.Save(filepath.Join(runDir, "system.yaml"), cfg); err != nil {
		return "", err
	}

	return runID, nil
}

// List reads the metadata of every archived run. Directories without a
// readable metadata.json are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadConfig reads back the system file archived with a run.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, "system.yaml"))
}

// LoadSeries reads the recorded time series. Malformed rows are
// skipped rather than failing the whole load.
func (s *Store) LoadSeries(runID string) ([]string, []float64, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) == 0 {
		return []string{}, []float64{}, [][]float64{}, nil
	}

	columns := records[0][1:]
	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) != len(columns)+1 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		row := make([]float64, len(columns))
		ok := true
		for i, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			row[i] = v
		}
		if !ok {
			continue
		}
		times = append(times, t)
		rows = append(rows, row)
	}

	return columns, times, rows, nil
}

// LoadPoints reads the archived section samples. A run recorded without
// sampling yields an empty slice.
func (s *Store) LoadPoints(runID string) ([]section.Point, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "poincare.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return []section.Point{}, nil
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []section.Point{}, nil
	}

	points := make([]section.Point, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 3 {
			continue
		}
		t, err1 := strconv.ParseFloat(record[0], 64)
		x, err2 := strconv.ParseFloat(record[1], 64)
		y, err3 := strconv.ParseFloat(record[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		points = append(points, section.Point{T: t, X: x, Y: y})
	}

	return points, nil
}
