// Package storage archives Crucible runs to disk: the baked brick a run
// produced, its telemetry history, and a metadata record a host or the
// crucible CLI can list and reload later. The engine itself is a pure
// in-memory simulator; this is host-side bookkeeping it never touches.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/beautiful-code/crucible/internal/analysis"
	"github.com/beautiful-code/crucible/internal/library"
)

// Store archives runs under one base directory, one subdirectory per run.
type Store struct {
	baseDir string
}

// New returns a Store rooted at baseDir. Call Init before first use.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init creates the base directory if it doesn't already exist.
func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata is the JSON-serialized summary of one archived run.
type RunMetadata struct {
	ID           string    `json:"id"`
	Prototype    string    `json:"prototype"`
	Timestamp    time.Time `json:"timestamp"`
	BrickID      string    `json:"brick_id"`
	SampleCount  int       `json:"sample_count"`
	FinalAge     uint64    `json:"final_age"`
	FinalStrain  float32   `json:"final_strain"`
	SettledIndex int       `json:"settled_index"`
}

// Save archives a baked brick and its telemetry history under a fresh
// run ID, writing metadata.json, history.csv, and, when brick is non-nil,
// brick.json.
func (s *Store) Save(prototype string, brick *library.BakedBrick, hist *analysis.History) (string, error) {
	runID := fmt.Sprintf("%s-%s", prototype, uuid.New().String())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Prototype:   prototype,
		Timestamp:   time.Now(),
		SampleCount: len(hist.Samples),
	}
	if brick != nil {
		meta.BrickID = brick.ID.String()
	}
	if n := len(hist.Samples); n > 0 {
		meta.FinalAge = hist.Samples[n-1].Age
		meta.FinalStrain = hist.Samples[n-1].MaxStrain
	}
	meta.SettledIndex = hist.SettledAt(3e-6)

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if brick != nil {
		if err := writeJSON(filepath.Join(runDir, "brick.json"), brick); err != nil {
			return "", err
		}
	}
	if err := writeHistoryCSV(filepath.Join(runDir, "history.csv"), hist); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHistoryCSV(path string, hist *analysis.History) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"age", "sim_time", "max_speed", "max_strain", "altitude"}); err != nil {
		return err
	}
	for _, sample := range hist.Samples {
		row := []string{
			strconv.FormatUint(sample.Age, 10),
			strconv.FormatFloat(sample.SimTime, 'f', 6, 64),
			strconv.FormatFloat(float64(sample.MaxSpeed), 'f', 8, 32),
			strconv.FormatFloat(float64(sample.MaxStrain), 'f', 8, 32),
			strconv.FormatFloat(float64(sample.Altitude), 'f', 6, 32),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns the metadata of every archived run, most recent first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

// Load reads back one run's metadata by ID.
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

// LoadBrick reads back one run's baked brick, if it produced one.
func (s *Store) LoadBrick(runID string) (*library.BakedBrick, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "brick.json"))
	if err != nil {
		return nil, err
	}
	var brick library.BakedBrick
	if err := json.Unmarshal(data, &brick); err != nil {
		return nil, err
	}
	return &brick, nil
}

// LoadHistory reads back one run's telemetry history.
func (s *Store) LoadHistory(runID string) (*analysis.History, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "history.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return analysis.NewHistory(0), nil
	}

	hist := analysis.NewHistory(len(records) - 1)
	for _, rec := range records[1:] {
		if len(rec) != 5 {
			continue
		}
		age, _ := strconv.ParseUint(rec[0], 10, 64)
		simTime, _ := strconv.ParseFloat(rec[1], 64)
		maxSpeed, _ := strconv.ParseFloat(rec[2], 32)
		maxStrain, _ := strconv.ParseFloat(rec[3], 32)
		altitude, _ := strconv.ParseFloat(rec[4], 32)
		hist.Record(analysis.Sample{
			Age: age, SimTime: simTime,
			MaxSpeed: float32(maxSpeed), MaxStrain: float32(maxStrain), Altitude: float32(altitude),
		})
	}
	return hist, nil
}
