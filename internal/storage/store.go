package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/projsim/internal/config"
	"github.com/san-kum/projsim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
	scenarioFile = "scenario.yaml"
)

var marshalStates = gocsv.Marshal

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type EventRecord struct {
	Kind string  `json:"kind"`
	Step int     `json:"step"`
	Time float64 `json:"time"`
	X    float64 `json:"x"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Mode      string             `json:"mode"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Gravity   float64            `json:"gravity"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
	Events    []EventRecord      `json:"events,omitempty"`
}

// Save writes a run directory holding metadata.json, states.csv and the
// scenario it was produced from. It returns the run id.
func (s *Store) Save(cfg *config.Config, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.claimRunDir(cfg.Model, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Model:     cfg.Model,
		Mode:      result.Mode.String(),
		Timestamp: now,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Gravity:   cfg.Gravity,
		Steps:     result.StepsTaken,
		Metrics:   result.Metrics,
	}
	for _, ev := range result.Events {
		meta.Events = append(meta.Events, EventRecord{
			Kind: ev.Kind.String(),
			Step: ev.Step,
			Time: ev.Time,
			X:    ev.X,
		})
	}

	if err := writeRun(runDir, cfg, result.States, meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

// writeRun fills a claimed run directory. metadata.json goes last, so List
// never sees a run whose states or scenario are missing.
func writeRun(runDir string, cfg *config.Config, states []dynamo.State, meta RunMetadata) error {
	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return err
	}
	if err := marshalStates(ToRows(states), csvFile); err != nil {
		csvFile.Close()
		return fmt.Errorf("writing %s: %w", statesFile, err)
	}
	if err := csvFile.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", statesFile, err)
	}

	if err := config.Save(filepath.Join(runDir, scenarioFile), cfg); err != nil {
		return fmt.Errorf("writing %s: %w", scenarioFile, err)
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return fmt.Errorf("writing %s: %w", metadataFile, err)
	}
	return nil
}

// claimRunDir creates a fresh directory for a run. Runs saved within the
// same second get a numeric suffix.
func (s *Store) claimRunDir(model string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}

	base := fmt.Sprintf("%s_%s", model, now.Format("20060102-150405"))
	for n := 1; ; n++ {
		runID := base
		if n > 1 {
			runID = fmt.Sprintf("%s_%d", base, n)
		}
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns all saved runs, oldest first.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadScenario reads back the scenario a run was produced from.
func (s *Store) LoadScenario(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, scenarioFile))
}

func (s *Store) LoadStates(runID string) ([]dynamo.State, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []StateRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []dynamo.State{}, nil
		}
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return FromRows(rows), nil
}
