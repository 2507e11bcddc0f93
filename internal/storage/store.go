package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
	configFile   = "config.yaml"
)

// Store keeps finished runs on disk, one directory per run holding its
// metadata, its configuration and the probe series.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Probes    []string           `json:"probes"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run and returns its id. Ids are the scenario name plus the
// unix time, suffixed when several runs land in the same second.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.allocate(fmt.Sprintf("%s_%d", cfg.Scenario, now.Unix()))
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  cfg.Scenario,
		Timestamp: now,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Steps:     result.Steps,
		Probes:    result.Probes,
		Metrics:   result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteCSV(f, result); err != nil {
		return "", err
	}
	return runID, f.Close()
}

func (s *Store) allocate(base string) (string, string, error) {
	id := base
	for i := 2; ; i++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// List returns the stored runs, oldest first. Directories without
// readable metadata are skipped.
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
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata of %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadConfig returns the configuration a run was made with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

// LoadResult rebuilds the trace of a run from its series and metadata.
func (s *Store) LoadResult(runID string) (*sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read series of %s: %w", runID, err)
	}
	result.Metrics = meta.Metrics
	return result, nil
}

// WriteCSV writes a time column followed by one column per probe.
func WriteCSV(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"time"}, result.Probes...)); err != nil {
		return err
	}
	row := make([]string, len(result.Probes)+1)
	for i, t := range result.Times {
		row[0] = formatFloat(t)
		for j, name := range result.Probes {
			row[j+1] = formatFloat(result.Series[name][i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV produced. Metrics are not part of the
// series and are left empty.
func ReadCSV(r io.Reader) (*sim.Result, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) == 0 || records[0][0] != "time" {
		return nil, errors.New("missing time header")
	}

	probes := records[0][1:]
	result := &sim.Result{
		Times:   make([]float64, 0, len(records)-1),
		Probes:  probes,
		Series:  make(map[string][]float64, len(probes)),
		Metrics: map[string]float64{},
	}
	for _, name := range probes {
		result.Series[name] = make([]float64, 0, len(records)-1)
	}

	for line, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+2, err)
		}
		result.Times = append(result.Times, t)
		for j, name := range probes {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line+2, err)
			}
			result.Series[name] = append(result.Series[name], v)
		}
	}
	if len(result.Times) > 0 {
		result.Steps = len(result.Times) - 1
	}
	return result, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
