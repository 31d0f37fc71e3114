// Package store persists discovery runs under a data directory: a metadata
// JSON per run plus a gzip-compressed payload with the coefficient matrix
// and input trajectories.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"

	"github.com/san-kum/sindy/internal/discover"
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

type RunMetadata struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Timestamp  time.Time `json:"timestamp"`
	Threshold  float64   `json:"threshold"`
	Iterations int       `json:"iterations"`
	Converged  bool      `json:"converged"`
	Sparsity   []int     `json:"sparsity"`
	Equations  []string  `json:"equations"`
}

// Payload is the compressed per-run data: everything needed to re-render or
// re-simulate the discovered model.
type Payload struct {
	Coefficients [][]float64 `json:"coefficients"`
	FeatureNames []string    `json:"feature_names"`
	States       [][]float64 `json:"states"`
	Derivatives  [][]float64 `json:"derivatives"`
	Times        []float64   `json:"times"`
}

// Save writes one run and returns its ID, a short hash of the model name
// and save time.
func (s *Store) Save(model string, result *discover.Result) (string, error) {
	now := time.Now()
	runID := runID(model, now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Model:      model,
		Timestamp:  now,
		Threshold:  result.Threshold,
		Iterations: result.Iterations,
		Converged:  result.Converged,
		Sparsity:   result.Sparsity(),
		Equations:  result.Equations(),
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	payload := Payload{
		Coefficients: matrixRows(result.Coefficients),
		FeatureNames: resultNames(result),
		States:       matrixRows(result.States),
		Derivatives:  matrixRows(result.Derivatives),
		Times:        result.Times,
	}
	if err := writeGzipJSON(filepath.Join(runDir, "payload.json.gz"), payload); err != nil {
		return "", err
	}
	return runID, nil
}

// Load reads a run's metadata.
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

// LoadPayload reads and decompresses a run's payload.
func (s *Store) LoadPayload(runID string) (*Payload, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "payload.json.gz"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var payload Payload
	if err := json.NewDecoder(zr).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// List returns metadata for all runs, newest first.
func (s *Store) List() ([]*RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []*RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func runID(model string, ts time.Time) string {
	h := xxhash.Sum64String(fmt.Sprintf("%s|%d", model, ts.UnixNano()))
	return fmt.Sprintf("%s_%08x", model, h&0xffffffff)
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeGzipJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(v); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
