// Package minerals serves the critical-minerals dataset behind the
// dashboard endpoints. Chart rendering happens client-side; this package
// only loads and aggregates the underlying JSON data.
package minerals

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minn2020/minndash/internal/models"
)

const datasetFileName = "minerals.json"

type datasetDocument struct {
	Minerals []models.Mineral `json:"minerals"`
}

// Loader reads the dataset from the data directory on every call so edits
// to the file show up without a restart.
type Loader struct {
	path string
}

// NewLoader roots a Loader at dataDir.
func NewLoader(dataDir string) *Loader {
	return &Loader{path: filepath.Join(dataDir, datasetFileName)}
}

// Load returns all minerals. A missing dataset file yields an empty list,
// not an error; the dataset is optional.
func (l *Loader) Load() ([]models.Mineral, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return []models.Mineral{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("minerals: read dataset: %w", err)
	}
	var doc datasetDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("minerals: parse dataset: %w", err)
	}
	return doc.Minerals, nil
}

// Find returns the mineral with the given name (case-insensitive), or nil.
func (l *Loader) Find(name string) (*models.Mineral, error) {
	all, err := l.Load()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Name, name) {
			return &all[i], nil
		}
	}
	return nil, nil
}

// YearTotal is one point of an aggregated production series.
type YearTotal struct {
	Year        int     `json:"year"`
	ProductionT float64 `json:"production_t"`
}

// ProductionSeries aggregates a mineral's production history per year,
// summing across countries.
func ProductionSeries(m *models.Mineral) []YearTotal {
	if m == nil {
		return nil
	}
	byYear := make(map[int]float64)
	for _, rec := range m.ProductionHistory {
		byYear[rec.Year] += rec.Amount()
	}
	series := make([]YearTotal, 0, len(byYear))
	for year, total := range byYear {
		series = append(series, YearTotal{Year: year, ProductionT: total})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series
}

// OverviewSeries aggregates every mineral's per-year totals, keyed by
// mineral name.
func OverviewSeries(all []models.Mineral) map[string][]YearTotal {
	out := make(map[string][]YearTotal, len(all))
	for i := range all {
		out[all[i].Name] = ProductionSeries(&all[i])
	}
	return out
}
