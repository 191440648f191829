package minerals

import (
	"os"
	"path/filepath"
	"testing"
)

const testDataset = `{
  "minerals": [
    {
      "name": "Cobalt",
      "symbol": "Co",
      "production_history": [
        {"year": 2020, "country": "DRC", "production_t": 98000},
        {"year": 2020, "country": "Zambia", "production_t": 300},
        {"year": 2021, "country": "DRC", "production_t": 119000}
      ]
    },
    {
      "name": "Manganese",
      "production_history": [
        {"year": 2020, "country": "SouthAfrica", "production_contained_t": 6500000}
      ],
      "deposits": [{"site": "Kalahari", "lat": -27.1, "lon": 22.9}]
    }
  ]
}`

func writeDataset(t *testing.T) *Loader {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "minerals.json"), []byte(testDataset), 0600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return NewLoader(dir)
}

func TestLoad(t *testing.T) {
	l := writeDataset(t)
	all, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 minerals, got %d", len(all))
	}
	if all[1].Deposits[0].Site != "Kalahari" {
		t.Fatalf("deposits not parsed: %+v", all[1].Deposits)
	}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	l := NewLoader(t.TempDir())
	all, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty dataset, got %d", len(all))
	}
}

func TestFind_CaseInsensitive(t *testing.T) {
	l := writeDataset(t)
	m, err := l.Find("cobalt")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if m == nil || m.Name != "Cobalt" {
		t.Fatalf("expected Cobalt, got %+v", m)
	}

	missing, err := l.Find("Unobtainium")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown mineral, got %+v", missing)
	}
}

func TestProductionSeries_AggregatesByYear(t *testing.T) {
	l := writeDataset(t)
	m, err := l.Find("Cobalt")
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	series := ProductionSeries(m)
	if len(series) != 2 {
		t.Fatalf("expected 2 years, got %d", len(series))
	}
	if series[0].Year != 2020 || series[0].ProductionT != 98300 {
		t.Fatalf("expected 2020 total 98300, got %+v", series[0])
	}
	if series[1].Year != 2021 || series[1].ProductionT != 119000 {
		t.Fatalf("expected 2021 total 119000, got %+v", series[1])
	}
}

func TestProductionSeries_ContainedFallback(t *testing.T) {
	l := writeDataset(t)
	m, err := l.Find("Manganese")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	series := ProductionSeries(m)
	if len(series) != 1 || series[0].ProductionT != 6500000 {
		t.Fatalf("expected contained tonnage fallback, got %+v", series)
	}
}

func TestOverviewSeries(t *testing.T) {
	l := writeDataset(t)
	all, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	overview := OverviewSeries(all)
	if len(overview) != 2 {
		t.Fatalf("expected 2 minerals in overview, got %d", len(overview))
	}
	if len(overview["Cobalt"]) != 2 {
		t.Fatalf("expected Cobalt series of 2, got %+v", overview["Cobalt"])
	}
}
