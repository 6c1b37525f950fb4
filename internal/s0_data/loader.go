package s0_data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wonny/rs-screener/internal/contracts"
)

// snapshotFile is the on-disk snapshot layout (JSON or YAML)
type snapshotFile struct {
	AsOf         string                                   `json:"as_of" yaml:"as_of"`
	Universe     []contracts.Stock                        `json:"universe" yaml:"universe"`
	Prices       map[string][]filePoint                   `json:"prices" yaml:"prices"`
	Benchmarks   map[string][]filePoint                   `json:"benchmarks" yaml:"benchmarks"`
	Sectors      map[string][]filePoint                   `json:"sectors" yaml:"sectors"`
	Fundamentals map[string]contracts.FundamentalSnapshot `json:"fundamentals" yaml:"fundamentals"`
}

type filePoint struct {
	Date  string  `json:"date" yaml:"date"`
	Close float64 `json:"close" yaml:"close"`
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// LoadSnapshotFile reads a snapshot from a .json, .yaml or .yml file
func LoadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var raw snapshotFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse snapshot yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse snapshot json: %w", err)
		}
	}

	in, err := raw.toInput()
	if err != nil {
		return nil, err
	}
	return NewSnapshot(in)
}

func (f snapshotFile) toInput() (SnapshotInput, error) {
	in := SnapshotInput{
		Universe:     f.Universe,
		Fundamentals: f.Fundamentals,
	}

	if f.AsOf != "" {
		asOf, err := parseDate(f.AsOf)
		if err != nil {
			return in, fmt.Errorf("as_of: %w", err)
		}
		in.AsOf = asOf
	}

	var err error
	if in.Prices, err = convertSeries(f.Prices); err != nil {
		return in, fmt.Errorf("prices: %w", err)
	}
	if in.Benchmarks, err = convertSeries(f.Benchmarks); err != nil {
		return in, fmt.Errorf("benchmarks: %w", err)
	}
	if in.Sectors, err = convertSeries(f.Sectors); err != nil {
		return in, fmt.Errorf("sectors: %w", err)
	}
	return in, nil
}

func convertSeries(raw map[string][]filePoint) (map[string]contracts.PriceSeries, error) {
	out := make(map[string]contracts.PriceSeries, len(raw))
	for name, points := range raw {
		series := make(contracts.PriceSeries, 0, len(points))
		for _, p := range points {
			d, err := parseDate(p.Date)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			series = append(series, contracts.PricePoint{Date: d, Close: p.Close})
		}
		out[name] = series
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
