// Package demodata provides built-in demo datasets so the dashboard can be
// explored without uploading a file. Two variants are available: a baseline
// two-period dataset and an uneven one that trips several heuristic signals.
package demodata

import (
	"encoding/json"
	"fmt"

	"capsight/internal/domain/schema"
)

// Dataset variants.
const (
	VariantBaseline = "baseline"
	VariantUneven   = "uneven"
)

// demoContextTag labels every demo row.
const demoContextTag = "education"

// Demo reporting periods.
var demoPeriods = []struct{ start, end string }{
	{"2025-09-01", "2025-09-30"},
	{"2025-10-01", "2025-10-31"},
}

// bandCounts holds (emerging, developing, embedded) counts for one domain
// in one period.
type bandCounts [3]float64

// Fixture tables: per variant, per period, per canonical domain.
var (
	baselineCounts = [][]bandCounts{
		{ // period 1
			{14, 34, 18}, // Awareness
			{22, 30, 14}, // Human–AI Co-Agency
			{10, 28, 28}, // Applied Practice & Innovation
			{20, 30, 16}, // Ethics, Equity & Impact
			{26, 26, 14}, // Decision-Making & Governance
			{28, 26, 12}, // Reflection, Learning & Renewal
		},
		{ // period 2
			{10, 32, 24},
			{18, 32, 16},
			{8, 26, 32},
			{18, 30, 18},
			{22, 28, 16},
			{24, 28, 14},
		},
	}

	unevenCounts = [][]bandCounts{
		{ // period 1
			{120, 210, 90},
			{160, 190, 70},
			{180, 170, 70},
			{200, 160, 60},
			{230, 150, 40},
			{210, 150, 60},
		},
		{ // period 2
			{90, 220, 110},
			{130, 210, 80},
			{90, 210, 120},
			{170, 180, 70},
			{220, 160, 40},
			{140, 190, 90},
		},
	}
)

// Variants returns the available demo variant names.
func Variants() []string {
	return []string{VariantBaseline, VariantUneven}
}

// Rows returns the demo dataset for a variant. The output is deterministic
// and already valid against the row schema.
func Rows(variant string) ([]schema.Row, error) {
	var counts [][]bandCounts
	switch variant {
	case VariantBaseline:
		counts = baselineCounts
	case VariantUneven:
		counts = unevenCounts
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}

	rows := make([]schema.Row, 0, len(demoPeriods)*len(schema.Domains())*len(schema.Bands()))
	for pi, period := range demoPeriods {
		for di, domain := range schema.Domains() {
			for bi, band := range schema.Bands() {
				rows = append(rows, schema.Row{
					PeriodStart: period.start,
					PeriodEnd:   period.end,
					Domain:      domain,
					Band:        band,
					Count:       counts[pi][di][bi],
					ContextTag:  demoContextTag,
				})
			}
		}
	}
	return rows, nil
}

// JSON renders a demo dataset as a versioned envelope, usable as an upload
// template. JSON is the template format of choice here: the unquoted CSV
// format cannot carry the comma-containing domain names.
func JSON(variant string) ([]byte, error) {
	rows, err := Rows(variant)
	if err != nil {
		return nil, err
	}

	env := struct {
		SchemaVersion string       `json:"schema_version"`
		Units         string       `json:"units"`
		Rows          []schema.Row `json:"rows"`
	}{
		SchemaVersion: "1.0",
		Units:         "counts",
		Rows:          rows,
	}
	return json.MarshalIndent(env, "", "  ")
}
