// Package aggregate computes dataset summaries and per-domain band
// distributions over validated rows. Everything here is a pure transform:
// same input rows, same output, recomputed from scratch on every change.
package aggregate

import (
	"math"
	"sort"

	"capsight/internal/domain/schema"
)

// indexScale is the rounding factor for the weighted maturity index (2 dp).
const indexScale = 100

// Period identifies a reporting interval by its exact date-string pair.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Summary holds dataset-wide totals and the distinct periods and context
// tags present.
type Summary struct {
	TotalCount float64  `json:"total_count"`
	Periods    []Period `json:"periods"`
	Contexts   []string `json:"contexts"`
}

// Summarise computes the dataset summary. Periods are deduped by the exact
// (start, end) pair and sorted ascending by start; the sort is lexicographic,
// which is chronological only for zero-padded YYYY-MM-DD strings. Contexts
// are the distinct non-empty context tags, sorted ascending.
func Summarise(rows []schema.Row) Summary {
	var total float64
	seen := make(map[Period]struct{})
	periods := make([]Period, 0)
	contextSet := make(map[string]struct{})

	for _, r := range rows {
		total += r.Count
		p := Period{Start: r.PeriodStart, End: r.PeriodEnd}
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			periods = append(periods, p)
		}
		if r.ContextTag != "" {
			contextSet[r.ContextTag] = struct{}{}
		}
	}

	sort.Slice(periods, func(i, j int) bool {
		if periods[i].Start != periods[j].Start {
			return periods[i].Start < periods[j].Start
		}
		return periods[i].End < periods[j].End
	})

	contexts := make([]string, 0, len(contextSet))
	for c := range contextSet {
		contexts = append(contexts, c)
	}
	sort.Strings(contexts)

	return Summary{TotalCount: total, Periods: periods, Contexts: contexts}
}

// FilterByContext returns the rows whose context tag matches exactly.
// An empty tag selects all rows; rows without a tag are only visible there.
func FilterByContext(rows []schema.Row, tag string) []schema.Row {
	if tag == "" {
		return rows
	}
	filtered := make([]schema.Row, 0, len(rows))
	for _, r := range rows {
		if r.ContextTag == tag {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Distribution is the per-domain triple of summed counts per band plus a
// total. Derived, never persisted.
type Distribution struct {
	Domain     schema.Domain `json:"domain"`
	Emerging   float64       `json:"emerging"`
	Developing float64       `json:"developing"`
	Embedded   float64       `json:"embedded"`
	Total      float64       `json:"total"`
}

// BandCount returns the summed count for one band.
func (d Distribution) BandCount(b schema.Band) float64 {
	switch b {
	case schema.BandEmerging:
		return d.Emerging
	case schema.BandDeveloping:
		return d.Developing
	case schema.BandEmbedded:
		return d.Embedded
	}
	return 0
}

// DistributionsByDomain groups rows by domain and band. All six canonical
// domains are always present, zero-filled, in canonical order, so chart axes
// stay stable. Rows are assumed validated; duplicate tuples sum.
func DistributionsByDomain(rows []schema.Row) []Distribution {
	byDomain := make(map[schema.Domain]*Distribution, len(schema.Domains()))
	for _, d := range schema.Domains() {
		byDomain[d] = &Distribution{Domain: d}
	}

	for _, r := range rows {
		dist := byDomain[r.Domain]
		switch r.Band {
		case schema.BandEmerging:
			dist.Emerging += r.Count
		case schema.BandDeveloping:
			dist.Developing += r.Count
		case schema.BandEmbedded:
			dist.Embedded += r.Count
		}
		dist.Total += r.Count
	}

	dists := make([]Distribution, 0, len(schema.Domains()))
	for _, d := range schema.Domains() {
		dists = append(dists, *byDomain[d])
	}
	return dists
}

// Share returns the fraction of a distribution's total in one band, or 0
// for an empty distribution. The zero is a deliberate floor value, not an
// unknown sentinel; callers comparing shares must not read it as evidence.
func Share(dist Distribution, band schema.Band) float64 {
	if dist.Total == 0 {
		return 0
	}
	return dist.BandCount(band) / dist.Total
}

// Index returns the weighted maturity index: the ordinal-weighted average
// band position (emerging=1, developing=2, embedded=3), rounded to two
// decimal places. 0 for an empty distribution. Descriptive only, not a
// validated maturity score.
func Index(dist Distribution) float64 {
	if dist.Total == 0 {
		return 0
	}
	w := (dist.Emerging*1 + dist.Developing*2 + dist.Embedded*3) / dist.Total
	return math.Round(w*indexScale) / indexScale
}
