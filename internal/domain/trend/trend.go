// Package trend groups rows into reporting periods and assembles the
// multi-domain trend series used for plotting maturity over time.
package trend

import (
	"sort"

	"capsight/internal/domain/aggregate"
	"capsight/internal/domain/schema"
)

// keySeparator joins the period boundary strings into a composite key.
// Double underscore cannot appear in a calendar-date string.
const keySeparator = "__"

// Period identifies a reporting interval by its exact (start, end) pair.
// Two rows with different boundary strings belong to different periods even
// if the ranges semantically overlap; no merging is performed.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Key returns the composite grouping key for the period.
func (p Period) Key() string {
	return p.Start + keySeparator + p.End
}

// Label returns the display label, e.g. "2025-09-01 → 2025-09-30".
func (p Period) Label() string {
	return p.Start + " → " + p.End
}

// PeriodDistribution pairs a period with its per-domain distributions.
type PeriodDistribution struct {
	Period Period                   `json:"period"`
	Dists  []aggregate.Distribution `json:"dists"`
}

// PeriodDistributions groups rows by exact period pair and computes the
// domain distributions for each group. Periods are ordered ascending by
// start (lexicographic; chronological for YYYY-MM-DD strings).
func PeriodDistributions(rows []schema.Row) []PeriodDistribution {
	groups := make(map[Period][]schema.Row)
	order := make([]Period, 0)

	for _, r := range rows {
		p := Period{Start: r.PeriodStart, End: r.PeriodEnd}
		if _, ok := groups[p]; !ok {
			order = append(order, p)
		}
		groups[p] = append(groups[p], r)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].Start != order[j].Start {
			return order[i].Start < order[j].Start
		}
		return order[i].End < order[j].End
	})

	periods := make([]PeriodDistribution, 0, len(order))
	for _, p := range order {
		periods = append(periods, PeriodDistribution{
			Period: p,
			Dists:  aggregate.DistributionsByDomain(groups[p]),
		})
	}
	return periods
}

// Point is one trend series entry: a period label plus the weighted
// maturity index of every canonical domain in that period.
type Point struct {
	Label string                    `json:"period"`
	Start string                    `json:"start"`
	End   string                    `json:"end"`
	Index map[schema.Domain]float64 `json:"index"`
}

// Series builds a dense, rectangular series from period distributions:
// every point carries a value for every canonical domain, zero-filled for
// absent combinations, suitable for direct multi-line plotting.
func Series(periods []PeriodDistribution) []Point {
	points := make([]Point, 0, len(periods))
	for _, pd := range periods {
		point := Point{
			Label: pd.Period.Label(),
			Start: pd.Period.Start,
			End:   pd.Period.End,
			Index: make(map[schema.Domain]float64, len(schema.Domains())),
		}
		for _, d := range schema.Domains() {
			point.Index[d] = 0
			for _, dist := range pd.Dists {
				if dist.Domain == d {
					point.Index[d] = aggregate.Index(dist)
					break
				}
			}
		}
		points = append(points, point)
	}
	return points
}
