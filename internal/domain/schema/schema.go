// Package schema defines the canonical aggregated-row shape and validates
// candidate rows against it. All downstream aggregation assumes rows that
// passed this package.
package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Band is one of three ordered proficiency stages describing capability
// maturity: emerging < developing < embedded.
type Band string

// Proficiency bands, in ordinal order.
const (
	BandEmerging   Band = "emerging"
	BandDeveloping Band = "developing"
	BandEmbedded   Band = "embedded"
)

// Weight returns the ordinal position of the band on the 1-3 scale.
func (b Band) Weight() float64 {
	switch b {
	case BandEmerging:
		return 1
	case BandDeveloping:
		return 2
	case BandEmbedded:
		return 3
	}
	return 0
}

// Bands returns the three bands in ordinal order.
func Bands() []Band {
	return []Band{BandEmerging, BandDeveloping, BandEmbedded}
}

// Domain is one of six fixed thematic capability areas. The taxonomy is not
// extensible at runtime; matching is exact, including punctuation.
type Domain string

// Canonical domains. The declaration order is the display order.
const (
	DomainAwareness  Domain = "Awareness"
	DomainCoAgency   Domain = "Human–AI Co-Agency"
	DomainPractice   Domain = "Applied Practice & Innovation"
	DomainEthics     Domain = "Ethics, Equity & Impact"
	DomainGovernance Domain = "Decision-Making & Governance"
	DomainRenewal    Domain = "Reflection, Learning & Renewal"
)

// Domains returns the six canonical domains in display order.
func Domains() []Domain {
	return []Domain{
		DomainAwareness,
		DomainCoAgency,
		DomainPractice,
		DomainEthics,
		DomainGovernance,
		DomainRenewal,
	}
}

// KnownDomain reports whether d is one of the six canonical domains.
func KnownDomain(d Domain) bool {
	switch d {
	case DomainAwareness, DomainCoAgency, DomainPractice, DomainEthics, DomainGovernance, DomainRenewal:
		return true
	}
	return false
}

// KnownBand reports whether b is a valid proficiency band.
func KnownBand(b Band) bool {
	switch b {
	case BandEmerging, BandDeveloping, BandEmbedded:
		return true
	}
	return false
}

// Row is a validated aggregated row: a count of observations for one
// (period, domain, band, optional context) tuple. Datasets have no
// uniqueness constraint; duplicate tuples are valid and their counts sum.
type Row struct {
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	Domain      Domain  `json:"domain"`
	Band        Band    `json:"band"`
	Count       float64 `json:"count"`
	ContextTag  string  `json:"context_tag,omitempty"`
	Source      string  `json:"source,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// Candidate is an unvalidated inbound row. Fields are untyped so that JSON
// numerics, JSON strings, and CSV cells all route through the same coercion.
type Candidate struct {
	PeriodStart any `json:"period_start"`
	PeriodEnd   any `json:"period_end"`
	Domain      any `json:"domain"`
	Band        any `json:"band"`
	Count       any `json:"count"`
	ContextTag  any `json:"context_tag"`
	Source      any `json:"source"`
	Notes       any `json:"notes"`
}

// empty reports whether the candidate carries no values at all. Empty
// entries are skipped by ValidateAll rather than rejected.
func (c Candidate) empty() bool {
	return c.PeriodStart == nil && c.PeriodEnd == nil && c.Domain == nil &&
		c.Band == nil && c.Count == nil && c.ContextTag == nil &&
		c.Source == nil && c.Notes == nil
}

// Validate coerces and checks a single candidate row.
// Count accepts numbers and numeric strings; zero is valid.
func Validate(c Candidate) (Row, error) {
	row := Row{
		PeriodStart: asTrimmedString(c.PeriodStart),
		PeriodEnd:   asTrimmedString(c.PeriodEnd),
		Domain:      Domain(asTrimmedString(c.Domain)),
		Band:        Band(asTrimmedString(c.Band)),
		ContextTag:  asTrimmedString(c.ContextTag),
		Source:      asTrimmedString(c.Source),
		Notes:       asTrimmedString(c.Notes),
	}

	if row.PeriodStart == "" || row.PeriodEnd == "" {
		return Row{}, fmt.Errorf("%w: each row must include period_start and period_end", ErrMissingPeriod)
	}

	if !KnownDomain(row.Domain) {
		return Row{}, fmt.Errorf("%w: %q", ErrUnknownDomain, string(row.Domain))
	}

	if !KnownBand(row.Band) {
		return Row{}, fmt.Errorf("%w: %q", ErrInvalidBand, string(row.Band))
	}

	count, ok := asNumber(c.Count)
	if !ok || math.IsNaN(count) || math.IsInf(count, 0) || count < 0 {
		return Row{}, fmt.Errorf("%w: %q", ErrInvalidCount, fmt.Sprintf("%v", c.Count))
	}
	row.Count = count

	return row, nil
}

// ValidateAll validates a batch of candidates, fail-fast on the first bad
// row. Entirely empty candidates are skipped. An empty valid result is
// ErrEmptyDataset: a dataset must contain at least one valid row.
func ValidateAll(candidates []Candidate) ([]Row, error) {
	rows := make([]Row, 0, len(candidates))
	for i, c := range candidates {
		if c.empty() {
			continue
		}
		row, err := Validate(c)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no valid rows found", ErrEmptyDataset)
	}
	return rows, nil
}

// asTrimmedString coerces a candidate field to a trimmed string. Absent and
// empty values both come back as "", so empty optionals are dropped rather
// than retained.
func asTrimmedString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// asNumber coerces a candidate count to a float64.
func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
