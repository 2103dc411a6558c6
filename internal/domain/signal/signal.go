// Package signal derives heuristic discussion signals from domain
// distributions. Signals are threshold-triggered comparative observations,
// not validated claims: evaluation order is fixed, output is deterministic,
// and the list is capped.
package signal

import (
	"fmt"

	"capsight/internal/domain/aggregate"
	"capsight/internal/domain/schema"
)

// Signal types, in evaluation (and output) order.
const (
	TypeBalance    = "balance"
	TypeEthicsLoad = "ethics-load"
	TypeRenewal    = "renewal"
	TypeVariance   = "variance"
)

// Heuristic thresholds.
const (
	indexGapThreshold       = 0.5  // weighted index gap flagging one domain outpacing another
	renewalEmbeddedCeiling  = 0.2  // embedded share below which renewal is under-embedded
	renewalEmergingFloor    = 0.35 // emerging share above which renewal skews early-stage
	embeddedSpreadThreshold = 0.25 // max-min embedded share spread flagging uneven maturity
	maxSignals              = 6
)

// Signal is a heuristic observation paired with a reflective discussion
// prompt. Statement and prompt are strictly separated so a caller can
// suppress prompts in a descriptive-only display without touching the
// statement.
type Signal struct {
	Type      string `json:"type"`
	Statement string `json:"statement"`
	Prompt    string `json:"prompt"`
}

// Key returns a stable, content-derived key for the signal, used to attach
// user notes across recomputations.
func (s Signal) Key() string {
	base := s.Statement + "__" + s.Prompt
	var h uint32
	for _, r := range base {
		h = h*31 + uint32(r)
	}
	return fmt.Sprintf("sig_%x", h)
}

// findDomain picks one domain's distribution by canonical name.
func findDomain(dists []aggregate.Distribution, domain schema.Domain) (aggregate.Distribution, bool) {
	for _, d := range dists {
		if d.Domain == domain {
			return d, true
		}
	}
	return aggregate.Distribution{}, false
}

// Derive evaluates the heuristics over the six domain distributions and
// returns at most maxSignals signals in fixed order: balance, ethics-load,
// renewal, variance. Same input, same output; no randomness, no side
// effects.
func Derive(dists []aggregate.Distribution) []Signal {
	signals := make([]Signal, 0, maxSignals)

	innovation, hasInnovation := findDomain(dists, schema.DomainPractice)
	governance, hasGovernance := findDomain(dists, schema.DomainGovernance)
	ethics, hasEthics := findDomain(dists, schema.DomainEthics)
	renewal, hasRenewal := findDomain(dists, schema.DomainRenewal)

	if hasInnovation && hasGovernance {
		gap := aggregate.Index(innovation) - aggregate.Index(governance)
		if gap >= indexGapThreshold {
			signals = append(signals, Signal{
				Type:      TypeBalance,
				Statement: "Applied Practice & Innovation appears to be developing faster than Decision-Making & Governance.",
				Prompt:    "What governance scaffolds are needed to keep pace with innovation without restricting responsible experimentation?",
			})
		}
	}

	if hasInnovation && hasEthics {
		gap := aggregate.Index(innovation) - aggregate.Index(ethics)
		if gap >= indexGapThreshold {
			signals = append(signals, Signal{
				Type:      TypeEthicsLoad,
				Statement: "Innovation may be outpacing Ethics, Equity & Impact capacity.",
				Prompt:    "Where might ethical review, equity checks, or stakeholder consultation need strengthening to match current adoption?",
			})
		}
	}

	if hasRenewal {
		embedded := aggregate.Share(renewal, schema.BandEmbedded)
		emerging := aggregate.Share(renewal, schema.BandEmerging)
		if embedded < renewalEmbeddedCeiling && emerging > renewalEmergingFloor {
			signals = append(signals, Signal{
				Type:      TypeRenewal,
				Statement: "Reflection, Learning & Renewal shows a higher ‘emerging’ share than other domains.",
				Prompt:    "What routines (retrospectives, learning loops, documentation practices) would make renewal more systematic over the next cycle?",
			})
		}
	}

	// Variance: big spread between embedded shares across domains.
	if len(dists) > 0 {
		maxE, minE := 0.0, 1.0
		for _, d := range dists {
			share := aggregate.Share(d, schema.BandEmbedded)
			if share > maxE {
				maxE = share
			}
			if share < minE {
				minE = share
			}
		}
		if maxE-minE >= embeddedSpreadThreshold {
			signals = append(signals, Signal{
				Type:      TypeVariance,
				Statement: "Embedded capability varies noticeably across domains (uneven maturity).",
				Prompt:    "Which domain is lagging, and what conditions (resources, leadership, policy, support) might explain the uneven pattern?",
			})
		}
	}

	if len(signals) > maxSignals {
		signals = signals[:maxSignals]
	}
	return signals
}
