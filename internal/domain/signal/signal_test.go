package signal_test

import (
	"strings"
	"testing"

	"capsight/internal/domain/aggregate"
	"capsight/internal/domain/schema"
	"capsight/internal/domain/signal"
	. "github.com/smartystreets/goconvey/convey"
)

// dists builds a full six-domain distribution list with the given overrides.
func dists(overrides map[schema.Domain]aggregate.Distribution) []aggregate.Distribution {
	out := make([]aggregate.Distribution, 0, 6)
	for _, d := range schema.Domains() {
		if dist, ok := overrides[d]; ok {
			dist.Domain = d
			out = append(out, dist)
			continue
		}
		out = append(out, aggregate.Distribution{Domain: d})
	}
	return out
}

func TestDeriveBalance(t *testing.T) {
	Convey("Given innovation far ahead of governance", t, func() {
		input := dists(map[schema.Domain]aggregate.Distribution{
			schema.DomainPractice:   {Embedded: 100, Total: 100}, // index 3.0
			schema.DomainGovernance: {Emerging: 100, Total: 100}, // index 1.0
			schema.DomainEthics:     {Embedded: 100, Total: 100}, // level with innovation
			schema.DomainAwareness:  {Embedded: 100, Total: 100},
			schema.DomainCoAgency:   {Embedded: 100, Total: 100},
			schema.DomainRenewal:    {Developing: 100, Total: 100},
		})

		signals := signal.Derive(input)

		Convey("Then a balance signal fires (gap 2.0 >= 0.5)", func() {
			types := make([]string, 0, len(signals))
			for _, s := range signals {
				types = append(types, s.Type)
			}
			So(types, ShouldContain, signal.TypeBalance)
		})

		Convey("Then the balance signal carries statement and prompt", func() {
			var balance signal.Signal
			for _, s := range signals {
				if s.Type == signal.TypeBalance {
					balance = s
				}
			}
			So(balance.Statement, ShouldContainSubstring, "Applied Practice & Innovation")
			So(balance.Prompt, ShouldContainSubstring, "governance scaffolds")
		})
	})
}

func TestDeriveEthicsLoad(t *testing.T) {
	Convey("Given innovation outpacing ethics capacity", t, func() {
		input := dists(map[schema.Domain]aggregate.Distribution{
			schema.DomainPractice: {Embedded: 50, Total: 50},  // index 3.0
			schema.DomainEthics:   {Emerging: 50, Total: 50},  // index 1.0
		})

		signals := signal.Derive(input)

		Convey("Then an ethics-load signal fires", func() {
			var found bool
			for _, s := range signals {
				if s.Type == signal.TypeEthicsLoad {
					found = true
					So(s.Statement, ShouldContainSubstring, "Ethics, Equity & Impact")
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}

func TestDeriveRenewal(t *testing.T) {
	Convey("Given under-embedded, emerging-heavy renewal practice", t, func() {
		input := dists(map[schema.Domain]aggregate.Distribution{
			// embedded share 0.1 < 0.2, emerging share 0.5 > 0.35
			schema.DomainRenewal: {Emerging: 50, Developing: 40, Embedded: 10, Total: 100},
		})

		signals := signal.Derive(input)

		Convey("Then a renewal signal fires", func() {
			var found bool
			for _, s := range signals {
				if s.Type == signal.TypeRenewal {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})

	Convey("Given renewal with a healthy embedded share", t, func() {
		input := dists(map[schema.Domain]aggregate.Distribution{
			schema.DomainRenewal: {Emerging: 40, Developing: 30, Embedded: 30, Total: 100},
		})

		Convey("Then no renewal signal fires", func() {
			for _, s := range signal.Derive(input) {
				So(s.Type, ShouldNotEqual, signal.TypeRenewal)
			}
		})
	})
}

func TestDeriveVariance(t *testing.T) {
	Convey("Given uneven embedded shares across domains", t, func() {
		input := dists(map[schema.Domain]aggregate.Distribution{
			schema.DomainAwareness: {Embedded: 60, Developing: 40, Total: 100}, // embedded share 0.6
			schema.DomainCoAgency:  {Emerging: 100, Total: 100},               // embedded share 0.0
		})

		signals := signal.Derive(input)

		Convey("Then a variance signal fires (spread 0.6 >= 0.25)", func() {
			var found bool
			for _, s := range signals {
				if s.Type == signal.TypeVariance {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}

func TestDeriveBalancedData(t *testing.T) {
	Convey("Given six domains with identical band distributions", t, func() {
		overrides := make(map[schema.Domain]aggregate.Distribution)
		for _, d := range schema.Domains() {
			overrides[d] = aggregate.Distribution{Emerging: 10, Developing: 20, Embedded: 10, Total: 40}
		}
		signals := signal.Derive(dists(overrides))

		Convey("Then no balance, ethics-load, or variance signals fire", func() {
			for _, s := range signals {
				So(s.Type, ShouldNotEqual, signal.TypeBalance)
				So(s.Type, ShouldNotEqual, signal.TypeEthicsLoad)
				So(s.Type, ShouldNotEqual, signal.TypeVariance)
			}
		})
	})
}

func TestDeriveDeterminism(t *testing.T) {
	Convey("Given any distribution input", t, func() {
		input := dists(map[schema.Domain]aggregate.Distribution{
			schema.DomainPractice:   {Embedded: 100, Total: 100},
			schema.DomainGovernance: {Emerging: 100, Total: 100},
			schema.DomainRenewal:    {Emerging: 50, Embedded: 5, Developing: 45, Total: 100},
		})

		first := signal.Derive(input)
		second := signal.Derive(input)

		Convey("Then repeated derivation yields identical output", func() {
			So(second, ShouldResemble, first)
		})

		Convey("Then evaluation order determines output order", func() {
			order := map[string]int{
				signal.TypeBalance:    0,
				signal.TypeEthicsLoad: 1,
				signal.TypeRenewal:    2,
				signal.TypeVariance:   3,
			}
			for i := 1; i < len(first); i++ {
				So(order[first[i].Type], ShouldBeGreaterThan, order[first[i-1].Type])
			}
		})

		Convey("Then output length never exceeds the cap", func() {
			So(len(first), ShouldBeLessThanOrEqualTo, 6)
		})
	})

	Convey("Given empty input", t, func() {
		So(signal.Derive(nil), ShouldBeEmpty)
	})
}

func TestSignalKey(t *testing.T) {
	Convey("Given a signal", t, func() {
		s := signal.Signal{
			Type:      signal.TypeBalance,
			Statement: "Applied Practice & Innovation appears to be developing faster than Decision-Making & Governance.",
			Prompt:    "What governance scaffolds are needed to keep pace with innovation without restricting responsible experimentation?",
		}

		Convey("Then the key is stable and content-derived", func() {
			So(s.Key(), ShouldEqual, s.Key())
			So(strings.HasPrefix(s.Key(), "sig_"), ShouldBeTrue)
		})

		Convey("Then different content yields a different key", func() {
			other := s
			other.Statement = "Different statement."
			So(other.Key(), ShouldNotEqual, s.Key())
		})
	})
}
