// Package matching decides which ship and land assignments can relieve each other.
//
// Everything here is pure computation over caller-supplied snapshots. The only
// collaborator is the clock, read when a ship assignment has no onboard date.
package matching

import (
	"strings"
	"time"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	clockport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/clock"
)

// DateWindowDays is the tolerance, in days either side of the projected release,
// within which a land assignment's joining date is accepted.
const DateWindowDays = 15

// Predicate names one compatibility rule.
type Predicate string

const (
	PredicateFleet      Predicate = "fleet"
	PredicateRank       Predicate = "rank"
	PredicateCompany    Predicate = "company"
	PredicateDateWindow Predicate = "date_window"

	// PredicateHolder reports that the land-side holder profile could not be resolved.
	PredicateHolder Predicate = "holder"
)

// Pair is the canonical input of the matcher: one ship side and one land side.
type Pair struct {
	Ship       domain.ShipAssignment
	ShipHolder domain.UserProfile
	Land       domain.LandAssignment
	LandHolder domain.UserProfile
}

// Verdict is the explained outcome of evaluating a Pair.
type Verdict struct {
	Matched bool
	// Failed is the first predicate that did not hold; empty when Matched.
	Failed Predicate

	ExpectedRelease time.Time
	WindowStart     time.Time
	WindowEnd       time.Time
}

// Observer receives every verdict produced while building match sets.
// Implementations must be safe for concurrent use when Workers > 1.
type Observer interface {
	ObserveVerdict(v Verdict)
}

type Matcher struct {
	clk clockport.Clock

	// Workers bounds concurrent evaluation in the match set builder.
	// Values below 2 evaluate sequentially.
	Workers int

	// Observer is optional.
	Observer Observer
}

func NewMatcher(clk clockport.Clock) *Matcher {
	return &Matcher{clk: clk, Workers: 1}
}

// Evaluate applies the fleet, rank, company and date-window predicates in order and
// stops at the first one that fails.
func (m *Matcher) Evaluate(p Pair) Verdict {
	release := m.ProjectRelease(p.Ship.OnboardDate, p.Ship.ContractLengthMonths)
	v := Verdict{
		ExpectedRelease: release,
		WindowStart:     release.AddDate(0, 0, -DateWindowDays),
		WindowEnd:       release.AddDate(0, 0, DateWindowDays),
	}

	switch {
	case !fleetCompatible(p.Ship.FleetType, p.Land.FleetType):
		v.Failed = PredicateFleet
	case !rankCompatible(p.Ship.Rank, p.LandHolder.PresentRank):
		v.Failed = PredicateRank
	case !companyCompatible(p.Ship.Company, p.Land.Company, p.LandHolder.Company):
		v.Failed = PredicateCompany
	case !withinWindow(p.Land.ExpectedJoiningDate, v.WindowStart, v.WindowEnd):
		v.Failed = PredicateDateWindow
	default:
		v.Matched = true
	}
	return v
}

func (m *Matcher) Matches(p Pair) bool {
	return m.Evaluate(p).Matched
}

// ShipMatchesLand reports whether land can relieve ship.
func (m *Matcher) ShipMatchesLand(ship domain.ShipAssignment, shipHolder domain.UserProfile, land domain.LandAssignment, landHolder domain.UserProfile) bool {
	return m.Matches(Pair{Ship: ship, ShipHolder: shipHolder, Land: land, LandHolder: landHolder})
}

// LandMatchesShip reports whether ship is a posting land can join.
// It always agrees with ShipMatchesLand for the same records.
func (m *Matcher) LandMatchesShip(land domain.LandAssignment, landHolder domain.UserProfile, ship domain.ShipAssignment, shipHolder domain.UserProfile) bool {
	return m.Matches(Pair{Ship: ship, ShipHolder: shipHolder, Land: land, LandHolder: landHolder})
}

func fleetCompatible(shipFleet, landFleet *string) bool {
	sf, ok := folded(shipFleet)
	if !ok {
		return false
	}
	lf, ok := folded(landFleet)
	if !ok {
		return false
	}
	return strings.Contains(sf, lf) || strings.Contains(lf, sf)
}

func rankCompatible(shipRank, landRank *string) bool {
	sr, ok := folded(shipRank)
	if !ok {
		return false
	}
	lr, ok := folded(landRank)
	if !ok {
		return false
	}
	return sr == lr
}

// companyCompatible treats an empty company on either side as a wildcard.
// The land assignment's own company wins over its holder's profile company.
func companyCompatible(shipCompany, landCompany, landHolderCompany *string) bool {
	sc, ok := folded(shipCompany)
	if !ok {
		return true
	}
	resolved := landCompany
	if resolved == nil {
		resolved = landHolderCompany
	}
	lc, ok := folded(resolved)
	if !ok {
		return true
	}
	return sc == lc
}

func withinWindow(joining *time.Time, start, end time.Time) bool {
	if joining == nil {
		return false
	}
	j := domain.DateOf(*joining)
	return !j.Before(start) && !j.After(end)
}

// folded returns the trimmed, lowercased value and whether it is non-empty.
func folded(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	v := strings.ToLower(strings.TrimSpace(*p))
	return v, v != ""
}
