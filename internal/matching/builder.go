package matching

import (
	"golang.org/x/sync/errgroup"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
)

// HolderLookup resolves the profile owning an assignment.
type HolderLookup func(id domain.UserID) (domain.UserProfile, bool)

// Match pairs one of the requester's own assignments with a counterpart candidate.
type Match[A, B any] struct {
	Own       A
	Candidate B
}

// Candidates drops the own side of ms, keeping order and duplicates.
func Candidates[A, B any](ms []Match[A, B]) []B {
	out := make([]B, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Candidate)
	}
	return out
}

// LandMatchesFor returns the land assignments in pool that can relieve any of me's ship
// assignments.
//
// Candidates owned by me are skipped, as are candidates whose holder cannot be resolved.
// A candidate appears once per own assignment it matches. Order follows own, then pool.
func (m *Matcher) LandMatchesFor(me domain.UserProfile, own []domain.ShipAssignment, pool []domain.LandAssignment, holders HolderLookup) []Match[domain.ShipAssignment, domain.LandAssignment] {
	landHolders := make([]*domain.UserProfile, len(pool))
	for j, l := range pool {
		if l.UserID == me.ID {
			continue
		}
		if h, ok := lookup(holders, l.UserID); ok {
			landHolders[j] = &h
		}
	}

	return collect(m.Workers, own, pool,
		func(j int) bool { return pool[j].UserID == me.ID },
		func(s domain.ShipAssignment, j int) bool {
			h := landHolders[j]
			if h == nil {
				m.observe(Verdict{Failed: PredicateHolder})
				return false
			}
			return m.observe(m.Evaluate(Pair{Ship: s, ShipHolder: me, Land: pool[j], LandHolder: *h})).Matched
		},
	)
}

// ShipMatchesFor returns the ship assignments in pool that any of me's land assignments
// can join. Ownership, duplicate and order rules are those of LandMatchesFor.
//
// The ship-side holder is informational only; an unresolved holder does not block a match.
func (m *Matcher) ShipMatchesFor(me domain.UserProfile, own []domain.LandAssignment, pool []domain.ShipAssignment, holders HolderLookup) []Match[domain.LandAssignment, domain.ShipAssignment] {
	shipHolders := make([]domain.UserProfile, len(pool))
	for j, s := range pool {
		if s.UserID == me.ID {
			continue
		}
		h, ok := lookup(holders, s.UserID)
		if !ok {
			h = domain.UserProfile{ID: s.UserID}
		}
		shipHolders[j] = h
	}

	return collect(m.Workers, own, pool,
		func(j int) bool { return pool[j].UserID == me.ID },
		func(l domain.LandAssignment, j int) bool {
			return m.observe(m.Evaluate(Pair{Ship: pool[j], ShipHolder: shipHolders[j], Land: l, LandHolder: me})).Matched
		},
	)
}

func (m *Matcher) observe(v Verdict) Verdict {
	if m.Observer != nil {
		m.Observer.ObserveVerdict(v)
	}
	return v
}

func lookup(holders HolderLookup, id domain.UserID) (domain.UserProfile, bool) {
	if holders == nil {
		return domain.UserProfile{}, false
	}
	return holders(id)
}

// collect evaluates own × pool and returns matching pairs in row-major order.
//
// With workers > 1 the pool is split into chunks evaluated concurrently; results are
// stitched back per (row, chunk) slot so the output equals the sequential one.
func collect[A, B any](workers int, own []A, pool []B, skip func(j int) bool, keep func(a A, j int) bool) []Match[A, B] {
	scan := func(a A, lo, hi int) []Match[A, B] {
		var out []Match[A, B]
		for j := lo; j < hi; j++ {
			if skip(j) {
				continue
			}
			if keep(a, j) {
				out = append(out, Match[A, B]{Own: a, Candidate: pool[j]})
			}
		}
		return out
	}

	if workers < 2 || len(own) == 0 || len(pool) == 0 {
		out := make([]Match[A, B], 0)
		for _, a := range own {
			out = append(out, scan(a, 0, len(pool))...)
		}
		return out
	}

	chunk := (len(pool) + workers - 1) / workers
	chunks := (len(pool) + chunk - 1) / chunk
	slots := make([][]Match[A, B], len(own)*chunks)

	var g errgroup.Group
	g.SetLimit(workers)
	for i, a := range own {
		for c := 0; c < chunks; c++ {
			lo := c * chunk
			hi := min(lo+chunk, len(pool))
			slot := i*chunks + c
			g.Go(func() error {
				slots[slot] = scan(a, lo, hi)
				return nil
			})
		}
	}
	_ = g.Wait()

	out := make([]Match[A, B], 0)
	for _, s := range slots {
		out = append(out, s...)
	}
	return out
}
