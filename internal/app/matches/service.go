// Package matches exposes the matching engine to authenticated callers: it loads the
// caller's own assignments and the public pool, resolves holders and runs the builder.
package matches

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/matching"
	clockport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/clock"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/landrepo"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/shiprepo"
)

// Direction names which side the caller matches from.
type Direction string

const (
	// DirectionShipToLand: the caller is aboard and looks for reliefs.
	DirectionShipToLand Direction = "SHIP_TO_LAND"
	// DirectionLandToShip: the caller is ashore and looks for postings.
	DirectionLandToShip Direction = "LAND_TO_SHIP"
)

// Directory is the user lookup the service needs.
type Directory interface {
	GetMyUser(ctx context.Context, subject domain.SubjectID) (domain.UserProfile, error)
	LookupHolder(ctx context.Context, id domain.UserID) (domain.UserProfile, bool, error)
}

// MatchView is one compatible pair. Which side is the caller's own depends on the
// result direction; Counterpart is the public summary of the other side's holder.
type MatchView struct {
	Ship                domain.ShipAssignment
	ExpectedReleaseDate time.Time
	Land                domain.LandAssignment
	Counterpart         domain.UserSummary
}

type Result struct {
	Direction Direction
	Matches   []MatchView
}

type Service struct {
	directory Directory
	ships     shiprepo.Repository
	lands     landrepo.Repository
	matcher   *matching.Matcher
	clk       clockport.Clock
	metrics   *Metrics
	logger    *slog.Logger
}

// NewService wires the match service. metrics and logger may be nil.
//
// The service evaluates through its own copy of matcher so that verdicts reach metrics
// without touching the caller's instance.
func NewService(directory Directory, ships shiprepo.Repository, lands landrepo.Repository, matcher *matching.Matcher, clk clockport.Clock, metrics *Metrics, logger *slog.Logger) *Service {
	m := *matcher
	if metrics != nil {
		m.Observer = metrics
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		directory: directory,
		ships:     ships,
		lands:     lands,
		matcher:   &m,
		clk:       clk,
		metrics:   metrics,
		logger:    logger,
	}
}

// FindMyMatches computes the caller's matches for their current status. The result keeps
// the builder's order and duplicates.
func (s *Service) FindMyMatches(ctx context.Context, subject domain.SubjectID) (Result, error) {
	me, err := s.directory.GetMyUser(ctx, subject)
	if err != nil {
		return Result{}, err
	}

	start := s.clk.Now()
	var res Result
	var own, pool int
	switch me.CurrentStatus {
	case domain.UserStatusOnShip:
		res, own, pool, err = s.shipToLand(ctx, me)
	case domain.UserStatusOnLand:
		res, own, pool, err = s.landToShip(ctx, me)
	default:
		return Result{}, &Error{Status: 409, Code: "USER_STATUS_UNSET", Message: "set currentStatus to ON_SHIP or ON_LAND before matching"}
	}
	if err != nil {
		return Result{}, err
	}
	elapsed := s.clk.Now().Sub(start)

	s.metrics.observeRun(res.Direction, len(res.Matches), elapsed)
	s.logger.InfoContext(ctx, "match set built",
		"user_id", string(me.ID),
		"direction", string(res.Direction),
		"own", own,
		"pool", pool,
		"matches", len(res.Matches),
		"elapsed", elapsed,
	)
	return res, nil
}

func (s *Service) shipToLand(ctx context.Context, me domain.UserProfile) (Result, int, int, error) {
	own, err := s.ships.ListByUser(ctx, me.ID)
	if err != nil {
		return Result{}, 0, 0, err
	}
	pool, err := s.lands.ListPublic(ctx)
	if err != nil {
		return Result{}, 0, 0, err
	}
	ids := make([]domain.UserID, 0, len(pool))
	for _, l := range pool {
		ids = append(ids, l.UserID)
	}
	holders, err := s.resolveHolders(ctx, me.ID, ids)
	if err != nil {
		return Result{}, 0, 0, err
	}

	ms := s.matcher.LandMatchesFor(me, own, pool, holders.lookup)
	out := make([]MatchView, 0, len(ms))
	for _, m := range ms {
		out = append(out, MatchView{
			Ship:                m.Own,
			ExpectedReleaseDate: s.matcher.ProjectRelease(m.Own.OnboardDate, m.Own.ContractLengthMonths),
			Land:                m.Candidate,
			Counterpart:         holders.summary(m.Candidate.UserID),
		})
	}
	return Result{Direction: DirectionShipToLand, Matches: out}, len(own), len(pool), nil
}

func (s *Service) landToShip(ctx context.Context, me domain.UserProfile) (Result, int, int, error) {
	own, err := s.lands.ListByUser(ctx, me.ID)
	if err != nil {
		return Result{}, 0, 0, err
	}
	pool, err := s.ships.ListPublic(ctx)
	if err != nil {
		return Result{}, 0, 0, err
	}
	ids := make([]domain.UserID, 0, len(pool))
	for _, a := range pool {
		ids = append(ids, a.UserID)
	}
	holders, err := s.resolveHolders(ctx, me.ID, ids)
	if err != nil {
		return Result{}, 0, 0, err
	}

	ms := s.matcher.ShipMatchesFor(me, own, pool, holders.lookup)
	out := make([]MatchView, 0, len(ms))
	for _, m := range ms {
		out = append(out, MatchView{
			Ship:                m.Candidate,
			ExpectedReleaseDate: s.matcher.ProjectRelease(m.Candidate.OnboardDate, m.Candidate.ContractLengthMonths),
			Land:                m.Own,
			Counterpart:         holders.summary(m.Candidate.UserID),
		})
	}
	return Result{Direction: DirectionLandToShip, Matches: out}, len(own), len(pool), nil
}

// ExplainPair evaluates one ship/land pair the caller can see and reports the first
// failing predicate.
func (s *Service) ExplainPair(ctx context.Context, subject domain.SubjectID, shipID domain.ShipAssignmentID, landID domain.LandAssignmentID) (matching.Verdict, error) {
	me, err := s.directory.GetMyUser(ctx, subject)
	if err != nil {
		return matching.Verdict{}, err
	}

	ship, err := s.ships.GetByID(ctx, shipID)
	if errors.Is(err, shiprepo.ErrNotFound) || (err == nil && ship.UserID != me.ID && !ship.IsPublic) {
		return matching.Verdict{}, &Error{Status: 404, Code: "SHIP_ASSIGNMENT_NOT_FOUND", Message: "ship assignment not found"}
	}
	if err != nil {
		return matching.Verdict{}, err
	}
	land, err := s.lands.GetByID(ctx, landID)
	if errors.Is(err, landrepo.ErrNotFound) || (err == nil && land.UserID != me.ID && !land.IsPublic) {
		return matching.Verdict{}, &Error{Status: 404, Code: "LAND_ASSIGNMENT_NOT_FOUND", Message: "land assignment not found"}
	}
	if err != nil {
		return matching.Verdict{}, err
	}

	holders, err := s.resolveHolders(ctx, "", []domain.UserID{ship.UserID, land.UserID})
	if err != nil {
		return matching.Verdict{}, err
	}
	landHolder, ok := holders.lookup(land.UserID)
	if !ok {
		return matching.Verdict{Failed: matching.PredicateHolder}, nil
	}
	shipHolder, ok := holders.lookup(ship.UserID)
	if !ok {
		shipHolder = domain.UserProfile{ID: ship.UserID}
	}
	return s.matcher.Evaluate(matching.Pair{Ship: ship, ShipHolder: shipHolder, Land: land, LandHolder: landHolder}), nil
}

// ProjectRelease exposes the release date projector.
func (s *Service) ProjectRelease(onboard *time.Time, months int) time.Time {
	return s.matcher.ProjectRelease(onboard, months)
}

// holderCache is resolved once per run, before the builder starts, so lookups during
// evaluation never block and never fail.
type holderCache map[domain.UserID]domain.UserProfile

func (s *Service) resolveHolders(ctx context.Context, skip domain.UserID, ids []domain.UserID) (holderCache, error) {
	cache := holderCache{}
	missing := map[domain.UserID]bool{}
	for _, id := range ids {
		if id == skip {
			continue
		}
		if _, ok := cache[id]; ok || missing[id] {
			continue
		}
		u, ok, err := s.directory.LookupHolder(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing[id] = true
			s.logger.WarnContext(ctx, "assignment holder not found", "user_id", string(id))
			continue
		}
		cache[id] = u
	}
	return cache, nil
}

func (c holderCache) lookup(id domain.UserID) (domain.UserProfile, bool) {
	u, ok := c[id]
	return u, ok
}

func (c holderCache) summary(id domain.UserID) domain.UserSummary {
	if u, ok := c[id]; ok {
		return u.Summary()
	}
	return domain.UserSummary{ID: id}
}
