// Package fixture loads users and assignments from a YAML document and runs the match set
// builder over them without any storage.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/matching"
)

const dateLayout = "2006-01-02"

type document struct {
	Now   string `yaml:"now"`
	Users []user `yaml:"users"`
	Ships []ship `yaml:"shipAssignments"`
	Lands []land `yaml:"landAssignments"`
}

type user struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	FleetWorking *string `yaml:"fleetWorking"`
	PresentRank  *string `yaml:"presentRank"`
	Company      *string `yaml:"company"`
	Status       string  `yaml:"status"`
}

type ship struct {
	ID                   string  `yaml:"id"`
	UserID               string  `yaml:"userId"`
	ShipName             string  `yaml:"shipName"`
	FleetType            *string `yaml:"fleetType"`
	Rank                 *string `yaml:"rank"`
	Company              *string `yaml:"company"`
	PortOfJoining        *string `yaml:"portOfJoining"`
	OnboardDate          string  `yaml:"onboardDate"`
	ContractLengthMonths int     `yaml:"contractLengthMonths"`
	Public               *bool   `yaml:"public"`
}

type land struct {
	ID                  string  `yaml:"id"`
	UserID              string  `yaml:"userId"`
	LastVessel          *string `yaml:"lastVessel"`
	FleetType           *string `yaml:"fleetType"`
	Company             *string `yaml:"company"`
	DateHome            string  `yaml:"dateHome"`
	ExpectedJoiningDate string  `yaml:"expectedJoiningDate"`
	Public              *bool   `yaml:"public"`
}

// Set is a decoded fixture. Slices keep document order.
type Set struct {
	// Now pins the projector's fallback date. Nil means the caller's clock.
	Now *time.Time

	Users []domain.UserProfile
	Ships []domain.ShipAssignment
	Lands []domain.LandAssignment

	byID map[domain.UserID]domain.UserProfile
}

// Decode parses a fixture document. Unknown keys are rejected.
func Decode(r io.Reader) (*Set, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc document
	if len(bytes.TrimSpace(b)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse fixture: %w", err)
		}
	}
	return doc.build()
}

func (d document) build() (*Set, error) {
	s := &Set{byID: map[domain.UserID]domain.UserProfile{}}

	now, err := parseDate("now", d.Now)
	if err != nil {
		return nil, err
	}
	s.Now = now

	for i, u := range d.Users {
		id := domain.UserID(strings.TrimSpace(u.ID))
		if id == "" {
			return nil, fmt.Errorf("users[%d]: id is required", i)
		}
		if _, dup := s.byID[id]; dup {
			return nil, fmt.Errorf("users[%d]: duplicate id %q", i, id)
		}
		status := domain.UserStatus(strings.ToUpper(strings.TrimSpace(u.Status)))
		if status == "" {
			status = domain.UserStatusOnLand
		}
		if !status.Valid() {
			return nil, fmt.Errorf("users[%d]: invalid status %q", i, u.Status)
		}
		p := domain.UserProfile{
			ID:               id,
			Name:             u.Name,
			FleetWorking:     u.FleetWorking,
			PresentRank:      u.PresentRank,
			Company:          u.Company,
			CurrentStatus:    status,
			IsProfileVisible: true,
		}
		s.byID[id] = p
		s.Users = append(s.Users, p)
	}

	for i, a := range d.Ships {
		onboard, err := parseDate(fmt.Sprintf("shipAssignments[%d].onboardDate", i), a.OnboardDate)
		if err != nil {
			return nil, err
		}
		months := a.ContractLengthMonths
		if months == 0 {
			months = domain.DefaultContractLengthMonths
		}
		if months < 1 {
			return nil, fmt.Errorf("shipAssignments[%d]: contractLengthMonths must be positive", i)
		}
		if err := s.requireOwner(fmt.Sprintf("shipAssignments[%d]", i), a.ID, a.UserID); err != nil {
			return nil, err
		}
		s.Ships = append(s.Ships, domain.ShipAssignment{
			ID:                   domain.ShipAssignmentID(a.ID),
			UserID:               domain.UserID(a.UserID),
			ShipName:             a.ShipName,
			FleetType:            a.FleetType,
			Rank:                 a.Rank,
			Company:              a.Company,
			PortOfJoining:        a.PortOfJoining,
			OnboardDate:          onboard,
			ContractLengthMonths: months,
			IsPublic:             a.Public == nil || *a.Public,
		})
	}

	for i, a := range d.Lands {
		home, err := parseDate(fmt.Sprintf("landAssignments[%d].dateHome", i), a.DateHome)
		if err != nil {
			return nil, err
		}
		joining, err := parseDate(fmt.Sprintf("landAssignments[%d].expectedJoiningDate", i), a.ExpectedJoiningDate)
		if err != nil {
			return nil, err
		}
		if err := s.requireOwner(fmt.Sprintf("landAssignments[%d]", i), a.ID, a.UserID); err != nil {
			return nil, err
		}
		s.Lands = append(s.Lands, domain.LandAssignment{
			ID:                  domain.LandAssignmentID(a.ID),
			UserID:              domain.UserID(a.UserID),
			LastVessel:          a.LastVessel,
			FleetType:           a.FleetType,
			Company:             a.Company,
			DateHome:            home,
			ExpectedJoiningDate: joining,
			IsPublic:            a.Public == nil || *a.Public,
		})
	}
	return s, nil
}

func (s *Set) requireOwner(where, id, userID string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s: id is required", where)
	}
	if _, ok := s.byID[domain.UserID(userID)]; !ok {
		return fmt.Errorf("%s: unknown userId %q", where, userID)
	}
	return nil
}

func parseDate(field, v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("%s: want YYYY-MM-DD, got %q", field, v)
	}
	return &t, nil
}

// Holder looks up a fixture user.
func (s *Set) Holder(id domain.UserID) (domain.UserProfile, bool) {
	u, ok := s.byID[id]
	return u, ok
}

// ErrUnknownUser is returned by MatchesFor when the requested user is not in the fixture.
var ErrUnknownUser = errors.New("unknown user")

// Row is one match as printed by the CLI.
type Row struct {
	ShipAssignmentID    string `json:"shipAssignmentId"`
	LandAssignmentID    string `json:"landAssignmentId"`
	CounterpartID       string `json:"counterpartId"`
	ExpectedReleaseDate string `json:"expectedReleaseDate"`
}

type Result struct {
	UserID    string `json:"userId"`
	Direction string `json:"direction"`
	Matches   []Row  `json:"matches"`
}

// MatchesFor runs the builder for one user, choosing the direction from their status.
func (s *Set) MatchesFor(m *matching.Matcher, id domain.UserID) (Result, error) {
	me, ok := s.byID[id]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownUser, id)
	}
	res := Result{UserID: string(id), Matches: []Row{}}

	if me.CurrentStatus == domain.UserStatusOnShip {
		res.Direction = "SHIP_TO_LAND"
		own := filter(s.Ships, func(a domain.ShipAssignment) bool { return a.UserID == id })
		pool := filter(s.Lands, func(a domain.LandAssignment) bool { return a.IsPublic })
		for _, pm := range m.LandMatchesFor(me, own, pool, s.Holder) {
			res.Matches = append(res.Matches, Row{
				ShipAssignmentID:    string(pm.Own.ID),
				LandAssignmentID:    string(pm.Candidate.ID),
				CounterpartID:       string(pm.Candidate.UserID),
				ExpectedReleaseDate: m.ProjectRelease(pm.Own.OnboardDate, pm.Own.ContractLengthMonths).Format(dateLayout),
			})
		}
		return res, nil
	}

	res.Direction = "LAND_TO_SHIP"
	own := filter(s.Lands, func(a domain.LandAssignment) bool { return a.UserID == id })
	pool := filter(s.Ships, func(a domain.ShipAssignment) bool { return a.IsPublic })
	for _, pm := range m.ShipMatchesFor(me, own, pool, s.Holder) {
		res.Matches = append(res.Matches, Row{
			ShipAssignmentID:    string(pm.Candidate.ID),
			LandAssignmentID:    string(pm.Own.ID),
			CounterpartID:       string(pm.Candidate.UserID),
			ExpectedReleaseDate: m.ProjectRelease(pm.Candidate.OnboardDate, pm.Candidate.ContractLengthMonths).Format(dateLayout),
		})
	}
	return res, nil
}

// MatchesForAll runs MatchesFor for every user in document order.
func (s *Set) MatchesForAll(m *matching.Matcher) []Result {
	out := make([]Result, 0, len(s.Users))
	for _, u := range s.Users {
		r, _ := s.MatchesFor(m, u.ID)
		out = append(out, r)
	}
	return out
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
