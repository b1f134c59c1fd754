package shiprepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/shiprepo"
)

// Repo is an in-memory implementation of shiprepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ShipAssignmentID]shiprepo.Assignment
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.ShipAssignmentID]shiprepo.Assignment),
	}
}

func (r *Repo) Create(ctx context.Context, a shiprepo.Assignment) error {
	_ = ctx
	if a.ID == "" {
		return shiprepo.ErrAlreadyExists // treat empty ID as invalid; the app layer always assigns one
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; ok {
		return shiprepo.ErrAlreadyExists
	}
	r.byID[a.ID] = cloneAssignment(a)
	return nil
}

func (r *Repo) Update(ctx context.Context, a shiprepo.Assignment) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[a.ID]
	if !ok {
		return shiprepo.ErrNotFound
	}
	// Ownership and creation time are immutable.
	a.UserID = existing.UserID
	a.CreatedAt = existing.CreatedAt
	r.byID[a.ID] = cloneAssignment(a)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ShipAssignmentID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return shiprepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ShipAssignmentID) (shiprepo.Assignment, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return shiprepo.Assignment{}, shiprepo.ErrNotFound
	}
	return cloneAssignment(a), nil
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]shiprepo.Assignment, error) {
	_ = ctx
	return r.list(func(a shiprepo.Assignment) bool { return a.UserID == userID }), nil
}

func (r *Repo) ListPublic(ctx context.Context) ([]shiprepo.Assignment, error) {
	_ = ctx
	return r.list(func(a shiprepo.Assignment) bool { return a.IsPublic }), nil
}

func (r *Repo) list(keep func(a shiprepo.Assignment) bool) []shiprepo.Assignment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shiprepo.Assignment, 0)
	for _, a := range r.byID {
		if keep(a) {
			out = append(out, cloneAssignment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return string(out[i].ID) < string(out[j].ID)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func cloneAssignment(a shiprepo.Assignment) shiprepo.Assignment {
	out := a
	out.FleetType = cloneStringPtr(a.FleetType)
	out.Rank = cloneStringPtr(a.Rank)
	out.Company = cloneStringPtr(a.Company)
	out.PortOfJoining = cloneStringPtr(a.PortOfJoining)
	out.OnboardDate = cloneTimePtr(a.OnboardDate)
	out.SignOffDate = cloneTimePtr(a.SignOffDate)
	out.Email = cloneStringPtr(a.Email)
	out.MobileNumber = cloneStringPtr(a.MobileNumber)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
