package landrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/landrepo"
)

// Repo is an in-memory implementation of landrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.LandAssignmentID]landrepo.Assignment
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.LandAssignmentID]landrepo.Assignment),
	}
}

func (r *Repo) Create(ctx context.Context, a landrepo.Assignment) error {
	_ = ctx
	if a.ID == "" {
		return landrepo.ErrAlreadyExists // treat empty ID as invalid; the app layer always assigns one
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; ok {
		return landrepo.ErrAlreadyExists
	}
	r.byID[a.ID] = cloneAssignment(a)
	return nil
}

func (r *Repo) Update(ctx context.Context, a landrepo.Assignment) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[a.ID]
	if !ok {
		return landrepo.ErrNotFound
	}
	// Ownership and creation time are immutable.
	a.UserID = existing.UserID
	a.CreatedAt = existing.CreatedAt
	r.byID[a.ID] = cloneAssignment(a)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.LandAssignmentID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return landrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.LandAssignmentID) (landrepo.Assignment, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return landrepo.Assignment{}, landrepo.ErrNotFound
	}
	return cloneAssignment(a), nil
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]landrepo.Assignment, error) {
	_ = ctx
	return r.list(func(a landrepo.Assignment) bool { return a.UserID == userID }), nil
}

func (r *Repo) ListPublic(ctx context.Context) ([]landrepo.Assignment, error) {
	_ = ctx
	return r.list(func(a landrepo.Assignment) bool { return a.IsPublic }), nil
}

func (r *Repo) list(keep func(a landrepo.Assignment) bool) []landrepo.Assignment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]landrepo.Assignment, 0)
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

func cloneAssignment(a landrepo.Assignment) landrepo.Assignment {
	out := a
	out.LastVessel = cloneStringPtr(a.LastVessel)
	out.FleetType = cloneStringPtr(a.FleetType)
	out.Company = cloneStringPtr(a.Company)
	out.DateHome = cloneTimePtr(a.DateHome)
	out.ExpectedJoiningDate = cloneTimePtr(a.ExpectedJoiningDate)
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
