package userrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/userrepo"
)

// Repo is an in-memory implementation of userrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID    map[domain.UserID]userrepo.User
	idBySub map[domain.SubjectID]domain.UserID
}

func NewRepo() *Repo {
	return &Repo{
		byID:    make(map[domain.UserID]userrepo.User),
		idBySub: make(map[domain.SubjectID]domain.UserID),
	}
}

func (r *Repo) Create(ctx context.Context, u userrepo.User) error {
	_ = ctx
	if u.ID == "" {
		return userrepo.ErrAlreadyExists // treat empty ID as invalid; the app layer always assigns one
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[u.ID]; ok {
		return userrepo.ErrAlreadyExists
	}
	if existingID, ok := r.idBySub[u.Subject]; ok && existingID != "" {
		return userrepo.ErrSubjectAlreadyBound
	}

	r.byID[u.ID] = cloneUser(u)
	r.idBySub[u.Subject] = u.ID
	return nil
}

func (r *Repo) Update(ctx context.Context, u userrepo.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[u.ID]
	if !ok {
		return userrepo.ErrNotFound
	}
	// Subject binding is immutable.
	if existing.Subject != u.Subject {
		return userrepo.ErrSubjectAlreadyBound
	}

	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idBySub[subject]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	u, ok := r.byID[id]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Repo) List(ctx context.Context) ([]userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]userrepo.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sortUsersByName(out)
	return out, nil
}

func (r *Repo) SearchVisible(ctx context.Context, query string, limit int) ([]userrepo.User, error) {
	_ = ctx

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []userrepo.User{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]userrepo.User, 0)
	for _, u := range r.byID {
		if !u.IsProfileVisible {
			continue
		}
		if matchesQuery(u, q) {
			out = append(out, cloneUser(u))
		}
	}
	sortUsersByName(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func matchesQuery(u userrepo.User, q string) bool {
	if strings.Contains(strings.ToLower(u.Name), q) {
		return true
	}
	for _, p := range []*string{u.Surname, u.PresentRank, u.FleetWorking, u.Company} {
		if p != nil && strings.Contains(strings.ToLower(*p), q) {
			return true
		}
	}
	return false
}

func cloneUser(u userrepo.User) userrepo.User {
	out := u
	out.Surname = cloneStringPtr(u.Surname)
	out.MobileNumber = cloneStringPtr(u.MobileNumber)
	out.PhotoURL = cloneStringPtr(u.PhotoURL)
	out.FleetWorking = cloneStringPtr(u.FleetWorking)
	out.PresentRank = cloneStringPtr(u.PresentRank)
	out.Company = cloneStringPtr(u.Company)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortUsersByName(us []userrepo.User) {
	sort.Slice(us, func(i, j int) bool {
		ni := strings.ToLower(us[i].Name)
		nj := strings.ToLower(us[j].Name)
		if ni == nj {
			return string(us[i].ID) < string(us[j].ID)
		}
		return ni < nj
	})
}
