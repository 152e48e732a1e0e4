// Package testsupport holds in-memory stand-ins for the Postgres
// repositories and external services, for service and HTTP tests.
package testsupport

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"counsel_hub/internal/common"
	"counsel_hub/internal/common/query"
	"counsel_hub/internal/domain/model"
	"counsel_hub/internal/domain/repository"
)

// Store shares one lock across all tables so cross-table reads (appointment
// summaries) see a consistent view.
type Store struct {
	mu     sync.Mutex
	admins map[string]model.Admin
	blogs  map[string]model.Blog
	appts  map[string]model.Appointment
	slots  map[string]string
	now    func() time.Time

	// FailBlogUpdate makes the next blog Update return this error.
	FailBlogUpdate error
}

func NewStore() *Store {
	return &Store{
		admins: map[string]model.Admin{},
		blogs:  map[string]model.Blog{},
		appts:  map[string]model.Appointment{},
		slots:  map[string]string{},
		now:    time.Now,
	}
}

func (s *Store) Admins() repository.AdminRepository             { return adminRepo{s} }
func (s *Store) Blogs() repository.BlogRepository               { return blogRepo{s} }
func (s *Store) Appointments() repository.AppointmentRepository { return apptRepo{s} }

func notFound(op string) error { return fmt.Errorf("%s: %w", op, common.ErrNotFound) }

type adminRepo struct{ s *Store }

func (r adminRepo) Create(_ context.Context, a *model.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.admins {
		if existing.Email == a.Email {
			return fmt.Errorf("memory admins email: %w", common.ErrConflict)
		}
	}
	a.CreatedAt, a.UpdatedAt = r.s.now(), r.s.now()
	r.s.admins[a.ID] = *a
	return nil
}

func (r adminRepo) FindByEmail(_ context.Context, email string) (*model.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, notFound("memory admins")
}

func (r adminRepo) FindByID(_ context.Context, id string) (*model.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.admins[id]
	if !ok {
		return nil, notFound("memory admins")
	}
	return &a, nil
}

func (r adminRepo) UpdateDetails(_ context.Context, id, name, email string) (*model.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.admins[id]
	if !ok {
		return nil, notFound("memory admins")
	}
	for otherID, other := range r.s.admins {
		if otherID != id && other.Email == email {
			return nil, fmt.Errorf("memory admins email: %w", common.ErrConflict)
		}
	}
	a.Name, a.Email, a.UpdatedAt = name, email, r.s.now()
	r.s.admins[id] = a
	return &a, nil
}

func (r adminRepo) UpdatePassword(_ context.Context, id, hashedPassword string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.admins[id]
	if !ok {
		return notFound("memory admins")
	}
	a.HashedPassword = hashedPassword
	r.s.admins[id] = a
	return nil
}

type blogRepo struct{ s *Store }

func cloneBlog(b model.Blog) model.Blog {
	b.Tags = append([]string(nil), b.Tags...)
	if b.Image != nil {
		img := *b.Image
		b.Image = &img
	}
	return b
}

func (r blogRepo) Create(_ context.Context, b *model.Blog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.CreatedAt, b.UpdatedAt = r.s.now(), r.s.now()
	r.s.blogs[b.ID] = cloneBlog(*b)
	return nil
}

func (r blogRepo) FindByID(_ context.Context, id string) (*model.Blog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.blogs[id]
	if !ok {
		return nil, notFound("memory blogs")
	}
	b = cloneBlog(b)
	return &b, nil
}

// List pages newest first. Filters are not evaluated in memory.
func (r blogRepo) List(_ context.Context, opts *query.Options) ([]model.Blog, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]model.Blog, 0, len(r.s.blogs))
	for _, b := range r.s.blogs {
		all = append(all, cloneBlog(b))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, opts), len(all), nil
}

func (r blogRepo) Update(_ context.Context, b *model.Blog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailBlogUpdate; err != nil {
		r.s.FailBlogUpdate = nil
		return err
	}
	if _, ok := r.s.blogs[b.ID]; !ok {
		return notFound("memory blogs")
	}
	b.UpdatedAt = r.s.now()
	r.s.blogs[b.ID] = cloneBlog(*b)
	return nil
}

func (r blogRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.blogs[id]; !ok {
		return notFound("memory blogs")
	}
	delete(r.s.blogs, id)
	return nil
}

type apptRepo struct{ s *Store }

// withSummaries must be called with the lock held.
func (s *Store) withSummaries(a model.Appointment) model.Appointment {
	if u, ok := s.admins[a.UserID]; ok {
		a.User = &model.AccountSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	if c, ok := s.admins[a.CounselorID]; ok {
		a.Counselor = &model.AccountSummary{ID: c.ID, Name: c.Name, Email: c.Email}
	}
	return a
}

func (r apptRepo) Create(_ context.Context, a *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := a.Slot().Key()
	if _, taken := r.s.slots[key]; taken {
		return fmt.Errorf("memory appointments: %w", common.ErrSlotTaken)
	}
	if _, ok := r.s.admins[a.CounselorID]; !ok {
		return notFound("memory appointments counselor")
	}
	a.CreatedAt, a.UpdatedAt = r.s.now(), r.s.now()
	r.s.slots[key] = a.ID
	stored := *a
	stored.User, stored.Counselor = nil, nil
	r.s.appts[a.ID] = stored
	return nil
}

func (r apptRepo) FindByID(_ context.Context, id string) (*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appts[id]
	if !ok {
		return nil, notFound("memory appointments")
	}
	a = r.s.withSummaries(a)
	return &a, nil
}

func (r apptRepo) SlotTaken(_ context.Context, slot model.Slot, excludeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owner, taken := r.s.slots[slot.Key()]
	return taken && owner != excludeID, nil
}

func (r apptRepo) List(_ context.Context, opts *query.Options) ([]model.Appointment, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]model.Appointment, 0, len(r.s.appts))
	for _, a := range r.s.appts {
		all = append(all, r.s.withSummaries(a))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, opts), len(all), nil
}

func (r apptRepo) ListByCounselor(_ context.Context, counselorID string) ([]model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Appointment{}
	for _, a := range r.s.appts {
		if a.CounselorID == counselorID {
			out = append(out, r.s.withSummaries(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot().Key() < out[j].Slot().Key() })
	return out, nil
}

func (r apptRepo) Update(_ context.Context, a *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.appts[a.ID]
	if !ok {
		return notFound("memory appointments")
	}
	oldKey, newKey := old.Slot().Key(), a.Slot().Key()
	if owner, taken := r.s.slots[newKey]; taken && owner != a.ID {
		return fmt.Errorf("memory appointments: %w", common.ErrSlotTaken)
	}
	delete(r.s.slots, oldKey)
	r.s.slots[newKey] = a.ID
	a.UpdatedAt = r.s.now()
	stored := *a
	stored.User, stored.Counselor = nil, nil
	r.s.appts[a.ID] = stored
	return nil
}

func (r apptRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appts[id]
	if !ok {
		return notFound("memory appointments")
	}
	delete(r.s.slots, a.Slot().Key())
	delete(r.s.appts, id)
	return nil
}

func page[T any](all []T, opts *query.Options) []T {
	start := opts.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := start + opts.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
