// Package memory is an in-process Store used by tests and local runs.
// Every method copies records in and out so callers never share state with
// the store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/repository"
)

type Store struct {
	mu            sync.RWMutex
	users         map[string]models.User
	lawyers       map[string]models.Lawyer
	admins        map[string]models.Admin
	consultations map[string]models.Consultation
	now           func() time.Time
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:         make(map[string]models.User),
		lawyers:       make(map[string]models.Lawyer),
		admins:        make(map[string]models.Admin),
		consultations: make(map[string]models.Consultation),
		now:           time.Now,
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }

func (s *Store) touch(created *time.Time, updated *time.Time) {
	now := s.now()
	if created != nil && created.IsZero() {
		*created = now
	}
	*updated = now
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicate
		}
	}
	s.touch(&u.CreatedAt, &u.UpdatedAt)
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	s.touch(nil, &u.UpdatedAt)
	s.users[u.ID] = *u
	return nil
}

func (s *Store) SetUserBlocked(ctx context.Context, id string, blocked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Blocked = blocked
	s.touch(nil, &u.UpdatedAt)
	s.users[id] = u
	return nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

// Lawyers

func (s *Store) CreateLawyer(ctx context.Context, l *models.Lawyer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lawyers[l.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, existing := range s.lawyers {
		if strings.EqualFold(existing.Email, l.Email) {
			return repository.ErrDuplicate
		}
		if l.BarID != nil && existing.BarID != nil && *existing.BarID == *l.BarID {
			return repository.ErrDuplicate
		}
	}
	s.touch(&l.CreatedAt, &l.UpdatedAt)
	stored := *l
	stored.SlotsBooked = l.SlotsBooked.Clone()
	s.lawyers[l.ID] = stored
	return nil
}

func (s *Store) GetLawyerByID(ctx context.Context, id string) (*models.Lawyer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lawyers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyLawyer(l), nil
}

func (s *Store) GetLawyerByEmail(ctx context.Context, email string) (*models.Lawyer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lawyers {
		if strings.EqualFold(l.Email, email) {
			return copyLawyer(l), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) UpdateLawyerProfile(ctx context.Context, l *models.Lawyer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.lawyers[l.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = l.Name
	stored.Image = l.Image
	stored.Speciality = l.Speciality
	stored.Qualification = l.Qualification
	stored.Experience = l.Experience
	stored.About = l.About
	stored.Fees = l.Fees
	stored.Address = l.Address
	s.touch(nil, &stored.UpdatedAt)
	l.UpdatedAt = stored.UpdatedAt
	s.lawyers[l.ID] = stored
	return nil
}

func (s *Store) ListLawyers(ctx context.Context, f repository.LawyerFilter) ([]models.Lawyer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Lawyer, 0, len(s.lawyers))
	for _, l := range s.lawyers {
		if matchLawyer(l, f) {
			out = append(out, *copyLawyer(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) SetLawyerApproved(ctx context.Context, id string, approved bool) error {
	return s.updateLawyer(id, func(l *models.Lawyer) { l.Approved = approved })
}

func (s *Store) SetLawyerAvailable(ctx context.Context, id string, available bool) error {
	return s.updateLawyer(id, func(l *models.Lawyer) { l.Available = available })
}

func (s *Store) DeletePendingLawyer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lawyers[id]
	if !ok || l.Approved {
		return repository.ErrNotFound
	}
	delete(s.lawyers, id)
	return nil
}

func (s *Store) CountLawyers(ctx context.Context, f repository.LawyerFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, l := range s.lawyers {
		if matchLawyer(l, f) {
			n++
		}
	}
	return n, nil
}

func (s *Store) updateLawyer(id string, fn func(l *models.Lawyer)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lawyers[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&l)
	s.touch(nil, &l.UpdatedAt)
	s.lawyers[id] = l
	return nil
}

// Ledger

func (s *Store) BookSlot(ctx context.Context, lawyerID, dateKey, timeLabel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lawyers[lawyerID]
	if !ok {
		return repository.ErrNotFound
	}
	booked := l.SlotsBooked.Clone()
	if !booked.Add(dateKey, timeLabel) {
		return repository.ErrSlotTaken
	}
	l.SlotsBooked = booked
	s.touch(nil, &l.UpdatedAt)
	s.lawyers[lawyerID] = l
	return nil
}

func (s *Store) ReleaseSlot(ctx context.Context, lawyerID, dateKey, timeLabel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lawyers[lawyerID]
	if !ok {
		return repository.ErrNotFound
	}
	if !l.SlotsBooked.Has(dateKey, timeLabel) {
		return nil
	}
	booked := l.SlotsBooked.Clone()
	booked.Remove(dateKey, timeLabel)
	l.SlotsBooked = booked
	s.touch(nil, &l.UpdatedAt)
	s.lawyers[lawyerID] = l
	return nil
}

func (s *Store) BookedSlots(ctx context.Context, lawyerID string) (models.SlotsBooked, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lawyers[lawyerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return l.SlotsBooked.Clone(), nil
}

// Consultations

func (s *Store) CreateConsultation(ctx context.Context, c *models.Consultation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.consultations[c.ID]; ok {
		return repository.ErrDuplicate
	}
	s.touch(&c.CreatedAt, &c.UpdatedAt)
	s.consultations[c.ID] = *c
	return nil
}

func (s *Store) GetConsultation(ctx context.Context, id string) (*models.Consultation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.consultations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListConsultations(ctx context.Context, f repository.ConsultationFilter) ([]models.Consultation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Consultation, 0)
	for _, c := range s.consultations {
		if matchConsultation(c, f) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) UpdateConsultationIf(ctx context.Context, c *models.Consultation, guard models.Guard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.consultations[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != guard.Status || stored.Cancelled != guard.Cancelled {
		return repository.ErrStaleState
	}
	s.touch(nil, &c.UpdatedAt)
	c.CreatedAt = stored.CreatedAt
	s.consultations[c.ID] = *c
	return nil
}

func (s *Store) CountConsultations(ctx context.Context, f repository.ConsultationFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, c := range s.consultations {
		if matchConsultation(c, f) {
			n++
		}
	}
	return n, nil
}

func (s *Store) LawyerEarnings(ctx context.Context, lawyerID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, c := range s.consultations {
		if c.LawyerID == lawyerID && (c.Status == models.StatusCompleted || c.Paid) {
			total += int64(c.Amount)
		}
	}
	return total, nil
}

// Admins

func (s *Store) UpsertAdmin(ctx context.Context, a *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.admins {
		if strings.EqualFold(existing.Email, a.Email) {
			a.ID = id
			a.CreatedAt = existing.CreatedAt
			break
		}
	}
	s.touch(&a.CreatedAt, &a.UpdatedAt)
	s.admins[a.ID] = *a
	return nil
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if strings.EqualFold(a.Email, email) {
			a := a
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.admins[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func copyLawyer(l models.Lawyer) *models.Lawyer {
	l.SlotsBooked = l.SlotsBooked.Clone()
	return &l
}

func matchLawyer(l models.Lawyer, f repository.LawyerFilter) bool {
	if f.Approved != nil && l.Approved != *f.Approved {
		return false
	}
	if f.Available != nil && l.Available != *f.Available {
		return false
	}
	return true
}

func matchConsultation(c models.Consultation, f repository.ConsultationFilter) bool {
	if f.UserID != "" && c.UserID != f.UserID {
		return false
	}
	if f.LawyerID != "" && c.LawyerID != f.LawyerID {
		return false
	}
	if f.NotCancelled && c.Cancelled {
		return false
	}
	if len(f.Statuses) > 0 {
		for _, st := range f.Statuses {
			if c.Status == st {
				return true
			}
		}
		return false
	}
	return true
}
