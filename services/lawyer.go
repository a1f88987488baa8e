package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/repository"
	"github.com/Piyush-gour/legal-sathi/scheduling"
	"github.com/rs/zerolog"
)

const (
	listingCacheKey = "lawyers:available"
	listingCacheTTL = 5 * time.Minute
)

// Cache stores JSON encoded values. Get reports false on a miss.
type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type noCache struct{}

func (noCache) Get(context.Context, string, interface{}) (bool, error)        { return false, nil }
func (noCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (noCache) Delete(context.Context, ...string) error                       { return nil }

// LawyerService covers the lawyer directory: public listing, slot calendar,
// profile edits, availability and the admin approval workflow.
type LawyerService struct {
	store  repository.Store
	ledger *scheduling.Ledger
	cache  Cache
	loc    *time.Location
	now    func() time.Time
	log    zerolog.Logger
}

func NewLawyerService(store repository.Store, ledger *scheduling.Ledger, cache Cache, loc *time.Location, log zerolog.Logger) *LawyerService {
	if cache == nil {
		cache = noCache{}
	}
	return &LawyerService{
		store:  store,
		ledger: ledger,
		cache:  cache,
		loc:    loc,
		now:    time.Now,
		log:    log.With().Str("service", "lawyer").Logger(),
	}
}

// ListAvailable returns approved, available lawyers in listing form.
func (s *LawyerService) ListAvailable(ctx context.Context) ([]models.LawyerCard, error) {
	var cards []models.LawyerCard
	hit, err := s.cache.Get(ctx, listingCacheKey, &cards)
	if err != nil {
		s.log.Warn().Err(err).Msg("listing cache read failed")
	}
	if hit {
		return cards, nil
	}

	approved, available := true, true
	lawyers, err := s.store.ListLawyers(ctx, repository.LawyerFilter{Approved: &approved, Available: &available})
	if err != nil {
		return nil, apperror.Internal(err, "failed to list lawyers")
	}
	cards = make([]models.LawyerCard, 0, len(lawyers))
	for i := range lawyers {
		if lawyers[i].Bookable() {
			cards = append(cards, lawyers[i].Card())
		}
	}

	if err := s.cache.Set(ctx, listingCacheKey, cards, listingCacheTTL); err != nil {
		s.log.Warn().Err(err).Msg("listing cache write failed")
	}
	return cards, nil
}

// Public returns one approved lawyer. Unapproved lawyers are reported as
// not found so they never leak into client views.
func (s *LawyerService) Public(ctx context.Context, id string) (*models.LawyerCard, error) {
	lawyer, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lawyer.Approved {
		return nil, apperror.NotFound("lawyer not found")
	}
	card := lawyer.Card()
	return &card, nil
}

// Slots lists the lawyer's open slots for the coming week.
func (s *LawyerService) Slots(ctx context.Context, id string) ([]scheduling.DaySlots, error) {
	lawyer, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lawyer.Approved {
		return nil, apperror.NotFound("lawyer not found")
	}
	booked, err := s.ledger.Booked(ctx, id)
	if err != nil {
		return nil, err
	}
	return scheduling.Generate(s.now().In(s.loc), booked), nil
}

func (s *LawyerService) Profile(ctx context.Context, id string) (*models.Lawyer, error) {
	return s.get(ctx, id)
}

type UpdateLawyerInput struct {
	Name          *string `json:"name" validate:"omitempty,min=2,max=100"`
	Speciality    *string `json:"speciality" validate:"omitempty,max=100"`
	Qualification *string `json:"qualification" validate:"omitempty,max=200"`
	Experience    *string `json:"experience" validate:"omitempty,max=50"`
	About         *string `json:"about" validate:"omitempty,max=2000"`
	Fees          *int    `json:"fees" validate:"omitempty,gte=0"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	Image         string  `json:"-"`
}

func (s *LawyerService) UpdateProfile(ctx context.Context, id string, in UpdateLawyerInput) (*models.Lawyer, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	lawyer, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	setString(&lawyer.Name, in.Name)
	setString(&lawyer.Speciality, in.Speciality)
	setString(&lawyer.Qualification, in.Qualification)
	setString(&lawyer.Experience, in.Experience)
	setString(&lawyer.About, in.About)
	setString(&lawyer.Address, in.Address)
	if in.Fees != nil {
		lawyer.Fees = *in.Fees
	}
	if in.Image != "" {
		lawyer.Image = in.Image
	}

	if err := s.store.UpdateLawyerProfile(ctx, lawyer); err != nil {
		return nil, storeErr(err, "lawyer not found", "failed to update lawyer")
	}
	s.invalidate(ctx)
	return lawyer, nil
}

// ToggleAvailability flips the lawyer's available flag and returns the new
// value.
func (s *LawyerService) ToggleAvailability(ctx context.Context, id string) (bool, error) {
	lawyer, err := s.get(ctx, id)
	if err != nil {
		return false, err
	}
	next := !lawyer.Available
	if err := s.store.SetLawyerAvailable(ctx, id, next); err != nil {
		return false, storeErr(err, "lawyer not found", "failed to change availability")
	}
	s.invalidate(ctx)
	s.log.Info().Str("lawyer_id", id).Bool("available", next).Msg("availability changed")
	return next, nil
}

func (s *LawyerService) ListAll(ctx context.Context) ([]models.Lawyer, error) {
	return s.list(ctx, repository.LawyerFilter{})
}

func (s *LawyerService) ListPending(ctx context.Context) ([]models.Lawyer, error) {
	approved := false
	return s.list(ctx, repository.LawyerFilter{Approved: &approved})
}

func (s *LawyerService) Approve(ctx context.Context, id string) error {
	if id == "" {
		return apperror.Validation("lawyerId is required")
	}
	if err := s.store.SetLawyerApproved(ctx, id, true); err != nil {
		return storeErr(err, "lawyer not found", "failed to approve lawyer")
	}
	s.invalidate(ctx)
	s.log.Info().Str("lawyer_id", id).Msg("lawyer approved")
	return nil
}

// Reject deletes a lawyer registration that is still awaiting approval.
func (s *LawyerService) Reject(ctx context.Context, id string) error {
	if id == "" {
		return apperror.Validation("lawyerId is required")
	}
	if err := s.store.DeletePendingLawyer(ctx, id); err != nil {
		return storeErr(err, "pending lawyer not found", "failed to reject lawyer")
	}
	s.invalidate(ctx)
	s.log.Info().Str("lawyer_id", id).Msg("lawyer registration rejected")
	return nil
}

func (s *LawyerService) list(ctx context.Context, f repository.LawyerFilter) ([]models.Lawyer, error) {
	lawyers, err := s.store.ListLawyers(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list lawyers")
	}
	if lawyers == nil {
		lawyers = []models.Lawyer{}
	}
	return lawyers, nil
}

func (s *LawyerService) get(ctx context.Context, id string) (*models.Lawyer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.Validation("lawyer id is required")
	}
	lawyer, err := s.store.GetLawyerByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "lawyer not found", "failed to load lawyer")
	}
	return lawyer, nil
}

func (s *LawyerService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, listingCacheKey); err != nil {
		s.log.Warn().Err(err).Msg("listing cache invalidation failed")
	}
}

func storeErr(err error, notFound, internal string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("%s", notFound)
	}
	return apperror.Internal(err, "%s", internal)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
