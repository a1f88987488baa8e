package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/metrics"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/notify"
	"github.com/Piyush-gour/legal-sathi/repository"
	"github.com/Piyush-gour/legal-sathi/scheduling"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Actor is the authenticated principal performing an operation.
type Actor struct {
	ID   string
	Role models.Role
}

// ConsultationService owns the consultation lifecycle:
// pending -> accepted | rejected, accepted -> completed, plus cancellation
// of pending or accepted consultations.
type ConsultationService struct {
	store    repository.Store
	ledger   *scheduling.Ledger
	notifier notify.Notifier
	loc      *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

type ConsultationOption func(*ConsultationService)

func WithClock(now func() time.Time) ConsultationOption {
	return func(s *ConsultationService) { s.now = now }
}

func WithNotifier(n notify.Notifier) ConsultationOption {
	return func(s *ConsultationService) { s.notifier = n }
}

func NewConsultationService(store repository.Store, ledger *scheduling.Ledger, loc *time.Location, log zerolog.Logger, opts ...ConsultationOption) *ConsultationService {
	s := &ConsultationService{
		store:    store,
		ledger:   ledger,
		notifier: notify.Nop{},
		loc:      loc,
		now:      time.Now,
		log:      log.With().Str("service", "consultation").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateConsultationInput struct {
	LawyerID string        `json:"lawyerId" validate:"required"`
	Medium   models.Medium `json:"consultationType" validate:"required"`
	Message  string        `json:"message" validate:"max=2000"`
	SlotDate string        `json:"slotDate"`
	SlotTime string        `json:"slotTime"`
}

// Create records a pending consultation request from userID.
func (s *ConsultationService) Create(ctx context.Context, userID string, in CreateConsultationInput) (*models.Consultation, error) {
	in.Medium = models.Medium(strings.ToLower(strings.TrimSpace(string(in.Medium))))
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !in.Medium.Valid() {
		return nil, apperror.Validation("consultationType must be one of video, phone or chat")
	}
	if (in.SlotDate == "") != (in.SlotTime == "") {
		return nil, apperror.Validation("slotDate and slotTime must be given together")
	}
	if in.SlotDate != "" {
		if err := s.checkSlot(in.SlotDate, in.SlotTime); err != nil {
			return nil, err
		}
	}

	user, lawyer, err := s.parties(ctx, userID, in.LawyerID)
	if err != nil {
		return nil, err
	}

	if in.SlotDate != "" {
		booked, err := s.ledger.IsBooked(ctx, lawyer.ID, in.SlotDate, in.SlotTime)
		if err != nil {
			return nil, err
		}
		if booked {
			metrics.SlotConflicts.Inc()
			return nil, apperror.SlotUnavailable(in.SlotDate, in.SlotTime)
		}
	}

	c := newConsultation(user, lawyer, in.Medium, models.OriginRequest, in.Message, in.SlotDate, in.SlotTime)
	c.Status = models.StatusPending
	if err := s.store.CreateConsultation(ctx, c); err != nil {
		return nil, apperror.Internal(err, "failed to create consultation")
	}

	s.record(ctx, notify.EventRequested, c)
	return c, nil
}

type BookAppointmentInput struct {
	LawyerID string        `json:"docId" validate:"required"`
	SlotDate string        `json:"slotDate" validate:"required"`
	SlotTime string        `json:"slotTime" validate:"required"`
	Medium   models.Medium `json:"consultationType"`
	Message  string        `json:"message" validate:"max=2000"`
}

// BookAppointment reserves the slot first and then stores an already
// accepted consultation priced at the lawyer's fee. The slot is released if
// the record cannot be stored.
func (s *ConsultationService) BookAppointment(ctx context.Context, userID string, in BookAppointmentInput) (*models.Consultation, error) {
	in.Medium = models.Medium(strings.ToLower(strings.TrimSpace(string(in.Medium))))
	if in.Medium == "" {
		in.Medium = models.MediumVideo
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !in.Medium.Valid() {
		return nil, apperror.Validation("consultationType must be one of video, phone or chat")
	}
	if err := s.checkSlot(in.SlotDate, in.SlotTime); err != nil {
		return nil, err
	}

	user, lawyer, err := s.parties(ctx, userID, in.LawyerID)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Book(ctx, lawyer.ID, in.SlotDate, in.SlotTime); err != nil {
		return nil, err
	}

	now := s.now()
	c := newConsultation(user, lawyer, in.Medium, models.OriginAppointment, in.Message, in.SlotDate, in.SlotTime)
	c.Status = models.StatusAccepted
	c.AcceptedAt = &now
	c.SlotReserved = true
	if err := s.store.CreateConsultation(ctx, c); err != nil {
		s.release(ctx, c)
		return nil, apperror.Internal(err, "failed to book appointment")
	}

	s.record(ctx, notify.EventBooked, c)
	return c, nil
}

// Accept moves a pending request to accepted, reserving its preferred slot
// first. If the slot is gone the request stays pending.
func (s *ConsultationService) Accept(ctx context.Context, lawyerID, id string) (*models.Consultation, error) {
	c, err := s.forLawyer(ctx, lawyerID, id)
	if err != nil {
		return nil, err
	}
	guard := c.Guard()
	if err := c.Transition(models.StatusAccepted, s.now()); err != nil {
		return nil, err
	}

	if c.HasSlot() && !c.SlotReserved {
		if err := s.ledger.Book(ctx, c.LawyerID, c.SlotDate, c.SlotTime); err != nil {
			return nil, err
		}
		c.SlotReserved = true
	}

	if err := s.commit(ctx, c, guard); err != nil {
		if c.SlotReserved {
			s.release(ctx, c)
		}
		return nil, err
	}

	s.record(ctx, notify.EventAccepted, c)
	return c, nil
}

func (s *ConsultationService) Reject(ctx context.Context, lawyerID, id string) (*models.Consultation, error) {
	return s.transition(ctx, lawyerID, id, models.StatusRejected, notify.EventRejected)
}

func (s *ConsultationService) Complete(ctx context.Context, lawyerID, id string) (*models.Consultation, error) {
	return s.transition(ctx, lawyerID, id, models.StatusCompleted, notify.EventCompleted)
}

// Cancel flags the consultation cancelled and frees its reserved slot.
// Users and lawyers may cancel their own consultations, admins any.
func (s *ConsultationService) Cancel(ctx context.Context, actor Actor, id string) (*models.Consultation, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, c) {
		return nil, apperror.Forbidden("you cannot cancel this consultation")
	}

	guard := c.Guard()
	if err := c.Cancel(s.now()); err != nil {
		return nil, err
	}
	reserved := c.SlotReserved
	c.SlotReserved = false
	if err := s.commit(ctx, c, guard); err != nil {
		return nil, err
	}

	if reserved {
		s.release(ctx, c)
	}
	s.record(ctx, notify.EventCancelled, c)
	return c, nil
}

// Get returns a consultation visible to actor.
func (s *ConsultationService) Get(ctx context.Context, actor Actor, id string) (*models.Consultation, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, c) {
		return nil, apperror.Forbidden("you cannot access this consultation")
	}
	return c, nil
}

func (s *ConsultationService) ListForUser(ctx context.Context, userID string) ([]models.Consultation, error) {
	return s.list(ctx, repository.ConsultationFilter{UserID: userID})
}

func (s *ConsultationService) ListForLawyer(ctx context.Context, lawyerID string) ([]models.Consultation, error) {
	return s.list(ctx, repository.ConsultationFilter{LawyerID: lawyerID})
}

func (s *ConsultationService) ListAll(ctx context.Context) ([]models.Consultation, error) {
	return s.list(ctx, repository.ConsultationFilter{})
}

// Upcoming returns accepted, non-cancelled consultations whose slot starts
// within [from, to].
func (s *ConsultationService) Upcoming(ctx context.Context, from, to time.Time) ([]models.Consultation, error) {
	all, err := s.list(ctx, repository.ConsultationFilter{
		Statuses:     []models.ConsultationStatus{models.StatusAccepted},
		NotCancelled: true,
	})
	if err != nil {
		return nil, err
	}
	out := make([]models.Consultation, 0)
	for _, c := range all {
		if !c.HasSlot() {
			continue
		}
		start, err := scheduling.SlotTime(c.SlotDate, c.SlotTime, s.loc)
		if err != nil {
			continue
		}
		if !start.Before(from) && !start.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *ConsultationService) list(ctx context.Context, f repository.ConsultationFilter) ([]models.Consultation, error) {
	out, err := s.store.ListConsultations(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list consultations")
	}
	if out == nil {
		out = []models.Consultation{}
	}
	return out, nil
}

func (s *ConsultationService) transition(ctx context.Context, lawyerID, id string, to models.ConsultationStatus, event notify.Event) (*models.Consultation, error) {
	c, err := s.forLawyer(ctx, lawyerID, id)
	if err != nil {
		return nil, err
	}
	guard := c.Guard()
	if err := c.Transition(to, s.now()); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, c, guard); err != nil {
		return nil, err
	}
	s.record(ctx, event, c)
	return c, nil
}

// forLawyer loads the consultation and checks ownership before any state
// check, so a foreign lawyer always gets forbidden.
func (s *ConsultationService) forLawyer(ctx context.Context, lawyerID, id string) (*models.Consultation, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.LawyerID != lawyerID {
		return nil, apperror.Forbidden("this consultation belongs to another lawyer")
	}
	return c, nil
}

func (s *ConsultationService) load(ctx context.Context, id string) (*models.Consultation, error) {
	if id == "" {
		return nil, apperror.Validation("consultation id is required")
	}
	c, err := s.store.GetConsultation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("consultation not found")
		}
		return nil, apperror.Internal(err, "failed to load consultation")
	}
	return c, nil
}

func (s *ConsultationService) commit(ctx context.Context, c *models.Consultation, guard models.Guard) error {
	err := s.store.UpdateConsultationIf(ctx, c, guard)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrStaleState):
		return apperror.InvalidTransition("consultation was modified concurrently")
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound("consultation not found")
	}
	return apperror.Internal(err, "failed to update consultation")
}

// parties loads the requesting user and the target lawyer and checks that
// the lawyer can take bookings.
func (s *ConsultationService) parties(ctx context.Context, userID, lawyerID string) (*models.User, *models.Lawyer, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperror.NotFound("user not found")
		}
		return nil, nil, apperror.Internal(err, "failed to load user")
	}
	if user.Blocked {
		return nil, nil, apperror.Forbidden("this account has been blocked")
	}

	lawyer, err := s.store.GetLawyerByID(ctx, lawyerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperror.NotFound("lawyer not found")
		}
		return nil, nil, apperror.Internal(err, "failed to load lawyer")
	}
	if !lawyer.Approved {
		return nil, nil, apperror.New(apperror.KindLawyerNotApproved, "lawyer is not approved")
	}
	if !lawyer.Available {
		return nil, nil, apperror.New(apperror.KindLawyerUnavailable, "lawyer is not available")
	}
	return user, lawyer, nil
}

// checkSlot validates the slot format and refuses slots that already started.
func (s *ConsultationService) checkSlot(dateKey, timeLabel string) error {
	start, err := scheduling.SlotTime(dateKey, timeLabel, s.loc)
	if err != nil {
		return apperror.Validation("%v", err)
	}
	if start.Before(s.now()) {
		return apperror.Validation("slot %s on %s is in the past", timeLabel, dateKey)
	}
	return nil
}

func (s *ConsultationService) release(ctx context.Context, c *models.Consultation) {
	if err := s.ledger.Release(ctx, c.LawyerID, c.SlotDate, c.SlotTime); err != nil {
		s.log.Error().Err(err).Str("consultation_id", c.ID).
			Str("slot_date", c.SlotDate).Str("slot_time", c.SlotTime).
			Msg("failed to release slot")
	}
}

func (s *ConsultationService) record(ctx context.Context, event notify.Event, c *models.Consultation) {
	metrics.ConsultationTransitions.WithLabelValues(string(event), string(c.Origin)).Inc()
	s.log.Info().Str("consultation_id", c.ID).Str("event", string(event)).
		Str("status", string(c.Status)).Bool("cancelled", c.Cancelled).Msg("consultation updated")
	if err := s.notifier.Notify(ctx, event, c); err != nil {
		s.log.Warn().Err(err).Str("consultation_id", c.ID).Msg("notification not delivered")
	}
}

func canAccess(actor Actor, c *models.Consultation) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
		return c.UserID == actor.ID
	case models.RoleLawyer:
		return c.LawyerID == actor.ID
	}
	return false
}

func newConsultation(user *models.User, lawyer *models.Lawyer, medium models.Medium, origin models.Origin, message, slotDate, slotTime string) *models.Consultation {
	return &models.Consultation{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		LawyerID:    lawyer.ID,
		UserName:    user.Name,
		UserEmail:   user.Email,
		LawyerName:  lawyer.Name,
		LawyerEmail: lawyer.Email,
		Medium:      medium,
		Origin:      origin,
		Message:     strings.TrimSpace(message),
		SlotDate:    slotDate,
		SlotTime:    slotTime,
		Amount:      lawyer.Fees,
	}
}
