package cron

import (
	"context"
	"sync"
	"time"

	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/notify"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const (
	windowStart = 55 * time.Minute
	windowEnd   = 65 * time.Minute
)

// UpcomingLister is implemented by services.ConsultationService.
type UpcomingLister interface {
	Upcoming(ctx context.Context, from, to time.Time) ([]models.Consultation, error)
}

// Reminders emails both parties of accepted consultations that start in
// about an hour. Each consultation is reminded at most once per process.
type Reminders struct {
	consultations UpcomingLister
	notifier      notify.Notifier
	now           func() time.Time
	log           zerolog.Logger

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewReminders(consultations UpcomingLister, notifier notify.Notifier, log zerolog.Logger) *Reminders {
	return &Reminders{
		consultations: consultations,
		notifier:      notifier,
		now:           time.Now,
		log:           log.With().Str("component", "reminders").Logger(),
		sent:          make(map[string]time.Time),
	}
}

// Start schedules the reminder job on spec and starts the scheduler. Stop the
// returned scheduler on shutdown.
func (r *Reminders) Start(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { r.Run(context.Background()) }); err != nil {
		return nil, err
	}
	c.Start()
	r.log.Info().Str("schedule", spec).Msg("reminder scheduler started")
	return c, nil
}

// Run sends reminders for consultations starting 55 to 65 minutes from now.
func (r *Reminders) Run(ctx context.Context) int {
	now := r.now()
	upcoming, err := r.consultations.Upcoming(ctx, now.Add(windowStart), now.Add(windowEnd))
	if err != nil {
		r.log.Error().Err(err).Msg("fetch consultations for reminders")
		return 0
	}

	sent := 0
	for i := range upcoming {
		c := &upcoming[i]
		if !r.claim(c.ID, now) {
			continue
		}
		if err := r.notifier.Notify(ctx, notify.EventReminder, c); err != nil {
			r.log.Warn().Err(err).Str("consultation_id", c.ID).Msg("reminder not delivered")
			r.unclaim(c.ID)
			continue
		}
		sent++
		r.log.Info().Str("consultation_id", c.ID).Str("slot", c.SlotTime+" "+c.SlotDate).Msg("reminder sent")
	}
	r.prune(now)
	return sent
}

func (r *Reminders) claim(id string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sent[id]; ok {
		return false
	}
	r.sent[id] = now
	return true
}

func (r *Reminders) unclaim(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sent, id)
}

// prune forgets reminders older than two hours; their slots have started.
func (r *Reminders) prune(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, at := range r.sent {
		if now.Sub(at) > 2*time.Hour {
			delete(r.sent, id)
		}
	}
}
