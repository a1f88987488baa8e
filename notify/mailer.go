package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/Piyush-gour/legal-sathi/metrics"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

type MailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// QueueSize bounds the number of unsent emails held in memory.
	QueueSize int
}

type envelope struct {
	event Event
	msg   *gomail.Message
}

// Mailer renders consultation emails and sends them over SMTP from a
// background worker started with Run.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	queue  chan envelope
	log    zerolog.Logger
}

func NewMailer(cfg MailerConfig, log zerolog.Logger) *Mailer {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.Username,
		queue:  make(chan envelope, cfg.QueueSize),
		log:    log.With().Str("component", "mailer").Logger(),
	}
}

// Notify queues one email per recipient. A full queue drops the email.
func (m *Mailer) Notify(ctx context.Context, event Event, c *models.Consultation) error {
	for _, r := range recipients(event, c) {
		if r.email == "" {
			continue
		}
		subject, body := Render(event, c, r.name)
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.from)
		msg.SetHeader("To", r.email)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/html", body)

		select {
		case m.queue <- envelope{event: event, msg: msg}:
		default:
			metrics.EmailsSent.WithLabelValues(string(event), "dropped").Inc()
			return fmt.Errorf("mail queue full, dropped %s email for consultation %s", event, c.ID)
		}
	}
	return nil
}

// Run sends queued emails until ctx is cancelled.
func (m *Mailer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-m.queue:
			m.send(env)
		}
	}
}

func (m *Mailer) send(env envelope) {
	start := time.Now()
	if err := m.dialer.DialAndSend(env.msg); err != nil {
		metrics.EmailsSent.WithLabelValues(string(env.event), "error").Inc()
		m.log.Error().Err(err).Str("event", string(env.event)).Strs("to", env.msg.GetHeader("To")).Msg("send email")
		return
	}
	metrics.EmailsSent.WithLabelValues(string(env.event), "sent").Inc()
	m.log.Debug().Str("event", string(env.event)).Dur("took", time.Since(start)).Msg("email sent")
}

type recipient struct {
	name  string
	email string
}

func recipients(event Event, c *models.Consultation) []recipient {
	user := recipient{name: c.UserName, email: c.UserEmail}
	lawyer := recipient{name: c.LawyerName, email: c.LawyerEmail}
	switch event {
	case EventRequested, EventBooked:
		return []recipient{lawyer}
	case EventAccepted, EventRejected, EventCompleted:
		return []recipient{user}
	case EventCancelled, EventReminder:
		return []recipient{user, lawyer}
	}
	return nil
}

// Render builds the subject and HTML body for one recipient.
func Render(event Event, c *models.Consultation, name string) (string, string) {
	var subject, lead string
	switch event {
	case EventRequested:
		subject = "New consultation request"
		lead = fmt.Sprintf("%s has requested a %s consultation with you.", c.UserName, c.Medium)
	case EventBooked:
		subject = "New appointment booked"
		lead = fmt.Sprintf("%s has booked a %s appointment with you.", c.UserName, c.Medium)
	case EventAccepted:
		subject = "Your consultation was accepted"
		lead = fmt.Sprintf("%s has accepted your %s consultation.", c.LawyerName, c.Medium)
	case EventRejected:
		subject = "Your consultation was declined"
		lead = fmt.Sprintf("%s is unable to take your %s consultation.", c.LawyerName, c.Medium)
	case EventCompleted:
		subject = "Your consultation is complete"
		lead = fmt.Sprintf("Your %s consultation with %s has been marked complete.", c.Medium, c.LawyerName)
	case EventCancelled:
		subject = "Consultation cancelled"
		lead = fmt.Sprintf("The %s consultation between %s and %s was cancelled.", c.Medium, c.UserName, c.LawyerName)
	case EventReminder:
		subject = "Reminder: consultation in one hour"
		lead = fmt.Sprintf("Your %s consultation between %s and %s starts in about an hour.", c.Medium, c.UserName, c.LawyerName)
	default:
		subject = "Consultation update"
		lead = "There is an update on your consultation."
	}

	slot := "to be scheduled"
	if c.HasSlot() {
		slot = c.SlotTime + " on " + c.SlotDate
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>%s</p>
		<ul>
			<li><strong>Medium:</strong> %s</li>
			<li><strong>Slot:</strong> %s</li>
			<li><strong>Status:</strong> %s</li>
		</ul>
		<p>Regards,</p>
		<p>Team LegalSathi</p>
	`, html.EscapeString(name), html.EscapeString(lead), c.Medium, html.EscapeString(slot), c.Status)

	return subject, body
}
