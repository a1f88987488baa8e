package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/Piyush-gour/legal-sathi/logger"
	"github.com/Piyush-gour/legal-sathi/models"
)

func consultation() *models.Consultation {
	return &models.Consultation{
		ID:          "c1",
		UserName:    "Ravi",
		UserEmail:   "ravi@example.com",
		LawyerName:  "Asha Rao",
		LawyerEmail: "asha@example.com",
		Medium:      models.MediumVideo,
		Status:      models.StatusAccepted,
		SlotDate:    "15_6_2025",
		SlotTime:    "10:00 AM",
	}
}

func TestRecipients(t *testing.T) {
	c := consultation()

	tests := []struct {
		event Event
		want  []string
	}{
		{EventRequested, []string{"asha@example.com"}},
		{EventBooked, []string{"asha@example.com"}},
		{EventAccepted, []string{"ravi@example.com"}},
		{EventRejected, []string{"ravi@example.com"}},
		{EventCompleted, []string{"ravi@example.com"}},
		{EventCancelled, []string{"ravi@example.com", "asha@example.com"}},
		{EventReminder, []string{"ravi@example.com", "asha@example.com"}},
	}
	for _, tt := range tests {
		got := recipients(tt.event, c)
		if len(got) != len(tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.event, tt.want, got)
			continue
		}
		for i := range got {
			if got[i].email != tt.want[i] {
				t.Errorf("%s: recipient %d expected %s, got %s", tt.event, i, tt.want[i], got[i].email)
			}
		}
	}
}

func TestRender(t *testing.T) {
	c := consultation()
	c.UserName = "<script>Ravi</script>"

	subject, body := Render(EventAccepted, c, c.UserName)
	if subject != "Your consultation was accepted" {
		t.Errorf("unexpected subject %q", subject)
	}
	if strings.Contains(body, "<script>") {
		t.Error("recipient name was not escaped")
	}
	if !strings.Contains(body, "10:00 AM on 15_6_2025") {
		t.Errorf("slot missing from body: %s", body)
	}

	c.SlotDate, c.SlotTime = "", ""
	_, body = Render(EventRequested, c, "Asha Rao")
	if !strings.Contains(body, "to be scheduled") {
		t.Errorf("expected unscheduled slot text, got %s", body)
	}
}

func TestMailerNotify_QueueFull(t *testing.T) {
	m := NewMailer(MailerConfig{Host: "localhost", Port: 1025, Username: "noreply@legalsathi.in", QueueSize: 1}, logger.Nop())

	if err := m.Notify(context.Background(), EventAccepted, consultation()); err != nil {
		t.Fatalf("first email: %v", err)
	}
	if len(m.queue) != 1 {
		t.Fatalf("expected one queued email, got %d", len(m.queue))
	}

	env := <-m.queue
	if to := env.msg.GetHeader("To"); len(to) != 1 || to[0] != "ravi@example.com" {
		t.Errorf("unexpected recipient %v", to)
	}

	if err := m.Notify(context.Background(), EventCancelled, consultation()); err == nil {
		t.Fatal("expected an error when the queue overflows")
	}
	if len(m.queue) != 1 {
		t.Errorf("expected the queue to stay at capacity, got %d", len(m.queue))
	}
}

func TestMailerNotify_SkipsMissingAddress(t *testing.T) {
	m := NewMailer(MailerConfig{Host: "localhost", Port: 1025, QueueSize: 4}, logger.Nop())
	c := consultation()
	c.LawyerEmail = ""

	if err := m.Notify(context.Background(), EventReminder, c); err != nil {
		t.Fatal(err)
	}
	if len(m.queue) != 1 {
		t.Errorf("expected only the user email, got %d", len(m.queue))
	}
}
