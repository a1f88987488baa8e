package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/models"
)

type fakeMinter struct {
	identity, room string
}

func (m *fakeMinter) Mint(identity, room string) (string, error) {
	m.identity, m.room = identity, room
	return "room-token", nil
}

func TestRoomJoin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	minter := &fakeMinter{}
	rooms := NewRoomService(f.consultations, minter)

	c := f.request(t, "u1", "l1", "", "")
	if _, err := rooms.Join(ctx, userActor, c.ID); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("pending consultation: expected conflict, got %v", err)
	}

	if _, err := f.consultations.Accept(ctx, "l1", c.ID); err != nil {
		t.Fatal(err)
	}
	access, err := rooms.Join(ctx, lawyerActor, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if access.Room != "legalsathi-"+c.ID || access.Identity != "lawyer-l1" || access.Token != "room-token" {
		t.Errorf("unexpected access %+v", access)
	}
	if minter.room != access.Room {
		t.Errorf("minted for room %q", minter.room)
	}

	if _, err := rooms.Join(ctx, Actor{ID: "u2", Role: models.RoleUser}, c.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("stranger: expected forbidden, got %v", err)
	}
	if _, err := rooms.Join(ctx, adminActor, c.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("admin: expected forbidden, got %v", err)
	}

	if _, err := f.consultations.Cancel(ctx, userActor, c.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := rooms.Join(ctx, userActor, c.ID); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("cancelled consultation: expected conflict, got %v", err)
	}
}
