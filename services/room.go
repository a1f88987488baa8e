package services

import (
	"context"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/models"
)

// TokenMinter is implemented by rooms.Minter.
type TokenMinter interface {
	Mint(identity, room string) (string, error)
}

type RoomAccess struct {
	Token    string `json:"token"`
	Room     string `json:"room"`
	Identity string `json:"identity"`
}

type RoomService struct {
	consultations *ConsultationService
	minter        TokenMinter
}

func NewRoomService(consultations *ConsultationService, minter TokenMinter) *RoomService {
	return &RoomService{consultations: consultations, minter: minter}
}

// Join mints a room token for a party of an accepted, non-cancelled
// consultation.
func (s *RoomService) Join(ctx context.Context, actor Actor, consultationID string) (*RoomAccess, error) {
	c, err := s.consultations.Get(ctx, actor, consultationID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleAdmin {
		return nil, apperror.Forbidden("only the client and the lawyer can join a consultation")
	}
	if c.Cancelled || c.Status != models.StatusAccepted {
		return nil, apperror.Conflict("consultation is not active")
	}

	identity := string(actor.Role) + "-" + actor.ID
	token, err := s.minter.Mint(identity, c.RoomID())
	if err != nil {
		return nil, err
	}
	return &RoomAccess{Token: token, Room: c.RoomID(), Identity: identity}, nil
}
