package services

import (
	"context"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/repository"
	"github.com/rs/zerolog"
)

type UserService struct {
	store repository.Store
	log   zerolog.Logger
}

func NewUserService(store repository.Store, log zerolog.Logger) *UserService {
	return &UserService{store: store, log: log.With().Str("service", "user").Logger()}
}

func (s *UserService) Profile(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "user not found", "failed to load user")
	}
	return user, nil
}

type UpdateUserInput struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	Gender  *string `json:"gender" validate:"omitempty,oneof=male female other unspecified"`
	DOB     *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Image   string  `json:"-"`
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	user, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}

	setString(&user.Name, in.Name)
	setString(&user.Phone, in.Phone)
	setString(&user.Address, in.Address)
	setString(&user.Gender, in.Gender)
	setString(&user.DOB, in.DOB)
	if in.Image != "" {
		user.Image = in.Image
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, storeErr(err, "user not found", "failed to update user")
	}
	return user, nil
}

// SetBlocked blocks or unblocks a client. Blocked clients cannot log in or
// request consultations.
func (s *UserService) SetBlocked(ctx context.Context, id string, blocked bool) error {
	if id == "" {
		return apperror.Validation("userId is required")
	}
	if err := s.store.SetUserBlocked(ctx, id, blocked); err != nil {
		return storeErr(err, "user not found", "failed to update user")
	}
	s.log.Info().Str("user_id", id).Bool("blocked", blocked).Msg("user block flag changed")
	return nil
}
