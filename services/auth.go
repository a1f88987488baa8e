package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/repository"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs HS256 access tokens carrying the principal id and role.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(id string, role models.Role) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"id":   id,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", apperror.Internal(err, "failed to generate token")
	}
	return signed, nil
}

type AuthService struct {
	store  repository.Store
	tokens *TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(store repository.Store, tokens *TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{store: store, tokens: tokens, log: log.With().Str("service", "auth").Logger()}
}

type RegisterUserInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// RegisterUser creates a client account and returns it with a fresh token.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterUserInput) (*models.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, "", err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	user := &models.User{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", apperror.Conflict("an account with this email already exists")
		}
		return nil, "", apperror.Internal(err, "failed to create user")
	}

	token, err := s.tokens.Issue(user.ID, models.RoleUser)
	if err != nil {
		return nil, "", err
	}
	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, token, nil
}

func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperror.Unauthenticated("invalid credentials")
		}
		return nil, "", apperror.Internal(err, "failed to load user")
	}
	if !checkPassword(user.Password, password) {
		return nil, "", apperror.Unauthenticated("invalid credentials")
	}
	if user.Blocked {
		return nil, "", apperror.Forbidden("this account has been blocked")
	}

	token, err := s.tokens.Issue(user.ID, models.RoleUser)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

type RegisterLawyerInput struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	Speciality    string `json:"speciality" validate:"required,max=100"`
	Qualification string `json:"qualification" validate:"required,max=200"`
	Experience    string `json:"experience" validate:"required,max=50"`
	About         string `json:"about" validate:"max=2000"`
	Fees          int    `json:"fees" validate:"gte=0"`
	Address       string `json:"address" validate:"max=500"`
	BarID         string `json:"bar_id" validate:"max=50"`
	Image         string `json:"-"`
}

// RegisterLawyer stores a lawyer awaiting admin approval. No token is issued
// until the account is approved.
func (s *AuthService) RegisterLawyer(ctx context.Context, in RegisterLawyerInput) (*models.Lawyer, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.BarID = strings.TrimSpace(in.BarID)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	lawyer := &models.Lawyer{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Email:         in.Email,
		Password:      hash,
		Image:         in.Image,
		Speciality:    in.Speciality,
		Qualification: in.Qualification,
		Experience:    in.Experience,
		About:         in.About,
		Fees:          in.Fees,
		Address:       in.Address,
		Approved:      false,
		Available:     true,
		SlotsBooked:   models.SlotsBooked{},
	}
	if in.BarID != "" {
		barID := in.BarID
		lawyer.BarID = &barID
	}

	if err := s.store.CreateLawyer(ctx, lawyer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("a lawyer with this email or bar registration id already exists")
		}
		return nil, apperror.Internal(err, "failed to create lawyer")
	}
	s.log.Info().Str("lawyer_id", lawyer.ID).Msg("lawyer registered, awaiting approval")
	return lawyer, nil
}

// LoginLawyer refuses lawyers that have not been approved yet.
func (s *AuthService) LoginLawyer(ctx context.Context, email, password string) (*models.Lawyer, string, error) {
	lawyer, err := s.store.GetLawyerByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperror.Unauthenticated("invalid credentials")
		}
		return nil, "", apperror.Internal(err, "failed to load lawyer")
	}
	if !checkPassword(lawyer.Password, password) {
		return nil, "", apperror.Unauthenticated("invalid credentials")
	}
	if !lawyer.Approved {
		return nil, "", apperror.New(apperror.KindLawyerNotApproved, "your account is pending admin approval")
	}

	token, err := s.tokens.Issue(lawyer.ID, models.RoleLawyer)
	if err != nil {
		return nil, "", err
	}
	return lawyer, token, nil
}

func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (string, error) {
	admin, err := s.store.GetAdminByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperror.Unauthenticated("invalid credentials")
		}
		return "", apperror.Internal(err, "failed to load admin")
	}
	if !checkPassword(admin.Password, password) {
		return "", apperror.Unauthenticated("invalid credentials")
	}
	return s.tokens.Issue(admin.ID, models.RoleAdmin)
}

// SeedAdmin creates or refreshes the configured admin account. The password
// is stored hashed.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		s.log.Warn().Msg("ADMIN_EMAIL or ADMIN_PASSWORD not set, admin login disabled")
		return nil
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.Admin{ID: uuid.NewString(), Email: email, Password: hash}
	if err := s.store.UpsertAdmin(ctx, admin); err != nil {
		return apperror.Internal(err, "failed to seed admin")
	}
	s.log.Info().Str("email", email).Msg("admin account ready")
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.Internal(err, "failed to hash password")
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
