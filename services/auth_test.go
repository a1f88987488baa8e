package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/logger"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/repository/memory"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test_secret"

func newAuth(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	store := memory.New()
	return NewAuthService(store, NewTokenIssuer(testSecret, time.Hour), logger.Nop()), store
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	return claims
}

func TestRegisterAndLoginUser(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	user, token, err := auth.RegisterUser(ctx, RegisterUserInput{Name: "Ravi", Email: " Ravi@Example.com ", Password: "s3cretpass"})
	if err != nil {
		t.Fatal(err)
	}
	if user.Email != "ravi@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.Password == "s3cretpass" {
		t.Error("password stored in plain text")
	}
	claims := parseClaims(t, token)
	if claims["id"] != user.ID || claims["role"] != string(models.RoleUser) {
		t.Errorf("unexpected claims %v", claims)
	}

	if _, _, err := auth.LoginUser(ctx, "RAVI@example.com", "s3cretpass"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, _, err := auth.LoginUser(ctx, "ravi@example.com", "wrong-pass"); !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("wrong password: expected unauthenticated, got %v", err)
	}
	if _, _, err := auth.LoginUser(ctx, "nobody@example.com", "s3cretpass"); !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("unknown email: expected unauthenticated, got %v", err)
	}
}

func TestRegisterUser_Validation(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	tests := []RegisterUserInput{
		{Name: "Ravi", Email: "not-an-email", Password: "s3cretpass"},
		{Name: "Ravi", Email: "ravi@example.com", Password: "short"},
		{Name: "", Email: "ravi@example.com", Password: "s3cretpass"},
	}
	for _, in := range tests {
		if _, _, err := auth.RegisterUser(ctx, in); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("%+v: expected validation error, got %v", in, err)
		}
	}
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	in := RegisterUserInput{Name: "Ravi", Email: "ravi@example.com", Password: "s3cretpass"}
	if _, _, err := auth.RegisterUser(ctx, in); err != nil {
		t.Fatal(err)
	}
	in.Email = "RAVI@example.com"
	if _, _, err := auth.RegisterUser(ctx, in); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginUser_Blocked(t *testing.T) {
	auth, store := newAuth(t)
	ctx := context.Background()

	user, _, err := auth.RegisterUser(ctx, RegisterUserInput{Name: "Ravi", Email: "ravi@example.com", Password: "s3cretpass"})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SetUserBlocked(ctx, user.ID, true); err != nil {
		t.Fatal(err)
	}
	if _, _, err := auth.LoginUser(ctx, "ravi@example.com", "s3cretpass"); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestLawyerLoginRequiresApproval(t *testing.T) {
	auth, store := newAuth(t)
	ctx := context.Background()

	lawyer, err := auth.RegisterLawyer(ctx, RegisterLawyerInput{
		Name:          "Asha Rao",
		Email:         "asha@example.com",
		Password:      "s3cretpass",
		Speciality:    "Property Law",
		Qualification: "LLB",
		Experience:    "6 Years",
		Fees:          800,
		BarID:         "MH/1234/2019",
	})
	if err != nil {
		t.Fatal(err)
	}
	if lawyer.Approved || !lawyer.Available {
		t.Errorf("new lawyer should be unapproved and available, got %+v", lawyer)
	}

	if _, _, err := auth.LoginLawyer(ctx, "asha@example.com", "s3cretpass"); !errors.Is(err, apperror.ErrLawyerNotApproved) {
		t.Fatalf("expected lawyer not approved, got %v", err)
	}

	if err := store.SetLawyerApproved(ctx, lawyer.ID, true); err != nil {
		t.Fatal(err)
	}
	_, token, err := auth.LoginLawyer(ctx, "asha@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("login after approval: %v", err)
	}
	if role := parseClaims(t, token)["role"]; role != string(models.RoleLawyer) {
		t.Errorf("expected lawyer role, got %v", role)
	}
}

func TestRegisterLawyer_DuplicateBarID(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	in := RegisterLawyerInput{
		Name: "Asha Rao", Email: "asha@example.com", Password: "s3cretpass",
		Speciality: "Property Law", Qualification: "LLB", Experience: "6 Years", BarID: "MH/1234/2019",
	}
	if _, err := auth.RegisterLawyer(ctx, in); err != nil {
		t.Fatal(err)
	}
	in.Email = "other@example.com"
	if _, err := auth.RegisterLawyer(ctx, in); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSeedAndLoginAdmin(t *testing.T) {
	auth, store := newAuth(t)
	ctx := context.Background()

	if err := auth.SeedAdmin(ctx, "admin@legalsathi.in", "adminpass"); err != nil {
		t.Fatal(err)
	}
	// seeding twice rotates the password without duplicating the account
	if err := auth.SeedAdmin(ctx, "admin@legalsathi.in", "newadminpass"); err != nil {
		t.Fatal(err)
	}

	admin, err := store.GetAdminByEmail(ctx, "admin@legalsathi.in")
	if err != nil {
		t.Fatal(err)
	}
	if admin.Password == "newadminpass" {
		t.Error("admin password stored in plain text")
	}

	if _, err := auth.LoginAdmin(ctx, "admin@legalsathi.in", "adminpass"); !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("old password: expected unauthenticated, got %v", err)
	}
	token, err := auth.LoginAdmin(ctx, "admin@legalsathi.in", "newadminpass")
	if err != nil {
		t.Fatal(err)
	}
	claims := parseClaims(t, token)
	if claims["role"] != string(models.RoleAdmin) || claims["id"] != admin.ID {
		t.Errorf("unexpected claims %v", claims)
	}
}

func TestSeedAdmin_SkipsWhenUnset(t *testing.T) {
	auth, store := newAuth(t)
	if err := auth.SeedAdmin(context.Background(), "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetAdminByEmail(context.Background(), ""); err == nil {
		t.Error("expected no admin to be created")
	}
}
