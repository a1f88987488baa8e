package rooms

import (
	"errors"
	"testing"
	"time"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/golang-jwt/jwt/v4"
)

func TestMint(t *testing.T) {
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)
	m := NewMinter(Config{AccountSID: "AC123", APIKey: "SK456", APISecret: "secret"})
	m.now = func() time.Time { return now }

	signed, err := m.Mint("user-u1", "legalsathi-c1")
	if err != nil {
		t.Fatal(err)
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(signed, claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if cty := token.Header["cty"]; cty != "twilio-fpa;v=1" {
		t.Errorf("unexpected cty header %v", cty)
	}
	if claims.Grants.Identity != "user-u1" {
		t.Errorf("unexpected identity %q", claims.Grants.Identity)
	}
	if claims.Grants.Video == nil || claims.Grants.Video.Room != "legalsathi-c1" {
		t.Errorf("unexpected video grant %+v", claims.Grants.Video)
	}
	if claims.Issuer != "SK456" || claims.Subject != "AC123" {
		t.Errorf("unexpected issuer/subject %s/%s", claims.Issuer, claims.Subject)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(time.Hour)) {
		t.Errorf("expected default 1h ttl, got %v", claims.ExpiresAt.Time)
	}
}

func TestMint_NotConfigured(t *testing.T) {
	m := NewMinter(Config{APIKey: "SK456"})
	_, err := m.Mint("user-u1", "legalsathi-c1")
	if !errors.Is(err, apperror.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream unavailable, got %v", err)
	}
}
