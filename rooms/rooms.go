// Package rooms mints access tokens for the hosted video provider. Media,
// signalling and presence are handled by the provider; the only contract is
// the room name derived from the consultation id.
package rooms

import (
	"fmt"
	"time"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/golang-jwt/jwt/v4"
)

type Config struct {
	AccountSID string
	APIKey     string
	APISecret  string
	TTL        time.Duration
}

func (c Config) configured() bool {
	return c.AccountSID != "" && c.APIKey != "" && c.APISecret != ""
}

type videoGrant struct {
	Room string `json:"room,omitempty"`
}

type grants struct {
	Identity string      `json:"identity"`
	Video    *videoGrant `json:"video,omitempty"`
}

// Claims follows the Twilio access token layout.
type Claims struct {
	Grants grants `json:"grants"`
	jwt.RegisteredClaims
}

// Minter signs room access tokens with the provider API key secret.
type Minter struct {
	cfg Config
	now func() time.Time
}

func NewMinter(cfg Config) *Minter {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &Minter{cfg: cfg, now: time.Now}
}

// Mint returns a token that lets identity join room. Missing provider
// credentials are reported as upstream_unavailable.
func (m *Minter) Mint(identity, room string) (string, error) {
	if !m.cfg.configured() {
		return "", apperror.New(apperror.KindUpstreamUnavailable, "video provider is not configured")
	}
	now := m.now()
	claims := Claims{
		Grants: grants{
			Identity: identity,
			Video:    &videoGrant{Room: room},
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        fmt.Sprintf("%s-%d", m.cfg.APIKey, now.Unix()),
			Issuer:    m.cfg.APIKey,
			Subject:   m.cfg.AccountSID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["cty"] = "twilio-fpa;v=1"
	signed, err := token.SignedString([]byte(m.cfg.APISecret))
	if err != nil {
		return "", apperror.Wrap(apperror.KindUpstreamUnavailable, err, "failed to sign room token")
	}
	return signed, nil
}
