package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config is populated from the environment by pkg/config.
type Config struct {
	SigningKey string        `env:"JWT_SIGNING_KEY,required"`        // SigningKey is the HMAC secret, at least 32 bytes.
	Issuer     string        `env:"JWT_ISSUER" envDefault:"bookly"`  // Issuer is stamped into the iss claim.
	TTL        time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"` // TTL is the access token lifetime.
}

// Claims carries the authenticated identity plus the tenant binding
// material: the tenant id and its canonical schema name.
type Claims struct {
	TenantID string `json:"tenantId,omitempty"`
	Schema   string `json:"schema,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies tokens with HMAC-SHA256.
type Service struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

// New creates a token service from config.
func New(cfg Config) (*Service, error) {
	if cfg.SigningKey == "" {
		return nil, ErrMissingSigningKey
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		key:    []byte(cfg.SigningKey),
		issuer: cfg.Issuer,
		ttl:    ttl,
	}, nil
}

// Issue creates a signed token for subject bound to the given tenant.
func (s *Service) Issue(subject string, tenantID uuid.UUID, schema, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		TenantID: tenantID.String(),
		Schema:   schema,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Parse verifies signature, algorithm and expiry, returning the claim
// set on success.
func (s *Service) Parse(raw string) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedSigningMethod
		}
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, ErrUnexpectedSigningMethod) {
			return nil, ErrUnexpectedSigningMethod
		}
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
