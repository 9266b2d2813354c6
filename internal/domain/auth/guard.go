// Package auth implements the admin access guard: a configurable credential
// check that issues short-lived signed tokens, and stateless verification of
// those tokens on protected operations.
package auth

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned on any login mismatch. It carries no
	// detail about which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoToken is returned when a protected operation presents no token.
	ErrNoToken = errors.New("no token provided")

	// ErrInvalidToken is returned for tokens with a bad signature, wrong
	// signing method, missing admin role, or an elapsed expiry.
	ErrInvalidToken = errors.New("invalid token")
)

const adminRole = "admin"

// DefaultTokenTTL is the credential lifetime used when Config.TokenTTL is zero.
const DefaultTokenTTL = 24 * time.Hour

// Config holds the trust root for the guard. All values come from
// configuration; nothing is hardcoded.
type Config struct {
	// Username is the expected admin username.
	Username string
	// PasswordHash is the bcrypt hash of the admin password.
	PasswordHash []byte
	// Secret signs and verifies issued tokens (HMAC-SHA256).
	Secret []byte
	// TokenTTL bounds the credential lifetime. Zero means DefaultTokenTTL.
	TokenTTL time.Duration
}

// Guard authenticates the administrator and validates issued credentials.
// The server keeps no session state: a credential is a self-contained signed
// token and the secret is fixed at startup.
type Guard struct {
	username     []byte
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewGuard constructs a Guard from configuration.
func NewGuard(cfg Config) *Guard {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Guard{
		username:     []byte(cfg.Username),
		passwordHash: cfg.PasswordHash,
		secret:       cfg.Secret,
		ttl:          ttl,
		now:          time.Now,
	}
}

// claims is the token payload: the admin role plus standard expiry fields.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Login checks the presented username and password against the configured
// credential and, on success, issues a signed token carrying the admin role.
// Both checks always run so the error reveals nothing about which one failed.
func (g *Guard) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), g.username) == 1
	passErr := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", ErrInvalidCredentials
	}

	now := g.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	})

	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify validates a presented credential: signature, expiry, and admin role.
// The storefront sends the raw token in the Authorization header; a standard
// "Bearer " prefix is tolerated and stripped.
func (g *Guard) Verify(token string) error {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return ErrNoToken
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return g.now() }),
	)
	if err != nil {
		return ErrInvalidToken
	}
	if c.Role != adminRole {
		return ErrInvalidToken
	}
	return nil
}
