// Package auth implements the shared access-code gate in front of the planner.
package auth

import (
	"time"

	"planner/config"
	domainErrors "planner/internal/domain/errors"
	"planner/internal/domain/service"
	"planner/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 12 * time.Hour

// accessService checks the shared access code against a bcrypt hash and
// issues HS256 session tokens. There is no user identity behind the gate.
type accessService struct {
	codeHash    string
	tokenSecret []byte
	tokenTTL    time.Duration
}

// NewAccessService is the constructor for accessService.
func NewAccessService(cfg *config.Config) (service.AccessService, error) {
	if cfg.Access == nil || cfg.Access.CodeHash == "" || cfg.Access.TokenSecret == "" {
		return nil, errors.New("access code hash and token secret must be provided")
	}

	ttl := cfg.Access.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return &accessService{
		codeHash:    cfg.Access.CodeHash,
		tokenSecret: []byte(cfg.Access.TokenSecret),
		tokenTTL:    ttl,
	}, nil
}

// Authenticate compares the access code and returns a session token.
func (s *accessService) Authenticate(code string) (string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(s.codeHash), []byte(code)); err != nil {
		return "", domainErrors.ErrAccessCodeInvalid
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tokenSecret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return token, nil
}

// Validate checks a session token.
func (s *accessService) Validate(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.tokenSecret, nil
	})
	if err != nil || !token.Valid {
		return domainErrors.ErrAccessTokenInvalid
	}

	return nil
}
