package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	errs "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Errors"
	api_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/api"
)

// Service provides JWT operations
type Service struct {
	config api_models.Config
}

// NewService creates a new JWT service
func NewService(config api_models.Config) *Service {
	return &Service{
		config: config,
	}
}

// GenerateToken mints a session credential asserting an identity and a role.
// Tokens are stateless: validity is determined entirely by signature and
// expiry, never by a server-side session table.
func (s *Service) GenerateToken(identity, role string) (string, error) {
	now := time.Now()

	claims := api_models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
		},
		Identity: identity,
		Role:     role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// ValidateToken validates a token and returns its claims. An expired token
// maps to ErrUnauthorized; a malformed token or a failed signature check maps
// to ErrForbidden.
func (s *Service) ValidateToken(tokenString string) (*api_models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &api_models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token expired: %w", errs.ErrUnauthorized)
		}
		return nil, fmt.Errorf("invalid token: %w", errs.ErrForbidden)
	}

	if claims, ok := token.Claims.(*api_models.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid claims: %w", errs.ErrForbidden)
}
