package api_models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried by session credentials.
const (
	RoleAdmin    = "admin"
	RoleUploader = "uploader"
)

// Config holds JWT configuration
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
	Issuer        string
}

// Claims represents the session credential asserted by a signed token:
// either an operator identity (role admin) or a device identity (role
// uploader). Validity is determined entirely by signature and expiry.
type Claims struct {
	jwt.RegisteredClaims
	Identity string `json:"identity"`
	Role     string `json:"role"`
}
