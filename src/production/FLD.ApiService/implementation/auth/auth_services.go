package auth

import (
	"context"
	"fmt"

	errs "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Errors"
	api_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/api"
	auth_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/auth"
	interfaces "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Repository/Interfaces"
	jwt "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/implementation/jwt"

	"golang.org/x/crypto/bcrypt"
)

// AuthService aggregates operator registration and login
type AuthService struct {
	userRepo   interfaces.UserRepository
	jwtService *jwt.Service
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo interfaces.UserRepository, jwtService *jwt.Service) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register creates a new operator account. The password is stored as a
// bcrypt hash, never in plaintext.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*auth_models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required: %w", errs.ErrValidation)
	}

	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("username %q: %w", req.Username, errs.ErrAlreadyExists)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := auth_models.NewUser(req.Username, string(hashed))
	return s.userRepo.Create(ctx, user)
}

// Login authenticates an operator and mints a session token asserting their
// identity with the admin role. bcrypt comparison is constant-time.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*api_models.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("invalid credentials: %w", errs.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", errs.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user.Username, api_models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	return &api_models.AuthResponse{
		Message: "login successful",
		Token:   token,
	}, nil
}
