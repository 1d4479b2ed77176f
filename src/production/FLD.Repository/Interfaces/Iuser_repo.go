package interfaces

import (
	"context"

	auth_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/auth"
)

type UserRepository interface {
	// Create user
	Create(ctx context.Context, user *auth_models.User) (*auth_models.User, error)

	// Read users
	GetByID(ctx context.Context, userID string) (*auth_models.User, error)
	GetByUsername(ctx context.Context, username string) (*auth_models.User, error)

	// Count returns the number of operator accounts
	Count(ctx context.Context) (int64, error)
}
