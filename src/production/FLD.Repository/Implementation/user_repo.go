package implementation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	errs "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Errors"
	auth_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/auth"
)

type SQLiteUserRepository struct {
	db *sql.DB
}

func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Create user
func (r *SQLiteUserRepository) Create(ctx context.Context, user *auth_models.User) (*auth_models.User, error) {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	query := `
		INSERT INTO users (user_id, username, password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, user.UserID, user.Username,
		user.Password, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("username %q: %w", user.Username, errs.ErrAlreadyExists)
		}
		return nil, err
	}

	return user, nil
}

// Read users
func (r *SQLiteUserRepository) GetByID(ctx context.Context, userID string) (*auth_models.User, error) {
	query := `SELECT user_id, username, password, created_at, updated_at FROM users WHERE user_id = ?`

	var user auth_models.User

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&user.UserID, &user.Username,
		&user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *SQLiteUserRepository) GetByUsername(ctx context.Context, username string) (*auth_models.User, error) {
	query := `SELECT user_id, username, password, created_at, updated_at FROM users WHERE username = ?`

	var user auth_models.User

	err := r.db.QueryRowContext(ctx, query, username).Scan(&user.UserID, &user.Username,
		&user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *SQLiteUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
