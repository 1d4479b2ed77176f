package container

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	config "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Config"
	logger "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Logger"
	migrations "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Migrations"
	auth_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/auth"
	implementation "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Repository/Implementation"

	"golang.org/x/crypto/bcrypt"
)

// Container manages dependencies and their lifecycle. The single *sql.DB it
// hands out is the only synchronization point between ingestion writers and
// live-feed readers.
type Container struct {
	config *config.Config
	logger *logger.Logger
	db     *sql.DB

	// Mutex for thread-safe access
	mu sync.Mutex

	// Cleanup functions
	cleanupFuncs []func() error
}

// BridgeContainer manages dependencies for the MQTT bridge service
type BridgeContainer struct {
	config *config.BridgeConfig
	logger *logger.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(&cfg.Logging)

	return &Container{
		config: cfg,
		logger: log,
	}, nil
}

// NewBridgeContainer creates a new container for the MQTT bridge service
func NewBridgeContainer() (*BridgeContainer, error) {
	cfg, err := config.LoadBridgeConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load bridge configuration: %w", err)
	}

	log := logger.NewLogger(&cfg.Logging)

	return &BridgeContainer{
		config: cfg,
		logger: log,
	}, nil
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetConfig returns the bridge configuration
func (c *BridgeContainer) GetConfig() *config.BridgeConfig {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.logger
}

// GetLogger returns the logger
func (c *BridgeContainer) GetLogger() *logger.Logger {
	return c.logger
}

// GetDatabase returns the shared database handle. The DSN enables WAL mode so
// ingestion writes do not serialize behind open live-feed read transactions,
// and a busy timeout so transient lock contention waits instead of failing.
func (c *Container) GetDatabase() (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		db, err := sql.Open("sqlite", c.config.GetDatabaseDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		db.SetMaxOpenConns(c.config.Database.MaxConns)
		c.db = db
	}

	return c.db, nil
}

// InitializeDatabase applies pending migrations and seeds the default
// operator when no account exists yet.
func (c *Container) InitializeDatabase(ctx context.Context) error {
	db, err := c.GetDatabase()
	if err != nil {
		return err
	}

	if err := migrations.Up(ctx, db); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	if err := c.seedDefaultOperator(ctx, db); err != nil {
		return fmt.Errorf("failed to seed default operator: %w", err)
	}

	c.logger.Info("Database initialized successfully")
	return nil
}

func (c *Container) seedDefaultOperator(ctx context.Context, db *sql.DB) error {
	userRepo := implementation.NewSQLiteUserRepository(db)

	count, err := userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(c.config.Auth.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := auth_models.NewUser(c.config.Auth.Admin.Username, string(hashed))
	if _, err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	c.logger.WithField("username", admin.Username).Info("Seeded default operator")
	return nil
}

// RegisterCleanup registers a function executed on shutdown
func (c *Container) RegisterCleanup(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupFuncs = append(c.cleanupFuncs, fn)
}

// Shutdown gracefully shuts down the container and all its dependencies
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("Shutting down container...")

	// Execute cleanup functions in reverse order
	for i := len(c.cleanupFuncs) - 1; i >= 0; i-- {
		if err := c.cleanupFuncs[i](); err != nil {
			c.logger.ErrorWithError(err, "Error during cleanup")
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.ErrorWithError(err, "Error closing database connection")
		}
	}

	c.logger.Info("Container shutdown complete")
	return nil
}
