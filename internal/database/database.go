package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"career-compass/internal/config"
	"career-compass/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	_ "github.com/sijms/go-ora/v2" // registers the "oracle" driver
	"go.uber.org/zap"
)

func init() {
	// sqlx has no bind type for go-ora; it takes :1, :2 style placeholders.
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// DriverName maps the configured database kind to the database/sql driver name.
func DriverName(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres:
		return "pgx", nil
	case config.DriverOracle:
		return "oracle", nil
	default:
		return "", fmt.Errorf("unsupported db driver %q", driver)
	}
}

// Connect opens the pool for the configured driver and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	driverName, err := DriverName(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DB.Driver, err)
	}

	// Oracle reports unquoted identifiers in upper case.
	if cfg.DB.Driver == config.DriverOracle {
		db.Mapper = reflectx.NewMapperTagFunc("db", strings.ToUpper, strings.ToUpper)
	}

	if cfg.DB.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.DB.Driver, err)
	}

	logger.Get().Info("Successfully connected to database",
		zap.String("driver", cfg.DB.Driver),
		zap.String("host", cfg.DB.Host),
		zap.Int("port", cfg.DB.Port))
	return db, nil
}
