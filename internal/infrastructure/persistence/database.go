package persistence

import (
	"fmt"
	"time"

	"github.com/leecohen23/Phone-compamy-software/internal/infrastructure/config"
	"github.com/leecohen23/Phone-compamy-software/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Database holds the statement store connection
type Database struct {
	DB     *gorm.DB
	Driver string
}

// NewDatabase opens the database the store configuration names and migrates
// the schema. The memory driver has no database and is rejected here.
func NewDatabase(store config.StoreConfig, pg config.DatabaseConfig, log config.LogConfig, zapLogger *zap.Logger) (*Database, error) {
	var dialector gorm.Dialector
	switch store.Driver {
	case config.StoreSQLite:
		dialector = sqlite.Open(store.Path)
	case config.StorePostgres:
		dialector = postgres.Open(pg.DSN())
	default:
		return nil, fmt.Errorf("store driver %q has no database", store.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(zapLogger, logger.GormLevel(log.Level), 200*time.Millisecond),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if store.Driver == config.StorePostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(pg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(pg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(pg.ConnMaxLifetime) * time.Minute)
		if err := sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return &Database{DB: db, Driver: store.Driver}, nil
}

// Migrate creates or updates the statement schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&StatementModel{}); err != nil {
		return fmt.Errorf("failed to migrate statements: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
