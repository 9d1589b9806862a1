package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gradetracker/internal/config"
	"gradetracker/internal/model"
)

// InitDB opens the SQL database selected by cfg.Storage.Driver and migrates
// the key-value table.
func InitDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.Storage.SQLitePath)
	default:
		return nil, fmt.Errorf("driver %q is not a SQL database", cfg.Storage.Driver)
	}

	db, err := Open(dialector, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("connected to database", zap.String("driver", cfg.Storage.Driver))
	return db, nil
}

// Open connects through the given dialector and auto-migrates the schema.
// gorm's own log lines are written through logger.
func Open(dialector gorm.Dialector, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err := db.AutoMigrate(&model.KVEntry{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate the database: %w", err)
	}

	return db, nil
}

// newGormLogger keeps gorm's formatting but sends it to zap at warn level.
// A missing row is an expected outcome for key lookups, not worth a line.
func newGormLogger(logger *zap.Logger) gormlogger.Interface {
	std, err := zap.NewStdLogAt(logger.Named("gorm"), zap.WarnLevel)
	if err != nil {
		std = zap.NewStdLog(logger.Named("gorm"))
	}

	return gormlogger.New(std, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
