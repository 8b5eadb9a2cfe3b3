package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database behind the DSN, retrying a few times to
// ride out container startup ordering. PostgreSQL DSNs use the pgx
// driver; anything else is treated as a SQLite file.
func Connect(rawDSN string, debug bool, log *zap.SugaredLogger) (*gorm.DB, error) {
	dsn := NormalizeDSN(rawDSN)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty")
	}
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	open := func() (*gorm.DB, error) {
		if IsPostgres(dsn) {
			return gorm.Open(postgres.Open(dsn), cfg)
		}
		return gorm.Open(sqlite.Open(dsn), cfg)
	}

	var conn *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		conn, err = open()
		if err == nil {
			break
		}
		log.Warnw("retrying db connection", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	return conn, nil
}
