package db

import (
	"fmt"

	"github.com/celian-arc/aim/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date. With useSQLMigrations the SQL
// files under ./migrations run through golang-migrate (PostgreSQL
// deployments); otherwise gorm AutoMigrate covers every model, which
// is what the SQLite setup and the tests use.
func Migrate(conn *gorm.DB, dsn string, useSQLMigrations bool) error {
	if useSQLMigrations && IsPostgres(dsn) {
		return runSQLMigrations(NormalizeDSN(dsn))
	}
	return AutoMigrate(conn)
}

// AutoMigrate creates/updates every table, junctions included.
func AutoMigrate(conn *gorm.DB) error {
	toMigrate := []any{
		&models.Category{}, &models.Product{}, &models.CompositeProduct{},
		&models.Archer{}, &models.Assignment{}, &models.Course{},
		&models.Attendance{}, &models.User{}, &models.HistoryEvent{},
	}
	for _, m := range toMigrate {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
