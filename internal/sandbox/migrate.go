package sandbox

import (
	"gorm.io/gorm"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/repository"
)

// Migrate creates or updates the sandbox tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(repository.All()...); err != nil {
		return err
	}
	return runCustomMigrations(db)
}

// runCustomMigrations handles indexes AutoMigrate can't express.
func runCustomMigrations(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	migrations := []func(*gorm.DB) error{
		addRecordBodyIndex,
	}
	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}
	return nil
}

// addRecordBodyIndex backs the field filters of list queries.
func addRecordBodyIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_records_body
		ON records USING GIN (body jsonb_path_ops)
	`).Error
}
