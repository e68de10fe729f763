package database

import (
	"gorm.io/gorm"

	"github.com/locarhq/locar-backend/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.Reservation{},
	)
	if err != nil {
		return err
	}

	// The in-transaction availability check is the first line of defense;
	// this exclusion constraint is the database-level backstop. Two
	// confirmed or in-progress reservations for the same vehicle can never
	// hold overlapping periods, no matter how requests interleave.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	var constraintExists bool
	err = db.Raw(`
		SELECT EXISTS (
			SELECT 1
			FROM pg_constraint
			WHERE conname = 'reservations_no_overlap'
		)`).Scan(&constraintExists).Error
	if err != nil {
		return err
	}

	if !constraintExists {
		err = db.Exec(`
			ALTER TABLE reservations
			ADD CONSTRAINT reservations_no_overlap
			EXCLUDE USING gist (
				vehicle_id WITH =,
				tstzrange(period_start, period_end) WITH &&
			)
			WHERE (status IN ('confirmed', 'in_progress') AND deleted_at IS NULL)`).Error
		if err != nil {
			return err
		}
	}

	// Update users table constraint for the customer/staff split
	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_user_type_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_user_type_check CHECK (user_type IN ('customer', 'staff'))`)
	}

	return nil
}
