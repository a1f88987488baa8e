package db

import (
	"fmt"

	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Migrate creates or updates the relational schema. It only runs when
// explicitly requested through the migrate command.
func Migrate(db *gorm.DB, log zerolog.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Lawyer{},
		&models.Admin{},
		&models.Consultation{},
	)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	log.Info().Msg("migrations applied")
	return nil
}
