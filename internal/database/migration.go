package database

import (
	"fmt"

	"github.com/Kaytxt/xd/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Usuario{},
		&models.Admin{},
		&models.Cliente{},
		&models.Lancamento{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
