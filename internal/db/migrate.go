package db

import (
	"context"
	"fmt"

	"oauth-backend/internal/user"

	"gorm.io/gorm"
)

// localEmailIndex keeps local registrations unique by email. OAuth rows are
// excluded because distinct providers may report the same address.
const localEmailIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS users_local_email_unique
ON users (LOWER(email))
WHERE provider = 'local'`

// Migrate creates or updates the schema. It is idempotent.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	tx := gdb.WithContext(ctx)
	if err := tx.AutoMigrate(&user.User{}); err != nil {
		return fmt.Errorf("db: automigrate: %w", err)
	}
	if err := tx.Exec(localEmailIndex).Error; err != nil {
		return fmt.Errorf("db: local email index: %w", err)
	}
	return nil
}
