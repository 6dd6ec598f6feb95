package db

import (
	"fmt" // Error wrapping

	"finflow/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

// caseSensitiveEmailSQL returns the statement that makes users.email compare
// case-sensitively, or "" when the dialect already does. MySQL's default
// utf8mb4 collations ignore case, which would let ALICE@ log in as alice@.
func caseSensitiveEmailSQL(dialect string) string {
	if dialect != "mysql" {
		return "" // sqlite and postgres compare text byte-wise
	}
	return "ALTER TABLE users MODIFY email varchar(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"
}

// Migrate performs automatic migration for the database schema
func Migrate(gdb *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := gdb.AutoMigrate(&domain.User{}, &domain.Transaction{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if stmt := caseSensitiveEmailSQL(gdb.Dialector.Name()); stmt != "" {
		if err := gdb.Exec(stmt).Error; err != nil {
			return fmt.Errorf("set email collation: %w", err)
		}
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
