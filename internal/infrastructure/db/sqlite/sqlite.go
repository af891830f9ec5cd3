// Package sqlite is an embedded credential store built on GORM, selected with
// STORE_DRIVER=sqlite for local development and single-node deployments.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	driver "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type userRow struct {
	ID               string `gorm:"primaryKey;size:36"`
	FirstName        string `gorm:"not null"`
	LastName         string `gorm:"not null"`
	Email            string `gorm:"not null"`
	EmailKey         string `gorm:"uniqueIndex:uniq_email_key;not null"`
	PasswordHash     string `gorm:"not null"`
	Role             string `gorm:"not null"`
	SecretQuestionID int64
	SecretAnswerHash string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (userRow) TableName() string { return "users" }

type questionRow struct {
	ID       int64  `gorm:"primaryKey;autoIncrement:false"`
	Question string `gorm:"not null"`
}

func (questionRow) TableName() string { return "secret_questions" }

type auditRow struct {
	ID         uint   `gorm:"primaryKey"`
	Type       string `gorm:"index;not null"`
	UserID     string `gorm:"index"`
	Email      string
	Outcome    string `gorm:"not null"`
	OccurredAt time.Time
	RecordedAt time.Time
}

func (auditRow) TableName() string { return "auth_events" }

// Open opens (creating if needed) the database at path and migrates the schema.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(driver.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// SQLite has a single writer.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&userRow{}, &questionRow{}, &auditRow{}); err != nil {
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}
	return db, nil
}

// Ping verifies the underlying connection is usable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
