package database

import (
	"fmt"
	"log"
	"net/url"

	"bookingdesk/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DSN returns dsn with its password replaced by accessKey when one is given
func DSN(dsn, accessKey string) (string, error) {
	if accessKey == "" {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	user := "postgres"
	if u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, accessKey)
	return u.String(), nil
}

// NewConnection opens the GORM pool without pinging, so an unreachable store
// surfaces as failed calls instead of a crash at startup.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableAutomaticPing: true,
		TranslateError:       true,
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.AuthIdentity{},
		&model.AuthSession{},
		&model.UserProfile{},
		&model.Booking{},
		&model.Receipt{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
