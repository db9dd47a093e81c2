// Package database owns the postgres connection for account storage.
package database

import (
	"errors"
	"fmt"

	"github.com/Mystic-Slice/artist-recommendation-backend/config"
	"github.com/Mystic-Slice/artist-recommendation-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the accounts database and runs migrations.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Password == "" || cfg.Name == "" || cfg.Port == "" {
		return nil, fmt.Errorf("missing database configuration: DB_HOST, DB_USER, DB_PASSWORD, DB_NAME and DB_PORT are required")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}

// UserStore is the account lookup/creation surface the HTTP layer uses.
type UserStore interface {
	FindByUsername(username string) (*models.User, error)
	Create(user *models.User) error
}

// GormUserStore implements UserStore on top of gorm.
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

// FindByUsername returns (nil, nil) when no such user exists.
func (s *GormUserStore) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) Create(user *models.User) error {
	return s.db.Create(user).Error
}
