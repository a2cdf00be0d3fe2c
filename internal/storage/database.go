package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/amaumene/kioskarr/internal/session"
)

// ClientState is a persisted key/value pair of kiosk client state
type ClientState struct {
	Name      string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// Database wraps the local SQLite store of the kiosk client
type Database struct {
	db *gorm.DB
}

// NewDatabase opens (and migrates) the SQLite database at path
func NewDatabase(path string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&ClientState{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// get reads a value by key
func (d *Database) get(key string) (string, error) {
	var state ClientState
	err := d.db.First(&state, "name = ?", key).Error
	if err != nil {
		return "", err
	}
	return state.Value, nil
}

// put inserts or replaces a value by key
func (d *Database) put(key, value string) error {
	state := ClientState{Name: key, Value: value, UpdatedAt: time.Now()}
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&state).Error
}

// Token operations

// LoadToken retrieves the persisted bearer token
func (d *Database) LoadToken() (string, error) {
	token, err := d.get(session.TokenKey)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && token == "") {
		return "", session.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// SaveToken persists the bearer token under its fixed key
func (d *Database) SaveToken(token string) error {
	if err := d.put(session.TokenKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// DeleteToken removes the persisted bearer token
func (d *Database) DeleteToken() error {
	if err := d.db.Delete(&ClientState{}, "name = ?", session.TokenKey).Error; err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
