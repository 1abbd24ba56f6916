// Package database owns the database connection lifecycle. The connection
// is constructed at startup and injected into the repositories; nothing in
// the application reaches for it as global state.
package database

import (
	"fmt"

	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Database wraps the GORM connection with explicit lifecycle methods.
type Database struct {
	DB *gorm.DB
}

// Connect opens a PostgreSQL connection from the given DSN.
func Connect(dsn string) (*Database, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Database{DB: db}, nil
}

// AutoMigrate creates or updates the schema for all models.
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection: %w", err)
	}
	return sqlDB.Close()
}
