package main

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"travelblog/domain"
)

// DB provides the database connection.
type DB struct {
	// Object-relational mapping.
	Gorm *gorm.DB
	// Connection string containing database name, user, port etc.
	Dsn string
}

// NewDB returns a new instance of DB.
func NewDB(dsn string) *DB {
	return &DB{
		Dsn: dsn,
	}
}

// Open opens a new database connection. It also configures logging based on
// whether we're in development or in production. TranslateError makes gorm
// report unique index violations as gorm.ErrDuplicatedKey, which the like
// and user services rely on.
func Open(db *DB, isProd bool) (err error) {
	if db.Dsn == "" {
		return fmt.Errorf("dsn required")
	}
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	if !isProd {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}
	db.Gorm, err = gorm.Open(postgres.Open(db.Dsn), cfg)
	if err != nil {
		return fmt.Errorf("err opening gorm postgres connection: %w", err)
	}
	return nil
}

// ConfigurePool applies connection pool limits.
func ConfigurePool(db *DB, maxIdle, maxOpen int) error {
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}

// AutoMigrate runs database migrations for all tables.
func AutoMigrate(db *DB) error {
	return db.Gorm.AutoMigrate(
		&domain.User{},
		&domain.Post{},
		&domain.Comment{},
		&domain.Like{},
	)
}

// Close closes the database connection.
func Close(db *DB) error {
	sqlDB, _ := db.Gorm.DB()
	return sqlDB.Close()
}
