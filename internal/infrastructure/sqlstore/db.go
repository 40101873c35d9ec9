package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens the SQLite database at path with foreign keys enforced and migrates the schema.
// path may be a plain file path or a "file:" URI.
func Open(path string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	db, err := gorm.Open(sqlite.Open(dsn(path)), config)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the catalog and user tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&carMakeRow{}, &carModelRow{}, &userRow{}); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}

// ResetCatalog drops the car catalog tables and recreates them empty. Users are kept.
func ResetCatalog(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&carModelRow{}, &carMakeRow{}); err != nil {
		return fmt.Errorf("failed to drop catalog tables: %w", err)
	}
	return Migrate(db)
}

// Ping checks that the underlying connection is usable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dsn(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
