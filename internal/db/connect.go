// Package db provides GORM connection and migration helpers for the
// Fleetyard store.
package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the embedded SQLite store at path. This is the default,
// offline-first mode: one database file per technician device.
func Connect(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", path, err)
	}
	return db, nil
}

// DepotDSN builds a MySQL DSN for a shared depot server.
func DepotDSN(host string, port int, database string) string {
	return fmt.Sprintf("fleetyard@tcp(%s:%d)/%s?parseTime=true", host, port, database)
}

// ConnectDepot opens a GORM connection to a shared MySQL depot server, for
// shops where several technicians work against one database.
func ConnectDepot(host string, port int, database string) (*gorm.DB, error) {
	dsn := DepotDSN(host, port, database)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect to %s:%d/%s: %w", host, port, database, err)
	}
	return db, nil
}
