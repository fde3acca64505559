package database

import (
	"candlearena.com/tradesim/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the postgres connection described by dsn.
//
// An empty dsn is not an error: the service is allowed to run without a
// database (every read then resolves to an empty result), so we return a nil
// DB and let callers check IsConfigured.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		logger.Warnf("DATABASE_URL is not set, running without a database")
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// IsConfigured reports whether a usable database connection exists.
func IsConfigured(db *gorm.DB) bool {
	return db != nil
}
