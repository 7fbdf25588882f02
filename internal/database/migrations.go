package database

import (
	"strings"

	"hypeshelf/internal/logger"
	"hypeshelf/internal/models"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.User{},
		&models.Recommendation{},
		&models.ActivityLog{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			log.Er("Failed to migrate model", err, "model", model)
			return err
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		// At most one admin row can ever exist; two racing bootstrap
		// inserts cannot both commit role 'admin'.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_bootstrap_admin ON users(role) WHERE role = 'admin'",
		"CREATE INDEX IF NOT EXISTS idx_recommendations_genre_created_at ON recommendations(genre, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_recommendations_created_at ON recommendations(created_at DESC, id DESC)",
		"CREATE INDEX IF NOT EXISTS idx_activity_logs_created_at ON activity_logs(created_at)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			// The bootstrap-admin index enforces the single-admin
			// invariant; starting without it is not safe.
			if strings.Contains(indexSQL, "UNIQUE") {
				return log.Err("failed to create unique index", err, "sql", indexSQL)
			}
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
