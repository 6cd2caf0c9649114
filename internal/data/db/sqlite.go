package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// OpenSQLite opens a file-backed (or ":memory:") database for local runs.
func OpenSQLite(path string, logg *logger.Logger) (*gorm.DB, error) {
	if path == "" {
		path = "studyplan.db"
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}
	if logg != nil {
		logg.Info("opened sqlite database", "path", path)
	}
	return db, nil
}
