package db

import (
	"fmt"
	"strings"
	"time"

	"whispermap/internal/story"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens Postgres, or SQLite when the DSN starts with "sqlite:" (local dev and tests).
func Connect(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	sqliteDSN, isSQLite := strings.CutPrefix(dsn, "sqlite:")
	if isSQLite {
		dialector = sqlite.Open(sqliteDSN)
	} else {
		dialector = postgres.Open(dsn)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if isSQLite {
		// one connection keeps in-memory databases shared and writes serialized
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&story.Story{},
		&story.Reaction{},
		&story.Report{},
	); err != nil {
		return err
	}

	stmts := []string{
		`create index if not exists idx_stories_created on stories(created_at desc, id desc);`,
		`create index if not exists idx_stories_category_created on stories(category, created_at desc);`,
		`create index if not exists idx_stories_trending on stories(created_at, likes);`,
		`create index if not exists idx_reactions_story_type on reactions(story_id, type);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
