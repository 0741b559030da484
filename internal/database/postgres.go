package database

import (
	"fmt"

	"slack-service/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewPostgresConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true, // surfaces gorm.ErrDuplicatedKey on unique violations
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)

	return db, nil
}

// Migrate applies the schema plus the composite indexes the feed and
// uniqueness invariants rely on.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.Member{},
		&models.Channel{},
		&models.Conversation{},
		&models.Message{},
		&models.Reaction{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}

	return addIndexes(db)
}

func addIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		// The sole feed query path: composite key, newest-first.
		{
			"idx_messages_feed",
			"CREATE INDEX IF NOT EXISTS idx_messages_feed ON messages (channel_id, parent_message_id, conversation_id, created_at DESC)",
		},
		{
			"idx_messages_parent",
			"CREATE INDEX IF NOT EXISTS idx_messages_parent ON messages (parent_message_id)",
		},
		{
			"idx_reactions_message",
			"CREATE INDEX IF NOT EXISTS idx_reactions_message ON reactions (message_id)",
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %v", idx.name, err)
		}
	}
	return nil
}
