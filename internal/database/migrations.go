package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database. The existence
// probe reads pg_indexes, so this only runs against postgres.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Ticket indexes for filtering and sorting
		{"tickets", "idx_tickets_created_by_id", "created_by_id"},
		{"tickets", "idx_tickets_assigned_to_id", "assigned_to_id"},
		{"tickets", "idx_tickets_status", "status"},
		{"tickets", "idx_tickets_priority", "priority"},
		{"tickets", "idx_tickets_created_at", "created_at"},
		{"tickets", "idx_tickets_updated_at", "updated_at"},

		// Comment indexes
		{"comments", "idx_comments_ticket_id", "ticket_id"},
		{"comments", "idx_comments_author_id", "author_id"},

		// User email lookups during authentication
		{"users", "idx_users_email", "email"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Scan(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
