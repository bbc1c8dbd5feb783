package migrations

import (
	"gorm.io/gorm"
)

// Migration002AddHotPathIndexes covers the query patterns AutoMigrate's tag
// indexes do not:
//  1. conversation listing ordered by recent activity
//  2. membership join from the participants side
//  3. active-contact gate and contact listing
//  4. unread counts probing receipts by reader
func Migration002AddHotPathIndexes() Migration {
	return Migration{
		ID:   "002_add_hot_path_indexes",
		Name: "Add indexes for hot-path queries",
		Up: func(db *gorm.DB) error {
			statements := []string{
				`CREATE INDEX IF NOT EXISTS idx_conversations_activity
				 ON conversations (updated_at DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_participants_user
				 ON participants (user_id)`,
				`CREATE INDEX IF NOT EXISTS idx_contacts_owner_active
				 ON contacts (owner_id, is_active)`,
				`CREATE INDEX IF NOT EXISTS idx_message_receipts_user
				 ON message_receipts (user_id)`,
			}
			for _, stmt := range statements {
				if err := db.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Down: func(db *gorm.DB) error {
			statements := []string{
				`DROP INDEX IF EXISTS idx_message_receipts_user`,
				`DROP INDEX IF EXISTS idx_contacts_owner_active`,
				`DROP INDEX IF EXISTS idx_participants_user`,
				`DROP INDEX IF EXISTS idx_conversations_activity`,
			}
			for _, stmt := range statements {
				if err := db.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
