package migrations

import (
	"gorm.io/gorm"
)

// Migration001EnsureUUIDExtension makes uuid functions available for ad-hoc
// backfills and manual tooling against the database.
func Migration001EnsureUUIDExtension() Migration {
	return Migration{
		ID:   "001_ensure_uuid_extension",
		Name: "Ensure uuid-ossp extension is available",
		Up: func(db *gorm.DB) error {
			return db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error
		},
		Down: func(db *gorm.DB) error {
			// Other databases on the cluster may depend on the extension
			return nil
		},
	}
}
