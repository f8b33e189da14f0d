package app

import (
	"github.com/whisperbox/secrets/postgres"
	"gorm.io/gorm"
)

// migrations is the ordered schema history of the app.
// Keys are recorded in the migrations table; never reorder or rewrite an
// entry once it has shipped.
var migrations = []postgres.Migration{
	{
		Key: "00001_create_users_table",
		Executor: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE users (
					id BIGSERIAL PRIMARY KEY,
					created_at TIMESTAMPTZ NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL,
					deleted_at TIMESTAMPTZ,
					username TEXT,
					google_id TEXT,
					facebook_id TEXT,
					display_name TEXT NOT NULL DEFAULT '',
					password_salt BYTEA,
					password_hash BYTEA,
					secret TEXT
				);
			`).Error
		},
	},
	{
		Key: "00002_users_identity_unique_indexes",
		Executor: func(tx *gorm.DB) error {
			// Partial indexes: many rows hold NULL for the identity
			// columns they do not authenticate with.
			return tx.Exec(`
				CREATE UNIQUE INDEX uniq_users_username ON users (username) WHERE username IS NOT NULL;
				CREATE UNIQUE INDEX uniq_users_google_id ON users (google_id) WHERE google_id IS NOT NULL;
				CREATE UNIQUE INDEX uniq_users_facebook_id ON users (facebook_id) WHERE facebook_id IS NOT NULL;
			`).Error
		},
	},
}
