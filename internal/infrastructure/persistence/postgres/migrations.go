package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE PLAYER RECORDS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
CREATE TABLE IF NOT EXISTS player_records (
    user_id TEXT PRIMARY KEY,
    record JSONB NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT record_is_object CHECK (jsonb_typeof(record) = 'object')
);

CREATE INDEX IF NOT EXISTS idx_player_records_level
    ON player_records (((record->>'lvl')::INTEGER) DESC);
`

const migration001Down = `
DROP TABLE IF EXISTS player_records;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_player_records",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
	}
}
