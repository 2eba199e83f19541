package db

// Migrate runs all database migrations
func (d *DB) Migrate() error {
	return d.WithLock(func() error {
		_, err := d.db.Exec(`
			CREATE TABLE IF NOT EXISTS conversations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				kind TEXT NOT NULL CHECK(kind IN ('individual', 'group')),
				show_id TEXT,
				title TEXT NOT NULL,
				chain_id TEXT,
				chain_length INTEGER NOT NULL DEFAULT 0,
				last_speaker_id TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}

		_, err = d.db.Exec(`
			CREATE TABLE IF NOT EXISTS messages (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				conversation_id INTEGER NOT NULL,
				role TEXT NOT NULL CHECK(role IN ('system', 'user', 'assistant')),
				character_id TEXT,
				content TEXT NOT NULL,
				chain_id TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
			)
		`)
		if err != nil {
			return err
		}

		_, err = d.db.Exec(`
			CREATE TABLE IF NOT EXISTS conversation_characters (
				conversation_id INTEGER NOT NULL,
				character_id TEXT NOT NULL,
				PRIMARY KEY (conversation_id, character_id),
				FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
			)
		`)
		if err != nil {
			return err
		}

		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id)",
			"CREATE INDEX IF NOT EXISTS idx_messages_chain ON messages(chain_id)",
			"CREATE INDEX IF NOT EXISTS idx_conversation_characters ON conversation_characters(conversation_id)",
		}
		for _, idx := range indexes {
			if _, err := d.db.Exec(idx); err != nil {
				return err
			}
		}

		return nil
	})
}
