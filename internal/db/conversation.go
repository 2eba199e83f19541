package db

import (
	"database/sql"
	"time"

	"character-chat/internal/models"
)

// CreateConversation creates a new conversation with its participant
// character ids
func (d *DB) CreateConversation(kind models.ConversationKind, showID, title string, characterIDs []string) (*models.Conversation, error) {
	return WithLockResult(d, func() (*models.Conversation, error) {
		result, err := d.db.Exec(
			`INSERT INTO conversations (kind, show_id, title) VALUES (?, ?, ?)`,
			string(kind), showID, title,
		)
		if err != nil {
			return nil, err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, err
		}

		for _, charID := range characterIDs {
			if _, err := d.db.Exec(
				`INSERT INTO conversation_characters (conversation_id, character_id) VALUES (?, ?)`,
				id, charID,
			); err != nil {
				return nil, err
			}
		}

		return &models.Conversation{
			ID:        id,
			Kind:      kind,
			ShowID:    showID,
			Title:     title,
			CreatedAt: time.Now(),
		}, nil
	})
}

// GetConversation retrieves a conversation by ID, including any chain
// state persisted from a previous session
func (d *DB) GetConversation(id int64) (*models.Conversation, error) {
	return WithLockResult(d, func() (*models.Conversation, error) {
		row := d.db.QueryRow(
			`SELECT id, kind, show_id, title, chain_id, chain_length, last_speaker_id, created_at
			 FROM conversations WHERE id = ?`,
			id,
		)
		return scanConversation(row)
	})
}

// GetAllConversations retrieves all conversations, newest first
func (d *DB) GetAllConversations() ([]models.Conversation, error) {
	return WithLockResult(d, func() ([]models.Conversation, error) {
		rows, err := d.db.Query(
			`SELECT id, kind, show_id, title, chain_id, chain_length, last_speaker_id, created_at
			 FROM conversations ORDER BY created_at DESC`,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var convs []models.Conversation
		for rows.Next() {
			conv, err := scanConversationRows(rows)
			if err != nil {
				return nil, err
			}
			convs = append(convs, *conv)
		}
		return convs, rows.Err()
	})
}

// GetConversationCharacterIDs returns the participant character ids of a
// conversation in insertion order
func (d *DB) GetConversationCharacterIDs(conversationID int64) ([]string, error) {
	return WithLockResult(d, func() ([]string, error) {
		rows, err := d.db.Query(
			`SELECT character_id FROM conversation_characters
			 WHERE conversation_id = ? ORDER BY rowid`,
			conversationID,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, rows.Err()
	})
}

// UpdateChainState sets the conversation's chain id, length, and last
// speaking character
func (d *DB) UpdateChainState(conversationID int64, chainID string, chainLength int, lastSpeakerID string) error {
	return d.WithLock(func() error {
		_, err := d.db.Exec(
			`UPDATE conversations SET chain_id = ?, chain_length = ?, last_speaker_id = ? WHERE id = ?`,
			nullable(chainID), chainLength, nullable(lastSpeakerID), conversationID,
		)
		return err
	})
}

// ClearConversation deletes all messages and resets chain state.
// Used on termination.
func (d *DB) ClearConversation(conversationID int64) error {
	return d.WithLock(func() error {
		if _, err := d.db.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conversationID); err != nil {
			return err
		}
		_, err := d.db.Exec(
			`UPDATE conversations SET chain_id = NULL, chain_length = 0, last_speaker_id = NULL WHERE id = ?`,
			conversationID,
		)
		return err
	})
}

// DeleteConversation removes a conversation and its messages
func (d *DB) DeleteConversation(id int64) error {
	return d.WithLock(func() error {
		_, err := d.db.Exec(`DELETE FROM conversations WHERE id = ?`, id)
		return err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row *sql.Row) (*models.Conversation, error) {
	return scanConversationRows(row)
}

func scanConversationRows(row rowScanner) (*models.Conversation, error) {
	var conv models.Conversation
	var kind string
	var showID, chainID, lastSpeaker sql.NullString
	if err := row.Scan(&conv.ID, &kind, &showID, &conv.Title, &chainID, &conv.ChainLength, &lastSpeaker, &conv.CreatedAt); err != nil {
		return nil, err
	}
	conv.Kind = models.ConversationKind(kind)
	conv.ShowID = showID.String
	conv.ChainID = chainID.String
	conv.LastSpeakerID = lastSpeaker.String
	return &conv, nil
}

// nullable maps "" to NULL for optional text columns
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
