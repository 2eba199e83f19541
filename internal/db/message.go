package db

import (
	"database/sql"
	"time"

	"character-chat/internal/models"
)

// AppendMessage appends a message to a conversation. Conversations are
// append-only; stored messages are never edited.
func (d *DB) AppendMessage(msg *models.Message) (*models.Message, error) {
	return WithLockResult(d, func() (*models.Message, error) {
		result, err := d.db.Exec(
			`INSERT INTO messages (conversation_id, role, character_id, content, chain_id)
			 VALUES (?, ?, ?, ?, ?)`,
			msg.ConversationID, string(msg.Role), nullable(msg.CharacterID), msg.Content, nullable(msg.ChainID),
		)
		if err != nil {
			return nil, err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, err
		}

		stored := *msg
		stored.ID = id
		stored.CreatedAt = time.Now()
		return &stored, nil
	})
}

// GetMessages retrieves all messages of a conversation in append order
func (d *DB) GetMessages(conversationID int64) ([]models.Message, error) {
	return WithLockResult(d, func() ([]models.Message, error) {
		rows, err := d.db.Query(
			`SELECT id, conversation_id, role, character_id, content, chain_id, created_at
			 FROM messages WHERE conversation_id = ? ORDER BY id`,
			conversationID,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var msgs []models.Message
		for rows.Next() {
			var msg models.Message
			var role string
			var charID, chainID sql.NullString
			if err := rows.Scan(&msg.ID, &msg.ConversationID, &role, &charID, &msg.Content, &chainID, &msg.CreatedAt); err != nil {
				return nil, err
			}
			msg.Role = models.Role(role)
			msg.CharacterID = charID.String
			msg.ChainID = chainID.String
			msgs = append(msgs, msg)
		}
		return msgs, rows.Err()
	})
}
