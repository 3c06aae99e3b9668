package surveydb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Conversation is one annotated transcript. PromptedAs records the
// manipulation category the generating prompt asked for ("" for control
// conversations); Transcript carries the raw message JSON untouched.
type Conversation struct {
	UUID       string          `json:"uuid"`
	Model      string          `json:"model"`
	PromptedAs string          `json:"prompted_as"`
	Batch      int             `json:"batch"`
	Timestamp  int64           `json:"timestamp"`
	Transcript json.RawMessage `json:"conversation"`
}

var ErrConversationNotFound = errors.New("conversation not found")

// UpsertConversation inserts a conversation, replacing any existing row
// with the same UUID. Uploads are replayed whole, so replacement keeps the
// operation idempotent.
func (db *DB) UpsertConversation(c *Conversation) error {
	if c.UUID == "" {
		return fmt.Errorf("conversation uuid must not be empty")
	}

	_, err := db.Exec(`
		INSERT INTO conversations (uuid, model, prompted_as, batch, timestamp, conversation)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (uuid) DO UPDATE SET
			model = excluded.model,
			prompted_as = excluded.prompted_as,
			batch = excluded.batch,
			timestamp = excluded.timestamp,
			conversation = excluded.conversation
	`, c.UUID, c.Model, c.PromptedAs, c.Batch, c.Timestamp, string(c.Transcript))
	if err != nil {
		return fmt.Errorf("failed to upsert conversation %s: %w", c.UUID, err)
	}
	return nil
}

// GetConversation returns one conversation by UUID.
func (db *DB) GetConversation(uuid string) (*Conversation, error) {
	var c Conversation
	var transcript sql.NullString
	err := db.QueryRow(`
		SELECT uuid, model, prompted_as, batch, timestamp, conversation
		FROM conversations WHERE uuid = ?
	`, uuid).Scan(&c.UUID, &c.Model, &c.PromptedAs, &c.Batch, &c.Timestamp, &transcript)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation %s: %w", uuid, err)
	}
	if transcript.Valid {
		c.Transcript = json.RawMessage(transcript.String)
	}
	return &c, nil
}

// ListConversations returns conversations ordered by UUID, optionally
// restricted to one batch.
func (db *DB) ListConversations(batch *int) ([]Conversation, error) {
	query := `SELECT uuid, model, prompted_as, batch, timestamp, conversation FROM conversations`
	var args []interface{}
	if batch != nil {
		query += ` WHERE batch = ?`
		args = append(args, *batch)
	}
	query += ` ORDER BY uuid`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		var transcript sql.NullString
		if err := rows.Scan(&c.UUID, &c.Model, &c.PromptedAs, &c.Batch, &c.Timestamp, &transcript); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		if transcript.Valid {
			c.Transcript = json.RawMessage(transcript.String)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ConversationsForUser returns the conversations in the user's assigned
// batches, ordered by UUID.
func (db *DB) ConversationsForUser(username string) ([]Conversation, error) {
	batches, err := db.UserBatches(username)
	if err != nil {
		return nil, err
	}

	var out []Conversation
	for _, b := range batches {
		b := b
		convs, err := db.ListConversations(&b)
		if err != nil {
			return nil, err
		}
		out = append(out, convs...)
	}
	return out, nil
}
