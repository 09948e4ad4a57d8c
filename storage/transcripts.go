// Package storage persists conversation transcripts to a local SQLite
// database. Each completed turn is journaled with the user's message and the
// assistant's reply, so past conversations survive restarts.
package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type TranscriptEntry struct {
	ID            int64
	Conversation  string
	UserMessage   string
	AssistantText string
	Model         string
	CreatedAt     time.Time
}

type TranscriptStorage struct {
	db *sql.DB
}

func NewTranscriptStorage(dataDir string) (*TranscriptStorage, error) {
	dbPath := filepath.Join(dataDir, "transcripts.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	storage := &TranscriptStorage{db: db}

	if err := storage.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return storage, nil
}

func (ts *TranscriptStorage) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transcripts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation TEXT NOT NULL,
		user_message TEXT NOT NULL,
		assistant_text TEXT NOT NULL,
		model TEXT,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transcripts_conversation ON transcripts(conversation);
	`

	_, err := ts.db.Exec(schema)
	return err
}

// Append journals one completed turn.
func (ts *TranscriptStorage) Append(entry TranscriptEntry) error {
	query := `
	INSERT INTO transcripts (conversation, user_message, assistant_text, model, created_at)
	VALUES (?, ?, ?, ?, ?)
	`

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := ts.db.Exec(query,
		entry.Conversation,
		entry.UserMessage,
		entry.AssistantText,
		entry.Model,
		entry.CreatedAt,
	)

	return err
}

// List returns a conversation's turns, oldest first.
func (ts *TranscriptStorage) List(conversation string) ([]TranscriptEntry, error) {
	query := `
	SELECT id, conversation, user_message, assistant_text, model, created_at
	FROM transcripts
	WHERE conversation = ?
	ORDER BY id ASC
	`

	rows, err := ts.db.Query(query, conversation)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TranscriptEntry
	for rows.Next() {
		var entry TranscriptEntry
		err := rows.Scan(
			&entry.ID,
			&entry.Conversation,
			&entry.UserMessage,
			&entry.AssistantText,
			&entry.Model,
			&entry.CreatedAt,
		)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Count returns the number of journaled turns across all conversations.
func (ts *TranscriptStorage) Count() (int64, error) {
	var n int64
	err := ts.db.QueryRow(`SELECT COUNT(*) FROM transcripts`).Scan(&n)
	return n, err
}

func (ts *TranscriptStorage) Close() error {
	if ts.db != nil {
		return ts.db.Close()
	}
	return nil
}
