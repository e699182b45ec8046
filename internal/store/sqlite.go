package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS chats (
        id TEXT PRIMARY KEY, -- UUID
        title TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS messages (
        id TEXT PRIMARY KEY, -- UUID
        chat_id TEXT NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
        content TEXT NOT NULL,
        intent TEXT,
        language TEXT,
        created_at DATETIME NOT NULL,
        FOREIGN KEY (chat_id) REFERENCES chats (id)
    );

    CREATE INDEX IF NOT EXISTS idx_messages_chat_created ON messages (chat_id, created_at);
    `
	_, err := s.db.Exec(schema)
	return err
}

// Chat methods

func (s *SQLiteStore) CreateChat(title string, now time.Time) (*Chat, error) {
	chatID := uuid.NewString()
	stmt, err := s.db.Prepare("INSERT INTO chats (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare chat insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(chatID, title, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to execute chat insert: %w", err)
	}
	return &Chat{ID: chatID, Title: title, CreatedAt: now, UpdatedAt: now}, nil
}

// GetChatByID returns the chat with the given id, or (nil, nil) when it
// does not exist.
func (s *SQLiteStore) GetChatByID(chatID string) (*Chat, error) {
	var chat Chat
	err := s.db.QueryRow("SELECT id, title, created_at, updated_at FROM chats WHERE id = ?", chatID).
		Scan(&chat.ID, &chat.Title, &chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &chat, nil
}

// ListChats returns all chats ordered by most recently updated first,
// which is what the conversation sidebar expects.
func (s *SQLiteStore) ListChats() ([]Chat, error) {
	rows, err := s.db.Query("SELECT id, title, created_at, updated_at FROM chats ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var chat Chat
		if err := rows.Scan(&chat.ID, &chat.Title, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// TouchChat advances the chat's updated_at marker.
func (s *SQLiteStore) TouchChat(chatID string, now time.Time) error {
	res, err := s.db.Exec("UPDATE chats SET updated_at = ? WHERE id = ?", now, chatID)
	if err != nil {
		return fmt.Errorf("failed to update chat timestamp: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("chat not found, timestamp not updated")
	}
	return nil
}

// Message methods

// GetMessagesByChatID returns a chat's messages in creation order. Rowid
// breaks ties so the user turn of a pair always precedes its assistant turn.
func (s *SQLiteStore) GetMessagesByChatID(chatID string) ([]Message, error) {
	query := "SELECT id, chat_id, role, content, intent, language, created_at FROM messages WHERE chat_id = ? ORDER BY created_at ASC, rowid ASC"
	rows, err := s.db.Query(query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		var intent, language sql.NullString
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Role, &msg.Content, &intent, &language, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		msg.Intent = intent.String
		msg.Language = language.String
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// AppendExchange writes a user/assistant message pair and bumps the chat's
// updated_at in a single transaction, so readers either see the whole
// exchange or none of it.
func (s *SQLiteStore) AppendExchange(chatID string, userMsg, assistantMsg *Message, now time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO messages (id, chat_id, role, content, intent, language, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	for _, msg := range []*Message{userMsg, assistantMsg} {
		msg.ID = uuid.NewString()
		msg.ChatID = chatID
		msg.CreatedAt = now
		if _, err := stmt.Exec(msg.ID, msg.ChatID, msg.Role, msg.Content, nullIfEmpty(msg.Intent), nullIfEmpty(msg.Language), msg.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert %s message: %w", msg.Role, err)
		}
	}

	if _, err := tx.Exec("UPDATE chats SET updated_at = ? WHERE id = ?", now, chatID); err != nil {
		return fmt.Errorf("failed to update chat timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit exchange: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
