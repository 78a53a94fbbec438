package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Session is conversation metadata, as listed in the leads sidebar.
type Session struct {
	SessionID uuid.UUID `json:"session_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one persisted turn half (user or assistant).
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists sessions and their message history in Postgres.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) CreateSession(ctx context.Context, title string) (uuid.UUID, error) {
	if title == "" {
		title = "New Chat"
	}
	sessionID := uuid.New()

	_, err := s.db.Exec(ctx,
		"INSERT INTO sessions (session_id, title) VALUES ($1, $2)",
		sessionID, title,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert session: %w", err)
	}
	return sessionID, nil
}

func (s *Store) AppendMessage(ctx context.Context, sessionID uuid.UUID, role, content string) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO messages (session_id, role, content) VALUES ($1, $2, $3)",
		sessionID, role, content,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *Store) SessionMessages(ctx context.Context, sessionID uuid.UUID) ([]Message, error) {
	rows, err := s.db.Query(ctx,
		`SELECT role, content, created_at
		 FROM messages
		 WHERE session_id = $1
		 ORDER BY created_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.Query(ctx,
		`SELECT session_id, title, created_at, updated_at
		 FROM sessions
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.SessionID, &sess.Title, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *Store) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.db.Exec(ctx, "DELETE FROM sessions WHERE session_id = $1", sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
