package storage

import (
	"database/sql"
	"fmt"

	"github.com/studypilot/studypilot/internal/core"
)

// ChatStore manages the append-only chat history, partitioned by mode.
type ChatStore struct {
	db *DB
}

// NewChatStore creates a chat store.
func NewChatStore(db *DB) *ChatStore {
	return &ChatStore{db: db}
}

// Append records one message.
func (s *ChatStore) Append(msg *core.ChatMessage) (*core.ChatMessage, error) {
	if msg.Timestamp == "" {
		msg.Timestamp = nowISO()
	}

	err := s.db.conn.QueryRow(`
		INSERT INTO chat_history (mode, role, content, course_context, task_references, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		msg.Mode, msg.Role, msg.Content,
		nullable(msg.CourseContext), nullable(msg.TaskReferences), msg.Timestamp,
	).Scan(&msg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to append chat message: %w", err)
	}

	return msg, nil
}

// Recent returns the last limit messages for a mode, oldest first, so the
// result can be handed to the model as-is.
func (s *ChatStore) Recent(mode string, limit int) ([]*core.ChatMessage, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, mode, role, content, course_context, task_references, timestamp
		FROM chat_history WHERE mode = ?
		ORDER BY id DESC LIMIT ?
	`, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}
	defer rows.Close()

	var msgs []*core.ChatMessage
	for rows.Next() {
		var m core.ChatMessage
		var courseContext, taskRefs sql.NullString

		err := rows.Scan(&m.ID, &m.Mode, &m.Role, &m.Content, &courseContext, &taskRefs, &m.Timestamp)
		if err != nil {
			return nil, err
		}

		m.CourseContext = stringOf(courseContext)
		m.TaskReferences = stringOf(taskRefs)
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows came back newest-first; flip to chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	return msgs, nil
}
