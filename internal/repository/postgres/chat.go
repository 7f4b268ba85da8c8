package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/almoftah/internal/models"
)

const chatColumns = `id, unit_id, unit_title, user_id, user_name, messages, last_message_at, read_by_admin`

type ChatStore struct {
	pool DB
}

func NewChatStore(pool DB) *ChatStore {
	return &ChatStore{pool: pool}
}

func scanChat(row pgx.Row) (*models.Chat, error) {
	var c models.Chat
	err := row.Scan(
		&c.ID,
		&c.UnitID,
		&c.UnitTitle,
		&c.UserID,
		&c.UserName,
		&c.Messages,
		&c.LastMessageAt,
		&c.ReadByAdmin,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ChatStore) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	c, err := scanChat(s.pool.QueryRow(ctx, `SELECT `+chatColumns+` FROM chats WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return c, nil
}

func (s *ChatStore) AppendMessage(ctx context.Context, seed *models.Chat, msg models.ChatMessage, readByAdmin bool) (*models.Chat, error) {
	// The append happens inside Postgres, so two senders racing on the same
	// chat both land in the array. Document fields are last-write-wins.
	query := `
		INSERT INTO chats (id, unit_id, unit_title, user_id, user_name, messages, last_message_at, read_by_admin)
		VALUES ($1, $2, $3, $4, $5, jsonb_build_array($6::jsonb), $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			messages = chats.messages || EXCLUDED.messages,
			last_message_at = EXCLUDED.last_message_at,
			read_by_admin = EXCLUDED.read_by_admin
		RETURNING ` + chatColumns

	c, err := scanChat(s.pool.QueryRow(ctx, query,
		seed.ID, seed.UnitID, seed.UnitTitle, seed.UserID, seed.UserName,
		msg, msg.Timestamp, readByAdmin,
	))
	if err != nil {
		return nil, fmt.Errorf("append chat message: %w", err)
	}
	return c, nil
}

func (s *ChatStore) MarkRead(ctx context.Context, id string) (*models.Chat, error) {
	query := `UPDATE chats SET read_by_admin = true WHERE id = $1 RETURNING ` + chatColumns

	c, err := scanChat(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("mark chat read: %w", err)
	}
	return c, nil
}

func (s *ChatStore) ListInbox(ctx context.Context) ([]models.Chat, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+chatColumns+` FROM chats ORDER BY last_message_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	chats := make([]models.Chat, 0)
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}
	return chats, nil
}
