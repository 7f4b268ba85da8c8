package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatRows(mock pgxmock.PgxPoolIface, chats ...models.Chat) *pgxmock.Rows {
	rows := mock.NewRows([]string{
		"id", "unit_id", "unit_title", "user_id", "user_name", "messages", "last_message_at", "read_by_admin",
	})
	for _, c := range chats {
		rows.AddRow(c.ID, c.UnitID, c.UnitTitle, c.UserID, c.UserName, c.Messages, c.LastMessageAt, c.ReadByAdmin)
	}
	return rows
}

func TestChatStore_AppendMessage(t *testing.T) {
	mock := newMockDB(t)
	unitID, userID := uuid.New(), uuid.New()
	seed := &models.Chat{
		ID:        models.ChatID(userID, unitID),
		UnitID:    unitID,
		UnitTitle: "Corniche flat",
		UserID:    userID,
		UserName:  "sara",
	}
	first := models.ChatMessage{ID: "m1", Sender: models.SenderUser, Text: "Is it available?", Timestamp: fixedTime}
	reply := models.ChatMessage{ID: "m2", Sender: models.SenderAdmin, Text: "Yes", Timestamp: fixedTime.Add(2 * time.Minute)}

	stored := *seed
	stored.Messages = []models.ChatMessage{first, reply}
	stored.LastMessageAt = reply.Timestamp
	stored.ReadByAdmin = true

	mock.ExpectQuery(sqlPart("messages = chats.messages || EXCLUDED.messages")).
		WithArgs(seed.ID, unitID, "Corniche flat", userID, "sara", reply, reply.Timestamp, true).
		WillReturnRows(chatRows(mock, stored))

	got, err := NewChatStore(mock).AppendMessage(context.Background(), seed, reply, true)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2)
	assert.True(t, got.ReadByAdmin)
	assert.Equal(t, reply.Timestamp, got.LastMessageAt)
}

func TestChatStore_MarkRead_Missing(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(sqlPart("UPDATE chats SET read_by_admin = true WHERE id = $1")).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	c, err := NewChatStore(mock).MarkRead(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, c)
}
