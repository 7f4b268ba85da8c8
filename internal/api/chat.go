package api

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lalith-99/almoftah/internal/middleware"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/service"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxClientFrame = 512
)

type ChatHandler struct {
	svc      *service.ChatService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewChatHandler accepts WebSocket handshakes from allowedOrigins. With
// none configured only same-host origins are accepted.
func NewChatHandler(svc *service.ChatService, allowedOrigins []string, logger *zap.Logger) *ChatHandler {
	up := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	if len(allowedOrigins) > 0 {
		up.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, origin)
		}
	}
	return &ChatHandler{svc: svc, upgrader: up, logger: logger}
}

type messageRequest struct {
	Text string `json:"text"`
}

// GetForUnit handles GET /v1/properties/:id/chat
func (h *ChatHandler) GetForUnit(c *gin.Context) {
	unitID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	ch, err := h.svc.GetForUnit(c.Request.Context(), middleware.GetViewer(c), unitID)
	if err != nil {
		respondError(c, h.logger, err, "load chat")
		return
	}
	c.JSON(http.StatusOK, ch)
}

// Send handles POST /v1/properties/:id/chat
func (h *ChatHandler) Send(c *gin.Context) {
	unitID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ch, err := h.svc.SendUserMessage(c.Request.Context(), middleware.GetViewer(c), unitID, req.Text)
	if err != nil {
		respondError(c, h.logger, err, "send message")
		return
	}
	c.JSON(http.StatusOK, ch)
}

// Inbox handles GET /v1/admin/chats
func (h *ChatHandler) Inbox(c *gin.Context) {
	chats, err := h.svc.Inbox(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "list chats")
		return
	}
	c.JSON(http.StatusOK, chats)
}

// Open handles GET /v1/admin/chats/:id
func (h *ChatHandler) Open(c *gin.Context) {
	ch, err := h.svc.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "open chat")
		return
	}
	c.JSON(http.StatusOK, ch)
}

// Reply handles POST /v1/admin/chats/:id/reply
func (h *ChatHandler) Reply(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ch, err := h.svc.Reply(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		respondError(c, h.logger, err, "reply")
		return
	}
	c.JSON(http.StatusOK, ch)
}

// Subscribe handles GET /v1/chats/:id/ws
//
// The socket first receives the current document, then every published
// snapshot. Client frames are read only to notice the close.
func (h *ChatHandler) Subscribe(c *gin.Context) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	chatID := c.Param("id")
	current, updates, unsubscribe, err := h.svc.Subscribe(ctx, middleware.GetViewer(c), chatID)
	if err != nil {
		respondError(c, h.logger, err, "subscribe to chat")
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("chat_id", chatID), zap.Error(err))
		return
	}
	defer conn.Close()

	go readPump(conn, cancel)

	if err := h.writePump(ctx, conn, current, updates); err != nil {
		h.logger.Debug("chat socket closed", zap.String("chat_id", chatID), zap.Error(err))
	}
}

func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(maxClientFrame)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *ChatHandler) writePump(ctx context.Context, conn *websocket.Conn, current *models.Chat, updates <-chan *models.Chat) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	if err := writeSnapshot(conn, current); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return ctx.Err()
		case snap, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "subscription ended"),
					time.Now().Add(writeWait))
				return nil
			}
			if err := writeSnapshot(conn, snap); err != nil {
				return err
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, c *models.Chat) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(c)
}
