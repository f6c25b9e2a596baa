package api

import (
	"net/http"

	"github.com/Freeeeeet/tutorhub/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewRealtimeHandler origins пустой - принимаются любые источники
func NewRealtimeHandler(hub *realtime.Hub, origins []string, logger *zap.Logger) *RealtimeHandler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				_, ok := allowed[r.Header.Get("Origin")]
				return ok
			},
		},
		logger: logger,
	}
}

// Subscribe GET /ws?topic=<tutor id>. Клиент получает изменения занятости репетитора,
// полные события бронирований видит только сам репетитор.
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	topic, err := uuid.Parse(c.Query("topic"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid topic", Code: "invalid_input"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Debug("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := realtime.NewClient(topic, currentUser(c), conn)
	h.hub.Subscribe(client)

	h.logger.Debug("Realtime client subscribed",
		zap.String("client_id", client.ID.String()),
		zap.String("topic", topic.String()),
		zap.String("user_id", client.UserID.String()),
	)

	go h.hub.WritePump(client)
	go h.hub.ReadPump(client)
}
