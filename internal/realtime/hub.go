package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBufferSize = 64
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
)

// Message формат всех сообщений в канале
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client подписчик на изменения бронирований одного репетитора
type Client struct {
	ID     uuid.UUID
	Topic  uuid.UUID
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan Message
	Done   chan struct{}

	closeOnce sync.Once
}

func NewClient(topic, userID uuid.UUID, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New(),
		Topic:  topic,
		UserID: userID,
		Conn:   conn,
		Send:   make(chan Message, sendBufferSize),
		Done:   make(chan struct{}),
	}
}

// Close закрывает соединение, повторный вызов ничего не делает
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.Done)
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}

// Hub рассылает события бронирований подписчикам, ключ - ID репетитора
type Hub struct {
	mu     sync.RWMutex
	topics map[uuid.UUID]map[uuid.UUID]*Client
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		topics: make(map[uuid.UUID]map[uuid.UUID]*Client),
		logger: logger,
	}
}

// Subscribe добавляет клиента в топик
func (h *Hub) Subscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.topics[client.Topic]
	if !ok {
		clients = make(map[uuid.UUID]*Client)
		h.topics[client.Topic] = clients
	}
	clients[client.ID] = client
}

// Unsubscribe удаляет клиента, пустой топик удаляется
func (h *Hub) Unsubscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.topics[client.Topic]
	if !ok {
		return
	}

	delete(clients, client.ID)
	if len(clients) == 0 {
		delete(h.topics, client.Topic)
	}
}

// Subscribers число подписчиков топика
func (h *Hub) Subscribers(topic uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.topics[topic])
}

// PublishBookingEvent отправляет событие подписчикам репетитора.
// Сам репетитор получает событие целиком, остальные только SlotChange.
// Медленный клиент с полным буфером пропускает сообщение.
func (h *Hub) PublishBookingEvent(_ context.Context, event model.BookingEvent) {
	full := Message{Type: string(event.Type), Payload: event}

	var public *Message
	if change := newSlotChange(event); change != nil {
		public = &Message{Type: string(event.Type), Payload: change}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.topics[event.Booking.TutorID] {
		msg := full
		if client.UserID != event.Booking.TutorID {
			if public == nil {
				continue
			}
			msg = *public
		}

		select {
		case client.Send <- msg:
		default:
			h.logger.Warn("Dropping realtime message for slow client",
				zap.String("client_id", client.ID.String()),
				zap.String("type", msg.Type),
			)
		}
	}
}

// ReadPump читает входящие сообщения до закрытия соединения.
// Клиент ничего полезного не присылает, поддерживается только ping.
func (h *Hub) ReadPump(client *Client) {
	defer func() {
		h.Unsubscribe(client)
		client.Close()
	}()

	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("Realtime client closed unexpectedly", zap.Error(err))
			}
			return
		}

		if msg.Type == "ping" {
			select {
			case client.Send <- Message{Type: "pong", Payload: struct{}{}}:
			default:
			}
		}
	}
}

// WritePump пишет исходящие сообщения и пинги
func (h *Hub) WritePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Close()
	}()

	for {
		select {
		case msg := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteJSON(msg); err != nil {
				h.logger.Debug("Failed to write realtime message", zap.Error(err))
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-client.Done:
			return
		}
	}
}
