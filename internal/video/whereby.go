package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RoomBuffer комната живёт на полчаса дольше занятия
const RoomBuffer = 30 * time.Minute

type RoomRequest struct {
	BookingID uuid.UUID
	StartsAt  time.Time
	EndsAt    time.Time
}

type Room struct {
	MeetingID   string `json:"meetingId"`
	RoomURL     string `json:"roomUrl"`
	HostRoomURL string `json:"hostRoomUrl"`
}

// Whereby клиент REST API видеокомнат
type Whereby struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewWhereby(baseURL, apiKey string, client *http.Client) *Whereby {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Whereby{baseURL: baseURL, apiKey: apiKey, client: client}
}

type createMeetingRequest struct {
	IsLocked       bool     `json:"isLocked"`
	RoomNamePrefix string   `json:"roomNamePrefix"`
	RoomMode       string   `json:"roomMode"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
	Fields         []string `json:"fields"`
}

// CreateRoom создаёт комнату на время занятия
func (w *Whereby) CreateRoom(ctx context.Context, req RoomRequest) (*Room, error) {
	payload := createMeetingRequest{
		IsLocked:       false,
		RoomNamePrefix: "lesson-" + req.BookingID.String()[:8],
		RoomMode:       "normal",
		StartDate:      req.StartsAt.UTC().Format(time.RFC3339),
		EndDate:        req.EndsAt.Add(RoomBuffer).UTC().Format(time.RFC3339),
		Fields:         []string{"hostRoomUrl"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal meeting request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/v1/meetings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build meeting request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+w.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("create meeting: whereby returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var room Room
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return nil, fmt.Errorf("decode meeting response: %w", err)
	}

	if room.RoomURL == "" {
		return nil, fmt.Errorf("create meeting: empty room url")
	}

	return &room, nil
}
