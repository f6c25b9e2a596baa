package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// RoomHorizon насколько вперёд ищутся подтверждённые занятия без комнаты
const RoomHorizon = 48 * time.Hour

// RoomProvisioner создаёт недостающие видеокомнаты
type RoomProvisioner interface {
	ProvisionMissingRooms(ctx context.Context, horizon time.Duration) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	rooms    RoomProvisioner
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(rooms RoomProvisioner, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		rooms:    rooms,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}

	s.logger.Info("Starting background scheduler", zap.Duration("room_retry_interval", s.interval))

	go s.runRoomRetryTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})

	if s.started.Load() {
		<-s.done
	}
}

// runRoomRetryTask периодически досоздаёт комнаты, которые не удалось создать при подтверждении
func (s *Scheduler) runRoomRetryTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.provisionRooms(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.provisionRooms(ctx)
		case <-s.stopChan:
			s.logger.Info("Room retry task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Room retry task cancelled")
			return
		}
	}
}

func (s *Scheduler) provisionRooms(ctx context.Context) {
	created, err := s.rooms.ProvisionMissingRooms(ctx, RoomHorizon)
	if err != nil {
		s.logger.Error("Failed to provision missing rooms", zap.Error(err))
		return
	}

	if created > 0 {
		s.logger.Info("Missing video rooms created", zap.Int("count", created))
	}
}
