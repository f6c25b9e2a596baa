package repository

import (
	"github.com/Freeeeeet/tutorhub/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store все репозитории поверх одного пула.
// Транзакция из InTx переносится через контекст, поэтому любой метод внутри fn идёт в неё.
type Store struct {
	*base.Repository
	*AvailabilityRepository
	*BookingRepository
	*TutorRepository
	*ReviewRepository
}

func NewStore(pool *pgxpool.Pool) *Store {
	b := base.NewRepository(pool)
	return &Store{
		Repository:             b,
		AvailabilityRepository: NewAvailabilityRepository(b),
		BookingRepository:      NewBookingRepository(b),
		TutorRepository:        NewTutorRepository(b),
		ReviewRepository:       NewReviewRepository(b),
	}
}
