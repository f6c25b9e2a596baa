package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/Freeeeeet/tutorhub/internal/schedule"
	"github.com/google/uuid"
)

// DB хранилище в памяти с теми же гарантиями, что и postgres:
// транзакции сериализуются, пересечение активных бронирований отклоняется на записи.
type DB struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	windows  map[uuid.UUID]model.AvailabilityWindow
	bookings map[uuid.UUID]model.Booking
	tutors   map[uuid.UUID]model.Tutor
	reviews  map[uuid.UUID]model.Review

	now func() time.Time
}

func New() *DB {
	return &DB{
		windows:  make(map[uuid.UUID]model.AvailabilityWindow),
		bookings: make(map[uuid.UUID]model.Booking),
		tutors:   make(map[uuid.UUID]model.Tutor),
		reviews:  make(map[uuid.UUID]model.Review),
		now:      time.Now,
	}
}

// InTx выполняет fn атомарно. Ключи блокировок игнорируются: транзакции в памяти
// выполняются строго по одной. При ошибке отменяются только записи самой транзакции.
func (db *DB) InTx(ctx context.Context, _ []model.TutorDay, fn func(ctx context.Context) error) error {
	if transactionFrom(ctx) != nil {
		return fn(ctx)
	}

	db.txMu.Lock()
	defer db.txMu.Unlock()

	tx := &transaction{}
	if err := fn(withTransaction(ctx, tx)); err != nil {
		db.rollback(tx)
		return err
	}

	return nil
}

func (db *DB) rollback(tx *transaction) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
}

// Окна доступности

func (db *DB) CreateAvailabilityWindow(ctx context.Context, w *model.AvailabilityWindow) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	w.ID = uuid.New()
	w.CreatedAt = db.now()
	remember(ctx, db.windows, w.ID)
	db.windows[w.ID] = *w

	return nil
}

func (db *DB) GetAvailabilityWindow(_ context.Context, id uuid.UUID) (*model.AvailabilityWindow, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	w, ok := db.windows[id]
	if !ok {
		return nil, fmt.Errorf("get availability window: %w", model.ErrNotFound)
	}

	return &w, nil
}

func (db *DB) ListAvailabilityWindows(_ context.Context, tutorID uuid.UUID) ([]model.AvailabilityWindow, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	windows := []model.AvailabilityWindow{}
	for _, w := range db.windows {
		if w.TutorID == tutorID {
			windows = append(windows, w)
		}
	}

	sort.Slice(windows, func(i, j int) bool {
		if windows[i].DayOfWeek != windows[j].DayOfWeek {
			return windows[i].DayOfWeek < windows[j].DayOfWeek
		}
		return windows[i].StartTime < windows[j].StartTime
	})

	return windows, nil
}

func (db *DB) DeleteAvailabilityWindow(ctx context.Context, id uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.windows[id]; !ok {
		return fmt.Errorf("delete availability window: %w", model.ErrNotFound)
	}
	remember(ctx, db.windows, id)
	delete(db.windows, id)

	return nil
}

// Бронирования

// conflictLocked аналог ограничения EXCLUDE: активное бронирование не может
// пересекаться с другим активным бронированием того же репетитора в ту же дату
func (db *DB) conflictLocked(b *model.Booking) bool {
	if !b.IsActive() {
		return false
	}

	for id, other := range db.bookings {
		if id == b.ID || !other.IsActive() {
			continue
		}
		if other.TutorID != b.TutorID || !other.LessonDate.Equal(b.LessonDate) {
			continue
		}
		if schedule.Overlaps(b.StartTime, b.EndTime, other.StartTime, other.EndTime) {
			return true
		}
	}

	return false
}

func (db *DB) InsertBooking(ctx context.Context, b *model.Booking) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	candidate := *b
	candidate.ID = uuid.New()
	candidate.LessonDate = model.DateOf(candidate.LessonDate)

	if db.conflictLocked(&candidate) {
		return fmt.Errorf("insert booking: %w", model.ErrSlotConflict)
	}

	now := db.now()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now
	remember(ctx, db.bookings, candidate.ID)
	db.bookings[candidate.ID] = candidate
	*b = candidate

	return nil
}

func (db *DB) GetBooking(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	b, ok := db.bookings[id]
	if !ok {
		return nil, fmt.Errorf("get booking by id: %w", model.ErrNotFound)
	}

	return &b, nil
}

func (db *DB) GetBookingByPaymentOrder(_ context.Context, orderID string) (*model.Booking, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, b := range db.bookings {
		if orderID != "" && b.PaymentOrderID == orderID {
			return &b, nil
		}
	}

	return nil, fmt.Errorf("get booking by payment order: %w", model.ErrNotFound)
}

func (db *DB) ListActiveBookings(_ context.Context, tutorID uuid.UUID, date time.Time) ([]*model.Booking, error) {
	date = model.DateOf(date)
	bookings := db.filter(func(b *model.Booking) bool {
		return b.TutorID == tutorID && b.LessonDate.Equal(date) && b.IsActive()
	})
	sortByStart(bookings, false)

	return bookings, nil
}

func (db *DB) ListStudentBookings(_ context.Context, studentID uuid.UUID) ([]*model.Booking, error) {
	bookings := db.filter(func(b *model.Booking) bool { return b.StudentID == studentID })
	sortByStart(bookings, true)

	return bookings, nil
}

func (db *DB) ListTutorBookings(_ context.Context, tutorID uuid.UUID) ([]*model.Booking, error) {
	bookings := db.filter(func(b *model.Booking) bool { return b.TutorID == tutorID })
	sortByStart(bookings, true)

	return bookings, nil
}

func (db *DB) ListBookingsWithoutRoom(_ context.Context, from, to time.Time) ([]*model.Booking, error) {
	from, to = model.DateOf(from), model.DateOf(to)
	bookings := db.filter(func(b *model.Booking) bool {
		return b.Status == model.BookingStatusConfirmed && b.RoomURL == "" &&
			!b.LessonDate.Before(from) && !b.LessonDate.After(to)
	})
	sortByStart(bookings, false)

	return bookings, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	return db.update(ctx, id, "update booking status", func(b *model.Booking) { b.Status = status })
}

func (db *DB) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus) error {
	return db.update(ctx, id, "update payment status", func(b *model.Booking) { b.PaymentStatus = status })
}

func (db *DB) UpdateBookingSchedule(ctx context.Context, id uuid.UUID, date time.Time, start, end model.Clock) error {
	return db.update(ctx, id, "update booking schedule", func(b *model.Booking) {
		b.LessonDate = model.DateOf(date)
		b.StartTime = start
		b.EndTime = end
	})
}

func (db *DB) UpdateBookingRoom(ctx context.Context, id uuid.UUID, roomURL, hostRoomURL string) error {
	return db.update(ctx, id, "update booking room", func(b *model.Booking) {
		b.RoomURL = roomURL
		b.HostRoomURL = hostRoomURL
	})
}

func (db *DB) UpdateBookingPaymentOrder(ctx context.Context, id uuid.UUID, provider, orderID string) error {
	return db.update(ctx, id, "update booking payment order", func(b *model.Booking) {
		b.PaymentProvider = provider
		b.PaymentOrderID = orderID
	})
}

func (db *DB) update(ctx context.Context, id uuid.UUID, op string, apply func(b *model.Booking)) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	current, ok := db.bookings[id]
	if !ok {
		return fmt.Errorf("%s: booking %w", op, model.ErrNotFound)
	}

	updated := current
	apply(&updated)

	if db.conflictLocked(&updated) {
		return fmt.Errorf("%s: %w", op, model.ErrSlotConflict)
	}

	updated.UpdatedAt = db.now()
	remember(ctx, db.bookings, id)
	db.bookings[id] = updated

	return nil
}

func (db *DB) filter(keep func(b *model.Booking) bool) []*model.Booking {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var result []*model.Booking
	for _, b := range db.bookings {
		if keep(&b) {
			copied := b
			result = append(result, &copied)
		}
	}

	return result
}

func sortByStart(bookings []*model.Booking, desc bool) {
	sort.Slice(bookings, func(i, j int) bool {
		a, b := bookings[i], bookings[j]
		if !a.LessonDate.Equal(b.LessonDate) {
			return a.LessonDate.Before(b.LessonDate) != desc
		}
		return (a.StartTime < b.StartTime) != desc
	})
}

// Репетиторы

func (db *DB) GetTutor(_ context.Context, id uuid.UUID) (*model.Tutor, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.tutors[id]
	if !ok {
		return nil, fmt.Errorf("get tutor by id: %w", model.ErrNotFound)
	}

	return &t, nil
}

func (db *DB) UpsertTutor(ctx context.Context, t *model.Tutor) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := db.now()
	if existing, ok := db.tutors[t.ID]; ok {
		t.Rating = existing.Rating
		t.TotalLessons = existing.TotalLessons
		t.CreatedAt = existing.CreatedAt
	} else {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	remember(ctx, db.tutors, t.ID)
	db.tutors[t.ID] = *t

	return nil
}

func (db *DB) UpdateTutorRating(ctx context.Context, id uuid.UUID, rating float64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	t, ok := db.tutors[id]
	if !ok {
		return fmt.Errorf("update tutor rating: tutor %w", model.ErrNotFound)
	}
	t.Rating = rating
	t.UpdatedAt = db.now()
	remember(ctx, db.tutors, id)
	db.tutors[id] = t

	return nil
}

// Отзывы

func (db *DB) InsertReview(ctx context.Context, r *model.Review) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.reviews {
		if existing.BookingID == r.BookingID {
			return fmt.Errorf("insert review: %w", model.ErrAlreadyReviewed)
		}
	}

	r.ID = uuid.New()
	r.CreatedAt = db.now()
	remember(ctx, db.reviews, r.ID)
	db.reviews[r.ID] = *r

	return nil
}

func (db *DB) GetReviewByBooking(_ context.Context, bookingID uuid.UUID) (*model.Review, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, r := range db.reviews {
		if r.BookingID == bookingID {
			return &r, nil
		}
	}

	return nil, fmt.Errorf("get review by booking: %w", model.ErrNotFound)
}

func (db *DB) ListTutorReviews(_ context.Context, tutorID uuid.UUID) ([]*model.Review, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var reviews []*model.Review
	for _, r := range db.reviews {
		if r.TutorID == tutorID {
			copied := r
			reviews = append(reviews, &copied)
		}
	}

	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})

	return reviews, nil
}

func (db *DB) AverageTutorRating(_ context.Context, tutorID uuid.UUID) (float64, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var sum, count int
	for _, r := range db.reviews {
		if r.TutorID == tutorID {
			sum += r.Rating
			count++
		}
	}

	if count == 0 {
		return 0, nil
	}

	return float64(sum) / float64(count), nil
}
