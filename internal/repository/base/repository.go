package base

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Коды ошибок PostgreSQL для нарушенных ограничений
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// Ограничения схемы с доменным смыслом, остальные нарушения возвращаются как есть
var constraintErrors = map[string]error{
	"bookings_no_overlap":    model.ErrSlotConflict,
	"reviews_booking_id_key": model.ErrAlreadyReviewed,
}

type txKey struct{}

// querier общий интерфейс пула и транзакции
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository базовый репозиторий с общими методами
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт новый базовый репозиторий
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// conn возвращает транзакцию из контекста или пул
func (r *Repository) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.pool
}

// QueryRow выполняет запрос и возвращает одну строку
func (r *Repository) QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row {
	return r.conn(ctx).QueryRow(ctx, query, args...)
}

// Query выполняет запрос и возвращает множество строк
func (r *Repository) Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error) {
	return r.conn(ctx).Query(ctx, query, args...)
}

// ExecAffected выполняет команду и возвращает количество затронутых строк
func (r *Repository) ExecAffected(ctx context.Context, query string, args ...interface{}) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// InTx выполняет fn в одной транзакции. Перед этим берёт транзакционные
// advisory-блокировки на каждую пару (репетитор, дата), в отсортированном порядке.
// Если транзакция уже есть в контексте, fn выполняется в ней.
func (r *Repository) InTx(ctx context.Context, days []model.TutorDay, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, key := range lockKeys(days) {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
			return fmt.Errorf("lock %s: %w", key, err)
		}
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", MapError(err))
	}

	return nil
}

func lockKeys(days []model.TutorDay) []string {
	seen := make(map[string]struct{}, len(days))
	keys := make([]string, 0, len(days))
	for _, d := range days {
		k := d.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsNotFound проверяет является ли ошибка "строка не найдена"
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// MapError переводит ошибки ограничений PostgreSQL в доменные
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return model.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation, pgUniqueViolation:
			if target, ok := constraintErrors[pgErr.ConstraintName]; ok {
				return fmt.Errorf("%w: %s", target, pgErr.ConstraintName)
			}
		}
	}

	return err
}
