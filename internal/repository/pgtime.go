package repository

import (
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/jackc/pgx/v5/pgtype"
)

// clockParam переводит время суток в значение колонки time
func clockParam(c model.Clock) pgtype.Time {
	return pgtype.Time{
		Microseconds: int64(c) * int64(time.Minute/time.Microsecond),
		Valid:        true,
	}
}

// clockFromPg секунды в колонке отбрасываются
func clockFromPg(t pgtype.Time) model.Clock {
	return model.Clock(t.Microseconds / int64(time.Minute/time.Microsecond))
}
