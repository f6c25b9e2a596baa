package api

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/tutorhub/internal/model"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var registerOnce sync.Once

// registerValidators подключает к валидатору gin тег clock и имена полей из json/form
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})

		_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, err := model.ParseClock(fl.Field().String())
			return err == nil
		})
	})
}

type lessonRequest struct {
	TutorID         string `json:"tutor_id" binding:"required,uuid"`
	Date            string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time" binding:"required,clock"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,oneof=30 60 90"`
	LessonType      string `json:"lesson_type" binding:"required,oneof=trial regular"`
}

// lesson разбирает уже провалидированные поля
func (r lessonRequest) lesson() (uuid.UUID, time.Time, model.Clock, error) {
	tutorID, err := uuid.Parse(r.TutorID)
	if err != nil {
		return uuid.Nil, time.Time{}, 0, fmt.Errorf("%w: tutor_id", model.ErrInvalidInput)
	}

	date, start, err := parseSchedule(r.Date, r.StartTime)
	if err != nil {
		return uuid.Nil, time.Time{}, 0, err
	}

	return tutorID, date, start, nil
}

type createBookingRequest struct {
	lessonRequest
}

type checkoutRequest struct {
	lessonRequest
	Currency string `json:"currency" binding:"omitempty,len=3,uppercase"`
}

type captureRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
}

type rescheduleRequest struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" binding:"required,clock"`
}

type addWindowRequest struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time" binding:"required,clock"`
}

type slotsQuery struct {
	Date     string `form:"date" binding:"required,datetime=2006-01-02"`
	Duration int    `form:"duration" binding:"required,oneof=30 60 90"`
}

type saveProfileRequest struct {
	Name           string   `json:"name" binding:"required,max=120"`
	Bio            string   `json:"bio" binding:"max=2000"`
	Languages      []string `json:"languages" binding:"max=20,dive,required,max=40"`
	HourlyRate     float64  `json:"hourly_rate" binding:"gte=0"`
	TrialRate      *float64 `json:"trial_rate" binding:"omitempty,gte=0"`
	TelegramChatID *int64   `json:"telegram_chat_id"`
}

type submitReviewRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

// bookingView бронирование с подсказкой для кнопок отмены и переноса
type bookingView struct {
	*model.Booking
	CanModify      bool `json:"can_modify"`
	HoursRemaining int  `json:"hours_remaining"`
}

type slotsResponse struct {
	TutorID         uuid.UUID        `json:"tutor_id"`
	Date            string           `json:"date"`
	DurationMinutes int              `json:"duration_minutes"`
	Slots           []model.TimeSlot `json:"slots"`
}

func parseSchedule(date, start string) (time.Time, model.Clock, error) {
	d, err := model.ParseDate(date)
	if err != nil {
		return time.Time{}, 0, err
	}

	c, err := model.ParseClock(start)
	if err != nil {
		return time.Time{}, 0, err
	}

	return d, c, nil
}
