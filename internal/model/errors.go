package model

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidWindow     = errors.New("requested time is outside the tutor's availability")
	ErrSlotConflict      = errors.New("time slot overlaps an active booking")
	ErrCutoffExceeded    = errors.New("booking can no longer be modified")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrInvalidInput      = errors.New("invalid input")
	ErrPaymentFailed     = errors.New("payment was not completed")
	ErrAlreadyReviewed   = errors.New("booking already has a review")
)
