package service

import "errors"

// Meetup and subscription rule violations
var (
	ErrInvalidDate           = errors.New("meetup date must be in the future")
	ErrDuplicateTitle        = errors.New("meetup title already exists")
	ErrDuplicateDate         = errors.New("a meetup already exists at this date")
	ErrNotAuthorized         = errors.New("not authorized")
	ErrAlreadyPast           = errors.New("meetup has already happened")
	ErrNotFound              = errors.New("not found")
	ErrSelfSubscription      = errors.New("cannot subscribe to your own meetup")
	ErrDuplicateSubscription = errors.New("already subscribed to this meetup")
	ErrTimeConflict          = errors.New("already subscribed to a meetup at the same time")
)

// User and session errors
var (
	ErrNameTaken            = errors.New("user name already exists")
	ErrEmailTaken           = errors.New("user email already exists")
	ErrPasswordRequired     = errors.New("password required")
	ErrPasswordConfirmation = errors.New("password confirmation does not match")
	ErrPasswordMismatch     = errors.New("old password does not match")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

// File errors
var (
	ErrFileNotFound        = errors.New("file not found")
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedFileType = errors.New("only image uploads are allowed")
)
