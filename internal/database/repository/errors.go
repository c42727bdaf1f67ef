package repository

import (
	"errors"

	"gorm.io/gorm"
)

// Repository errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrTokenNotFound        = errors.New("token not found")
	ErrTokenExpired         = errors.New("token expired")
	ErrFileNotFound         = errors.New("file not found")
	ErrMeetupNotFound       = errors.New("meetup not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrDuplicateKey         = errors.New("duplicate key")
)

// translate maps gorm errors onto repository errors. notFound is returned
// for gorm.ErrRecordNotFound; duplicate-key violations become ErrDuplicateKey.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}
