package domain

import "errors"

var (
	// ErrNotificationNotFound indicates the notification does not exist or
	// belongs to a different recipient.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrEmptyMessage indicates the notification message cannot be empty.
	ErrEmptyMessage = errors.New("message cannot be empty")
)
