package domain

import "errors"

var (
	// ErrProjectNotFound indicates the requested project was not found.
	ErrProjectNotFound = errors.New("project not found")

	// ErrIdentityRequired indicates the operation needs an authenticated caller.
	ErrIdentityRequired = errors.New("identity required")

	// ErrDuplicateAction indicates a per-identity action was already recorded.
	// It is raised by the store's uniqueness constraint and absorbed by the
	// counter service: the action was already effectively applied.
	ErrDuplicateAction = errors.New("action already recorded")

	// ErrStoreUnavailable indicates a transient engagement store failure.
	// Callers may retry the whole operation.
	ErrStoreUnavailable = errors.New("engagement store unavailable")

	// ErrInvalidCategory indicates the category is not one of the fixed set.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrEmptyTitle indicates the project title cannot be empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyDescription indicates the project description cannot be empty.
	ErrEmptyDescription = errors.New("description cannot be empty")
)
