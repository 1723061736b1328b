package repository

import "errors"

var (
	// ErrCardNotFound indicates no card exists with the requested ID
	ErrCardNotFound = errors.New("card not found")

	// ErrInvalidCard indicates a card that cannot be stored
	ErrInvalidCard = errors.New("invalid card")

	// ErrRepositoryUnavailable indicates the repository is unavailable
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)
