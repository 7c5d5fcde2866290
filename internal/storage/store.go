// Package storage implements the key-value backends that hold shared location lists.
package storage

import (
	"context"
	"errors"

	"github.com/tilewx/backend/internal/models"
)

var (
	// ErrShareNotFound is returned by Get when no payload exists for the code.
	ErrShareNotFound = errors.New("share not found")
	// ErrShareExists is returned by Put when the code is already taken. Shares are write-once.
	ErrShareExists = errors.New("share code already exists")
)

// ShareStore persists share payloads keyed by their short code.
type ShareStore interface {
	Put(ctx context.Context, code string, locations []models.SharedLocation) error
	Get(ctx context.Context, code string) ([]models.SharedLocation, error)
	Close() error
}
