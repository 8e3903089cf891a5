// Package store persists game sessions.
package store

import (
	"errors"

	"github.com/tatianab/text-rpg/internal/models"
)

// ErrNotFound is returned when no saved session has the requested id.
var ErrNotFound = errors.New("session not found")

// Store defines session persistence.
type Store interface {
	Save(s *models.Session) error
	Load(id string) (*models.Session, error)
	List() ([]string, error)
	Close() error
}
