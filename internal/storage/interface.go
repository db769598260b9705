package storage

import (
	"errors"

	"github.com/julianstephens/cyclefit/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("a user with that name already exists")
	ErrNotLoaded     = errors.New("storage not loaded")
)

// Provider persists users together with their preferences and full plan
// history. SaveUser replaces everything stored for the user in one write.
// Implementations are not safe for concurrent use from several processes.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Users
	AddUser(models.User) error
	GetUser(id string) (models.User, error)
	GetUserByName(name string) (models.User, error)
	GetAllUsers() ([]models.User, error)
	SaveUser(models.User) error
	DeleteUser(id string) error

	// Utils
	GetConfigPath() string
}
