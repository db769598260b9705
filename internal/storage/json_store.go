package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/julianstephens/cyclefit/internal/models"
)

type Store struct {
	Version int                    `json:"version"`
	Users   map[string]models.User `json:"users"` // id -> user
}

// JSONStore keeps every user in a single JSON document. Each mutation rewrites
// the file through a temporary file and a rename.
type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version: 1,
		Users:   make(map[string]models.User),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'cyclefit init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.store.Users == nil {
		s.store.Users = make(map[string]models.User)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) AddUser(user models.User) error {
	if s.store == nil {
		return ErrNotLoaded
	}

	if _, ok := s.store.Users[user.ID]; ok {
		return fmt.Errorf("user already exists: %s", user.ID)
	}
	if _, err := s.findByName(user.Name); err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicateUser, user.Name)
	}

	s.store.Users[user.ID] = user.Clone()
	return s.save()
}

func (s *JSONStore) GetUser(id string) (models.User, error) {
	if s.store == nil {
		return models.User{}, ErrNotLoaded
	}

	user, ok := s.store.Users[id]
	if !ok {
		return models.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return user.Clone(), nil
}

func (s *JSONStore) GetUserByName(name string) (models.User, error) {
	if s.store == nil {
		return models.User{}, ErrNotLoaded
	}

	user, err := s.findByName(name)
	if err != nil {
		return models.User{}, err
	}
	return user.Clone(), nil
}

func (s *JSONStore) findByName(name string) (models.User, error) {
	for _, user := range s.store.Users {
		if user.Name == name {
			return user, nil
		}
	}
	return models.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, name)
}

// GetAllUsers returns every user ordered by name
func (s *JSONStore) GetAllUsers() ([]models.User, error) {
	if s.store == nil {
		return nil, ErrNotLoaded
	}

	users := make([]models.User, 0, len(s.store.Users))
	for _, user := range s.store.Users {
		users = append(users, user.Clone())
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Name < users[j].Name
	})
	return users, nil
}

func (s *JSONStore) SaveUser(user models.User) error {
	if s.store == nil {
		return ErrNotLoaded
	}

	if _, ok := s.store.Users[user.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, user.ID)
	}
	for id, other := range s.store.Users {
		if id != user.ID && other.Name == user.Name {
			return fmt.Errorf("%w: %s", ErrDuplicateUser, user.Name)
		}
	}

	prev := s.store.Users[user.ID]
	s.store.Users[user.ID] = user.Clone()
	if err := s.save(); err != nil {
		s.store.Users[user.ID] = prev
		return err
	}
	return nil
}

func (s *JSONStore) DeleteUser(id string) error {
	if s.store == nil {
		return ErrNotLoaded
	}

	if _, ok := s.store.Users[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	delete(s.store.Users, id)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
