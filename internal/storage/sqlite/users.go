package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/storage"
)

const userColumns = "id, name, difficulty, equipment, timezone, created_at, updated_at"

func (s *Store) AddUser(user models.User) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := checkNameFree(tx, user.Name, user.ID); err != nil {
		return err
	}

	equipment, err := encodeEquipment(user.Preferences.Equipment)
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Preferences.Difficulty, equipment, user.Preferences.Timezone,
		formatTime(user.CreatedAt), formatTime(user.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if err := insertPlans(tx, user.ID, user.Plans); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) GetUser(id string) (models.User, error) {
	if s.db == nil {
		return models.User{}, storage.ErrNotLoaded
	}
	return s.loadUser("id", id)
}

func (s *Store) GetUserByName(name string) (models.User, error) {
	if s.db == nil {
		return models.User{}, storage.ErrNotLoaded
	}
	return s.loadUser("name", name)
}

// GetAllUsers returns every user ordered by name
func (s *Store) GetAllUsers() ([]models.User, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	rows, err := s.db.Query("SELECT id FROM users ORDER BY name")
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.loadUser("id", id)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// SaveUser rewrites the user row and the complete plan history in one transaction.
func (s *Store) SaveUser(user models.User) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	equipment, err := encodeEquipment(user.Preferences.Equipment)
	if err != nil {
		return err
	}

	if err := checkNameFree(tx, user.Name, user.ID); err != nil {
		return err
	}

	res, err := tx.Exec(
		"UPDATE users SET name = ?, difficulty = ?, equipment = ?, timezone = ?, updated_at = ? WHERE id = ?",
		user.Name, user.Preferences.Difficulty, equipment, user.Preferences.Timezone, formatTime(user.UpdatedAt), user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrUserNotFound, user.ID)
	}

	if err := deletePlans(tx, user.ID); err != nil {
		return err
	}
	if err := insertPlans(tx, user.ID, user.Plans); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) DeleteUser(id string) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deletePlans(tx, id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrUserNotFound, id)
	}

	return tx.Commit()
}

func (s *Store) loadUser(column, value string) (models.User, error) {
	var user models.User
	var equipment, createdAt, updatedAt string
	err := s.db.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE "+column+" = ?", value,
	).Scan(&user.ID, &user.Name, &user.Preferences.Difficulty, &equipment, &user.Preferences.Timezone, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("%w: %s", storage.ErrUserNotFound, value)
	}
	if err != nil {
		return models.User{}, err
	}

	if err := json.Unmarshal([]byte(equipment), &user.Preferences.Equipment); err != nil {
		return models.User{}, fmt.Errorf("failed to parse equipment for user %s: %w", user.ID, err)
	}
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.User{}, fmt.Errorf("failed to parse created_at for user %s: %w", user.ID, err)
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.User{}, fmt.Errorf("failed to parse updated_at for user %s: %w", user.ID, err)
	}

	if user.Plans, err = loadPlans(s.db, user.ID); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func checkNameFree(tx *sql.Tx, name, id string) error {
	var existing string
	err := tx.QueryRow("SELECT id FROM users WHERE name = ? AND id <> ?", name, id).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", storage.ErrDuplicateUser, name)
}

func encodeEquipment(equipment map[string]bool) (string, error) {
	if equipment == nil {
		return "{}", nil
	}
	data, err := json.Marshal(equipment)
	if err != nil {
		return "", fmt.Errorf("failed to encode equipment: %w", err)
	}
	return string(data), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
