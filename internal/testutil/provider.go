package testutil

import (
	"errors"
	"testing"

	"github.com/julianstephens/cyclefit/internal/storage"
	"github.com/julianstephens/cyclefit/internal/tracker"
)

// RunProviderTests exercises the storage.Provider contract against a freshly
// initialized provider returned by newProvider.
func RunProviderTests(t *testing.T, newProvider func(t *testing.T) storage.Provider) {
	t.Run("AddAndGet", func(t *testing.T) {
		store := newProvider(t)
		user := NewUser(t, "ana", "2024-01-01")

		if err := store.AddUser(user); err != nil {
			t.Fatalf("AddUser() error = %v", err)
		}

		got, err := store.GetUser(user.ID)
		if err != nil {
			t.Fatalf("GetUser() error = %v", err)
		}
		AssertUsersEqual(t, got, user)

		byName, err := store.GetUserByName("ana")
		if err != nil {
			t.Fatalf("GetUserByName() error = %v", err)
		}
		if byName.ID != user.ID {
			t.Errorf("GetUserByName() id = %s, want %s", byName.ID, user.ID)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		store := newProvider(t)

		if _, err := store.GetUser("missing"); !errors.Is(err, storage.ErrUserNotFound) {
			t.Errorf("GetUser() error = %v, want ErrUserNotFound", err)
		}
		if _, err := store.GetUserByName("missing"); !errors.Is(err, storage.ErrUserNotFound) {
			t.Errorf("GetUserByName() error = %v, want ErrUserNotFound", err)
		}
		if err := store.SaveUser(NewUser(t, "ghost", "2024-01-01")); !errors.Is(err, storage.ErrUserNotFound) {
			t.Errorf("SaveUser() error = %v, want ErrUserNotFound", err)
		}
		if err := store.DeleteUser("missing"); !errors.Is(err, storage.ErrUserNotFound) {
			t.Errorf("DeleteUser() error = %v, want ErrUserNotFound", err)
		}
	})

	t.Run("DuplicateName", func(t *testing.T) {
		store := newProvider(t)
		if err := store.AddUser(NewUser(t, "ana", "2024-01-01")); err != nil {
			t.Fatalf("AddUser() error = %v", err)
		}
		if err := store.AddUser(NewUser(t, "ana", "2024-01-01")); err == nil {
			t.Error("AddUser() expected error for duplicate name")
		}
	})

	t.Run("SaveReplacesHistory", func(t *testing.T) {
		store := newProvider(t)
		user := NewUser(t, "ana", "2024-01-01")
		if err := store.AddUser(user); err != nil {
			t.Fatalf("AddUser() error = %v", err)
		}

		values := []float64{20, 20, 25, 30, 60}
		if _, err := tracker.RecordCompletion(&user.Plans[0], 0, values, "greu"); err != nil {
			t.Fatalf("RecordCompletion() error = %v", err)
		}
		second := NewUser(t, "tmp", "2024-01-31").Plans[0]
		user.Plans = append(user.Plans, second)
		user.Preferences.Difficulty = 1.2
		user.Preferences.Equipment = map[string]bool{"gantere": true}

		if err := store.SaveUser(user); err != nil {
			t.Fatalf("SaveUser() error = %v", err)
		}

		got, err := store.GetUser(user.ID)
		if err != nil {
			t.Fatalf("GetUser() error = %v", err)
		}
		AssertUsersEqual(t, got, user)
		if got.Plans[0].Days[0].Feedback != "greu" {
			t.Errorf("feedback not persisted: %q", got.Plans[0].Days[0].Feedback)
		}
		if len(got.Plans[0].Days[1].Exercises) != len(user.Plans[0].Days[1].Exercises) {
			t.Error("carry-over not persisted")
		}
	})

	t.Run("GetAllUsers", func(t *testing.T) {
		store := newProvider(t)
		for _, name := range []string{"mihai", "ana", "ioana"} {
			if err := store.AddUser(NewUser(t, name, "2024-01-01")); err != nil {
				t.Fatalf("AddUser(%s) error = %v", name, err)
			}
		}

		users, err := store.GetAllUsers()
		if err != nil {
			t.Fatalf("GetAllUsers() error = %v", err)
		}
		if len(users) != 3 {
			t.Fatalf("GetAllUsers() returned %d users, want 3", len(users))
		}
		if users[0].Name != "ana" || users[1].Name != "ioana" || users[2].Name != "mihai" {
			t.Errorf("GetAllUsers() order = %s, %s, %s", users[0].Name, users[1].Name, users[2].Name)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		store := newProvider(t)
		user := NewUser(t, "ana", "2024-01-01")
		if err := store.AddUser(user); err != nil {
			t.Fatalf("AddUser() error = %v", err)
		}
		if err := store.DeleteUser(user.ID); err != nil {
			t.Fatalf("DeleteUser() error = %v", err)
		}
		if _, err := store.GetUser(user.ID); !errors.Is(err, storage.ErrUserNotFound) {
			t.Errorf("GetUser() after delete error = %v", err)
		}
	})
}
