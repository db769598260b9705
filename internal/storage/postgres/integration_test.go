package postgres_test

import (
	"os"
	"testing"

	"github.com/julianstephens/cyclefit/internal/storage"
	"github.com/julianstephens/cyclefit/internal/storage/postgres"
	"github.com/julianstephens/cyclefit/internal/testutil"
)

// TestStore_Integration runs the provider suite against a real database.
// Set POSTGRES_TEST_URL to run it, e.g.
// POSTGRES_TEST_URL="postgres://cyclefit@localhost:5432/cyclefit_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	testutil.RunProviderTests(t, func(t *testing.T) storage.Provider {
		store := postgres.New(connStr)
		if err := store.Init(); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		users, err := store.GetAllUsers()
		if err != nil {
			t.Fatalf("GetAllUsers() error = %v", err)
		}
		for _, u := range users {
			if err := store.DeleteUser(u.ID); err != nil {
				t.Fatalf("DeleteUser() error = %v", err)
			}
		}
		t.Cleanup(func() { store.Close() })
		return store
	})
}
