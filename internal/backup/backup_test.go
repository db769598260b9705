package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/cyclefit/internal/storage/sqlite"
	"github.com/julianstephens/cyclefit/internal/testutil"
)

// newDatabase creates an initialized store holding one user and returns its path.
func newDatabase(t *testing.T) (string, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cyclefit.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	user := testutil.NewUser(t, "ana", "2024-01-01")
	if err := store.AddUser(user); err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return dbPath, user.ID
}

func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Hour)
		return t
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath, _ := newDatabase(t)
	m := NewManager(dbPath)

	path, err := m.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}
	if filepath.Dir(path) != m.BackupDir() {
		t.Errorf("backup written to %s, want %s", filepath.Dir(path), m.BackupDir())
	}
	if err := verify(path); err != nil {
		t.Errorf("backup does not verify: %v", err)
	}
}

func TestCreateBackup_MissingDatabase(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := m.CreateBackup(); err == nil {
		t.Error("CreateBackup() expected error for missing database")
	}
}

func TestCreateBackup_SameSecond(t *testing.T) {
	dbPath, _ := newDatabase(t)
	m := NewManager(dbPath)
	stamp := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	m.now = func() time.Time { return stamp }

	first, err := m.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}
	second, err := m.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}
	if first == second {
		t.Error("two backups in the same second share a file name")
	}

	backups, err := m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("ListBackups() returned %d backups, want 2", len(backups))
	}
	if backups[0].Path != second {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, second)
	}
}

func TestRotation(t *testing.T) {
	dbPath, _ := newDatabase(t)
	m := NewManager(dbPath)
	m.maxBackups = 3
	m.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))

	var paths []string
	for i := 0; i < 5; i++ {
		path, err := m.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup() #%d error = %v", i, err)
		}
		paths = append(paths, path)
	}

	backups, err := m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("ListBackups() returned %d backups, want 3", len(backups))
	}
	if backups[0].Path != paths[4] {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, paths[4])
	}
	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Error("oldest backup was not rotated away")
	}
}

func TestListBackups_IgnoresForeignFiles(t *testing.T) {
	dbPath, _ := newDatabase(t)
	m := NewManager(dbPath)
	if err := os.MkdirAll(m.BackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "cyclefit-garbage.db", "other-20240101-090000.db"} {
		if err := os.WriteFile(filepath.Join(m.BackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("ListBackups() = %v, want none", backups)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"cyclefit-20240101-090000.db", true},
		{"cyclefit-20240101-090000-3.db", true},
		{"cyclefit-20240101-090000-x.db", false},
		{"cyclefit-20240101.db", false},
		{"other-20240101-090000.db", false},
	}
	for _, tt := range tests {
		if _, _, ok := parseName(tt.name); ok != tt.ok {
			t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath, userID := newDatabase(t)
	m := NewManager(dbPath)
	m.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))

	backupPath, err := m.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}

	// Remove the user, then restore.
	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := store.DeleteUser(userID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	store.Close()

	safety, err := m.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup() error = %v", err)
	}
	if safety == "" {
		t.Error("RestoreBackup() did not snapshot the current database")
	}

	restored := sqlite.NewStore(dbPath)
	if err := restored.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer restored.Close()
	if _, err := restored.GetUser(userID); err != nil {
		t.Errorf("user missing after restore: %v", err)
	}
}

func TestRestoreBackup_Invalid(t *testing.T) {
	dbPath, _ := newDatabase(t)
	m := NewManager(dbPath)

	if _, err := m.RestoreBackup(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("RestoreBackup() expected error for missing file")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RestoreBackup(bogus); err == nil {
		t.Error("RestoreBackup() expected error for corrupt file")
	}
}
