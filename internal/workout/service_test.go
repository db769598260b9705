package workout

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/cyclefit/internal/catalog"
	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/storage"
	"github.com/julianstephens/cyclefit/internal/tracker"
)

func fullPrefs() models.Preferences {
	return models.Preferences{Difficulty: 1.0, Equipment: catalog.FullEquipment()}
}

func newTestService(t *testing.T, today string, opts ...Option) (*Service, storage.Provider) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "cyclefit.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return NewService(store, FixedClock(today), opts...), store
}

func startedUser(t *testing.T, svc *Service, start string) models.User {
	t.Helper()
	user, err := svc.CreateUser("ana", fullPrefs())
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := svc.StartPlan(user.ID, start); err != nil {
		t.Fatalf("StartPlan() error = %v", err)
	}
	return user
}

func targets(day models.Day) []float64 {
	values := make([]float64, len(day.Exercises))
	for i, ex := range day.Exercises {
		values[i] = float64(ex.Target)
	}
	return values
}

type failingStore struct {
	storage.Provider
	err error
}

func (f failingStore) SaveUser(models.User) error {
	return f.err
}

func TestCreateUser(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-01")

	user, err := svc.CreateUser("  ana  ", fullPrefs())
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.ID == "" || user.Name != "ana" {
		t.Errorf("CreateUser() = %+v", user)
	}

	if _, err := svc.CreateUser("ana", fullPrefs()); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate CreateUser() error = %v, want ErrUserExists", err)
	}

	_, err = svc.CreateUser("bogdan", models.Preferences{Difficulty: 0})
	if !errors.Is(err, models.ErrInvalidPreferences) {
		t.Errorf("CreateUser() with zero difficulty error = %v, want ErrInvalidPreferences", err)
	}
}

func TestGetUser_ByIDOrName(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-01")
	user, err := svc.CreateUser("ana", fullPrefs())
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	for _, key := range []string{user.ID, "ana"} {
		got, err := svc.GetUser(key)
		if err != nil {
			t.Fatalf("GetUser(%q) error = %v", key, err)
		}
		if got.ID != user.ID {
			t.Errorf("GetUser(%q).ID = %q, want %q", key, got.ID, user.ID)
		}
	}

	if _, err := svc.GetUser("nobody"); !errors.Is(err, storage.ErrUserNotFound) {
		t.Errorf("GetUser(nobody) error = %v, want ErrUserNotFound", err)
	}
}

func TestStartPlan(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-05")
	user, err := svc.CreateUser("ana", fullPrefs())
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, err := svc.CurrentPlan(user.ID); !errors.Is(err, ErrNoCurrentPlan) {
		t.Fatalf("CurrentPlan() before start error = %v, want ErrNoCurrentPlan", err)
	}

	plan, err := svc.StartPlan(user.ID, "")
	if err != nil {
		t.Fatalf("StartPlan() error = %v", err)
	}
	if plan.StartDate != "2024-01-05" || plan.EndDate != "2024-02-03" {
		t.Errorf("StartPlan() dates = %s..%s", plan.StartDate, plan.EndDate)
	}

	if _, err := svc.StartPlan(user.ID, "2024-01-06"); !errors.Is(err, ErrActivePlanExists) {
		t.Errorf("second StartPlan() error = %v, want ErrActivePlanExists", err)
	}

	current, err := svc.CurrentPlan("ana")
	if err != nil {
		t.Fatalf("CurrentPlan() error = %v", err)
	}
	if current.ID != plan.ID {
		t.Errorf("CurrentPlan().ID = %q, want %q", current.ID, plan.ID)
	}
}

func TestStartPlan_InvalidDate(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-05")
	user, err := svc.CreateUser("ana", fullPrefs())
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := svc.StartPlan(user.ID, "05/01/2024"); err == nil {
		t.Error("StartPlan() with bad date error = nil")
	}
}

func TestUpdatePreferences_KeepsExistingPlan(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-01")
	user := startedUser(t, svc, "2024-01-01")
	before, err := svc.CurrentPlan(user.ID)
	if err != nil {
		t.Fatalf("CurrentPlan() error = %v", err)
	}

	updated, err := svc.UpdatePreferences(user.ID, models.Preferences{Difficulty: 2.0, Equipment: map[string]bool{}})
	if err != nil {
		t.Fatalf("UpdatePreferences() error = %v", err)
	}
	if updated.Preferences.Difficulty != 2.0 {
		t.Errorf("Difficulty = %v, want 2.0", updated.Preferences.Difficulty)
	}

	after, err := svc.CurrentPlan(user.ID)
	if err != nil {
		t.Fatalf("CurrentPlan() error = %v", err)
	}
	if after.Days[0].Exercises[0].Target != before.Days[0].Exercises[0].Target {
		t.Error("UpdatePreferences() changed an existing plan")
	}

	if _, err := svc.UpdatePreferences(user.ID, models.Preferences{Difficulty: -1}); !errors.Is(err, models.ErrInvalidPreferences) {
		t.Errorf("UpdatePreferences() invalid error = %v", err)
	}
}

func TestRecordDay_CarryOver(t *testing.T) {
	svc, store := newTestService(t, "2024-01-01")
	user := startedUser(t, svc, "2024-01-01")
	plan, _ := svc.CurrentPlan(user.ID)

	values := targets(plan.Days[0])
	values[0] = 20

	result, err := svc.RecordDay(user.ID, 0, values, "greu")
	if err != nil {
		t.Fatalf("RecordDay() error = %v", err)
	}
	if len(result.CarryOver) != 1 || result.CarryOver[0].Target != 10 {
		t.Errorf("CarryOver = %+v, want one exercise with target 10", result.CarryOver)
	}
	if result.NextPlan != nil {
		t.Error("NextPlan set for a mid-cycle day")
	}

	stored, err := store.GetUser(user.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	day1 := stored.Plans[0].Days[1]
	if got, want := len(day1.Exercises), len(plan.Days[1].Exercises)+1; got != want {
		t.Errorf("stored day 1 has %d exercises, want %d", got, want)
	}
	if stored.Plans[0].Days[0].Feedback != "greu" {
		t.Errorf("stored feedback = %q", stored.Plans[0].Days[0].Feedback)
	}
}

func TestRecordDay_LastDayRollsOver(t *testing.T) {
	svc, store := newTestService(t, "2024-01-10")
	user := startedUser(t, svc, "2024-01-01")
	plan, _ := svc.CurrentPlan(user.ID)

	result, err := svc.RecordDay(user.ID, 29, targets(plan.Days[29]), "")
	if err != nil {
		t.Fatalf("RecordDay() error = %v", err)
	}
	if result.NextPlan == nil {
		t.Fatal("NextPlan = nil, want successor plan")
	}
	if result.NextPlan.StartDate != "2024-01-31" || result.NextPlan.EndDate != "2024-02-29" {
		t.Errorf("NextPlan dates = %s..%s", result.NextPlan.StartDate, result.NextPlan.EndDate)
	}
	// Only one of thirty days done: the average falls below the easing threshold.
	if result.NextPlan.Difficulty != 0.8 {
		t.Errorf("NextPlan.Difficulty = %v, want 0.8", result.NextPlan.Difficulty)
	}

	stored, err := store.GetUser(user.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if len(stored.Plans) != 2 {
		t.Fatalf("stored plans = %d, want 2", len(stored.Plans))
	}

	current, err := svc.CurrentPlan(user.ID)
	if err != nil {
		t.Fatalf("CurrentPlan() error = %v", err)
	}
	if current.ID != result.NextPlan.ID {
		t.Error("CurrentPlan() is not the successor plan")
	}
}

func TestRecordDay_Errors(t *testing.T) {
	svc, store := newTestService(t, "2024-01-01")
	user := startedUser(t, svc, "2024-01-01")
	before, _ := store.GetUser(user.ID)

	if _, err := svc.RecordDay(user.ID, 30, nil, ""); !errors.Is(err, tracker.ErrDayIndexOutOfRange) {
		t.Errorf("RecordDay(30) error = %v, want ErrDayIndexOutOfRange", err)
	}
	if _, err := svc.RecordDay("nobody", 0, nil, ""); !errors.Is(err, storage.ErrUserNotFound) {
		t.Errorf("RecordDay(nobody) error = %v, want ErrUserNotFound", err)
	}

	after, _ := store.GetUser(user.ID)
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("failed RecordDay() saved the user")
	}
}

func TestRecordDay_ExpiredPlan(t *testing.T) {
	svc, store := newTestService(t, "2024-01-01")
	user := startedUser(t, svc, "2024-01-01")

	later := NewService(store, FixedClock("2024-02-15"))
	if _, err := later.RecordDay(user.ID, 0, nil, ""); !errors.Is(err, ErrNoCurrentPlan) {
		t.Errorf("RecordDay() on expired plan error = %v, want ErrNoCurrentPlan", err)
	}
}

func TestRecordDay_NothingSavedOnFailure(t *testing.T) {
	hookErr := errors.New("backup failed")

	tests := []struct {
		name string
		svc  func(store storage.Provider) *Service
		want error
	}{
		{
			name: "before write hook",
			svc: func(store storage.Provider) *Service {
				return NewService(store, FixedClock("2024-01-01"), WithBeforeWrite(func() error { return hookErr }))
			},
			want: hookErr,
		},
		{
			name: "save",
			svc: func(store storage.Provider) *Service {
				return NewService(failingStore{Provider: store, err: hookErr}, FixedClock("2024-01-01"))
			},
			want: hookErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, store := newTestService(t, "2024-01-01")
			user := startedUser(t, base, "2024-01-01")

			_, err := tt.svc(store).RecordDay(user.ID, 0, []float64{1}, "x")
			if !errors.Is(err, tt.want) {
				t.Fatalf("RecordDay() error = %v, want %v", err, tt.want)
			}

			stored, err := store.GetUser(user.ID)
			if err != nil {
				t.Fatalf("GetUser() error = %v", err)
			}
			if stored.Plans[0].Days[0].Feedback != "" {
				t.Error("stored user was modified")
			}
		})
	}
}

func TestRecordToday(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-03")
	user := startedUser(t, svc, "2024-01-01")

	result, err := svc.RecordToday(user.ID, []float64{1}, "ok")
	if err != nil {
		t.Fatalf("RecordToday() error = %v", err)
	}
	if result.DayIndex != 2 {
		t.Errorf("DayIndex = %d, want 2", result.DayIndex)
	}
}

func TestRecordToday_PlanNotStarted(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-01")
	user := startedUser(t, svc, "2024-01-05")

	if _, err := svc.RecordToday(user.ID, nil, ""); !errors.Is(err, tracker.ErrDayIndexOutOfRange) {
		t.Errorf("RecordToday() error = %v, want ErrDayIndexOutOfRange", err)
	}

	_, idx, err := svc.TodayIndex(user.ID)
	if err != nil {
		t.Fatalf("TodayIndex() error = %v", err)
	}
	if idx != -1 {
		t.Errorf("TodayIndex() = %d, want -1", idx)
	}
}

func TestHistory(t *testing.T) {
	svc, _ := newTestService(t, "2024-01-10")
	user := startedUser(t, svc, "2024-01-01")
	plan, _ := svc.CurrentPlan(user.ID)

	if _, err := svc.RecordDay(user.ID, 29, targets(plan.Days[29]), ""); err != nil {
		t.Fatalf("RecordDay() error = %v", err)
	}

	history, err := svc.History(user.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("History() len = %d, want 2", len(history))
	}
	if history[0].Current || !history[1].Current {
		t.Errorf("Current flags = %v, %v; want false, true", history[0].Current, history[1].Current)
	}
	if history[0].DaysRecorded != 1 {
		t.Errorf("DaysRecorded = %d, want 1", history[0].DaysRecorded)
	}
}

func TestWithNow(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "cyclefit.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	svc := NewService(store, FixedClock("2024-01-01"), WithNow(func() time.Time { return fixed }))

	user, err := svc.CreateUser("ana", fullPrefs())
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if !user.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", user.CreatedAt, fixed)
	}
}
