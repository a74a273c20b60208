package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/mchou/campnook/internal/database"
	"github.com/mchou/campnook/internal/model"
	"github.com/mchou/campnook/internal/remote"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSettingsStore(t *testing.T) {
	s := NewSettingsStore(testDB(t))

	if _, err := s.Get(SettingRemoteURL); err == nil {
		t.Fatal("expected error for unset key")
	}
	if got := s.GetDefault(SettingRemoteURL, "fallback"); got != "fallback" {
		t.Errorf("GetDefault = %q", got)
	}

	if err := s.Set(SettingRemoteURL, "https://script.example/doc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(SettingRemoteURL, "https://script.example/doc2"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.Get(SettingRemoteURL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "https://script.example/doc2" {
		t.Errorf("Get = %q", got)
	}

	all, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("GetAll returned %d entries", len(all))
	}

	if err := s.Delete(SettingRemoteURL); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(SettingRemoteURL); err == nil {
		t.Fatal("expected error after delete")
	}
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	s := NewSnapshotStore(testDB(t))
	ctx := context.Background()

	if _, err := s.LoadSnapshot(ctx); !errors.Is(err, remote.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}

	doc := &model.AppData{
		Members: []model.Member{{ID: "m1", Name: "爸爸", Avatar: "🐻", IsAdmin: true}},
		Ingredients: []model.Ingredient{
			{ID: "i1", Name: "洋蔥", UsedInPlanID: "p1", Owner: &model.IngredientOwner{ID: "m1", Name: "爸爸", Avatar: "🐻"}},
		},
		MealPlans: []model.MealPlan{{
			ID: "p1", DayLabel: "第 1 天", MealType: model.MealDinner,
			Checklist: []model.CheckItem{{ID: "c1", Name: "洋蔥", SourceIngredientID: "i1"}},
			Recipe:    &model.Recipe{Steps: []string{"切"}, VideoQuery: "洋蔥"},
		}},
		CheckedDeparture: map[string]map[string]bool{"m1": {"gear-g1": true}},
		LastUpdated:      1234,
	}

	if err := s.SaveSnapshot(ctx, doc); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	// Overwrite keeps a single row.
	doc.LastUpdated = 5678
	if err := s.SaveSnapshot(ctx, doc); err != nil {
		t.Fatalf("second SaveSnapshot: %v", err)
	}

	got, err := s.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got.LastUpdated != 5678 {
		t.Errorf("LastUpdated = %d", got.LastUpdated)
	}
	if got.Ingredients[0].UsedInPlanID != "p1" {
		t.Error("ingredient lock lost in round trip")
	}
	if got.MealPlans[0].Checklist[0].SourceIngredientID != "i1" {
		t.Error("checklist source lost in round trip")
	}
	if !got.CheckedDeparture["m1"]["gear-g1"] {
		t.Error("check mark lost in round trip")
	}
}

func TestBackupStoreLifecycle(t *testing.T) {
	s := NewBackupStore(testDB(t))

	b, err := s.Create("campnook-20260101-120000.json.enc")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Status != model.BackupStatusPending {
		t.Errorf("status = %q", b.Status)
	}

	if err := s.MarkUploading(b.ID); err != nil {
		t.Fatalf("MarkUploading: %v", err)
	}
	if err := s.MarkCompleted(b.ID, 2048); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}

	got, err := s.GetByID(b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != model.BackupStatusCompleted || got.SizeBytes != 2048 {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.CompletedAt == nil {
		t.Error("completed_at not set")
	}

	fail, err := s.Create("campnook-20260101-130000.json.enc")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.MarkFailed(fail.ID, "connection reset"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	got, err = s.GetByID(fail.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != model.BackupStatusFailed || got.ErrorDetail != "connection reset" {
		t.Errorf("unexpected record: %+v", got)
	}

	list, err := s.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("List returned %d records", len(list))
	}
}

func TestBackupStorePrune(t *testing.T) {
	db := testDB(t)
	s := NewBackupStore(db)

	old, err := s.Create("old.json.enc")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`UPDATE backups SET created_at = ? WHERE id = ?`,
		time.Now().UTC().Add(-40*24*time.Hour), old.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create("new.json.enc"); err != nil {
		t.Fatal(err)
	}

	if err := s.PruneOld(30*24*time.Hour, 1); err != nil {
		t.Fatalf("PruneOld: %v", err)
	}

	list, err := s.List(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Filename != "new.json.enc" {
		t.Errorf("unexpected survivors: %+v", list)
	}
}

func TestPushStoreUpsert(t *testing.T) {
	s := NewPushStore(testDB(t))

	sub, err := s.CreateSubscription("user_mom", "https://push.example/ep1", "p256", "auth", "媽媽的手機")
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	if sub.ID == 0 {
		t.Fatal("missing id")
	}

	// Same endpoint again re-registers instead of duplicating.
	again, err := s.CreateSubscription("user_dad", "https://push.example/ep1", "p256b", "authb", "爸爸接手")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if again.ID != sub.ID {
		t.Errorf("expected same row, got %d and %d", sub.ID, again.ID)
	}
	if again.MemberID != "user_dad" || again.P256dhKey != "p256b" {
		t.Errorf("upsert did not refresh fields: %+v", again)
	}

	all, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 subscription, got %d", len(all))
	}

	byMember, err := s.ListByMember("user_dad")
	if err != nil {
		t.Fatalf("ListByMember: %v", err)
	}
	if len(byMember) != 1 {
		t.Errorf("expected 1 subscription for user_dad, got %d", len(byMember))
	}

	if err := s.DeleteByEndpoint("https://push.example/ep1"); err != nil {
		t.Fatalf("DeleteByEndpoint: %v", err)
	}
	all, _ = s.ListAll()
	if len(all) != 0 {
		t.Errorf("expected empty list after delete, got %d", len(all))
	}
}

func TestPinStore(t *testing.T) {
	s := NewPinStore(testDB(t))

	// No PIN yet: anyone verifies.
	ok, err := s.Verify("user_sis", "0000")
	if err != nil || !ok {
		t.Fatalf("expected trivial verify, got %v %v", ok, err)
	}

	if err := s.Set("user_sis", "4321"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	has, err := s.Has("user_sis")
	if err != nil || !has {
		t.Fatalf("Has = %v, %v", has, err)
	}

	ok, err = s.Verify("user_sis", "4321")
	if err != nil || !ok {
		t.Fatalf("correct pin rejected: %v %v", ok, err)
	}
	ok, err = s.Verify("user_sis", "1111")
	if err != nil || ok {
		t.Fatalf("wrong pin accepted: %v %v", ok, err)
	}

	if err := s.Clear("user_sis"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	has, _ = s.Has("user_sis")
	if has {
		t.Fatal("pin not cleared")
	}
}
