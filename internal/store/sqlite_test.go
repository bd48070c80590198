package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/google/go-cmp/cmp"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadPreferencesDefaults(t *testing.T) {
	s := testStore(t)
	got, err := s.LoadPreferences(context.Background())
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if diff := cmp.Diff(DefaultPreferences(), got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSetDefaults(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	seed := DefaultPreferences()
	seed.Extras = []string{"Carol"}
	seed.Compact = true
	s.SetDefaults(seed)

	got, err := s.LoadPreferences(ctx)
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if diff := cmp.Diff(seed, got); diff != "" {
		t.Errorf("seeded defaults mismatch (-want +got):\n%s", diff)
	}

	saved := DefaultPreferences()
	if err := s.SavePreferences(ctx, saved); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	got, err = s.LoadPreferences(ctx)
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if got.Compact || len(got.Extras) != 0 {
		t.Errorf("saved values did not win over defaults: %+v", got)
	}
}

func TestSaveAndLoadPreferences(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	want := Preferences{
		Extras:     []string{"Carol", "Dave Smith"},
		Roles:      model.RoleToggles{Report: true, Submit: false, Extra: true},
		LocalTimes: true,
		Compact:    true,
	}
	if err := s.SavePreferences(ctx, want); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	got, err := s.LoadPreferences(ctx)
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// Saving again overwrites.
	want.Extras = nil
	want.Compact = false
	if err := s.SavePreferences(ctx, want); err != nil {
		t.Fatalf("SavePreferences update: %v", err)
	}
	got, _ = s.LoadPreferences(ctx)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("update mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileCache(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, ok, err := s.GetProfile(ctx, "Alice"); err != nil || ok {
		t.Fatalf("GetProfile(missing) = ok %v, err %v", ok, err)
	}

	fetched := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := s.UpsertProfile(ctx, Profile{Name: "Alice", Gender: "Female", FetchedAt: fetched}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	got, ok, err := s.GetProfile(ctx, "alice")
	if err != nil || !ok {
		t.Fatalf("GetProfile = ok %v, err %v", ok, err)
	}
	if got.Gender != "Female" || !got.FetchedAt.Equal(fetched) {
		t.Errorf("GetProfile = %+v", got)
	}

	if err := s.UpsertProfile(ctx, Profile{Name: "Alice", Gender: "Herm", FetchedAt: fetched.Add(time.Hour)}); err != nil {
		t.Fatalf("UpsertProfile update: %v", err)
	}
	got, _, _ = s.GetProfile(ctx, "Alice")
	if got.Gender != "Herm" {
		t.Errorf("upsert did not update gender: %+v", got)
	}
	if n, _ := s.CountProfiles(ctx); n != 1 {
		t.Errorf("CountProfiles = %d; want 1", n)
	}
}

func TestPruneProfiles(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s.UpsertProfile(ctx, Profile{Name: "Old", Gender: "Male", FetchedAt: old})
	s.UpsertProfile(ctx, Profile{Name: "New", Gender: "Male", FetchedAt: old.AddDate(5, 0, 0)})

	n, err := s.PruneProfiles(ctx, old.AddDate(1, 0, 0))
	if err != nil {
		t.Fatalf("PruneProfiles: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d; want 1", n)
	}
	if _, ok, _ := s.GetProfile(ctx, "Old"); ok {
		t.Error("old profile survived pruning")
	}
}
