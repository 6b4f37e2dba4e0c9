package prefs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestFlagsDefaultFalse(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "prefs.db"))
	all, err := store.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	for flag, value := range all {
		if value {
			t.Fatalf("flag %s should default to false", flag)
		}
	}
}

func TestSetPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "prefs.db")
	ctx := context.Background()

	first, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Set(ctx, FlagResizeTour, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := openTestStore(t, path)
	got, err := second.Get(ctx, FlagResizeTour)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got {
		t.Fatal("resize tour flag should persist")
	}
	if tour, _ := second.Get(ctx, FlagTour); tour {
		t.Fatal("general tour flag should be untouched")
	}

	if err := second.Set(ctx, FlagResizeTour, false); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := second.Get(ctx, FlagResizeTour); got {
		t.Fatal("flag should be cleared")
	}
}

func TestUnknownFlagRejected(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "prefs.db"))
	if err := store.Set(context.Background(), Flag("theme"), true); !errors.Is(err, ErrUnknownFlag) {
		t.Fatalf("expected ErrUnknownFlag, got %v", err)
	}
}

func TestParseFlag(t *testing.T) {
	tests := map[string]Flag{
		"tour":                          FlagTour,
		" Resize ":                      FlagResizeTour,
		"fileconverser_tour_completed": FlagTour,
	}
	for in, want := range tests {
		got, err := ParseFlag(in)
		if err != nil || got != want {
			t.Fatalf("ParseFlag(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFlag("dark-mode"); !errors.Is(err, ErrUnknownFlag) {
		t.Fatalf("expected ErrUnknownFlag, got %v", err)
	}
}
