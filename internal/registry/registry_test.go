package registry

import (
	"path/filepath"
	"testing"

	"github.com/Elyot88/Image-QR-weblink/internal/config"
	"github.com/Elyot88/Image-QR-weblink/internal/logger"
	"github.com/Elyot88/Image-QR-weblink/internal/models"
)

// ========================================
// Test Setup Helpers
// ========================================

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log := logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
	t.Cleanup(log.Close)
	return log
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenStore(filepath.Join(t.TempDir(), "links.db"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleLinks() []models.StoredLink {
	return []models.StoredLink{
		{ID: "one", Filename: "a.png", URL: "https://a.example", ContentType: "image/png", FileSize: 100, ImageSize: "10x10", CreatedAt: "2025-05-02T08:00:00"},
		{ID: "two", Filename: "b.jpg", URL: "https://b.example", ContentType: "image/jpeg", FileSize: 200, ImageSize: "20x20", CreatedAt: "2025-05-01T08:00:00"},
	}
}

// ========================================
// Store Tests
// ========================================

func TestStore_ReplaceAllAndAll(t *testing.T) {
	store := newTestStore(t)

	if err := store.ReplaceAll(sampleLinks()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	links, err := store.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(links))
	}
	// Newest first.
	if links[0].ID != "one" || links[1].ID != "two" {
		t.Errorf("Unexpected order: %v, %v", links[0].ID, links[1].ID)
	}
}

func TestStore_ReplaceAllIsWholesale(t *testing.T) {
	store := newTestStore(t)

	if err := store.ReplaceAll(sampleLinks()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	// A second replace with a disjoint set must leave nothing behind.
	next := []models.StoredLink{{ID: "three", Filename: "c.gif", URL: "https://c.example"}}
	if err := store.ReplaceAll(next); err != nil {
		t.Fatalf("Second ReplaceAll failed: %v", err)
	}

	links, err := store.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(links) != 1 || links[0].ID != "three" {
		t.Errorf("Stale entries survived the replace: %+v", links)
	}
}

func TestStore_ReplaceAllWithEmptySet(t *testing.T) {
	store := newTestStore(t)

	if err := store.ReplaceAll(sampleLinks()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if err := store.ReplaceAll(nil); err != nil {
		t.Fatalf("Empty ReplaceAll failed: %v", err)
	}

	links, err := store.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("Expected empty cache, got %d entries", len(links))
	}
}

// ========================================
// Registry Tests
// ========================================

func TestRegistry_ReplaceAndAll(t *testing.T) {
	r := New(nil, newTestLogger(t))

	r.Replace(sampleLinks())

	if r.Len() != 2 {
		t.Fatalf("Expected 2 links, got %d", r.Len())
	}

	links := r.All()
	links[0].URL = "mutated"
	if r.All()[0].URL == "mutated" {
		t.Error("All must return a copy, not the internal slice")
	}
}

func TestRegistry_LoadsCachedSetOnStartup(t *testing.T) {
	store := newTestStore(t)
	log := newTestLogger(t)

	first := New(store, log)
	first.Replace(sampleLinks())

	// A fresh registry over the same store sees the persisted set.
	second := New(store, log)
	if second.Len() != 2 {
		t.Errorf("Expected cached set on startup, got %d entries", second.Len())
	}
}

func TestRegistry_WorksWithoutStore(t *testing.T) {
	r := New(nil, newTestLogger(t))

	r.Replace(sampleLinks())
	r.Replace(nil)

	if r.Len() != 0 {
		t.Errorf("Expected empty registry, got %d", r.Len())
	}
}
