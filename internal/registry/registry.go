package registry

import (
	"sync"

	"github.com/Elyot88/Image-QR-weblink/internal/logger"
	"github.com/Elyot88/Image-QR-weblink/internal/models"
)

// Registry is the locally cached view of backend-held link records.
// The in-memory snapshot is the source of truth for display; the
// optional sqlite Store mirrors it on disk. Both are replaced wholesale
// on refresh, never merged incrementally.
type Registry struct {
	mu     sync.RWMutex
	links  []models.StoredLink
	store  *Store
	logger *logger.Logger
}

// New creates a Registry. When store is non-nil the previously cached
// set is loaded so the view panel has data before the first refresh.
func New(store *Store, log *logger.Logger) *Registry {
	r := &Registry{
		store:  store,
		logger: log,
	}

	if store != nil {
		links, err := store.All()
		if err != nil {
			log.Warning("Could not load cached links: %v", err)
		} else if len(links) > 0 {
			r.links = links
			log.Info("Loaded %d cached link(s)", len(links))
		}
	}

	return r
}

// Replace swaps the full set atomically. The prior set survives a
// persistence failure only on disk; the in-memory snapshot always
// reflects what the backend just returned.
func (r *Registry) Replace(links []models.StoredLink) {
	r.mu.Lock()
	r.links = make([]models.StoredLink, len(links))
	copy(r.links, links)
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.ReplaceAll(links); err != nil {
			r.logger.Warning("Could not persist link cache: %v", err)
		}
	}
}

// All returns a copy of the current set.
func (r *Registry) All() []models.StoredLink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links := make([]models.StoredLink, len(r.links))
	copy(links, r.links)
	return links
}

// Len returns the number of cached records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.links)
}
