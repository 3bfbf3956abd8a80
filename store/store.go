package store

import (
	"time"

	"github.com/openlens/trustfeed/internal/profile"
	"github.com/openlens/trustfeed/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// Caches
	lensCache     *cache.Cache // cache for lenses
	identityCache *cache.Cache // cache for identities
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	// Default cache settings
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
		OnEviction:      nil,
	}

	store := &Store{
		driver:        driver,
		profile:       profile,
		cacheConfig:   cacheConfig,
		lensCache:     cache.New(cacheConfig),
		identityCache: cache.New(cacheConfig),
	}

	return store
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	// Stop all cache cleanup goroutines
	s.lensCache.Close()
	s.identityCache.Close()

	return s.driver.Close()
}
