package service

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/court-edge/internal/models"
)

// SnapshotCache memoizes factor snapshots per (match, as-of, profile
// version). Snapshots are immutable once computed, so a hit is always
// safe; the profile version in the key keeps stale entries from leaking
// across a profile swap.
type SnapshotCache struct {
	cache *gocache.Cache
}

// NewSnapshotCache creates a cache with the given TTL
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func snapshotKey(key models.MatchKey, asOf time.Time, profileName, profileVersion string) string {
	return fmt.Sprintf("%s|%s|%s|%s@%s",
		key.Tournament, key.MatchID, asOf.UTC().Format(time.RFC3339), profileName, profileVersion)
}

// Get returns a cached snapshot when present
func (c *SnapshotCache) Get(key models.MatchKey, asOf time.Time, profileName, profileVersion string) (models.FactorSnapshot, bool) {
	v, ok := c.cache.Get(snapshotKey(key, asOf, profileName, profileVersion))
	if !ok {
		return models.FactorSnapshot{}, false
	}
	snap, ok := v.(models.FactorSnapshot)
	return snap, ok
}

// Set stores a snapshot under the match/as-of/profile key
func (c *SnapshotCache) Set(key models.MatchKey, asOf time.Time, profileName, profileVersion string, snap models.FactorSnapshot) {
	c.cache.Set(snapshotKey(key, asOf, profileName, profileVersion), snap, gocache.DefaultExpiration)
}
