package inmemory

import (
	"time"

	domain "pantry-pilot/internal/domain/household"

	lru "github.com/hashicorp/golang-lru"
)

// HouseholdCache is an LRU-bounded household-by-user cache. The LRU has no
// native expiry, so each entry carries its own deadline.
type HouseholdCache struct {
	entries *lru.Cache
}

type householdEntry struct {
	household domain.Household
	expiresAt time.Time
}

func NewHouseholdCache(size int) (*HouseholdCache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &HouseholdCache{entries: entries}, nil
}

func (c *HouseholdCache) GetByUserID(userID string) (*domain.Household, bool) {
	value, ok := c.entries.Get(userID)
	if !ok {
		return nil, false
	}

	entry, ok := value.(householdEntry)
	if !ok || time.Now().After(entry.expiresAt) {
		c.entries.Remove(userID)
		return nil, false
	}

	h := entry.household
	return &h, true
}

func (c *HouseholdCache) SetByUserID(userID string, h *domain.Household, ttl time.Duration) {
	if h == nil || ttl <= 0 {
		return
	}
	c.entries.Add(userID, householdEntry{
		household: *h,
		expiresAt: time.Now().Add(ttl),
	})
}

func (c *HouseholdCache) DeleteByUserID(userID string) {
	c.entries.Remove(userID)
}

func (c *HouseholdCache) Clear() {
	c.entries.Purge()
}
