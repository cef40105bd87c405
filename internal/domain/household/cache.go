package household

import "time"

// Cache holds the household-by-user lookup, the hottest query in the
// system (every scoped request resolves it).
type Cache interface {
	GetByUserID(userID string) (*Household, bool)
	SetByUserID(userID string, h *Household, ttl time.Duration)
	DeleteByUserID(userID string)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByUserID(string) (*Household, bool) { return nil, false }

func (noopCache) SetByUserID(string, *Household, time.Duration) {}

func (noopCache) DeleteByUserID(string) {}

func (noopCache) Clear() {}

// NoopCache is used when caching is disabled.
func NoopCache() Cache {
	return noopCache{}
}
