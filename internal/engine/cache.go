package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/blockgraph-io/blockgraph/internal/models"
)

// resultCache is a bounded cache of response envelopes keyed by snapshot id
// plus a deterministic request fingerprint. Because every cached query type
// is a pure function of the snapshot, a hit returns exactly what a fresh
// computation would; only the stats differ. Entries from older snapshots
// are evicted wholesale on the first access after a swap.
type resultCache struct {
	mu      sync.Mutex
	snapID  string
	entries map[string]models.Envelope
	order   []string
	max     int
}

func newResultCache(max int) *resultCache {
	if max <= 0 {
		return nil
	}
	return &resultCache{
		entries: make(map[string]models.Envelope, max),
		max:     max,
	}
}

func (c *resultCache) get(snapID string, req models.Request) (models.Envelope, bool) {
	key := fingerprint(req)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapID != snapID {
		return models.Envelope{}, false
	}
	env, ok := c.entries[key]
	return env, ok
}

func (c *resultCache) put(snapID string, req models.Request, env models.Envelope) {
	key := fingerprint(req)
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapID != snapID {
		c.snapID = snapID
		c.entries = make(map[string]models.Envelope, c.max)
		c.order = c.order[:0]
	}

	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.max {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = env
}

// fingerprint hashes the canonical JSON form of a request. Struct field
// order is fixed, so identical requests always hash identically.
func fingerprint(req models.Request) string {
	buf, err := json.Marshal(req)
	if err != nil {
		// Request bodies are plain data; marshal cannot realistically fail.
		return fmt.Sprintf("unhashable:%v", err)
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
