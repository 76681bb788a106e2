// Package cache implements the optional semantic response cache
// middleware: requests are embedded, the embedding is looked up against
// previously-cached entries by cosine similarity, and a close-enough
// match short-circuits the call with the cached ChatResponse instead of
// hitting the vendor again. Entries are sharded across a pool of Redis
// endpoints by rendezvous hashing so adding/removing a shard only
// reshuffles the minimal set of keys.
package cache

import (
	"context"
	"encoding/json"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-rendezvous"
	"github.com/redis/go-redis/v9"
	"github.com/viterin/partial"
	"github.com/viterin/vek"

	"github.com/siumai-go/siumai/internal/middleware"
	"github.com/siumai-go/siumai/internal/types"
)

// Embedder turns a request's text into a vector for similarity lookup.
// Production callers back this with a real embedding call (e.g. through
// the facade's own EmbedCapability); tests can supply a deterministic
// stub.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// entry is what's stored in Redis per cache key.
type entry struct {
	Vector   []float32           `json:"vector"`
	Response *types.ChatResponse `json:"response"`
}

// Cache is a similarity-matched response cache sharded across one or
// more Redis clients, selected per key by rendezvous hashing.
type Cache struct {
	shards    map[string]*redis.Client
	hash      *rendezvous.Rendezvous
	embedder  Embedder
	threshold float64
	keyPrefix string
}

// New builds a Cache sharded across endpoints (each dialed as its own
// *redis.Client), matching responses whose request embedding has cosine
// similarity >= threshold.
func New(endpoints []string, embedder Embedder, threshold float64) *Cache {
	shards := make(map[string]*redis.Client, len(endpoints))
	names := make([]string, len(endpoints))
	for i, addr := range endpoints {
		shards[addr] = redis.NewClient(&redis.Options{Addr: addr})
		names[i] = addr
	}
	return &Cache{
		shards:    shards,
		hash:      rendezvous.New(names, xxhash.Sum64String),
		embedder:  embedder,
		threshold: threshold,
		keyPrefix: "siumai:cache:",
	}
}

// Close releases every shard's connection pool.
func (c *Cache) Close() error {
	var firstErr error
	for _, s := range c.shards {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *Cache) shardFor(key string) *redis.Client {
	return c.shards[c.hash.Lookup(key)]
}

// Middleware returns the chain Middleware: a similarity hit short-
// circuits the call; a miss falls through to next and stores the
// result under requestKey's shard. requestKey derives the cache bucket
// (e.g. provider+model) the embedding is compared within.
func (c *Cache) Middleware(requestKey func(*types.ChatRequest) string) middleware.Middleware {
	return func(ctx context.Context, req *types.ChatRequest, next middleware.Next) (*types.ChatResponse, error) {
		if len(req.Messages) == 0 {
			return next(ctx, req)
		}
		key := c.keyPrefix + requestKey(req)
		vec, err := c.embedder.Embed(ctx, req.Messages[len(req.Messages)-1].Content.Text())
		if err != nil {
			return next(ctx, req) // cache is best-effort; embedding failure falls through
		}

		if hit := c.lookup(ctx, key, vec); hit != nil {
			return hit, nil
		}

		resp, err := next(ctx, req)
		if err != nil {
			return resp, err
		}
		c.store(ctx, key, vec, resp)
		return resp, nil
	}
}

// lookup fetches key's candidate entries and returns the closest one by
// cosine similarity if it clears c.threshold. Entries are stored as a
// Redis list so multiple near-duplicate requests can share one bucket.
func (c *Cache) lookup(ctx context.Context, key string, vec []float32) *types.ChatResponse {
	shard := c.shardFor(key)
	raw, err := shard.LRange(ctx, key, 0, 31).Result()
	if err != nil || len(raw) == 0 {
		return nil
	}

	entries := make([]entry, 0, len(raw))
	scores := make([]float64, 0, len(raw))
	for _, r := range raw {
		var e entry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			continue
		}
		entries = append(entries, e)
		scores = append(scores, cosineSimilarity(vec, e.Vector))
	}
	if len(entries) == 0 {
		return nil
	}

	best := partial.ArgMax(scores)
	if scores[best] >= c.threshold {
		return entries[best].Response
	}
	return nil
}

func (c *Cache) store(ctx context.Context, key string, vec []float32, resp *types.ChatResponse) {
	shard := c.shardFor(key)
	raw, err := json.Marshal(entry{Vector: vec, Response: resp})
	if err != nil {
		return
	}
	pipe := shard.TxPipeline()
	pipe.LPush(ctx, key, raw)
	pipe.LTrim(ctx, key, 0, 31)
	_, _ = pipe.Exec(ctx)
}

// cosineSimilarity computes a·b / (|a||b|) using vek's vectorized dot
// product and norm, returning 0 for mismatched or empty dimensions
// (never treated as a match).
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	dot := vek.Dot(a, b)
	normA := vek.Norm(a)
	normB := vek.Norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return float64(dot) / float64(normA*normB)
}
