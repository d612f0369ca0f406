package validator_test

import (
	"fmt"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/warden/internal/adapters/validator"
	"go.trai.ch/warden/internal/core/domain"
)

func TestCache_HitAndMiss(t *testing.T) {
	cache := validator.NewCache(10, time.Minute)

	_, ok := cache.Get("fp-1")
	assert.False(t, ok)

	cache.Put("fp-1", domain.ValidationResult{Valid: true, Payload: "graph TD"})

	got, ok := cache.Get("fp-1")
	require.True(t, ok)
	assert.True(t, got.Valid)
	assert.Equal(t, "graph TD", got.Payload)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_TTLExpiry(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		cache := validator.NewCache(10, time.Minute)
		cache.Put("fp-1", domain.ValidationResult{Valid: true})

		time.Sleep(59 * time.Second)
		_, ok := cache.Get("fp-1")
		assert.True(t, ok, "entry within TTL must be served")

		time.Sleep(2 * time.Second)
		_, ok = cache.Get("fp-1")
		assert.False(t, ok, "expired entry must read as a miss")

		// Expired entries are swept by the next Put.
		cache.Put("fp-2", domain.ValidationResult{Valid: true})
		assert.Equal(t, 1, cache.Len())
	})
}

func TestCache_EvictsOldestOverCapacity(t *testing.T) {
	cache := validator.NewCache(3, time.Minute)
	for i := range 4 {
		cache.Put(fmt.Sprintf("fp-%d", i), domain.ValidationResult{Valid: true})
	}

	assert.Equal(t, 3, cache.Len())
	_, ok := cache.Get("fp-0")
	assert.False(t, ok, "oldest entry must be evicted first")
	for i := 1; i < 4; i++ {
		_, ok := cache.Get(fmt.Sprintf("fp-%d", i))
		assert.True(t, ok, "fp-%d", i)
	}
}

func TestCache_OverwriteRefreshesEvictionOrder(t *testing.T) {
	cache := validator.NewCache(2, time.Minute)
	cache.Put("fp-a", domain.ValidationResult{Valid: true})
	cache.Put("fp-b", domain.ValidationResult{Valid: true})

	// Refreshing fp-a makes fp-b the oldest entry.
	cache.Put("fp-a", domain.ValidationResult{Valid: true})
	cache.Put("fp-c", domain.ValidationResult{Valid: true})

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get("fp-b")
	assert.False(t, ok, "the stalest entry must be the one evicted")
	_, ok = cache.Get("fp-a")
	assert.True(t, ok)
	_, ok = cache.Get("fp-c")
	assert.True(t, ok)
}

func TestCache_OverwriteKeepsSingleEntry(t *testing.T) {
	cache := validator.NewCache(3, time.Minute)
	cache.Put("fp-1", domain.ValidationResult{Valid: true, DiagramType: "flowchart"})
	cache.Put("fp-1", domain.ValidationResult{Valid: true, DiagramType: "sequence"})

	assert.Equal(t, 1, cache.Len())
	got, ok := cache.Get("fp-1")
	require.True(t, ok)
	assert.Equal(t, "sequence", got.DiagramType)
}
