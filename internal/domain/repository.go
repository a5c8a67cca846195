package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ConfigTableSource supplies the admin-managed lists consumed by the scorer
type ConfigTableSource interface {
	HarmfulIngredients(ctx context.Context) ([]string, error)
	AllergenKeywords(ctx context.Context) (map[string][]string, error)
}

// ConfigSnapshot is the immutable view of the dynamic lists for one batch
type ConfigSnapshot struct {
	HarmfulIngredients []string            `json:"harmful_ingredients"`
	AllergenKeywords   map[string][]string `json:"allergen_keywords"`
	FetchedAt          time.Time           `json:"fetched_at"`
}
