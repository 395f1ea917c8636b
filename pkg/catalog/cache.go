package catalog

import (
	"context"
	"sync"

	"routine-advisor-be/internal/entity"
	"routine-advisor-be/internal/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// Cache holds the catalog snapshot. The first successful EnsureLoaded fetches it; later calls
// reuse it. Failed fetches are not remembered.
type Cache struct {
	source Source
	logger logger.ILogger
	group  singleflight.Group

	mu       sync.RWMutex
	products []entity.Product
	loaded   bool
}

func NewCache(source Source, log logger.ILogger) *Cache {
	return &Cache{source: source, logger: log}
}

func (c *Cache) EnsureLoaded(ctx context.Context) ([]entity.Product, error) {
	if products, ok := c.snapshot(); ok {
		return products, nil
	}

	// Concurrent first callers share one fetch
	_, err, _ := c.group.Do("catalog", func() (interface{}, error) {
		if c.Loaded() {
			return nil, nil
		}

		products, err := c.source.Fetch(ctx)
		if err != nil {
			c.logger.Error("CatalogCache", "Failed to load catalog", map[string]interface{}{"error": err})
			return nil, err
		}

		c.mu.Lock()
		c.products = products
		c.loaded = true
		c.mu.Unlock()

		c.logger.Info("CatalogCache", "Catalog loaded", map[string]interface{}{"products": len(products)})
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	products, _ := c.snapshot()
	return products, nil
}

// Loaded reports whether a catalog has been fetched, which lets callers tell an empty
// filter result apart from "nothing fetched yet".
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Find looks a product up by id, loading the catalog when needed.
func (c *Cache) Find(ctx context.Context, id int) (entity.Product, bool, error) {
	products, err := c.EnsureLoaded(ctx)
	if err != nil {
		return entity.Product{}, false, err
	}
	for _, p := range products {
		if p.Id == id {
			return p, true, nil
		}
	}
	return entity.Product{}, false, nil
}

func (c *Cache) snapshot() ([]entity.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, false
	}
	out := make([]entity.Product, len(c.products))
	copy(out, c.products)
	return out, true
}
