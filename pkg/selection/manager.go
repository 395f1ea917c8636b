package selection

import (
	"context"
	"sync"

	"routine-advisor-be/internal/entity"
	"routine-advisor-be/internal/pkg/logger"
)

// Manager owns a profile's selection set: unique by product id, in insertion order.
// Every mutation is written through to the Store.
type Manager struct {
	mu       sync.Mutex
	items    []entity.Product
	store    Store
	detached bool
	logger   logger.ILogger
}

// NewManager restores the selection from store. It fails when the store cannot be read, so a
// half-restored set never overwrites what is stored.
func NewManager(ctx context.Context, store Store, log logger.ILogger) (*Manager, error) {
	items, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Manager{
		items:  items,
		store:  store,
		logger: log,
	}, nil
}

// Toggle removes the product when selected, otherwise appends it, and returns the new set.
// Re-selecting a product moves it to the end.
func (m *Manager) Toggle(ctx context.Context, product entity.Product) []entity.Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(product.Id); i >= 0 {
		m.items = append(m.items[:i:i], m.items[i+1:]...)
	} else {
		m.items = append(m.items, product)
	}

	m.persist(ctx)
	return m.copyItems()
}

func (m *Manager) Contains(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexOf(id) >= 0
}

// Get returns the selected product with the given id.
func (m *Manager) Get(id int) (entity.Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(id); i >= 0 {
		return m.items[i], true
	}
	return entity.Product{}, false
}

func (m *Manager) List() []entity.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyItems()
}

func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = []entity.Product{}
	m.persist(ctx)
}

func (m *Manager) indexOf(id int) int {
	for i, p := range m.items {
		if p.Id == id {
			return i
		}
	}
	return -1
}

func (m *Manager) copyItems() []entity.Product {
	out := make([]entity.Product, len(m.items))
	copy(out, m.items)
	return out
}

// Detach stops all further writes to the store. Mutations already persisted stay persisted.
func (m *Manager) Detach() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detached = true
}

// persist is fire-and-forget: the in-memory set stays authoritative for the session.
func (m *Manager) persist(ctx context.Context) {
	if m.detached {
		return
	}
	if err := m.store.Save(ctx, m.items); err != nil {
		m.logger.Error("SelectionManager", "Failed to persist selection", map[string]interface{}{
			"error": err,
			"size":  len(m.items),
		})
	}
}
