package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Lixing-Zhang/productos-api/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access.
// Every call is a single-row (or single-table read) statement.
type ProductRepository interface {
	// Initialize ensures the productos table exists. Safe to call on every start.
	Initialize(ctx context.Context) error
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	// Insert stores p, fills in its ID and CreatedAt and returns the new ID.
	Insert(ctx context.Context, p *models.Product) (int64, error)
	// UpdateFields writes only the supplied fields. Unknown ids are a no-op.
	UpdateFields(ctx context.Context, id int64, fields models.ProductFields) error
	// Delete removes the row. Unknown ids are a no-op.
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// InMemoryProductRepository implements ProductRepository with in-memory storage
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[int64]models.Product
	nextID   int64
}

// NewInMemoryProductRepository creates an in-memory repository holding the given products.
// Later inserts get ids above the highest seeded one.
func NewInMemoryProductRepository(seed ...models.Product) *InMemoryProductRepository {
	r := &InMemoryProductRepository{
		products: make(map[int64]models.Product, len(seed)),
	}
	for _, p := range seed {
		r.products[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *InMemoryProductRepository) Initialize(ctx context.Context) error {
	return nil
}

// List returns all products ordered by id
func (r *InMemoryProductRepository) List(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// Get returns a product by its ID
func (r *InMemoryProductRepository) Get(ctx context.Context, id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

func (r *InMemoryProductRepository) Insert(ctx context.Context, p *models.Product) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now().UTC().Truncate(time.Second)
	r.products[p.ID] = *p
	return p.ID, nil
}

func (r *InMemoryProductRepository) UpdateFields(ctx context.Context, id int64, fields models.ProductFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, exists := r.products[id]
	if !exists {
		return nil
	}
	fields.Apply(&product)
	r.products[id] = product
	return nil
}

func (r *InMemoryProductRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	return nil
}

func (r *InMemoryProductRepository) Ping(ctx context.Context) error {
	return nil
}
