package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/Lixing-Zhang/productos-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepository_SeedAndInsert(t *testing.T) {
	repo := NewInMemoryProductRepository(
		models.Product{ID: 3, Name: "Chicken Waffle", Price: 12.99, Stock: 1},
		models.Product{ID: 1, Name: "Caesar Salad", Price: 8.99, Stock: 2},
	)
	ctx := context.Background()

	id, err := repo.Insert(ctx, &models.Product{Name: "Veggie Pizza", Price: 15.49, Stock: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, []int64{1, 3, 4}, []int64{products[0].ID, products[1].ID, products[2].ID})
}

func TestInMemoryRepository_GetNotFound(t *testing.T) {
	repo := NewInMemoryProductRepository()

	_, err := repo.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInMemoryRepository_UpdateFields(t *testing.T) {
	repo := NewInMemoryProductRepository()
	ctx := context.Background()

	p := &models.Product{Name: "A", Price: 10, Stock: 5}
	id, err := repo.Insert(ctx, p)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateFields(ctx, id, models.ProductFields{Stock: intPtr(3)}))
	require.NoError(t, repo.UpdateFields(ctx, 999, models.ProductFields{Stock: intPtr(3)}))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, 10.0, got.Price)
	assert.Equal(t, 3, got.Stock)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)

	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInMemoryRepository_Delete(t *testing.T) {
	repo := NewInMemoryProductRepository(models.Product{ID: 1, Name: "A"})
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, 1))
	require.NoError(t, repo.Delete(ctx, 1))

	products, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestInMemoryRepository_ConcurrentInserts(t *testing.T) {
	repo := NewInMemoryProductRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Insert(ctx, &models.Product{Name: "x"})
		}()
	}
	wg.Wait()

	products, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 50)
}
