package repository

import (
	"context"
	"testing"

	"github.com/Lixing-Zhang/productos-api/internal/config"
	"github.com/Lixing-Zhang/productos-api/internal/database"
	"github.com/Lixing-Zhang/productos-api/internal/metrics"
	"github.com/Lixing-Zhang/productos-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the productos table.
func setupTestDB(t *testing.T) (*gorm.DB, *GormProductRepository) {
	t.Helper()

	db, err := database.Open(context.Background(), config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    ":memory:",
	})
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = database.Close(db) })

	repo := NewGormProductRepository(db, metrics.New())
	require.NoError(t, repo.Initialize(context.Background()))

	return db, repo
}

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestGormRepository_InitializeIsIdempotent(t *testing.T) {
	db, repo := setupTestDB(t)

	require.NoError(t, repo.Initialize(context.Background()))
	require.NoError(t, repo.Initialize(context.Background()))

	assert.True(t, db.Migrator().HasTable("productos"))
	for _, col := range []string{"id", "nombre", "precio", "descripcion", "stock", "fecha_creacion"} {
		assert.True(t, db.Migrator().HasColumn(&models.Product{}, col), "missing column %s", col)
	}
}

func TestGormRepository_InsertAssignsIncreasingIDs(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	first := &models.Product{Name: "Laptop", Price: 999.99, Description: "x", Stock: 5}
	id1, err := repo.Insert(ctx, first)
	require.NoError(t, err)

	second := &models.Product{Name: "Mouse", Price: 19.5, Stock: 40}
	id2, err := repo.Insert(ctx, second)
	require.NoError(t, err)

	assert.Positive(t, id1)
	assert.Greater(t, id2, id1)
	assert.Equal(t, id1, first.ID)
	assert.False(t, first.CreatedAt.IsZero(), "created timestamp not set")
}

func TestGormRepository_Get(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	p := &models.Product{Name: "Teclado", Price: 45, Description: "mecánico", Stock: 3}
	id, err := repo.Insert(ctx, p)
	require.NoError(t, err)

	t.Run("existing product", func(t *testing.T) {
		found, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Teclado", found.Name)
		assert.Equal(t, 45.0, found.Price)
		assert.Equal(t, "mecánico", found.Description)
		assert.Equal(t, 3, found.Stock)
		assert.True(t, p.CreatedAt.Equal(found.CreatedAt))
	})

	t.Run("non-existent product", func(t *testing.T) {
		_, err := repo.Get(ctx, 99999)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestGormRepository_List(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		products, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	for _, name := range []string{"A", "B", "C"} {
		_, err := repo.Insert(ctx, &models.Product{Name: name, Price: 1, Stock: 1})
		require.NoError(t, err)
	}

	t.Run("insertion order", func(t *testing.T) {
		products, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "A", products[0].Name)
		assert.Equal(t, "B", products[1].Name)
		assert.Equal(t, "C", products[2].Name)
	})
}

func TestGormRepository_UpdateFieldsOnlyTouchesSuppliedColumns(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	original := &models.Product{Name: "A", Price: 10, Description: "desc", Stock: 5}
	id, err := repo.Insert(ctx, original)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateFields(ctx, id, models.ProductFields{Price: floatPtr(20)}))

	updated, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A", updated.Name)
	assert.Equal(t, 20.0, updated.Price)
	assert.Equal(t, "desc", updated.Description)
	assert.Equal(t, 5, updated.Stock)
	assert.True(t, original.CreatedAt.Equal(updated.CreatedAt), "fecha_creacion changed on update")
}

func TestGormRepository_UpdateFieldsWritesZeroValues(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, &models.Product{Name: "A", Price: 10, Description: "desc", Stock: 5})
	require.NoError(t, err)

	err = repo.UpdateFields(ctx, id, models.ProductFields{
		Name:        strPtr("B"),
		Price:       floatPtr(0),
		Description: strPtr(""),
		Stock:       intPtr(0),
	})
	require.NoError(t, err)

	updated, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Name)
	assert.Zero(t, updated.Price)
	assert.Empty(t, updated.Description)
	assert.Zero(t, updated.Stock)
}

func TestGormRepository_UpdateAndDeleteUnknownIDAreNoops(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	assert.NoError(t, repo.UpdateFields(ctx, 99999, models.ProductFields{Stock: intPtr(1)}))
	assert.NoError(t, repo.UpdateFields(ctx, 99999, models.ProductFields{}))
	assert.NoError(t, repo.Delete(ctx, 99999))
}

func TestGormRepository_Delete(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, &models.Product{Name: "Temporal", Price: 1, Stock: 1})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, ErrProductNotFound)

	products, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGormRepository_StorageFaultsAreWrapped(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Migrator().DropTable(&models.Product{}))

	_, err := repo.List(ctx)
	assert.ErrorContains(t, err, "failed to list products")

	_, err = repo.Get(ctx, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrProductNotFound)

	_, err = repo.Insert(ctx, &models.Product{Name: "x"})
	assert.ErrorContains(t, err, "failed to insert product")
}

func TestGormRepository_Ping(t *testing.T) {
	db, repo := setupTestDB(t)

	require.NoError(t, repo.Ping(context.Background()))

	require.NoError(t, database.Close(db))
	assert.Error(t, repo.Ping(context.Background()))
}
