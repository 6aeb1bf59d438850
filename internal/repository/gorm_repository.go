package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lixing-Zhang/productos-api/internal/metrics"
	"github.com/Lixing-Zhang/productos-api/internal/models"
	"gorm.io/gorm"
)

// GormProductRepository stores products in the productos table through gorm.
// The *gorm.DB is a connection pool; each call checks out one connection
// for a single auto-committed statement.
type GormProductRepository struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

// NewGormProductRepository creates a repository over db. m may be nil.
func NewGormProductRepository(db *gorm.DB, m *metrics.Metrics) *GormProductRepository {
	return &GormProductRepository{db: db, metrics: m}
}

// Initialize creates the productos table if it does not exist.
func (r *GormProductRepository) Initialize(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to initialize productos table: %w", err)
	}
	return nil
}

func (r *GormProductRepository) List(ctx context.Context) (products []models.Product, err error) {
	defer func(start time.Time) { r.metrics.ObserveQuery("select", start, err) }(time.Now())

	products = make([]models.Product, 0)
	if err = r.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *GormProductRepository) Get(ctx context.Context, id int64) (*models.Product, error) {
	start := time.Now()

	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.metrics.ObserveQuery("select", start, nil)
		return nil, ErrProductNotFound
	}
	r.metrics.ObserveQuery("select", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

func (r *GormProductRepository) Insert(ctx context.Context, p *models.Product) (_ int64, err error) {
	defer func(start time.Time) { r.metrics.ObserveQuery("insert", start, err) }(time.Now())

	p.ID = 0
	p.CreatedAt = time.Time{}
	if err = r.db.WithContext(ctx).Create(p).Error; err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}
	return p.ID, nil
}

func (r *GormProductRepository) UpdateFields(ctx context.Context, id int64, fields models.ProductFields) (err error) {
	if fields.IsEmpty() {
		return nil
	}
	defer func(start time.Time) { r.metrics.ObserveQuery("update", start, err) }(time.Now())

	err = r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(fields.Columns()).Error
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { r.metrics.ObserveQuery("delete", start, err) }(time.Now())

	if err = r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

func (r *GormProductRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
