package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/Lixing-Zhang/productos-api/internal/cache"
	"github.com/Lixing-Zhang/productos-api/internal/metrics"
	"github.com/Lixing-Zhang/productos-api/internal/models"
	"github.com/Lixing-Zhang/productos-api/internal/repository"
	"golang.org/x/sync/singleflight"
)

var (
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidField    = errors.New("invalid field value")
	ErrNothingToUpdate = errors.New("nothing to update")
)

// FieldError names the payload field a validation error refers to.
// It unwraps to ErrMissingField or ErrInvalidField.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func missingField(field string) error {
	return &FieldError{Field: field, Err: ErrMissingField}
}

// ProductService handles validation and merge logic in front of the repository
type ProductService struct {
	repo    repository.ProductRepository
	cache   cache.ListCache
	metrics *metrics.Metrics
	logger  *slog.Logger
	listSF  singleflight.Group
	// listGen is bumped by every successful write before the cache is
	// invalidated. A list read under an older generation is never cached.
	listGen atomic.Uint64
}

// Option configures a ProductService.
type Option func(*ProductService)

// WithCache serves ListProducts from c and invalidates it on every write.
func WithCache(c cache.ListCache) Option {
	return func(s *ProductService) { s.cache = c }
}

// WithMetrics records cache lookups on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ProductService) { s.metrics = m }
}

// WithLogger sets the logger used for cache warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *ProductService) { s.logger = l }
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository, opts ...Option) *ProductService {
	s := &ProductService{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListProducts returns every stored product in insertion order
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}

	products, found, err := s.cache.Get(ctx)
	switch {
	case err != nil:
		s.metrics.CacheLookup("error")
		s.logger.Warn("product list cache read failed", "error", err)
	case found:
		s.metrics.CacheLookup("hit")
		return products, nil
	default:
		s.metrics.CacheLookup("miss")
	}

	// Concurrent misses share one storage read. It runs detached from the
	// caller's cancellation since other requests may be waiting on it.
	sharedCtx := context.WithoutCancel(ctx)
	v, err, _ := s.listSF.Do("list", func() (any, error) {
		gen := s.listGen.Load()
		products, err := s.repo.List(sharedCtx)
		if err != nil {
			return nil, err
		}
		if s.listGen.Load() != gen {
			return products, nil
		}
		if err := s.cache.Set(sharedCtx, products); err != nil {
			s.logger.Warn("product list cache write failed", "error", err)
		}
		// a write may have invalidated between the check and the Set
		if s.listGen.Load() != gen {
			s.invalidateCache(sharedCtx)
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Product), nil
}

// CreateProduct validates the payload and stores a new product.
// nombre, precio and stock are required; descripcion defaults to "".
func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, missingField("nombre")
	}
	if req.Price == nil {
		return nil, missingField("precio")
	}
	if req.Stock == nil {
		return nil, missingField("stock")
	}

	product := &models.Product{
		Name:  *req.Name,
		Price: *req.Price,
		Stock: *req.Stock,
	}
	if req.Description != nil {
		product.Description = *req.Description
	}

	if _, err := s.repo.Insert(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return product, nil
}

// UpdateProduct applies the supplied fields to an existing product.
// Fields absent from req keep their stored value.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req models.UpdateProductRequest) error {
	fields := req.Fields()
	if fields.IsEmpty() {
		return ErrNothingToUpdate
	}
	if fields.Name != nil && strings.TrimSpace(*fields.Name) == "" {
		return &FieldError{Field: "nombre", Err: ErrInvalidField}
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

// DeleteProduct permanently removes an existing product.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

// Ping reports whether storage is reachable.
func (s *ProductService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.listGen.Add(1)
	// reads started before this write must not be joined by later callers
	s.listSF.Forget("list")
	s.invalidateCache(ctx)
}

func (s *ProductService) invalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("product list cache invalidation failed", "error", err)
	}
}
