package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/citydesk/announce-api/internal/models"
	appErrors "github.com/citydesk/announce-api/pkg/errors"
)

const categoryListCacheKey = "categories:list"

type categoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	UpsertByName(ctx context.Context, name, displayName string) (*models.Category, error)
}

type categoryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CategoryService handles category workflows. The cache is optional; pass nil
// to read through to the database on every call.
type CategoryService struct {
	repo      categoryRepository
	cache     categoryCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCategoryService constructs the service.
func NewCategoryService(repo categoryRepository, cache categoryCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *CategoryService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// CreateCategoryRequest describes the create payload. DisplayName falls back
// to Name when omitted.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	DisplayName string `json:"displayName" validate:"omitempty,min=1"`
}

// List returns all categories, served from cache when available.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	if s.cache != nil {
		var cached []models.Category
		if err := s.cache.Get(ctx, categoryListCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list categories", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categoryListCacheKey, categories, s.cacheTTL); err != nil {
			s.logger.Warn("cache categories", zap.Error(err))
		}
	}
	return categories, nil
}

// Create registers a new category.
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	category := &models.Category{Name: req.Name, DisplayName: req.DisplayName}
	if category.DisplayName == "" {
		category.DisplayName = category.Name
	}
	if err := s.repo.Create(ctx, category); err != nil {
		s.logger.Error("create category", zap.String("name", req.Name), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create category")
	}
	s.invalidate(ctx)
	return category, nil
}

// Upsert creates or refreshes a category keyed by its unique name.
func (s *CategoryService) Upsert(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Name
	}
	category, err := s.repo.UpsertByName(ctx, req.Name, displayName)
	if err != nil {
		s.logger.Error("upsert category", zap.String("name", req.Name), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert category")
	}
	s.invalidate(ctx)
	return category, nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, categoryListCacheKey); err != nil {
		s.logger.Warn("invalidate category cache", zap.Error(err))
	}
}
