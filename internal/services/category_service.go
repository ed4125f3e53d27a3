package services

import (
	"context"
	"time"

	"taskhub/internal/models"
	"taskhub/internal/repositories"
)

type CategoryService interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	GetByID(ctx context.Context, id, userID int64) (*models.Category, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]models.Category, error)
	Update(ctx context.Context, id, userID int64, updateData *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id, userID int64) error
}

type categoryService struct {
	repo repositories.CategoryRepository
}

func NewCategoryService(repo repositories.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	if err := s.repo.Store(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetByID(ctx context.Context, id, userID int64) (*models.Category, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *categoryService) List(ctx context.Context, userID int64, limit, offset int) ([]models.Category, error) {
	return s.repo.FindAll(ctx, userID, limit, offset)
}

func (s *categoryService) Update(ctx context.Context, id, userID int64, updateData *models.Category) (*models.Category, error) {
	existing, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	existing.Name = updateData.Name
	existing.Description = updateData.Description
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *categoryService) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}
