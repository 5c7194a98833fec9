package service

import (
	"errors"

	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/repository"
	apperrors "github.com/hyeonpark/dongnemarket-backend/internal/errors"
	"github.com/hyeonpark/dongnemarket-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNameExists = errors.New("이미 존재하는 카테고리명입니다")
	ErrCategoryInUse      = errors.New("상품이 등록된 카테고리는 삭제할 수 없습니다")
)

type CategoryMutation struct {
	Name             *string
	Description      *string
	Icon             *string
	Image            *string
	ParentCategoryID *uint
	IsActive         *bool
}

type CategoryService interface {
	CreateCategory(category *model.Category) (*model.Category, error)
	GetCategoryByID(id uint) (*model.Category, error)
	GetCategoryBySlug(slug string) (*model.Category, error)
	ListCategories(activeOnly bool) ([]model.Category, error)
	UpdateCategory(id uint, input CategoryMutation) (*model.Category, error)
	DeleteCategory(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(category *model.Category) (*model.Category, error) {
	if category.ParentCategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*category.ParentCategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	if err := s.categoryRepo.Create(category); err != nil {
		if apperrors.IsDuplicateKeyError(err) {
			return nil, ErrCategoryNameExists
		}
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

func (s *categoryService) GetCategoryByID(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetCategoryBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ListCategories(activeOnly bool) ([]model.Category, error) {
	return s.categoryRepo.FindAll(activeOnly)
}

func (s *categoryService) UpdateCategory(id uint, input CategoryMutation) (*model.Category, error) {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Icon != nil {
		category.Icon = *input.Icon
	}
	if input.Image != nil {
		category.Image = *input.Image
	}
	if input.ParentCategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.ParentCategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		category.ParentCategoryID = input.ParentCategoryID
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categoryRepo.Update(category); err != nil {
		if apperrors.IsDuplicateKeyError(err) {
			return nil, ErrCategoryNameExists
		}
		return nil, err
	}

	return category, nil
}

func (s *categoryService) DeleteCategory(id uint) error {
	if _, err := s.GetCategoryByID(id); err != nil {
		return err
	}

	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
	})
	return nil
}
