package repository

import (
	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindByID(id uint) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	FindAll(activeOnly bool) ([]model.Category, error)
	Update(category *model.Category) error
	Delete(id uint) error
	CountProducts(id uint) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	err := r.db.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(activeOnly bool) ([]model.Category, error) {
	var categories []model.Category
	query := r.db.Model(&model.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(category *model.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepository) Delete(id uint) error {
	return r.db.Delete(&model.Category{}, id).Error
}

// CountProducts 카테고리에 속한 상품 수 (삭제 시 검증용)
func (r *categoryRepository) CountProducts(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}
