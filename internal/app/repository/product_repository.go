package repository

import (
	"fmt"

	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortRating    ProductSort = "rating"
	ProductSortViews     ProductSort = "views"
	ProductSortName      ProductSort = "name"
)

type ProductFilter struct {
	ShopID        *uint
	CategoryID    *uint
	Search        string
	MinPrice      *float64
	MaxPrice      *float64
	MinRating     *float64
	InStock       *bool
	IsActive      *bool
	IsFeatured    *bool
	Tags          []string
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product, batchSize int) error
	FindByID(id uint) (*model.Product, error)
	FindByIDWithShop(id uint) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	CountByShopID(shopID uint) (int64, error)
	Update(product *model.Product) error
	Delete(id uint) error
	IncrementViews(id uint) error
	ApplyRatingDelta(id uint, sumDelta int64, countDelta int64) error
	SetRatingSummary(id uint, sum int64, count int64) error
	IDsWithReviews() ([]uint, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"shop_id":     product.ShopID,
		"category_id": product.CategoryID,
		"sku":         product.SKU,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":    product.Name,
			"shop_id": product.ShopID,
		})
		return err
	}
	return nil
}

// BulkCreate는 카탈로그 일괄 등록용으로 상품을 배치 단위로 저장한다
func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}

	logger.Info("Bulk creating products", map[string]interface{}{
		"count":      len(products),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIDWithShop(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Shop").Preload("Category").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.Where("sku = ?", sku).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	query := r.db.Model(&model.Product{})

	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinRating != nil {
		query = query.Where("rating >= ?", *filter.MinRating)
	}
	if filter.InStock != nil {
		query = query.Where("in_stock = ?", *filter.InStock)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsFeatured != nil {
		query = query.Where("is_featured = ?", *filter.IsFeatured)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	// 태그는 JSON 텍스트로 저장되므로 부분 일치로 검색한다
	for _, tag := range filter.Tags {
		query = query.Where("tags LIKE ?", fmt.Sprintf("%%%q%%", tag))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case ProductSortPrice:
		query = query.Order("price " + direction)
	case ProductSortRating:
		query = query.Order("rating " + direction)
	case ProductSortViews:
		query = query.Order("views " + direction)
	case ProductSortName:
		query = query.Order("name " + direction)
	default:
		query = query.Order("created_at " + direction)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	err := query.Preload("Shop").Preload("Category").Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) CountByShopID(shopID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("shop_id = ?", shopID).
		Count(&count).Error
	return count, err
}

func (r *productRepository) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepository) Delete(id uint) error {
	return r.db.Delete(&model.Product{}, id).Error
}

// IncrementViews 조회수 증가
func (r *productRepository) IncrementViews(id uint) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// ApplyRatingDelta 리뷰 변동분을 집계 컬럼에 단일 UPDATE로 반영한다.
// shop 쪽과 같은 방식으로 합계와 개수를 먼저 조정하고
// 같은 문장 안에서 평균을 다시 계산한다.
func (r *productRepository) ApplyRatingDelta(id uint, sumDelta int64, countDelta int64) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"rating_sum":    gorm.Expr("rating_sum + ?", sumDelta),
			"total_reviews": gorm.Expr("total_reviews + ?", countDelta),
			"rating": gorm.Expr(
				"CASE WHEN total_reviews + ? > 0 THEN (rating_sum + ?) * 1.0 / (total_reviews + ?) ELSE 0 END",
				countDelta, sumDelta, countDelta,
			),
		}).Error
}

// IDsWithReviews 리뷰 집계가 남아 있는 상품 ID 목록 (정합성 복구용)
func (r *productRepository) IDsWithReviews() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Product{}).
		Where("total_reviews > 0").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SetRatingSummary 재계산된 집계값으로 덮어쓴다 (정합성 복구용)
func (r *productRepository) SetRatingSummary(id uint, sum int64, count int64) error {
	rating := 0.0
	if count > 0 {
		rating = float64(sum) / float64(count)
	}
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"rating_sum":    sum,
			"total_reviews": count,
			"rating":        rating,
		}).Error
}
