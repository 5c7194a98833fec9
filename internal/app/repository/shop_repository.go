package repository

import (
	"fmt"

	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/pkg/logger"
	"gorm.io/gorm"
)

type ShopSort string

const (
	ShopSortCreatedAt ShopSort = "created_at"
	ShopSortRating    ShopSort = "rating"
	ShopSortReviews   ShopSort = "reviews"
	ShopSortName      ShopSort = "name"
)

type ShopFilter struct {
	Category      *model.ShopCategory
	City          string
	District      string
	Search        string
	MinRating     *float64
	IsActive      *bool
	SortBy        ShopSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ShopRepository interface {
	Create(shop *model.Shop) error
	FindByID(id uint) (*model.Shop, error)
	FindByIDWithOwner(id uint) (*model.Shop, error)
	FindByOwnerID(ownerID uint) (*model.Shop, error)
	ExistsByOwnerID(ownerID uint) (bool, error)
	FindWithFilter(filter ShopFilter) ([]model.Shop, int64, error)
	Update(shop *model.Shop) error
	Delete(id uint) error
	ApplyRatingDelta(id uint, sumDelta int64, countDelta int64) error
	SetRatingSummary(id uint, sum int64, count int64) error
	IDsWithReviews() ([]uint, error)
	IncrementTotalProducts(id uint) error
	DecrementTotalProducts(id uint) error
}

type shopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Create(shop *model.Shop) error {
	logger.Debug("Creating shop in database", map[string]interface{}{
		"name":     shop.Name,
		"owner_id": shop.OwnerID,
		"category": shop.Category,
	})

	if err := r.db.Create(shop).Error; err != nil {
		logger.Error("Failed to create shop in database", err, map[string]interface{}{
			"name":     shop.Name,
			"owner_id": shop.OwnerID,
		})
		return err
	}
	return nil
}

func (r *shopRepository) FindByID(id uint) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.First(&shop, id).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) FindByIDWithOwner(id uint) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.Preload("Owner").First(&shop, id).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) FindByOwnerID(ownerID uint) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.Where("owner_id = ?", ownerID).First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) ExistsByOwnerID(ownerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Shop{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *shopRepository) FindWithFilter(filter ShopFilter) ([]model.Shop, int64, error) {
	var shops []model.Shop
	var total int64

	query := r.db.Model(&model.Shop{})

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.District != "" {
		query = query.Where("district = ?", filter.District)
	}
	if filter.MinRating != nil {
		query = query.Where("rating >= ?", *filter.MinRating)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case ShopSortRating:
		query = query.Order("rating " + direction)
	case ShopSortReviews:
		query = query.Order("total_reviews " + direction)
	case ShopSortName:
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

	err := query.Find(&shops).Error
	if err != nil {
		return nil, 0, err
	}

	return shops, total, nil
}

func (r *shopRepository) Update(shop *model.Shop) error {
	return r.db.Save(shop).Error
}

func (r *shopRepository) Delete(id uint) error {
	return r.db.Delete(&model.Shop{}, id).Error
}

// ApplyRatingDelta 리뷰 변동분을 집계 컬럼에 단일 UPDATE로 반영한다.
// rating은 같은 문장에서 갱신된 합계와 개수로 다시 계산되므로
// 동시 요청이 겹쳐도 rating = rating_sum / total_reviews 불변식이 유지된다.
func (r *shopRepository) ApplyRatingDelta(id uint, sumDelta int64, countDelta int64) error {
	return r.db.Model(&model.Shop{}).
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

// SetRatingSummary 재계산된 집계값으로 덮어쓴다 (정합성 복구용)
func (r *shopRepository) SetRatingSummary(id uint, sum int64, count int64) error {
	rating := 0.0
	if count > 0 {
		rating = float64(sum) / float64(count)
	}
	return r.db.Model(&model.Shop{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"rating_sum":    sum,
			"total_reviews": count,
			"rating":        rating,
		}).Error
}

// IDsWithReviews 리뷰 집계가 남아 있는 매장 ID 목록.
// 마지막 리뷰가 삭제된 뒤 집계 반영이 실패하면 리뷰 테이블에는
// 행이 없어도 total_reviews가 0이 아닌 매장이 남을 수 있다.
func (r *shopRepository) IDsWithReviews() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Shop{}).
		Where("total_reviews > 0").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *shopRepository) IncrementTotalProducts(id uint) error {
	return r.db.Model(&model.Shop{}).
		Where("id = ?", id).
		UpdateColumn("total_products", gorm.Expr("total_products + ?", 1)).Error
}

// DecrementTotalProducts 0 아래로 내려가지 않도록 감소
func (r *shopRepository) DecrementTotalProducts(id uint) error {
	return r.db.Model(&model.Shop{}).
		Where("id = ?", id).
		UpdateColumn("total_products", gorm.Expr("CASE WHEN total_products > 0 THEN total_products - 1 ELSE 0 END")).Error
}
