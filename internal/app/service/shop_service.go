package service

import (
	"errors"
	"fmt"

	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/repository"
	apperrors "github.com/hyeonpark/dongnemarket-backend/internal/errors"
	"github.com/hyeonpark/dongnemarket-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrShopNotFound        = errors.New("매장을 찾을 수 없습니다")
	ErrShopAccessDenied    = errors.New("매장 접근 권한이 없습니다")
	ErrShopAlreadyExists   = errors.New("이미 등록된 매장이 있습니다")
	ErrShopInvalidCategory = errors.New("매장 카테고리가 올바르지 않습니다")
)

type ShopListOptions struct {
	Category  string
	City      string
	District  string
	Search    string
	MinRating *float64
	SortBy    repository.ShopSort
	Ascending bool
	Page      int
	Limit     int
}

type ShopMutation struct {
	Name        *string
	Description *string
	Category    *string
	Phone       *string
	Email       *string
	Website     *string
	Street      *string
	City        *string
	District    *string
	PostalCode  *string
	About       *string
	Logo        *string
	CoverImage  *string
	Hours       model.OpeningHours
	IsActive    *bool
}

type ShopService interface {
	CreateShop(ownerID uint, shop *model.Shop) (*model.Shop, error)
	GetShopByID(id uint) (*model.Shop, error)
	GetShopByOwnerID(ownerID uint) (*model.Shop, error)
	ListShops(opts ShopListOptions) ([]model.Shop, int64, error)
	UpdateShop(userID, shopID uint, input ShopMutation, isAdmin bool) (*model.Shop, error)
	DeleteShop(userID, shopID uint, isAdmin bool) error
	AuthorizeOwner(userID, shopID uint, isAdmin bool) (*model.Shop, error)
}

type shopService struct {
	db       *gorm.DB
	shopRepo repository.ShopRepository
	userRepo repository.UserRepository
}

func NewShopService(db *gorm.DB, shopRepo repository.ShopRepository, userRepo repository.UserRepository) ShopService {
	return &shopService{
		db:       db,
		shopRepo: shopRepo,
		userRepo: userRepo,
	}
}

// CreateShop 매장 생성. 사용자당 매장은 하나이며, 생성과 동시에
// 소유자의 역할을 SHOP_OWNER로 전환한다. 두 변경은 한 트랜잭션으로 묶인다.
func (s *shopService) CreateShop(ownerID uint, shop *model.Shop) (*model.Shop, error) {
	logger.Info("Creating shop", map[string]interface{}{
		"name":     shop.Name,
		"owner_id": ownerID,
	})

	if !shop.Category.IsValid() {
		return nil, ErrShopInvalidCategory
	}

	exists, err := s.shopRepo.ExistsByOwnerID(ownerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrShopAlreadyExists
	}

	shop.OwnerID = ownerID
	shop.IsActive = true

	tx := s.db.Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin transaction for CreateShop", tx.Error)
		return nil, tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic in CreateShop, transaction rolled back", fmt.Errorf("%v", r))
			panic(r)
		}
	}()

	if err := tx.Create(shop).Error; err != nil {
		tx.Rollback()
		// owner_id 유니크 인덱스가 동시 생성 요청을 잡는다
		if apperrors.IsDuplicateKeyError(err) {
			return nil, ErrShopAlreadyExists
		}
		logger.Error("Failed to create shop", err, map[string]interface{}{
			"name":     shop.Name,
			"owner_id": ownerID,
		})
		return nil, err
	}

	if err := tx.Model(&model.User{}).
		Where("id = ? AND user_type = ?", ownerID, model.UserTypeCustomer).
		Update("user_type", model.UserTypeShopOwner).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to promote user to shop owner", err, map[string]interface{}{
			"user_id": ownerID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit CreateShop transaction", err)
		return nil, err
	}

	logger.Info("Shop created", map[string]interface{}{
		"shop_id":  shop.ID,
		"owner_id": ownerID,
	})
	return shop, nil
}

func (s *shopService) GetShopByID(id uint) (*model.Shop, error) {
	shop, err := s.shopRepo.FindByIDWithOwner(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return shop, nil
}

func (s *shopService) GetShopByOwnerID(ownerID uint) (*model.Shop, error) {
	shop, err := s.shopRepo.FindByOwnerID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return shop, nil
}

func (s *shopService) ListShops(opts ShopListOptions) ([]model.Shop, int64, error) {
	filter := repository.ShopFilter{
		City:          opts.City,
		District:      opts.District,
		Search:        opts.Search,
		MinRating:     opts.MinRating,
		SortBy:        opts.SortBy,
		SortAscending: opts.Ascending,
		Limit:         opts.Limit,
		Offset:        (opts.Page - 1) * opts.Limit,
	}

	if opts.Category != "" {
		category := model.ShopCategory(opts.Category)
		if !category.IsValid() {
			return nil, 0, ErrShopInvalidCategory
		}
		filter.Category = &category
	}

	// 목록에는 활성 매장만 노출
	active := true
	filter.IsActive = &active

	return s.shopRepo.FindWithFilter(filter)
}

// AuthorizeOwner 매장 소유자(또는 관리자)인지 확인하고 매장을 반환한다
func (s *shopService) AuthorizeOwner(userID, shopID uint, isAdmin bool) (*model.Shop, error) {
	shop, err := s.shopRepo.FindByID(shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}

	if shop.OwnerID != userID && !isAdmin {
		logger.Warn("Shop access denied", map[string]interface{}{
			"shop_id":  shopID,
			"user_id":  userID,
			"owner_id": shop.OwnerID,
		})
		return nil, ErrShopAccessDenied
	}

	return shop, nil
}

func (s *shopService) UpdateShop(userID, shopID uint, input ShopMutation, isAdmin bool) (*model.Shop, error) {
	shop, err := s.AuthorizeOwner(userID, shopID, isAdmin)
	if err != nil {
		return nil, err
	}

	if input.Category != nil {
		category := model.ShopCategory(*input.Category)
		if !category.IsValid() {
			return nil, ErrShopInvalidCategory
		}
		shop.Category = category
	}
	if input.Name != nil {
		shop.Name = *input.Name
	}
	if input.Description != nil {
		shop.Description = *input.Description
	}
	if input.Phone != nil {
		shop.Phone = *input.Phone
	}
	if input.Email != nil {
		shop.Email = *input.Email
	}
	if input.Website != nil {
		shop.Website = *input.Website
	}
	if input.Street != nil {
		shop.Street = *input.Street
	}
	if input.City != nil {
		shop.City = *input.City
	}
	if input.District != nil {
		shop.District = *input.District
	}
	if input.PostalCode != nil {
		shop.PostalCode = *input.PostalCode
	}
	if input.About != nil {
		shop.About = *input.About
	}
	if input.Logo != nil {
		shop.Logo = *input.Logo
	}
	if input.CoverImage != nil {
		shop.CoverImage = *input.CoverImage
	}
	if input.Hours != nil {
		shop.Hours = input.Hours
	}
	if input.IsActive != nil {
		shop.IsActive = *input.IsActive
	}

	if err := s.shopRepo.Update(shop); err != nil {
		logger.Error("Failed to update shop", err, map[string]interface{}{
			"shop_id": shopID,
		})
		return nil, err
	}

	logger.Info("Shop updated", map[string]interface{}{
		"shop_id": shopID,
		"user_id": userID,
	})
	return shop, nil
}

// DeleteShop 매장 삭제. 소속 상품 제거와 소유자의 역할을 CUSTOMER로
// 되돌리는 것까지 한 트랜잭션으로 처리한다.
// 행이 즉시 삭제되므로 같은 소유자가 새 매장을 다시 개설할 수 있다.
func (s *shopService) DeleteShop(userID, shopID uint, isAdmin bool) error {
	shop, err := s.AuthorizeOwner(userID, shopID, isAdmin)
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin transaction for DeleteShop", tx.Error)
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic in DeleteShop, transaction rolled back", fmt.Errorf("%v", r))
			panic(r)
		}
	}()

	if err := tx.Unscoped().Where("shop_id = ?", shopID).Delete(&model.Product{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete shop products", err, map[string]interface{}{
			"shop_id": shopID,
		})
		return err
	}

	if err := tx.Delete(&model.Shop{}, shopID).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete shop", err, map[string]interface{}{
			"shop_id": shopID,
		})
		return err
	}

	if err := tx.Model(&model.User{}).
		Where("id = ? AND user_type = ?", shop.OwnerID, model.UserTypeShopOwner).
		Update("user_type", model.UserTypeCustomer).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to demote shop owner", err, map[string]interface{}{
			"user_id": shop.OwnerID,
		})
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit DeleteShop transaction", err)
		return err
	}

	logger.Info("Shop deleted", map[string]interface{}{
		"shop_id": shopID,
		"user_id": userID,
	})
	return nil
}
