package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/repository"
	apperrors "github.com/hyeonpark/dongnemarket-backend/internal/errors"
	"github.com/hyeonpark/dongnemarket-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound      = errors.New("상품을 찾을 수 없습니다")
	ErrProductAccessDenied  = errors.New("상품 접근 권한이 없습니다")
	ErrProductSKUExists     = errors.New("이미 사용 중인 SKU입니다")
	ErrInvalidDiscountPrice = errors.New("할인가는 정가보다 낮아야 합니다")
	ErrShopRequired         = errors.New("먼저 매장을 등록해야 합니다")
	ErrCategoryNotFound     = errors.New("카테고리를 찾을 수 없습니다")
)

type ProductListOptions struct {
	ShopID     *uint
	CategoryID *uint
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	MinRating  *float64
	InStock    *bool
	IsFeatured *bool
	Tags       []string
	SortBy     repository.ProductSort
	Ascending  bool
	Page       int
	Limit      int
}

type ProductMutation struct {
	Name          *string
	Description   *string
	CategoryID    *uint
	Price         *float64
	DiscountPrice *float64
	Images        []string
	InStock       *bool
	Quantity      *int
	Tags          []string
	IsActive      *bool
	IsFeatured    *bool
}

type ProductService interface {
	CreateProduct(ownerID uint, product *model.Product) (*model.Product, error)
	GetProductByID(id uint, countView bool) (*model.Product, error)
	ListProducts(opts ProductListOptions) ([]model.Product, int64, error)
	ListProductsByOwner(ownerID uint, opts ProductListOptions) ([]model.Product, int64, error)
	UpdateProduct(userID, productID uint, input ProductMutation, isAdmin bool) (*model.Product, error)
	DeleteProduct(userID, productID uint, isAdmin bool) error
}

type productService struct {
	productRepo  repository.ProductRepository
	shopRepo     repository.ShopRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	shopRepo repository.ShopRepository,
	categoryRepo repository.CategoryRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		shopRepo:     shopRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateProduct 상품 등록. 소유한 매장이 있어야 하며 상품은 항상
// 그 매장 소속으로 생성된다. 매장의 상품 수 카운터를 함께 올린다.
func (s *productService) CreateProduct(ownerID uint, product *model.Product) (*model.Product, error) {
	shop, err := s.shopRepo.FindByOwnerID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopRequired
		}
		return nil, err
	}

	if _, err := s.categoryRepo.FindByID(product.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if product.DiscountPrice != nil && *product.DiscountPrice >= product.Price {
		return nil, ErrInvalidDiscountPrice
	}

	product.ShopID = shop.ID
	product.IsActive = true
	if product.SKU == "" {
		product.SKU = generateSKU()
	}

	logger.Info("Creating product", map[string]interface{}{
		"name":     product.Name,
		"shop_id":  shop.ID,
		"owner_id": ownerID,
		"sku":      product.SKU,
	})

	if err := s.productRepo.Create(product); err != nil {
		if apperrors.IsDuplicateKeyError(err) {
			return nil, ErrProductSKUExists
		}
		return nil, err
	}

	// 상품 생성이 커밋된 뒤 카운터를 올린다. 실패하면 주기 점검이 보정한다.
	if err := s.shopRepo.IncrementTotalProducts(shop.ID); err != nil {
		logger.Warn("Failed to increment shop product counter", map[string]interface{}{
			"shop_id": shop.ID,
			"error":   err.Error(),
		})
	}

	return product, nil
}

func (s *productService) GetProductByID(id uint, countView bool) (*model.Product, error) {
	product, err := s.productRepo.FindByIDWithShop(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if countView {
		if err := s.productRepo.IncrementViews(id); err != nil {
			logger.Warn("Failed to increment product views", map[string]interface{}{
				"product_id": id,
				"error":      err.Error(),
			})
		} else {
			product.Views++
		}
	}

	return product, nil
}

func (s *productService) ListProducts(opts ProductListOptions) ([]model.Product, int64, error) {
	active := true
	filter := repository.ProductFilter{
		ShopID:        opts.ShopID,
		CategoryID:    opts.CategoryID,
		Search:        opts.Search,
		MinPrice:      opts.MinPrice,
		MaxPrice:      opts.MaxPrice,
		MinRating:     opts.MinRating,
		InStock:       opts.InStock,
		IsActive:      &active,
		IsFeatured:    opts.IsFeatured,
		Tags:          opts.Tags,
		SortBy:        opts.SortBy,
		SortAscending: opts.Ascending,
		Limit:         opts.Limit,
		Offset:        (opts.Page - 1) * opts.Limit,
	}

	return s.productRepo.FindWithFilter(filter)
}

// ListProductsByOwner 사장님 본인 매장의 상품 목록 조회.
// 비활성 상품도 포함해 보여준다.
func (s *productService) ListProductsByOwner(ownerID uint, opts ProductListOptions) ([]model.Product, int64, error) {
	shop, err := s.shopRepo.FindByOwnerID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrShopRequired
		}
		return nil, 0, err
	}

	filter := repository.ProductFilter{
		ShopID:        &shop.ID,
		Search:        opts.Search,
		SortBy:        opts.SortBy,
		SortAscending: opts.Ascending,
		Limit:         opts.Limit,
		Offset:        (opts.Page - 1) * opts.Limit,
	}

	return s.productRepo.FindWithFilter(filter)
}

// authorizeProduct 상품의 소속 매장 소유자(또는 관리자)인지 확인한다
func (s *productService) authorizeProduct(userID, productID uint, isAdmin bool) (*model.Product, error) {
	product, err := s.productRepo.FindByIDWithShop(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if product.Shop == nil || (product.Shop.OwnerID != userID && !isAdmin) {
		logger.Warn("Product access denied", map[string]interface{}{
			"product_id": productID,
			"user_id":    userID,
		})
		return nil, ErrProductAccessDenied
	}

	return product, nil
}

func (s *productService) UpdateProduct(userID, productID uint, input ProductMutation, isAdmin bool) (*model.Product, error) {
	product, err := s.authorizeProduct(userID, productID, isAdmin)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.DiscountPrice != nil {
		product.DiscountPrice = input.DiscountPrice
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	if product.DiscountPrice != nil && *product.DiscountPrice >= product.Price {
		return nil, ErrInvalidDiscountPrice
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": productID,
		"user_id":    userID,
	})
	return product, nil
}

func (s *productService) DeleteProduct(userID, productID uint, isAdmin bool) error {
	product, err := s.authorizeProduct(userID, productID, isAdmin)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(productID); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	// 카운터는 0 아래로 내려가지 않는다
	if err := s.shopRepo.DecrementTotalProducts(product.ShopID); err != nil {
		logger.Warn("Failed to decrement shop product counter", map[string]interface{}{
			"shop_id": product.ShopID,
			"error":   err.Error(),
		})
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": productID,
		"user_id":    userID,
	})
	return nil
}

// generateSKU 무작위 재고 관리 코드 생성
func generateSKU() string {
	return fmt.Sprintf("PRD-%s", strings.ToUpper(uuid.New().String()[:8]))
}
