package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/repository"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/service"
	apperrors "github.com/hyeonpark/dongnemarket-backend/internal/errors"
	"github.com/hyeonpark/dongnemarket-backend/internal/middleware"
	"github.com/hyeonpark/dongnemarket-backend/pkg/util"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required,max=150"`
	Description   string   `json:"description" binding:"required"`
	CategoryID    uint     `json:"category_id" binding:"required"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	DiscountPrice *float64 `json:"discount_price"`
	Images        []string `json:"images"`
	InStock       *bool    `json:"in_stock"`
	Quantity      int      `json:"quantity"`
	SKU           string   `json:"sku"`
	Tags          []string `json:"tags"`
	IsFeatured    bool     `json:"is_featured"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	CategoryID    *uint    `json:"category_id"`
	Price         *float64 `json:"price"`
	DiscountPrice *float64 `json:"discount_price"`
	Images        []string `json:"images"`
	InStock       *bool    `json:"in_stock"`
	Quantity      *int     `json:"quantity"`
	Tags          []string `json:"tags"`
	IsActive      *bool    `json:"is_active"`
	IsFeatured    *bool    `json:"is_featured"`
}

// ListProducts returns a filtered, paginated product listing
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = util.NormalizePageLimit(page, limit)

	opts := service.ProductListOptions{
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}

	if shopIDStr := c.Query("shop_id"); shopIDStr != "" {
		shopID, err := strconv.ParseUint(shopIDStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 shop_id 형식입니다")
			return
		}
		id := uint(shopID)
		opts.ShopID = &id
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		categoryID, err := strconv.ParseUint(categoryIDStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 category_id 형식입니다")
			return
		}
		id := uint(categoryID)
		opts.CategoryID = &id
	}

	if minPriceStr := c.Query("min_price"); minPriceStr != "" {
		if minPrice, err := strconv.ParseFloat(minPriceStr, 64); err == nil {
			opts.MinPrice = &minPrice
		}
	}
	if maxPriceStr := c.Query("max_price"); maxPriceStr != "" {
		if maxPrice, err := strconv.ParseFloat(maxPriceStr, 64); err == nil {
			opts.MaxPrice = &maxPrice
		}
	}
	if minRatingStr := c.Query("min_rating"); minRatingStr != "" {
		minRating, err := strconv.ParseFloat(minRatingStr, 64)
		if err != nil || minRating < 0 || minRating > 5 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "min_rating은 0에서 5 사이여야 합니다")
			return
		}
		opts.MinRating = &minRating
	}
	if inStockStr := c.Query("in_stock"); inStockStr != "" {
		inStock := strings.EqualFold(inStockStr, "true")
		opts.InStock = &inStock
	}
	if featuredStr := c.Query("featured"); featuredStr != "" {
		featured := strings.EqualFold(featuredStr, "true")
		opts.IsFeatured = &featured
	}
	if tags := c.Query("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				opts.Tags = append(opts.Tags, tag)
			}
		}
	}
	if sort := c.Query("sort"); sort != "" {
		field, ascending := util.SplitSortKey(sort)
		opts.SortBy = repository.ProductSort(field)
		opts.Ascending = ascending
	}

	products, total, err := ctrl.productService.ListProducts(opts)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	apperrors.OK(c, "상품 목록을 조회했습니다", gin.H{
		"products":   products,
		"pagination": util.NewPagination(total, page, limit),
	})
}

// SearchProducts searches products by keyword
// GET /api/v1/products/search
func (ctrl *ProductController) SearchProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "검색어를 입력해주세요")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = util.NormalizePageLimit(page, limit)

	products, total, err := ctrl.productService.ListProducts(service.ProductListOptions{
		Search: keyword,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		log.Error("Failed to search products", err, map[string]interface{}{
			"keyword": keyword,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "search products")
		return
	}

	apperrors.OK(c, "상품 검색 결과입니다", gin.H{
		"products":   products,
		"pagination": util.NewPagination(total, page, limit),
	})
}

// ListFeaturedProducts returns featured products
// GET /api/v1/products/featured
func (ctrl *ProductController) ListFeaturedProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = util.NormalizePageLimit(page, limit)

	featured := true
	products, total, err := ctrl.productService.ListProducts(service.ProductListOptions{
		IsFeatured: &featured,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		log.Error("Failed to list featured products", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list featured products")
		return
	}

	apperrors.OK(c, "추천 상품 목록을 조회했습니다", gin.H{
		"products":   products,
		"pagination": util.NewPagination(total, page, limit),
	})
}

// ListShopProducts returns a shop's products
// GET /api/v1/products/shop/:shopId
func (ctrl *ProductController) ListShopProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	shopID, ok := parseIDParam(c, "shopId")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = util.NormalizePageLimit(page, limit)

	products, total, err := ctrl.productService.ListProducts(service.ProductListOptions{
		ShopID: &shopID,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		log.Error("Failed to list shop products", err, map[string]interface{}{
			"shop_id": shopID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list shop products")
		return
	}

	apperrors.OK(c, "매장 상품 목록을 조회했습니다", gin.H{
		"products":   products,
		"pagination": util.NewPagination(total, page, limit),
	})
}

// ListMyProducts returns the authenticated owner's products
// GET /api/v1/products/user/my-products
func (ctrl *ProductController) ListMyProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = util.NormalizePageLimit(page, limit)

	products, total, err := ctrl.productService.ListProductsByOwner(userID, service.ProductListOptions{
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		if errors.Is(err, service.ErrShopRequired) {
			apperrors.NotFound(c, apperrors.ShopNotFound, "등록된 매장이 없습니다")
			return
		}
		log.Error("Failed to list my products", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list my products")
		return
	}

	apperrors.OK(c, "내 상품 목록을 조회했습니다", gin.H{
		"products":   products,
		"pagination": util.NewPagination(total, page, limit),
	})
}

// GetProduct returns a single product and counts the view
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id, true)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "상품을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get product")
		return
	}

	apperrors.OK(c, "상품 정보를 조회했습니다", gin.H{
		"product": product,
	})
}

// CreateProduct registers a product under the caller's shop
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	product := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Images:        req.Images,
		Quantity:      req.Quantity,
		SKU:           req.SKU,
		Tags:          req.Tags,
		IsFeatured:    req.IsFeatured,
		InStock:       true,
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}

	created, err := ctrl.productService.CreateProduct(userID, product)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrShopRequired):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.ShopRequired, "먼저 매장을 등록해야 합니다")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "카테고리를 찾을 수 없습니다")
		case errors.Is(err, service.ErrInvalidDiscountPrice):
			apperrors.BadRequest(c, apperrors.ProductInvalidDiscount, "할인가는 정가보다 낮아야 합니다")
		case errors.Is(err, service.ErrProductSKUExists):
			apperrors.Conflict(c, apperrors.ProductSKUExists, "이미 사용 중인 SKU입니다")
		default:
			log.Error("Failed to create product", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create product")
		}
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": created.ID,
		"user_id":    userID,
	})

	apperrors.Created(c, "상품이 등록되었습니다", gin.H{
		"product": created,
	})
}

// UpdateProduct updates a product (shop owner or admin only)
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	product, err := ctrl.productService.UpdateProduct(userID, id, service.ProductMutation{
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Images:        req.Images,
		InStock:       req.InStock,
		Quantity:      req.Quantity,
		Tags:          req.Tags,
		IsActive:      req.IsActive,
		IsFeatured:    req.IsFeatured,
	}, middleware.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "상품을 찾을 수 없습니다")
		case errors.Is(err, service.ErrProductAccessDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "상품 소유 매장의 사장님만 수정할 수 있습니다")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "카테고리를 찾을 수 없습니다")
		case errors.Is(err, service.ErrInvalidDiscountPrice):
			apperrors.BadRequest(c, apperrors.ProductInvalidDiscount, "할인가는 정가보다 낮아야 합니다")
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update product")
		}
		return
	}

	apperrors.OK(c, "상품 정보가 수정되었습니다", gin.H{
		"product": product,
	})
}

// DeleteProduct removes a product (shop owner or admin only)
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(userID, id, middleware.IsAdmin(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "상품을 찾을 수 없습니다")
		case errors.Is(err, service.ErrProductAccessDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "상품 소유 매장의 사장님만 삭제할 수 있습니다")
		default:
			log.Error("Failed to delete product", err, map[string]interface{}{
				"product_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete product")
		}
		return
	}

	apperrors.OK(c, "상품이 삭제되었습니다", nil)
}
