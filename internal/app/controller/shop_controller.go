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

type ShopController struct {
	shopService service.ShopService
}

func NewShopController(shopService service.ShopService) *ShopController {
	return &ShopController{shopService: shopService}
}

type CreateShopRequest struct {
	Name        string             `json:"name" binding:"required,max=100"`
	Description string             `json:"description"`
	Category    string             `json:"category" binding:"required"`
	Phone       string             `json:"phone" binding:"required"`
	Email       string             `json:"email" binding:"required,email"`
	Website     string             `json:"website"`
	Street      string             `json:"street" binding:"required"`
	City        string             `json:"city" binding:"required"`
	District    string             `json:"district" binding:"required"`
	PostalCode  string             `json:"postal_code"`
	About       string             `json:"about"`
	Logo        string             `json:"logo"`
	CoverImage  string             `json:"cover_image"`
	Hours       model.OpeningHours `json:"opening_hours"`
}

type UpdateShopRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Category    *string            `json:"category"`
	Phone       *string            `json:"phone"`
	Email       *string            `json:"email"`
	Website     *string            `json:"website"`
	Street      *string            `json:"street"`
	City        *string            `json:"city"`
	District    *string            `json:"district"`
	PostalCode  *string            `json:"postal_code"`
	About       *string            `json:"about"`
	Logo        *string            `json:"logo"`
	CoverImage  *string            `json:"cover_image"`
	Hours       model.OpeningHours `json:"opening_hours"`
	IsActive    *bool              `json:"is_active"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID 형식입니다")
		return 0, false
	}
	return uint(id), true
}

// ListShops returns a paginated shop listing
// GET /api/v1/shops
func (ctrl *ShopController) ListShops(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = util.NormalizePageLimit(page, limit)

	opts := service.ShopListOptions{
		Category: c.Query("category"),
		City:     c.Query("city"),
		District: c.Query("district"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}

	if minRatingStr := c.Query("min_rating"); minRatingStr != "" {
		minRating, err := strconv.ParseFloat(minRatingStr, 64)
		if err != nil || minRating < 0 || minRating > 5 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "min_rating은 0에서 5 사이여야 합니다")
			return
		}
		opts.MinRating = &minRating
	}

	if sort := c.Query("sort"); sort != "" {
		field, ascending := util.SplitSortKey(sort)
		opts.SortBy = repository.ShopSort(field)
		opts.Ascending = ascending
	}

	shops, total, err := ctrl.shopService.ListShops(opts)
	if err != nil {
		if errors.Is(err, service.ErrShopInvalidCategory) {
			apperrors.BadRequest(c, apperrors.ShopInvalidCategory, "매장 카테고리가 올바르지 않습니다")
			return
		}
		log.Error("Failed to list shops", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list shops")
		return
	}

	apperrors.OK(c, "매장 목록을 조회했습니다", gin.H{
		"shops":      shops,
		"pagination": util.NewPagination(total, page, limit),
	})
}

// SearchShops searches shops by keyword
// GET /api/v1/shops/search
func (ctrl *ShopController) SearchShops(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "검색어를 입력해주세요")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = util.NormalizePageLimit(page, limit)

	shops, total, err := ctrl.shopService.ListShops(service.ShopListOptions{
		Search: keyword,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		log.Error("Failed to search shops", err, map[string]interface{}{
			"keyword": keyword,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "search shops")
		return
	}

	apperrors.OK(c, "매장 검색 결과입니다", gin.H{
		"shops":      shops,
		"pagination": util.NewPagination(total, page, limit),
	})
}

// GetShop returns a single shop
// GET /api/v1/shops/:id
func (ctrl *ShopController) GetShop(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	shop, err := ctrl.shopService.GetShopByID(id)
	if err != nil {
		if errors.Is(err, service.ErrShopNotFound) {
			apperrors.NotFound(c, apperrors.ShopNotFound, "매장을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to fetch shop", err, map[string]interface{}{
			"shop_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get shop")
		return
	}

	apperrors.OK(c, "매장 정보를 조회했습니다", gin.H{
		"shop": shop,
	})
}

// GetMyShop returns the authenticated owner's shop
// GET /api/v1/shops/user/my-shop
func (ctrl *ShopController) GetMyShop(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	shop, err := ctrl.shopService.GetShopByOwnerID(userID)
	if err != nil {
		if errors.Is(err, service.ErrShopNotFound) {
			apperrors.NotFound(c, apperrors.ShopNotFound, "등록된 매장이 없습니다")
			return
		}
		log.Error("Failed to fetch my shop", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get my shop")
		return
	}

	apperrors.OK(c, "내 매장 정보를 조회했습니다", gin.H{
		"shop": shop,
	})
}

// CreateShop registers a new shop owned by the authenticated user
// POST /api/v1/shops
func (ctrl *ShopController) CreateShop(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid shop creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	shop := &model.Shop{
		Name:        req.Name,
		Description: req.Description,
		Category:    model.ShopCategory(req.Category),
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Street:      req.Street,
		City:        req.City,
		District:    req.District,
		PostalCode:  req.PostalCode,
		About:       req.About,
		Logo:        req.Logo,
		CoverImage:  req.CoverImage,
		Hours:       req.Hours,
	}

	created, err := ctrl.shopService.CreateShop(userID, shop)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrShopInvalidCategory):
			apperrors.BadRequest(c, apperrors.ShopInvalidCategory, "매장 카테고리가 올바르지 않습니다")
		case errors.Is(err, service.ErrShopAlreadyExists):
			apperrors.Conflict(c, apperrors.ShopAlreadyExists, "이미 등록된 매장이 있습니다")
		default:
			log.Error("Failed to create shop", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create shop")
		}
		return
	}

	log.Info("Shop created", map[string]interface{}{
		"shop_id": created.ID,
		"user_id": userID,
	})

	apperrors.Created(c, "매장이 등록되었습니다", gin.H{
		"shop": created,
	})
}

// UpdateShop updates a shop (owner or admin only)
// PUT /api/v1/shops/:id
func (ctrl *ShopController) UpdateShop(c *gin.Context) {
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

	var req UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	shop, err := ctrl.shopService.UpdateShop(userID, id, service.ShopMutation{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Street:      req.Street,
		City:        req.City,
		District:    req.District,
		PostalCode:  req.PostalCode,
		About:       req.About,
		Logo:        req.Logo,
		CoverImage:  req.CoverImage,
		Hours:       req.Hours,
		IsActive:    req.IsActive,
	}, middleware.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrShopNotFound):
			apperrors.NotFound(c, apperrors.ShopNotFound, "매장을 찾을 수 없습니다")
		case errors.Is(err, service.ErrShopAccessDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "매장 소유자만 수정할 수 있습니다")
		case errors.Is(err, service.ErrShopInvalidCategory):
			apperrors.BadRequest(c, apperrors.ShopInvalidCategory, "매장 카테고리가 올바르지 않습니다")
		default:
			log.Error("Failed to update shop", err, map[string]interface{}{
				"shop_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update shop")
		}
		return
	}

	apperrors.OK(c, "매장 정보가 수정되었습니다", gin.H{
		"shop": shop,
	})
}

// DeleteShop removes a shop (owner or admin only)
// DELETE /api/v1/shops/:id
func (ctrl *ShopController) DeleteShop(c *gin.Context) {
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

	if err := ctrl.shopService.DeleteShop(userID, id, middleware.IsAdmin(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrShopNotFound):
			apperrors.NotFound(c, apperrors.ShopNotFound, "매장을 찾을 수 없습니다")
		case errors.Is(err, service.ErrShopAccessDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "매장 소유자만 삭제할 수 있습니다")
		default:
			log.Error("Failed to delete shop", err, map[string]interface{}{
				"shop_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete shop")
		}
		return
	}

	apperrors.OK(c, "매장이 삭제되었습니다", nil)
}
