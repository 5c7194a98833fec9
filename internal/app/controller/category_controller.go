package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/service"
	apperrors "github.com/hyeonpark/dongnemarket-backend/internal/errors"
	"github.com/hyeonpark/dongnemarket-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CreateCategoryRequest struct {
	Name             string `json:"name" binding:"required,max=50"`
	Description      string `json:"description"`
	Icon             string `json:"icon"`
	Image            string `json:"image"`
	ParentCategoryID *uint  `json:"parent_category_id"`
}

type UpdateCategoryRequest struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	Icon             *string `json:"icon"`
	Image            *string `json:"image"`
	ParentCategoryID *uint   `json:"parent_category_id"`
	IsActive         *bool   `json:"is_active"`
}

// ListCategories returns all categories
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// 관리자는 비활성 카테고리까지 조회 가능
	activeOnly := !strings.EqualFold(c.DefaultQuery("include_inactive", "false"), "true") || !middleware.IsAdmin(c)

	categories, err := ctrl.categoryService.ListCategories(activeOnly)
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list categories")
		return
	}

	apperrors.OK(c, "카테고리 목록을 조회했습니다", gin.H{
		"categories": categories,
	})
}

// GetCategory returns a single category by ID
// GET /api/v1/categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.categoryService.GetCategoryByID(id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "카테고리를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get category")
		return
	}

	apperrors.OK(c, "카테고리를 조회했습니다", gin.H{
		"category": category,
	})
}

// GetCategoryBySlug returns a single category by slug
// GET /api/v1/categories/slug/:slug
func (ctrl *CategoryController) GetCategoryBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "슬러그를 입력해주세요")
		return
	}

	category, err := ctrl.categoryService.GetCategoryBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "카테고리를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get category by slug")
		return
	}

	apperrors.OK(c, "카테고리를 조회했습니다", gin.H{
		"category": category,
	})
}

// CreateCategory creates a category (admin only, enforced by router)
// POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	category := &model.Category{
		Name:             req.Name,
		Description:      req.Description,
		Icon:             req.Icon,
		Image:            req.Image,
		ParentCategoryID: req.ParentCategoryID,
		IsActive:         true,
	}

	created, err := ctrl.categoryService.CreateCategory(category)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "상위 카테고리를 찾을 수 없습니다")
		case errors.Is(err, service.ErrCategoryNameExists):
			apperrors.Conflict(c, apperrors.CategoryExists, "이미 존재하는 카테고리명입니다")
		default:
			log.Error("Failed to create category", err, nil)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create category")
		}
		return
	}

	apperrors.Created(c, "카테고리가 생성되었습니다", gin.H{
		"category": created,
	})
}

// UpdateCategory updates a category (admin only, enforced by router)
// PUT /api/v1/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	category, err := ctrl.categoryService.UpdateCategory(id, service.CategoryMutation{
		Name:             req.Name,
		Description:      req.Description,
		Icon:             req.Icon,
		Image:            req.Image,
		ParentCategoryID: req.ParentCategoryID,
		IsActive:         req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "카테고리를 찾을 수 없습니다")
		case errors.Is(err, service.ErrCategoryNameExists):
			apperrors.Conflict(c, apperrors.CategoryExists, "이미 존재하는 카테고리명입니다")
		default:
			log.Error("Failed to update category", err, map[string]interface{}{
				"category_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update category")
		}
		return
	}

	apperrors.OK(c, "카테고리가 수정되었습니다", gin.H{
		"category": category,
	})
}

// DeleteCategory deletes a category (admin only, enforced by router)
// DELETE /api/v1/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteCategory(id); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "카테고리를 찾을 수 없습니다")
		case errors.Is(err, service.ErrCategoryInUse):
			apperrors.Conflict(c, apperrors.CategoryInUse, "상품이 등록된 카테고리는 삭제할 수 없습니다")
		default:
			log.Error("Failed to delete category", err, map[string]interface{}{
				"category_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete category")
		}
		return
	}

	apperrors.OK(c, "카테고리가 삭제되었습니다", nil)
}
