package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/repository"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/service"
	apperrors "github.com/hyeonpark/dongnemarket-backend/internal/errors"
	"github.com/hyeonpark/dongnemarket-backend/internal/middleware"
	"github.com/hyeonpark/dongnemarket-backend/pkg/util"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

type CreateReviewRequest struct {
	TargetType string   `json:"target_type" binding:"required"`
	TargetID   uint     `json:"target_id" binding:"required"`
	Rating     int      `json:"rating" binding:"required,min=1,max=5"`
	Title      string   `json:"title" binding:"required,max=100"`
	Comment    string   `json:"comment" binding:"required,min=10,max=2000"`
	Images     []string `json:"images"`
}

type UpdateReviewRequest struct {
	Rating  *int     `json:"rating"`
	Title   *string  `json:"title"`
	Comment *string  `json:"comment"`
	Images  []string `json:"images"`
}

// respondReviewError maps review service errors onto the response envelope
func respondReviewError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrReviewNotFound):
		apperrors.NotFound(c, apperrors.ReviewNotFound, "리뷰를 찾을 수 없습니다")
	case errors.Is(err, service.ErrReviewTargetNotFound):
		apperrors.NotFound(c, apperrors.ReviewTargetNotFound, "리뷰 대상을 찾을 수 없습니다")
	case errors.Is(err, service.ErrInvalidTargetType):
		apperrors.BadRequest(c, apperrors.ValidationInvalidTarget, "리뷰 대상 유형이 올바르지 않습니다")
	case errors.Is(err, service.ErrInvalidRating):
		apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "평점은 1에서 5 사이여야 합니다")
	case errors.Is(err, service.ErrReviewAlreadyExists):
		apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "이미 이 대상에 리뷰를 작성했습니다")
	case errors.Is(err, service.ErrReviewAccessDenied):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAuthorOnly, "리뷰 작성자만 할 수 있는 작업입니다")
	default:
		log.Error("Review operation failed", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// CreateReview creates a review for a shop or product
// POST /api/v1/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid review creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, service.CreateReviewInput{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Rating:     req.Rating,
		Title:      req.Title,
		Comment:    req.Comment,
		Images:     req.Images,
	})
	if err != nil {
		respondReviewError(c, err, "create review")
		return
	}

	log.Info("Review created", map[string]interface{}{
		"review_id": review.ID,
		"user_id":   userID,
	})

	apperrors.Created(c, "리뷰가 등록되었습니다", gin.H{
		"review": review,
	})
}

// GetReview returns a single review
// GET /api/v1/reviews/item/:id
func (ctrl *ReviewController) GetReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := ctrl.reviewService.GetReviewByID(id)
	if err != nil {
		respondReviewError(c, err, "get review")
		return
	}

	apperrors.OK(c, "리뷰를 조회했습니다", gin.H{
		"review": review,
	})
}

// UpdateReview updates a review (author only)
// PUT /api/v1/reviews/:id
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	review, err := ctrl.reviewService.UpdateReview(userID, id, service.ReviewMutation{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
		Images:  req.Images,
	})
	if err != nil {
		respondReviewError(c, err, "update review")
		return
	}

	apperrors.OK(c, "리뷰가 수정되었습니다", gin.H{
		"review": review,
	})
}

// DeleteReview deletes a review (author or admin)
// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(userID, id, middleware.IsAdmin(c)); err != nil {
		respondReviewError(c, err, "delete review")
		return
	}

	apperrors.OK(c, "리뷰가 삭제되었습니다", nil)
}

// MarkHelpful increments the helpful counter
// PATCH /api/v1/reviews/:id/helpful
func (ctrl *ReviewController) MarkHelpful(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := ctrl.reviewService.MarkHelpful(id)
	if err != nil {
		respondReviewError(c, err, "mark review helpful")
		return
	}

	apperrors.OK(c, "리뷰에 도움됨을 표시했습니다", gin.H{
		"review": review,
	})
}

// MarkUnhelpful increments the unhelpful counter
// PATCH /api/v1/reviews/:id/unhelpful
func (ctrl *ReviewController) MarkUnhelpful(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := ctrl.reviewService.MarkUnhelpful(id)
	if err != nil {
		respondReviewError(c, err, "mark review unhelpful")
		return
	}

	apperrors.OK(c, "리뷰에 도움 안 됨을 표시했습니다", gin.H{
		"review": review,
	})
}

// parseTargetParams 경로의 대상 유형/ID 파라미터를 해석한다.
// 유형 문자열의 존재 여부 검증은 서비스 계층에서 수행한다.
func parseTargetParams(c *gin.Context) (string, uint, bool) {
	targetType := strings.ToUpper(c.Param("targetType"))
	targetID, ok := parseIDParam(c, "targetId")
	if !ok {
		return "", 0, false
	}
	return targetType, targetID, true
}

// ListTargetReviews lists reviews for a shop or product
// GET /api/v1/reviews/:targetType/:targetId
func (ctrl *ReviewController) ListTargetReviews(c *gin.Context) {
	targetType, id, ok := parseTargetParams(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = util.NormalizePageLimit(page, limit)

	opts := service.ReviewListOptions{
		Page:  page,
		Limit: limit,
	}

	if ratingStr := c.Query("rating"); ratingStr != "" {
		rating, err := strconv.Atoi(ratingStr)
		if err != nil || rating < 1 || rating > 5 {
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "평점 필터는 1에서 5 사이여야 합니다")
			return
		}
		opts.Rating = &rating
	}

	if sort := c.Query("sort"); sort != "" {
		field, ascending := util.SplitSortKey(sort)
		opts.SortBy = repository.ReviewSort(field)
		opts.SortAscending = ascending
	}

	reviews, total, err := ctrl.reviewService.ListReviewsByTarget(targetType, id, opts)
	if err != nil {
		respondReviewError(c, err, "list reviews")
		return
	}

	apperrors.OK(c, "리뷰 목록을 조회했습니다", gin.H{
		"reviews":    reviews,
		"pagination": util.NewPagination(total, page, limit),
	})
}

// GetTargetRatingSummary returns the aggregated rating summary for a shop or product
// GET /api/v1/reviews/summary/:targetType/:targetId
func (ctrl *ReviewController) GetTargetRatingSummary(c *gin.Context) {
	targetType, id, ok := parseTargetParams(c)
	if !ok {
		return
	}

	summary, err := ctrl.reviewService.GetRatingSummary(targetType, id)
	if err != nil {
		respondReviewError(c, err, "get rating summary")
		return
	}

	apperrors.OK(c, "평점 요약을 조회했습니다", gin.H{
		"summary": summary,
	})
}

// ListMyReviews lists the authenticated user's reviews
// GET /api/v1/reviews/user/my-reviews
func (ctrl *ReviewController) ListMyReviews(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = util.NormalizePageLimit(page, limit)

	reviews, total, err := ctrl.reviewService.ListReviewsByReviewer(userID, page, limit)
	if err != nil {
		respondReviewError(c, err, "list my reviews")
		return
	}

	apperrors.OK(c, "내 리뷰 목록을 조회했습니다", gin.H{
		"reviews":    reviews,
		"pagination": util.NewPagination(total, page, limit),
	})
}
