package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/repository"
	apperrors "github.com/hyeonpark/dongnemarket-backend/internal/errors"
	"github.com/hyeonpark/dongnemarket-backend/pkg/logger"
	"github.com/hyeonpark/dongnemarket-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound       = errors.New("리뷰를 찾을 수 없습니다")
	ErrReviewAccessDenied   = errors.New("리뷰 수정 권한이 없습니다")
	ErrReviewAlreadyExists  = errors.New("이미 이 대상에 리뷰를 작성했습니다")
	ErrReviewTargetNotFound = errors.New("리뷰 대상을 찾을 수 없습니다")
	ErrInvalidTargetType    = errors.New("리뷰 대상 유형이 올바르지 않습니다")
	ErrInvalidRating        = errors.New("평점은 1에서 5 사이여야 합니다")
)

const ratingSummaryCacheTTL = 60 * time.Second

type CreateReviewInput struct {
	TargetType string
	TargetID   uint
	Rating     int
	Title      string
	Comment    string
	Images     []string
}

type ReviewMutation struct {
	Rating  *int
	Title   *string
	Comment *string
	Images  []string
}

type ReviewListOptions struct {
	Rating        *int
	SortBy        repository.ReviewSort
	SortAscending bool
	Page          int
	Limit         int
}

// RatingSummaryResult 대상의 평점 요약
type RatingSummaryResult struct {
	TargetType   model.TargetType `json:"target_type"`
	TargetID     uint             `json:"target_id"`
	Rating       float64          `json:"rating"`
	TotalReviews int64            `json:"total_reviews"`
	Distribution map[int]int64    `json:"distribution"`
}

type ReviewService interface {
	CreateReview(reviewerID uint, input CreateReviewInput) (*model.Review, error)
	GetReviewByID(id uint) (*model.Review, error)
	ListReviewsByTarget(targetType string, targetID uint, opts ReviewListOptions) ([]model.Review, int64, error)
	ListReviewsByReviewer(reviewerID uint, page, limit int) ([]model.Review, int64, error)
	UpdateReview(userID, reviewID uint, input ReviewMutation) (*model.Review, error)
	DeleteReview(userID, reviewID uint, isAdmin bool) error
	MarkHelpful(reviewID uint) (*model.Review, error)
	MarkUnhelpful(reviewID uint) (*model.Review, error)
	GetRatingSummary(targetType string, targetID uint) (*RatingSummaryResult, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	shopRepo    repository.ShopRepository
	productRepo repository.ProductRepository
	ratingSvc   RatingService
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	shopRepo repository.ShopRepository,
	productRepo repository.ProductRepository,
	ratingSvc RatingService,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		shopRepo:    shopRepo,
		productRepo: productRepo,
		ratingSvc:   ratingSvc,
	}
}

// resolveTarget 대상 유형을 검증하고 실제 매장/상품이 존재하는지 확인한다
func (s *reviewService) resolveTarget(targetType string, targetID uint) (model.TargetRef, error) {
	parsed := model.TargetType(targetType)
	if !parsed.IsValid() {
		return model.TargetRef{}, ErrInvalidTargetType
	}

	target := model.TargetRef{Type: parsed, ID: targetID}

	var err error
	switch parsed {
	case model.TargetTypeShop:
		_, err = s.shopRepo.FindByID(targetID)
	case model.TargetTypeProduct:
		_, err = s.productRepo.FindByID(targetID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.TargetRef{}, ErrReviewTargetNotFound
		}
		return model.TargetRef{}, err
	}

	return target, nil
}

func (s *reviewService) CreateReview(reviewerID uint, input CreateReviewInput) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"reviewer_id": reviewerID,
		"target_type": input.TargetType,
		"target_id":   input.TargetID,
		"rating":      input.Rating,
	})

	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	target, err := s.resolveTarget(input.TargetType, input.TargetID)
	if err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForTarget(reviewerID, target)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReviewAlreadyExists
	}

	review := &model.Review{
		ReviewerID: reviewerID,
		TargetID:   target.ID,
		TargetType: target.Type,
		Rating:     input.Rating,
		Title:      input.Title,
		Comment:    input.Comment,
		Images:     input.Images,
		Status:     model.ReviewStatusApproved,
	}

	if err := s.reviewRepo.Create(review); err != nil {
		// 사전 확인과 INSERT 사이에 끼어든 동시 작성은 유니크 인덱스가 잡는다
		if apperrors.IsDuplicateKeyError(err) {
			return nil, ErrReviewAlreadyExists
		}
		logger.Error("Failed to create review", err, map[string]interface{}{
			"reviewer_id": reviewerID,
			"target_type": target.Type,
			"target_id":   target.ID,
		})
		return nil, err
	}

	// 리뷰 커밋 후 집계 반영. 실패해도 리뷰 자체는 유효하며
	// 주기 재집계가 어긋난 집계를 복구한다.
	if err := s.ratingSvc.ApplyReviewCreated(target, input.Rating); err != nil {
		logger.Warn("Rating aggregation deferred to reconciler", map[string]interface{}{
			"review_id":   review.ID,
			"target_type": target.Type,
			"target_id":   target.ID,
			"error":       err.Error(),
		})
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":   review.ID,
		"reviewer_id": reviewerID,
	})
	return review, nil
}

func (s *reviewService) GetReviewByID(id uint) (*model.Review, error) {
	review, err := s.reviewRepo.FindByIDWithReviewer(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListReviewsByTarget(targetType string, targetID uint, opts ReviewListOptions) ([]model.Review, int64, error) {
	target, err := s.resolveTarget(targetType, targetID)
	if err != nil {
		return nil, 0, err
	}

	// 공개 목록에는 승인된 리뷰만 노출한다.
	// 평점 요약은 상태와 무관하게 전체 리뷰를 집계한다.
	approved := model.ReviewStatusApproved
	filter := repository.ReviewFilter{
		Rating:        opts.Rating,
		Status:        &approved,
		SortBy:        opts.SortBy,
		SortAscending: opts.SortAscending,
		Limit:         opts.Limit,
		Offset:        (opts.Page - 1) * opts.Limit,
	}

	return s.reviewRepo.FindByTarget(target, filter)
}

func (s *reviewService) ListReviewsByReviewer(reviewerID uint, page, limit int) ([]model.Review, int64, error) {
	return s.reviewRepo.FindByReviewer(reviewerID, (page-1)*limit, limit)
}

func (s *reviewService) UpdateReview(userID, reviewID uint, input ReviewMutation) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	// 작성자만 수정 가능
	if review.ReviewerID != userID {
		return nil, ErrReviewAccessDenied
	}

	oldRating := review.Rating

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, ErrInvalidRating
		}
		review.Rating = *input.Rating
	}
	if input.Title != nil {
		review.Title = *input.Title
	}
	if input.Comment != nil {
		review.Comment = *input.Comment
	}
	if input.Images != nil {
		review.Images = input.Images
	}

	if err := s.reviewRepo.Update(review); err != nil {
		logger.Error("Failed to update review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return nil, err
	}

	if review.Rating != oldRating {
		target := review.Target()
		if err := s.ratingSvc.ApplyReviewUpdated(target, oldRating, review.Rating); err != nil {
			logger.Warn("Rating aggregation deferred to reconciler", map[string]interface{}{
				"review_id":   review.ID,
				"target_type": target.Type,
				"target_id":   target.ID,
				"error":       err.Error(),
			})
		}
	}

	return review, nil
}

func (s *reviewService) DeleteReview(userID, reviewID uint, isAdmin bool) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	// 작성자 또는 관리자만 삭제 가능
	if review.ReviewerID != userID && !isAdmin {
		return ErrReviewAccessDenied
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		logger.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	target := review.Target()
	if err := s.ratingSvc.ApplyReviewDeleted(target, review.Rating); err != nil {
		logger.Warn("Rating aggregation deferred to reconciler", map[string]interface{}{
			"review_id":   reviewID,
			"target_type": target.Type,
			"target_id":   target.ID,
			"error":       err.Error(),
		})
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id": reviewID,
		"user_id":   userID,
		"is_admin":  isAdmin,
	})
	return nil
}

func (s *reviewService) MarkHelpful(reviewID uint) (*model.Review, error) {
	if err := s.incrementFeedback(reviewID, s.reviewRepo.IncrementHelpful); err != nil {
		return nil, err
	}
	return s.reviewRepo.FindByID(reviewID)
}

func (s *reviewService) MarkUnhelpful(reviewID uint) (*model.Review, error) {
	if err := s.incrementFeedback(reviewID, s.reviewRepo.IncrementUnhelpful); err != nil {
		return nil, err
	}
	return s.reviewRepo.FindByID(reviewID)
}

func (s *reviewService) incrementFeedback(reviewID uint, increment func(uint) error) error {
	if _, err := s.reviewRepo.FindByID(reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return increment(reviewID)
}

// GetRatingSummary 대상의 평점 요약을 조회한다. 결과는 짧게 캐싱되며
// 리뷰 쓰기 시점에 캐시가 무효화된다.
func (s *reviewService) GetRatingSummary(targetType string, targetID uint) (*RatingSummaryResult, error) {
	target, err := s.resolveTarget(targetType, targetID)
	if err != nil {
		return nil, err
	}

	cacheKey := ratingSummaryCacheKey(target)
	if redis.Enabled() {
		if cached, err := redis.CacheGet(context.Background(), cacheKey); err == nil {
			var result RatingSummaryResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return &result, nil
			}
		} else if !redis.IsCacheMiss(err) {
			logger.Warn("Failed to read rating summary cache", map[string]interface{}{
				"key":   cacheKey,
				"error": err.Error(),
			})
		}
	}

	summary, err := s.reviewRepo.SummarizeTarget(target)
	if err != nil {
		return nil, err
	}

	distribution, err := s.reviewRepo.RatingDistribution(target)
	if err != nil {
		return nil, err
	}

	result := &RatingSummaryResult{
		TargetType:   target.Type,
		TargetID:     target.ID,
		TotalReviews: summary.Count,
		Distribution: distribution,
	}
	if summary.Count > 0 {
		result.Rating = float64(summary.Sum) / float64(summary.Count)
	}

	if redis.Enabled() {
		if payload, err := json.Marshal(result); err == nil {
			if err := redis.CacheSet(context.Background(), cacheKey, string(payload), ratingSummaryCacheTTL); err != nil {
				logger.Warn("Failed to write rating summary cache", map[string]interface{}{
					"key":   cacheKey,
					"error": err.Error(),
				})
			}
		}
	}

	return result, nil
}
