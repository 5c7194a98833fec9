package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/repository"
	"github.com/hyeonpark/dongnemarket-backend/pkg/logger"
	"github.com/hyeonpark/dongnemarket-backend/pkg/redis"
)

var ErrUnknownTargetType = errors.New("지원하지 않는 리뷰 대상입니다")

// RatingService 리뷰 변동을 대상(매장/상품)의 평점 집계에 반영한다.
// 평균은 항상 합계/개수로부터 다시 계산되며, 변동 반영은 단일 UPDATE라
// 동시에 여러 리뷰가 처리되어도 집계가 어긋나지 않는다.
type RatingService interface {
	ApplyReviewCreated(target model.TargetRef, rating int) error
	ApplyReviewUpdated(target model.TargetRef, oldRating, newRating int) error
	ApplyReviewDeleted(target model.TargetRef, rating int) error
	Recompute(target model.TargetRef) error
}

type ratingService struct {
	shopRepo    repository.ShopRepository
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
}

func NewRatingService(
	shopRepo repository.ShopRepository,
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
) RatingService {
	return &ratingService{
		shopRepo:    shopRepo,
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *ratingService) ApplyReviewCreated(target model.TargetRef, rating int) error {
	return s.applyDelta(target, int64(rating), 1)
}

func (s *ratingService) ApplyReviewUpdated(target model.TargetRef, oldRating, newRating int) error {
	if oldRating == newRating {
		s.invalidateSummaryCache(target)
		return nil
	}
	return s.applyDelta(target, int64(newRating-oldRating), 0)
}

func (s *ratingService) ApplyReviewDeleted(target model.TargetRef, rating int) error {
	return s.applyDelta(target, int64(-rating), -1)
}

func (s *ratingService) applyDelta(target model.TargetRef, sumDelta, countDelta int64) error {
	var err error
	switch target.Type {
	case model.TargetTypeShop:
		err = s.shopRepo.ApplyRatingDelta(target.ID, sumDelta, countDelta)
	case model.TargetTypeProduct:
		err = s.productRepo.ApplyRatingDelta(target.ID, sumDelta, countDelta)
	default:
		return ErrUnknownTargetType
	}

	if err != nil {
		logger.Error("Failed to apply rating delta", err, map[string]interface{}{
			"target_type": target.Type,
			"target_id":   target.ID,
			"sum_delta":   sumDelta,
			"count_delta": countDelta,
		})
		return err
	}

	s.invalidateSummaryCache(target)

	logger.Debug("Rating delta applied", map[string]interface{}{
		"target_type": target.Type,
		"target_id":   target.ID,
		"sum_delta":   sumDelta,
		"count_delta": countDelta,
	})
	return nil
}

// Recompute 리뷰 테이블을 재집계해 대상의 평점 컬럼을 복구한다.
// 리뷰 커밋 후 집계 반영이 실패한 경우의 안전망이다.
func (s *ratingService) Recompute(target model.TargetRef) error {
	summary, err := s.reviewRepo.SummarizeTarget(target)
	if err != nil {
		return fmt.Errorf("failed to summarize reviews: %w", err)
	}

	switch target.Type {
	case model.TargetTypeShop:
		err = s.shopRepo.SetRatingSummary(target.ID, summary.Sum, summary.Count)
	case model.TargetTypeProduct:
		err = s.productRepo.SetRatingSummary(target.ID, summary.Sum, summary.Count)
	default:
		return ErrUnknownTargetType
	}
	if err != nil {
		return err
	}

	s.invalidateSummaryCache(target)

	logger.Debug("Rating summary recomputed", map[string]interface{}{
		"target_type":   target.Type,
		"target_id":     target.ID,
		"total_reviews": summary.Count,
	})
	return nil
}

func (s *ratingService) invalidateSummaryCache(target model.TargetRef) {
	if !redis.Enabled() {
		return
	}
	key := ratingSummaryCacheKey(target)
	if err := redis.CacheDelete(context.Background(), key); err != nil {
		logger.Warn("Failed to invalidate rating summary cache", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func ratingSummaryCacheKey(target model.TargetRef) string {
	return fmt.Sprintf("rating:summary:%s:%d", target.Type, target.ID)
}
