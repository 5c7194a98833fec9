package scheduler

import (
	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/repository"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/service"
	"github.com/hyeonpark/dongnemarket-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RatingReconciler 평점 집계 정합성 복구 스케줄러.
// 리뷰 커밋 후 집계 반영이 실패한 경우 매장/상품의 평점 컬럼이
// 리뷰 테이블과 어긋날 수 있어, 주기적으로 재집계해 맞춘다.
type RatingReconciler struct {
	cron        *cron.Cron
	ratingSvc   service.RatingService
	reviewRepo  repository.ReviewRepository
	shopRepo    repository.ShopRepository
	productRepo repository.ProductRepository
}

// NewRatingReconciler 평점 재집계 스케줄러 생성
func NewRatingReconciler(
	ratingSvc service.RatingService,
	reviewRepo repository.ReviewRepository,
	shopRepo repository.ShopRepository,
	productRepo repository.ProductRepository,
) *RatingReconciler {
	return &RatingReconciler{
		cron:        cron.New(),
		ratingSvc:   ratingSvc,
		reviewRepo:  reviewRepo,
		shopRepo:    shopRepo,
		productRepo: productRepo,
	}
}

// Start 스케줄러 시작
func (s *RatingReconciler) Start() error {
	// 매시 정각에 집계가 어긋날 수 있는 모든 대상을 재집계한다
	_, err := s.cron.AddFunc("0 * * * *", func() {
		logger.Info("Starting scheduled rating reconciliation", nil)
		s.ReconcileAll()
	})

	if err != nil {
		logger.Error("Failed to add cron job for rating reconciliation", err)
		return err
	}

	s.cron.Start()
	logger.Info("Rating reconciler started successfully (hourly)", nil)

	return nil
}

// targetIDs 재집계 대상 ID 목록.
// 리뷰 테이블에 행이 있는 대상과 집계 컬럼이 0이 아닌 대상을 합친다.
// 마지막 리뷰가 삭제된 뒤 집계 반영이 실패한 대상은 리뷰 행이 없어
// 집계 컬럼 쪽에서만 발견된다.
func (s *RatingReconciler) targetIDs(targetType model.TargetType) ([]uint, error) {
	reviewed, err := s.reviewRepo.DistinctTargetIDs(targetType)
	if err != nil {
		return nil, err
	}

	var summarized []uint
	switch targetType {
	case model.TargetTypeShop:
		summarized, err = s.shopRepo.IDsWithReviews()
	case model.TargetTypeProduct:
		summarized, err = s.productRepo.IDsWithReviews()
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(reviewed)+len(summarized))
	ids := make([]uint, 0, len(reviewed)+len(summarized))
	for _, id := range append(reviewed, summarized...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// ReconcileAll 집계가 어긋날 수 있는 모든 매장/상품의 집계를 재계산한다
func (s *RatingReconciler) ReconcileAll() {
	repaired := 0
	for _, targetType := range []model.TargetType{model.TargetTypeShop, model.TargetTypeProduct} {
		ids, err := s.targetIDs(targetType)
		if err != nil {
			logger.Error("Failed to list targets for reconciliation", err, map[string]interface{}{
				"target_type": targetType,
			})
			continue
		}

		for _, id := range ids {
			target := model.TargetRef{Type: targetType, ID: id}
			if err := s.ratingSvc.Recompute(target); err != nil {
				logger.Error("Failed to reconcile rating summary", err, map[string]interface{}{
					"target_type": targetType,
					"target_id":   id,
				})
				continue
			}
			repaired++
		}
	}

	logger.Info("Rating reconciliation completed", map[string]interface{}{
		"targets": repaired,
	})
}

// Stop 스케줄러 중지
func (s *RatingReconciler) Stop() {
	logger.Info("Stopping rating reconciler...", nil)
	s.cron.Stop()
	logger.Info("Rating reconciler stopped", nil)
}
