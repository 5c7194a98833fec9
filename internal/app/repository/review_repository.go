package repository

import (
	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"gorm.io/gorm"
)

type ReviewSort string

const (
	ReviewSortCreatedAt ReviewSort = "created_at"
	ReviewSortRating    ReviewSort = "rating"
	ReviewSortHelpful   ReviewSort = "helpful"
)

type ReviewFilter struct {
	Rating        *int
	Status        *model.ReviewStatus
	SortBy        ReviewSort
	SortAscending bool
	Limit         int
	Offset        int
}

// RatingSummary 대상 하나에 대한 리뷰 집계치
type RatingSummary struct {
	Count int64
	Sum   int64
}

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	FindByIDWithReviewer(id uint) (*model.Review, error)
	FindByTarget(target model.TargetRef, filter ReviewFilter) ([]model.Review, int64, error)
	FindByReviewer(reviewerID uint, offset, limit int) ([]model.Review, int64, error)
	ExistsForTarget(reviewerID uint, target model.TargetRef) (bool, error)
	Update(review *model.Review) error
	Delete(id uint) error
	IncrementHelpful(id uint) error
	IncrementUnhelpful(id uint) error
	SummarizeTarget(target model.TargetRef) (RatingSummary, error)
	RatingDistribution(target model.TargetRef) (map[int]int64, error)
	DistinctTargetIDs(targetType model.TargetType) ([]uint, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create 리뷰 생성. (reviewer_id, target_id, target_type) 유니크 인덱스가
// 동시 중복 작성을 막는다.
func (r *reviewRepository) Create(review *model.Review) error {
	return r.db.Create(review).Error
}

// FindByID ID로 리뷰 조회
func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByIDWithReviewer 작성자 정보를 포함해 조회
func (r *reviewRepository) FindByIDWithReviewer(id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("Reviewer").First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByTarget 대상별 리뷰 목록 조회
func (r *reviewRepository) FindByTarget(target model.TargetRef, filter ReviewFilter) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	query := r.db.Model(&model.Review{}).
		Where("target_id = ? AND target_type = ?", target.ID, target.Type)

	if filter.Rating != nil {
		query = query.Where("rating = ?", *filter.Rating)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case ReviewSortRating:
		query = query.Order("rating " + direction)
	case ReviewSortHelpful:
		query = query.Order("helpful " + direction)
	default:
		query = query.Order("created_at " + direction)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	err := query.Preload("Reviewer").Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// FindByReviewer 작성자별 리뷰 목록 조회
func (r *reviewRepository) FindByReviewer(reviewerID uint, offset, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	query := r.db.Model(&model.Review{}).Where("reviewer_id = ?", reviewerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// ExistsForTarget 같은 작성자가 같은 대상에 이미 리뷰를 남겼는지 확인
func (r *reviewRepository) ExistsForTarget(reviewerID uint, target model.TargetRef) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("reviewer_id = ? AND target_id = ? AND target_type = ?", reviewerID, target.ID, target.Type).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update 리뷰 수정
func (r *reviewRepository) Update(review *model.Review) error {
	return r.db.Save(review).Error
}

// Delete 리뷰 삭제. soft delete를 쓰지 않으므로 유니크 인덱스 자리가
// 바로 비워져 같은 대상에 다시 리뷰를 쓸 수 있다.
func (r *reviewRepository) Delete(id uint) error {
	return r.db.Delete(&model.Review{}, id).Error
}

// IncrementHelpful 도움됨 수 증가
func (r *reviewRepository) IncrementHelpful(id uint) error {
	return r.db.Model(&model.Review{}).
		Where("id = ?", id).
		UpdateColumn("helpful", gorm.Expr("helpful + ?", 1)).Error
}

// IncrementUnhelpful 도움안됨 수 증가
func (r *reviewRepository) IncrementUnhelpful(id uint) error {
	return r.db.Model(&model.Review{}).
		Where("id = ?", id).
		UpdateColumn("unhelpful", gorm.Expr("unhelpful + ?", 1)).Error
}

// SummarizeTarget 대상의 리뷰 개수와 평점 합계를 재집계
func (r *reviewRepository) SummarizeTarget(target model.TargetRef) (RatingSummary, error) {
	var summary RatingSummary
	err := r.db.Model(&model.Review{}).
		Where("target_id = ? AND target_type = ?", target.ID, target.Type).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Scan(&summary).Error
	return summary, err
}

// RatingDistribution 평점별 리뷰 개수 (1~5 모두 포함, 없으면 0)
func (r *reviewRepository) RatingDistribution(target model.TargetRef) (map[int]int64, error) {
	type ratingCount struct {
		Rating int
		Count  int64
	}

	var rows []ratingCount
	err := r.db.Model(&model.Review{}).
		Where("target_id = ? AND target_type = ?", target.ID, target.Type).
		Select("rating, COUNT(*) AS count").
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	distribution := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, row := range rows {
		distribution[row.Rating] = row.Count
	}
	return distribution, nil
}

// DistinctTargetIDs 리뷰가 달린 대상 ID 목록 (정합성 점검용)
func (r *reviewRepository) DistinctTargetIDs(targetType model.TargetType) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Review{}).
		Where("target_type = ?", targetType).
		Distinct("target_id").
		Pluck("target_id", &ids).Error
	return ids, err
}
