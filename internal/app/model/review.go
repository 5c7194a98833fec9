package model

import (
	"time"
)

type TargetType string // 리뷰 대상 유형

const (
	TargetTypeProduct TargetType = "PRODUCT" // 상품 리뷰
	TargetTypeShop    TargetType = "SHOP"    // 상점 리뷰
)

// IsValid는 허용된 대상 유형인지 확인한다
func (t TargetType) IsValid() bool {
	return t == TargetTypeProduct || t == TargetTypeShop
}

// TargetRef 리뷰 대상 참조 (유형 + ID의 태그드 유니온)
type TargetRef struct {
	Type TargetType `json:"target_type"`
	ID   uint       `json:"target_id"`
}

type ReviewStatus string // 리뷰 상태

const (
	ReviewStatusPending  ReviewStatus = "PENDING"  // 심사 대기
	ReviewStatusApproved ReviewStatus = "APPROVED" // 승인됨 (생성 시 기본값)
	ReviewStatusRejected ReviewStatus = "REJECTED" // 반려됨
)

// Review 리뷰 모델
// (reviewer_id, target_id, target_type) 조합당 하나만 존재한다 (복합 유니크 인덱스).
// 삭제 즉시 집계에서 빠져야 하므로 소프트 삭제를 쓰지 않는다
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ReviewerID uint       `gorm:"not null;index;uniqueIndex:idx_reviewer_target" json:"reviewer_id"`                             // 작성자 ID
	Reviewer   *User      `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`                                               // 작성자 정보
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_reviewer_target;index:idx_target" json:"target_id"`                    // 대상 ID
	TargetType TargetType `gorm:"type:varchar(20);not null;uniqueIndex:idx_reviewer_target;index:idx_target" json:"target_type"` // 대상 유형

	Rating  int    `gorm:"not null" json:"rating"`            // 평점 (1-5 정수)
	Title   string `gorm:"not null" json:"title"`             // 제목 (최대 100자)
	Comment string `gorm:"type:text;not null" json:"comment"` // 내용 (10-2000자)

	Images StringArray `gorm:"type:text" json:"images,omitempty"` // 리뷰 이미지 URL 배열

	// 반응 카운터 (인증 없이 증가 가능)
	Helpful   int `gorm:"default:0" json:"helpful"`   // 도움됨 수
	Unhelpful int `gorm:"default:0" json:"unhelpful"` // 도움 안 됨 수

	Status ReviewStatus `gorm:"type:varchar(20);default:'APPROVED';index" json:"status"` // 리뷰 상태
}

func (Review) TableName() string {
	return "reviews"
}

// Target은 리뷰가 가리키는 대상 참조를 반환한다
func (r *Review) Target() TargetRef {
	return TargetRef{Type: r.TargetType, ID: r.TargetID}
}
