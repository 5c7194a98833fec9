package model

import (
	"time"

	"gorm.io/gorm"
)

// Product 상품 모델
// 소유권은 상점을 통해 전이된다 (Product → Shop → Owner)
type Product struct {
	ID            uint        `gorm:"primarykey" json:"id"`
	ShopID        uint        `gorm:"not null;index" json:"shop_id"`           // 소속 상점 ID
	Shop          *Shop       `gorm:"foreignKey:ShopID" json:"shop,omitempty"` // 소속 상점
	Name          string      `gorm:"not null" json:"name"`                    // 상품명 (최대 150자)
	Description   string      `gorm:"type:text;not null" json:"description"`   // 상품 설명
	CategoryID    uint        `gorm:"not null;index" json:"category_id"`       // 카테고리 ID
	Category      *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price         float64     `gorm:"not null" json:"price"`             // 가격
	DiscountPrice *float64    `json:"discount_price,omitempty"`          // 할인가 (가격보다 낮아야 함)
	Images        StringArray `gorm:"type:text" json:"images,omitempty"` // 상품 이미지 URL 배열
	InStock       bool        `gorm:"default:true" json:"in_stock"`      // 재고 여부
	Quantity      int         `gorm:"default:0" json:"quantity"`         // 재고 수량
	SKU           string      `gorm:"uniqueIndex" json:"sku"`            // 재고 관리 코드
	Tags          StringArray `gorm:"type:text" json:"tags,omitempty"`   // 태그

	// 집계 필드 (파생 상태)
	Rating       float64 `gorm:"default:0" json:"rating"`        // 평균 평점 [0,5]
	RatingSum    int64   `gorm:"default:0" json:"-"`             // 평점 합계 (평균 계산용)
	TotalReviews int64   `gorm:"default:0" json:"total_reviews"` // 리뷰 수

	IsActive   bool `gorm:"default:true;index" json:"is_active"` // 활성 여부
	IsFeatured bool `gorm:"default:false" json:"is_featured"`    // 추천 상품 여부
	Views      int  `gorm:"default:0" json:"views"`              // 조회 수

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
