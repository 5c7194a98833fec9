package model

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Category 상품 카테고리 모델 (계층형 분류)
type Category struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	Name             string         `gorm:"uniqueIndex;not null" json:"name"` // 카테고리명 (최대 50자)
	Slug             string         `gorm:"uniqueIndex" json:"slug"`          // URL용 고유 식별자
	Description      string         `json:"description"`                      // 설명
	Icon             string         `json:"icon"`                             // 아이콘 URL
	Image            string         `json:"image"`                            // 대표 이미지 URL
	ParentCategoryID *uint          `gorm:"index" json:"parent_category_id"`  // 상위 카테고리 ID
	IsActive         bool           `gorm:"default:true" json:"is_active"`    // 활성 여부
	TotalProducts    int64          `gorm:"default:0" json:"total_products"`  // 소속 상품 수
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// generateCategorySlug는 카테고리명으로 URL용 slug를 생성한다
func generateCategorySlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))

	// 공백을 하이픈으로 변경
	slug = regexp.MustCompile(`\s+`).ReplaceAllString(slug, "-")

	// 특수문자 제거 (문자, 숫자, 하이픈만 허용)
	slug = regexp.MustCompile(`[^\p{L}\p{N}-]+`).ReplaceAllString(slug, "")

	// 연속된 하이픈을 하나로
	slug = regexp.MustCompile(`-+`).ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}

// BeforeCreate는 카테고리 생성 전에 slug를 자동 생성한다
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = generateCategorySlug(c.Name)
	}
	return nil
}
