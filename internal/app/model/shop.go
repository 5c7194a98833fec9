package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray는 이미지 URL 등 문자열 배열 컬럼을 위한 커스텀 타입
// PostgreSQL과 테스트용 SQLite 모두에서 JSON으로 직렬화해 저장한다
type StringArray []string

// Value는 database/sql/driver.Valuer 인터페이스 구현
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan은 database/sql.Scanner 인터페이스 구현
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan StringArray")
	}

	return json.Unmarshal(bytes, s)
}

type ShopCategory string // 상점 카테고리 (폐쇄형 목록)

const (
	ShopCategoryElectronics ShopCategory = "Electronics"
	ShopCategoryClothing    ShopCategory = "Clothing"
	ShopCategoryFood        ShopCategory = "Food & Beverages"
	ShopCategoryHomeGarden  ShopCategory = "Home & Garden"
	ShopCategoryBeauty      ShopCategory = "Health & Beauty"
	ShopCategoryBooks       ShopCategory = "Books & Media"
	ShopCategorySports      ShopCategory = "Sports & Outdoors"
	ShopCategoryToys        ShopCategory = "Toys & Games"
	ShopCategoryAutomotive  ShopCategory = "Automotive"
	ShopCategoryServices    ShopCategory = "Services"
	ShopCategoryOther       ShopCategory = "Other"
)

// IsValid는 허용된 상점 카테고리인지 확인한다
func (c ShopCategory) IsValid() bool {
	switch c {
	case ShopCategoryElectronics, ShopCategoryClothing, ShopCategoryFood,
		ShopCategoryHomeGarden, ShopCategoryBeauty, ShopCategoryBooks,
		ShopCategorySports, ShopCategoryToys, ShopCategoryAutomotive,
		ShopCategoryServices, ShopCategoryOther:
		return true
	}
	return false
}

// DayHours 요일별 영업시간
type DayHours struct {
	IsOpen    bool   `json:"is_open"`
	OpenTime  string `json:"open_time"`  // 예: "09:00"
	CloseTime string `json:"close_time"` // 예: "18:00"
}

// OpeningHours 주간 영업시간 (JSON 컬럼)
type OpeningHours map[string]DayHours

// Value는 database/sql/driver.Valuer 인터페이스 구현
func (h OpeningHours) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}
	return json.Marshal(h)
}

// Scan은 database/sql.Scanner 인터페이스 구현
func (h *OpeningHours) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan OpeningHours")
	}

	return json.Unmarshal(bytes, h)
}

// Shop 상점 모델
// 소유자당 하나의 상점만 허용한다 (owner_id 유니크 인덱스)
// Rating/TotalReviews는 리뷰로부터 파생되는 집계 필드이며
// RatingSum과 함께 원자적 증감으로만 갱신된다
type Shop struct {
	ID          uint         `gorm:"primarykey" json:"id"`                      // 고유 상점 ID
	OwnerID     uint         `gorm:"uniqueIndex;not null" json:"owner_id"`      // 소유자 ID (계정당 1개)
	Owner       *User        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"` // 소유자 정보
	Name        string       `gorm:"not null" json:"name"`                      // 상점명 (최대 100자)
	Description string       `gorm:"type:text" json:"description"`              // 상점 소개
	Category    ShopCategory `gorm:"type:varchar(50);not null" json:"category"` // 카테고리
	Logo        string       `json:"logo"`                                      // 로고 이미지 URL
	CoverImage  string       `json:"cover_image"`                               // 커버 이미지 URL
	Phone       string       `gorm:"type:varchar(30);not null" json:"phone"`    // 연락처
	Email       string       `gorm:"not null" json:"email"`                     // 상점 이메일
	Website     string       `json:"website"`                                   // 웹사이트
	Street      string       `gorm:"not null" json:"street"`                    // 도로명 주소
	City        string       `gorm:"index;not null" json:"city"`                // 시
	District    string       `gorm:"not null" json:"district"`                  // 구·군
	PostalCode  string       `gorm:"type:varchar(20)" json:"postal_code"`       // 우편번호
	About       string       `gorm:"type:text" json:"about"`                    // 상세 설명
	Hours       OpeningHours `gorm:"type:text" json:"opening_hours,omitempty"`  // 영업시간

	// 집계 필드 (파생 상태)
	Rating        float64 `gorm:"default:0" json:"rating"`         // 평균 평점 [0,5]
	RatingSum     int64   `gorm:"default:0" json:"-"`              // 평점 합계 (평균 계산용)
	TotalReviews  int64   `gorm:"default:0" json:"total_reviews"`  // 리뷰 수
	TotalProducts int64   `gorm:"default:0" json:"total_products"` // 상품 수 (증감 카운터)

	IsActive bool `gorm:"default:true;index" json:"is_active"` // 활성 여부

	// 소프트 삭제 없이 즉시 삭제한다
	// owner_id 유니크 인덱스 자리가 바로 비워져 같은 소유자가 다시 개설할 수 있다
	CreatedAt time.Time `json:"created_at"` // 생성 시각
	UpdatedAt time.Time `json:"updated_at"` // 수정 시각

	Products []Product `gorm:"foreignKey:ShopID" json:"products,omitempty"` // 상품 목록
}

func (Shop) TableName() string {
	return "shops"
}
