package model

import (
	"time"

	"gorm.io/gorm"
)

type UserType string // 사용자 유형

const (
	UserTypeCustomer  UserType = "CUSTOMER"   // 일반 고객
	UserTypeShopOwner UserType = "SHOP_OWNER" // 상점 사장님
	UserTypeAdmin     UserType = "ADMIN"      // 관리자
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                 // 사용자 ID
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`                    // 이메일
	PasswordHash string         `gorm:"not null" json:"-"`                                    // 비밀번호 해시
	FirstName    string         `gorm:"not null" json:"first_name"`                           // 이름
	LastName     string         `gorm:"not null" json:"last_name"`                            // 성
	Phone        string         `json:"phone"`                                                // 전화번호
	ProfileImage string         `json:"profile_image"`                                        // 프로필 이미지 URL
	UserType     UserType       `gorm:"type:varchar(20);default:'CUSTOMER'" json:"user_type"` // 사용자 유형
	CreatedAt    time.Time      `json:"created_at"`                                           // 생성 시각
	UpdatedAt    time.Time      `json:"updated_at"`                                           // 수정 시각
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                       // 삭제 시각(소프트 삭제)

	Shop *Shop `gorm:"foreignKey:OwnerID" json:"shop,omitempty"` // 소유 상점 (사장님용)
}

func (User) TableName() string {
	return "users"
}
