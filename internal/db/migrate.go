package db

import (
	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Shop{},
		&model.Category{},
		&model.Product{},
		&model.Review{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	// 기본 카테고리 생성 (상품 등록에 필요)
	if err := seedCategories(); err != nil {
		logger.Error("Failed to seed categories", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedCategories 기본 상품 카테고리 생성
func seedCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	categories := []model.Category{
		{Name: "전자제품", Description: "전자기기 및 액세서리", IsActive: true},
		{Name: "의류", Description: "남성, 여성, 아동 의류", IsActive: true},
		{Name: "식품", Description: "신선식품 및 가공식품", IsActive: true},
		{Name: "생활용품", Description: "주방, 욕실, 청소용품", IsActive: true},
		{Name: "뷰티", Description: "화장품 및 뷰티 제품", IsActive: true},
		{Name: "스포츠", Description: "운동용품 및 아웃도어", IsActive: true},
		{Name: "도서", Description: "도서 및 문구류", IsActive: true},
		{Name: "기타", Description: "기타 상품", IsActive: true},
	}

	if err := DB.Create(&categories).Error; err != nil {
		return err
	}

	logger.Info("Seeded default categories", map[string]interface{}{
		"count": len(categories),
	})
	return nil
}
