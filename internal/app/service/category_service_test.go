package service

import (
	"testing"

	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/repository"
	"github.com/hyeonpark/dongnemarket-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCategoryServiceTest(t *testing.T) (CategoryService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	categoryRepo := repository.NewCategoryRepository(testDB)
	return NewCategoryService(categoryRepo), testDB
}

func TestCategoryService_CreateCategory(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	category, err := categoryService.CreateCategory(&model.Category{Name: "전자제품"})
	require.NoError(t, err)
	assert.NotZero(t, category.ID)
	assert.NotEmpty(t, category.Slug)

	// 이름 중복은 거부
	_, err = categoryService.CreateCategory(&model.Category{Name: "전자제품"})
	assert.ErrorIs(t, err, ErrCategoryNameExists)

	// 존재하지 않는 상위 카테고리
	parentID := uint(9999)
	_, err = categoryService.CreateCategory(&model.Category{Name: "노트북", ParentCategoryID: &parentID})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_Hierarchy(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	parent, err := categoryService.CreateCategory(&model.Category{Name: "전자제품"})
	require.NoError(t, err)

	child, err := categoryService.CreateCategory(&model.Category{Name: "노트북", ParentCategoryID: &parent.ID})
	require.NoError(t, err)
	require.NotNil(t, child.ParentCategoryID)
	assert.Equal(t, parent.ID, *child.ParentCategoryID)
}

func TestCategoryService_ListCategories(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	_, err := categoryService.CreateCategory(&model.Category{Name: "전자제품", IsActive: true})
	require.NoError(t, err)
	inactive, err := categoryService.CreateCategory(&model.Category{Name: "의류", IsActive: true})
	require.NoError(t, err)

	off := false
	_, err = categoryService.UpdateCategory(inactive.ID, CategoryMutation{IsActive: &off})
	require.NoError(t, err)

	all, err := categoryService.ListCategories(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := categoryService.ListCategories(true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)

	category, err := categoryService.CreateCategory(&model.Category{Name: "식품"})
	require.NoError(t, err)

	// 상품이 있는 카테고리는 삭제 불가
	owner := createTestUser(t, testDB, "owner@example.com", model.UserTypeShopOwner)
	shop := newTestShop("동네반찬가게")
	shop.OwnerID = owner.ID
	require.NoError(t, testDB.Create(shop).Error)
	product := &model.Product{
		ShopID:      shop.ID,
		Name:        "수제 반찬 세트",
		Description: "설명",
		CategoryID:  category.ID,
		Price:       10000,
		SKU:         "PRD-TEST0001",
	}
	require.NoError(t, testDB.Create(product).Error)

	err = categoryService.DeleteCategory(category.ID)
	assert.ErrorIs(t, err, ErrCategoryInUse)

	// 상품이 없으면 삭제 가능
	require.NoError(t, testDB.Delete(product).Error)
	err = categoryService.DeleteCategory(category.ID)
	require.NoError(t, err)

	_, err = categoryService.GetCategoryByID(category.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
