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

func setupShopServiceTest(t *testing.T) (ShopService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	shopRepo := repository.NewShopRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	return NewShopService(testDB, shopRepo, userRepo), testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string, userType model.UserType) *model.User {
	user := &model.User{
		Email:        email,
		PasswordHash: "x",
		FirstName:    "테스트",
		LastName:     "김",
		UserType:     userType,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func newTestShop(name string) *model.Shop {
	return &model.Shop{
		Name:     name,
		Category: model.ShopCategoryFood,
		Phone:    "02-123-4567",
		Email:    "shop@example.com",
		Street:   "테헤란로 1",
		City:     "서울",
		District: "강남구",
	}
}

func TestShopService_CreateShop_PromotesOwner(t *testing.T) {
	shopService, testDB := setupShopServiceTest(t)
	user := createTestUser(t, testDB, "owner@example.com", model.UserTypeCustomer)

	shop, err := shopService.CreateShop(user.ID, newTestShop("동네반찬가게"))
	require.NoError(t, err)
	assert.NotZero(t, shop.ID)
	assert.Equal(t, user.ID, shop.OwnerID)
	assert.True(t, shop.IsActive)

	// 매장 생성과 동시에 소유자는 SHOP_OWNER가 된다
	var updated model.User
	require.NoError(t, testDB.First(&updated, user.ID).Error)
	assert.Equal(t, model.UserTypeShopOwner, updated.UserType)
}

func TestShopService_CreateShop_OnePerOwner(t *testing.T) {
	shopService, testDB := setupShopServiceTest(t)
	user := createTestUser(t, testDB, "owner@example.com", model.UserTypeCustomer)

	_, err := shopService.CreateShop(user.ID, newTestShop("첫번째 매장"))
	require.NoError(t, err)

	_, err = shopService.CreateShop(user.ID, newTestShop("두번째 매장"))
	assert.ErrorIs(t, err, ErrShopAlreadyExists)
}

func TestShopService_CreateShop_InvalidCategory(t *testing.T) {
	shopService, testDB := setupShopServiceTest(t)
	user := createTestUser(t, testDB, "owner@example.com", model.UserTypeCustomer)

	shop := newTestShop("동네반찬가게")
	shop.Category = "Nonsense"

	_, err := shopService.CreateShop(user.ID, shop)
	assert.ErrorIs(t, err, ErrShopInvalidCategory)
}

func TestShopService_AuthorizeOwner(t *testing.T) {
	shopService, testDB := setupShopServiceTest(t)
	owner := createTestUser(t, testDB, "owner@example.com", model.UserTypeCustomer)
	other := createTestUser(t, testDB, "other@example.com", model.UserTypeCustomer)

	shop, err := shopService.CreateShop(owner.ID, newTestShop("동네반찬가게"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		userID  uint
		isAdmin bool
		wantErr error
	}{
		{
			name:    "Owner has access",
			userID:  owner.ID,
			isAdmin: false,
			wantErr: nil,
		},
		{
			name:    "Other user denied",
			userID:  other.ID,
			isAdmin: false,
			wantErr: ErrShopAccessDenied,
		},
		{
			name:    "Admin overrides ownership",
			userID:  other.ID,
			isAdmin: true,
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := shopService.AuthorizeOwner(tt.userID, shop.ID, tt.isAdmin)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, found)
			} else {
				require.NoError(t, err)
				assert.Equal(t, shop.ID, found.ID)
			}
		})
	}

	_, err = shopService.AuthorizeOwner(owner.ID, 9999, false)
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestShopService_UpdateShop(t *testing.T) {
	shopService, testDB := setupShopServiceTest(t)
	owner := createTestUser(t, testDB, "owner@example.com", model.UserTypeCustomer)
	other := createTestUser(t, testDB, "other@example.com", model.UserTypeCustomer)

	shop, err := shopService.CreateShop(owner.ID, newTestShop("동네반찬가게"))
	require.NoError(t, err)

	name := "새 이름"
	description := "더 맛있어진 반찬가게"

	// 비소유자는 수정 불가
	_, err = shopService.UpdateShop(other.ID, shop.ID, ShopMutation{Name: &name}, false)
	assert.ErrorIs(t, err, ErrShopAccessDenied)

	updated, err := shopService.UpdateShop(owner.ID, shop.ID, ShopMutation{
		Name:        &name,
		Description: &description,
	}, false)
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, description, updated.Description)

	// 잘못된 카테고리로는 수정 불가
	badCategory := "Nonsense"
	_, err = shopService.UpdateShop(owner.ID, shop.ID, ShopMutation{Category: &badCategory}, false)
	assert.ErrorIs(t, err, ErrShopInvalidCategory)
}

func TestShopService_DeleteShop_DemotesOwner(t *testing.T) {
	shopService, testDB := setupShopServiceTest(t)
	owner := createTestUser(t, testDB, "owner@example.com", model.UserTypeCustomer)

	shop, err := shopService.CreateShop(owner.ID, newTestShop("동네반찬가게"))
	require.NoError(t, err)

	err = shopService.DeleteShop(owner.ID, shop.ID, false)
	require.NoError(t, err)

	_, err = shopService.GetShopByID(shop.ID)
	assert.ErrorIs(t, err, ErrShopNotFound)

	// 매장 삭제와 함께 소유자는 CUSTOMER로 돌아간다
	var updated model.User
	require.NoError(t, testDB.First(&updated, owner.ID).Error)
	assert.Equal(t, model.UserTypeCustomer, updated.UserType)
}

func TestShopService_DeleteThenRecreate(t *testing.T) {
	shopService, testDB := setupShopServiceTest(t)
	owner := createTestUser(t, testDB, "owner@example.com", model.UserTypeCustomer)

	shop, err := shopService.CreateShop(owner.ID, newTestShop("첫번째 매장"))
	require.NoError(t, err)

	category := &model.Category{Name: "식품"}
	require.NoError(t, testDB.Create(category).Error)

	product := &model.Product{
		ShopID:      shop.ID,
		Name:        "반찬 세트",
		Description: "테스트 상품 설명",
		CategoryID:  category.ID,
		Price:       12000,
		SKU:         "PRD-DEL0001",
	}
	require.NoError(t, testDB.Create(product).Error)

	require.NoError(t, shopService.DeleteShop(owner.ID, shop.ID, false))

	// 삭제는 owner_id 유니크 자리를 즉시 비우므로 같은 소유자가 다시 개설할 수 있다
	recreated, err := shopService.CreateShop(owner.ID, newTestShop("두번째 매장"))
	require.NoError(t, err)
	assert.NotZero(t, recreated.ID)
	assert.Equal(t, owner.ID, recreated.OwnerID)

	// 옛 매장의 상품도 함께 제거된다
	var productCount int64
	require.NoError(t, testDB.Model(&model.Product{}).Where("shop_id = ?", shop.ID).Count(&productCount).Error)
	assert.Zero(t, productCount)

	// 재개설과 동시에 소유자는 다시 SHOP_OWNER가 된다
	var updated model.User
	require.NoError(t, testDB.First(&updated, owner.ID).Error)
	assert.Equal(t, model.UserTypeShopOwner, updated.UserType)
}

func TestShopService_ListShops(t *testing.T) {
	shopService, testDB := setupShopServiceTest(t)
	owner1 := createTestUser(t, testDB, "owner1@example.com", model.UserTypeCustomer)
	owner2 := createTestUser(t, testDB, "owner2@example.com", model.UserTypeCustomer)

	shop1 := newTestShop("강남 반찬가게")
	_, err := shopService.CreateShop(owner1.ID, shop1)
	require.NoError(t, err)

	shop2 := newTestShop("마포 전자상가")
	shop2.Category = model.ShopCategoryElectronics
	shop2.City = "서울"
	shop2.District = "마포구"
	_, err = shopService.CreateShop(owner2.ID, shop2)
	require.NoError(t, err)

	// 전체 목록
	shops, total, err := shopService.ListShops(ShopListOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, shops, 2)

	// 카테고리 필터
	shops, total, err = shopService.ListShops(ShopListOptions{
		Category: string(model.ShopCategoryElectronics),
		Page:     1,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, shops, 1)
	assert.Equal(t, "마포 전자상가", shops[0].Name)

	// 지역 필터
	shops, total, err = shopService.ListShops(ShopListOptions{
		District: "마포구",
		Page:     1,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// 비활성 매장은 목록에서 제외
	inactive := false
	_, err = shopService.UpdateShop(owner1.ID, shop1.ID, ShopMutation{IsActive: &inactive}, false)
	require.NoError(t, err)

	_, total, err = shopService.ListShops(ShopListOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
