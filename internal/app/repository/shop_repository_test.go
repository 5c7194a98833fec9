package repository

import (
	"testing"

	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupShopRepoTest(t *testing.T) (ShopRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	return NewShopRepository(testDB), testDB
}

func seedShop(t *testing.T, testDB *gorm.DB, ownerID uint, name string) *model.Shop {
	owner := &model.User{Email: name + "@example.com", PasswordHash: "x", FirstName: "테스트", LastName: "김"}
	owner.ID = ownerID
	require.NoError(t, testDB.Create(owner).Error)

	shop := &model.Shop{
		OwnerID:  owner.ID,
		Name:     name,
		Category: model.ShopCategoryFood,
		Phone:    "02-123-4567",
		Email:    name + "@shop.example.com",
		Street:   "테헤란로 1",
		City:     "서울",
		District: "강남구",
		IsActive: true,
	}
	require.NoError(t, testDB.Create(shop).Error)
	return shop
}

func TestShopRepository_OwnerUniqueIndex(t *testing.T) {
	repo, testDB := setupShopRepoTest(t)
	shop := seedShop(t, testDB, 1, "첫번째매장")

	// 같은 소유자의 두 번째 매장은 DB 수준에서 거부된다
	duplicate := &model.Shop{
		OwnerID:  shop.OwnerID,
		Name:     "두번째매장",
		Category: model.ShopCategoryFood,
		Phone:    "02-999-9999",
		Email:    "dup@shop.example.com",
		Street:   "테헤란로 2",
		City:     "서울",
		District: "강남구",
	}
	assert.Error(t, repo.Create(duplicate))

	exists, err := repo.ExistsByOwnerID(shop.OwnerID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByOwnerID(9999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestShopRepository_ApplyRatingDelta(t *testing.T) {
	repo, testDB := setupShopRepoTest(t)
	shop := seedShop(t, testDB, 1, "평점테스트매장")

	// 리뷰 생성: 5, 3, 4
	require.NoError(t, repo.ApplyRatingDelta(shop.ID, 5, 1))
	require.NoError(t, repo.ApplyRatingDelta(shop.ID, 3, 1))
	require.NoError(t, repo.ApplyRatingDelta(shop.ID, 4, 1))

	found, err := repo.FindByID(shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.TotalReviews)
	assert.Equal(t, int64(12), found.RatingSum)
	assert.InDelta(t, 4.0, found.Rating, 0.001)

	// 리뷰 수정: 3 → 5 (개수 불변, 합계만 +2)
	require.NoError(t, repo.ApplyRatingDelta(shop.ID, 2, 0))
	found, err = repo.FindByID(shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.TotalReviews)
	assert.InDelta(t, 14.0/3.0, found.Rating, 0.001)

	// 리뷰 삭제
	require.NoError(t, repo.ApplyRatingDelta(shop.ID, -5, -1))
	require.NoError(t, repo.ApplyRatingDelta(shop.ID, -5, -1))
	require.NoError(t, repo.ApplyRatingDelta(shop.ID, -4, -1))

	// 마지막 리뷰까지 삭제되면 0으로 돌아간다
	found, err = repo.FindByID(shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), found.TotalReviews)
	assert.Equal(t, int64(0), found.RatingSum)
	assert.Equal(t, float64(0), found.Rating)
}

func TestShopRepository_SetRatingSummary(t *testing.T) {
	repo, testDB := setupShopRepoTest(t)
	shop := seedShop(t, testDB, 1, "복구테스트매장")

	require.NoError(t, repo.SetRatingSummary(shop.ID, 9, 2))
	found, err := repo.FindByID(shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.TotalReviews)
	assert.InDelta(t, 4.5, found.Rating, 0.001)

	// 리뷰가 없으면 평점도 0
	require.NoError(t, repo.SetRatingSummary(shop.ID, 0, 0))
	found, err = repo.FindByID(shop.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), found.Rating)
}

func TestShopRepository_ProductCounter(t *testing.T) {
	repo, testDB := setupShopRepoTest(t)
	shop := seedShop(t, testDB, 1, "카운터테스트매장")

	require.NoError(t, repo.IncrementTotalProducts(shop.ID))
	require.NoError(t, repo.IncrementTotalProducts(shop.ID))
	found, err := repo.FindByID(shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.TotalProducts)

	require.NoError(t, repo.DecrementTotalProducts(shop.ID))
	require.NoError(t, repo.DecrementTotalProducts(shop.ID))
	// 0에서 추가 감소해도 음수가 되지 않는다
	require.NoError(t, repo.DecrementTotalProducts(shop.ID))

	found, err = repo.FindByID(shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), found.TotalProducts)
}

func TestShopRepository_FindWithFilter(t *testing.T) {
	repo, testDB := setupShopRepoTest(t)

	seoul := seedShop(t, testDB, 1, "서울반찬가게")
	busan := seedShop(t, testDB, 2, "부산횟집")
	require.NoError(t, testDB.Model(busan).Update("city", "부산").Error)

	// 평점 정렬용 집계 세팅
	require.NoError(t, repo.SetRatingSummary(seoul.ID, 10, 2)) // 5.0
	require.NoError(t, repo.SetRatingSummary(busan.ID, 6, 2))  // 3.0

	// 도시 필터
	shops, total, err := repo.FindWithFilter(ShopFilter{City: "부산", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, shops, 1)
	assert.Equal(t, "부산횟집", shops[0].Name)

	// 최소 평점 필터
	minRating := 4.0
	shops, total, err = repo.FindWithFilter(ShopFilter{MinRating: &minRating, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// 평점 내림차순 정렬
	shops, _, err = repo.FindWithFilter(ShopFilter{SortBy: ShopSortRating, Limit: 10})
	require.NoError(t, err)
	require.Len(t, shops, 2)
	assert.Equal(t, "서울반찬가게", shops[0].Name)

	// 이름 검색
	shops, total, err = repo.FindWithFilter(ShopFilter{Search: "반찬", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
