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

type productTestEnv struct {
	db             *gorm.DB
	productService ProductService
	shopService    ShopService
	shopRepo       repository.ShopRepository
	owner          *model.User
	other          *model.User
	shop           *model.Shop
	category       *model.Category
}

func setupProductServiceTest(t *testing.T) *productTestEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	shopRepo := repository.NewShopRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)

	shopService := NewShopService(testDB, shopRepo, userRepo)
	productService := NewProductService(productRepo, shopRepo, categoryRepo)

	owner := createTestUser(t, testDB, "owner@example.com", model.UserTypeCustomer)
	other := createTestUser(t, testDB, "other@example.com", model.UserTypeCustomer)

	shop, err := shopService.CreateShop(owner.ID, newTestShop("동네반찬가게"))
	require.NoError(t, err)

	category := &model.Category{Name: "식품"}
	require.NoError(t, testDB.Create(category).Error)

	return &productTestEnv{
		db:             testDB,
		productService: productService,
		shopService:    shopService,
		shopRepo:       shopRepo,
		owner:          owner,
		other:          other,
		shop:           shop,
		category:       category,
	}
}

func (env *productTestEnv) newProduct(name string) *model.Product {
	return &model.Product{
		Name:        name,
		Description: "테스트 상품 설명",
		CategoryID:  env.category.ID,
		Price:       10000,
		Quantity:    10,
		InStock:     true,
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	env := setupProductServiceTest(t)

	product, err := env.productService.CreateProduct(env.owner.ID, env.newProduct("수제 반찬 세트"))
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, env.shop.ID, product.ShopID)
	assert.NotEmpty(t, product.SKU)

	// 매장의 상품 수 카운터가 올라간다
	shop, err := env.shopRepo.FindByID(env.shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), shop.TotalProducts)
}

func TestProductService_CreateProduct_ShopRequired(t *testing.T) {
	env := setupProductServiceTest(t)

	// 매장이 없는 사용자는 상품을 등록할 수 없다
	_, err := env.productService.CreateProduct(env.other.ID, env.newProduct("수제 반찬 세트"))
	assert.ErrorIs(t, err, ErrShopRequired)
}

func TestProductService_CreateProduct_Validation(t *testing.T) {
	env := setupProductServiceTest(t)

	// 존재하지 않는 카테고리
	product := env.newProduct("수제 반찬 세트")
	product.CategoryID = 9999
	_, err := env.productService.CreateProduct(env.owner.ID, product)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	// 할인가는 정가보다 낮아야 한다
	product = env.newProduct("수제 반찬 세트")
	discount := product.Price + 1000
	product.DiscountPrice = &discount
	_, err = env.productService.CreateProduct(env.owner.ID, product)
	assert.ErrorIs(t, err, ErrInvalidDiscountPrice)
}

func TestProductService_CreateProduct_DuplicateSKU(t *testing.T) {
	env := setupProductServiceTest(t)

	product := env.newProduct("수제 반찬 세트")
	product.SKU = "PRD-FIXED001"
	_, err := env.productService.CreateProduct(env.owner.ID, product)
	require.NoError(t, err)

	duplicate := env.newProduct("다른 상품")
	duplicate.SKU = "PRD-FIXED001"
	_, err = env.productService.CreateProduct(env.owner.ID, duplicate)
	assert.ErrorIs(t, err, ErrProductSKUExists)
}

func TestProductService_GetProductByID(t *testing.T) {
	env := setupProductServiceTest(t)

	product, err := env.productService.CreateProduct(env.owner.ID, env.newProduct("수제 반찬 세트"))
	require.NoError(t, err)

	// 조회수 카운트 없이 조회
	found, err := env.productService.GetProductByID(product.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, found.Views)

	// 조회수 카운트 포함 조회
	found, err = env.productService.GetProductByID(product.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, found.Views)

	_, err = env.productService.GetProductByID(9999, false)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_UpdateProduct_OwnerOnly(t *testing.T) {
	env := setupProductServiceTest(t)

	product, err := env.productService.CreateProduct(env.owner.ID, env.newProduct("수제 반찬 세트"))
	require.NoError(t, err)

	price := 12000.0
	_, err = env.productService.UpdateProduct(env.other.ID, product.ID, ProductMutation{Price: &price}, false)
	assert.ErrorIs(t, err, ErrProductAccessDenied)

	// 관리자는 소유권 없이 수정 가능
	updated, err := env.productService.UpdateProduct(env.other.ID, product.ID, ProductMutation{Price: &price}, true)
	require.NoError(t, err)
	assert.Equal(t, price, updated.Price)

	// 소유자 본인 수정
	name := "더 맛있는 반찬 세트"
	updated, err = env.productService.UpdateProduct(env.owner.ID, product.ID, ProductMutation{Name: &name}, false)
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
}

func TestProductService_DeleteProduct_DecrementsCounter(t *testing.T) {
	env := setupProductServiceTest(t)

	product, err := env.productService.CreateProduct(env.owner.ID, env.newProduct("수제 반찬 세트"))
	require.NoError(t, err)

	err = env.productService.DeleteProduct(env.owner.ID, product.ID, false)
	require.NoError(t, err)

	_, err = env.productService.GetProductByID(product.ID, false)
	assert.ErrorIs(t, err, ErrProductNotFound)

	shop, err := env.shopRepo.FindByID(env.shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), shop.TotalProducts)
}

func TestProductService_DeleteProduct_CounterNeverNegative(t *testing.T) {
	env := setupProductServiceTest(t)

	product, err := env.productService.CreateProduct(env.owner.ID, env.newProduct("수제 반찬 세트"))
	require.NoError(t, err)

	// 카운터를 미리 0으로 만들어도 삭제 시 음수가 되지 않는다
	require.NoError(t, env.shopRepo.DecrementTotalProducts(env.shop.ID))

	err = env.productService.DeleteProduct(env.owner.ID, product.ID, false)
	require.NoError(t, err)

	shop, err := env.shopRepo.FindByID(env.shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), shop.TotalProducts)
}

func TestProductService_ListProducts(t *testing.T) {
	env := setupProductServiceTest(t)

	cheap := env.newProduct("저렴한 반찬")
	cheap.Price = 5000
	_, err := env.productService.CreateProduct(env.owner.ID, cheap)
	require.NoError(t, err)

	expensive := env.newProduct("프리미엄 반찬")
	expensive.Price = 30000
	expensive.Tags = model.StringArray{"premium"}
	_, err = env.productService.CreateProduct(env.owner.ID, expensive)
	require.NoError(t, err)

	// 전체 목록
	products, total, err := env.productService.ListProducts(ProductListOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 2)

	// 가격 필터
	minPrice := 10000.0
	products, total, err = env.productService.ListProducts(ProductListOptions{
		MinPrice: &minPrice,
		Page:     1,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "프리미엄 반찬", products[0].Name)

	// 가격 오름차순 정렬
	products, _, err = env.productService.ListProducts(ProductListOptions{
		SortBy:    repository.ProductSortPrice,
		Ascending: true,
		Page:      1,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "저렴한 반찬", products[0].Name)
}
