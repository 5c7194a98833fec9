package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hyeonpark/dongnemarket-backend/config"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/repository"
	"github.com/hyeonpark/dongnemarket-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// 상점 카탈로그 일괄 등록 도구
// XLSX 컬럼 순서: 상품명, 설명, 카테고리 슬러그, 가격, 할인가, SKU, 재고수량, 태그(쉼표 구분)
func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/seed/main.go <shop_id> <xlsx_file_path>")
	}

	shopID, err := strconv.ParseUint(os.Args[1], 10, 32)
	if err != nil || shopID == 0 {
		log.Fatal("Invalid shop ID:", os.Args[1])
	}
	filePath := os.Args[2]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Repository 생성
	shopRepo := repository.NewShopRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())

	// 대상 상점 확인
	shop, err := shopRepo.FindByID(uint(shopID))
	if err != nil {
		log.Fatal("Shop not found:", shopID)
	}
	fmt.Printf("Target shop: %s (ID: %d)\n", shop.Name, shop.ID)

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath, uint(shopID), categoryRepo)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// 배치로 저장
	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	// 상점의 상품 카운터 동기화
	count, err := productRepo.CountByShopID(uint(shopID))
	if err != nil {
		log.Fatal("Failed to count shop products:", err)
	}
	shop.TotalProducts = count
	if err := shopRepo.Update(shop); err != nil {
		log.Fatal("Failed to update shop product counter:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(filePath string, shopID uint, categoryRepo repository.CategoryRepository) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트 이름 가져오기
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	// 모든 행 읽기
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seenSKUs := make(map[string]bool)      // SKU 중복 제거용
	categoryCache := make(map[string]uint) // 카테고리 슬러그 → ID 캐시
	skippedCount := 0
	unknownCategoryCount := 0

	// 첫 행은 헤더이므로 스킵
	for i, row := range rows {
		if i == 0 {
			// 헤더 출력 (디버깅용)
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		// 최소 컬럼 수 확인 (상품명~재고수량 7개 필수, 태그는 선택)
		if len(row) < 7 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])         // 상품명
		description := strings.TrimSpace(row[1])  // 설명
		categorySlug := strings.TrimSpace(row[2]) // 카테고리 슬러그
		priceStr := strings.TrimSpace(row[3])     // 가격
		discountStr := strings.TrimSpace(row[4])  // 할인가
		sku := strings.TrimSpace(row[5])          // SKU
		quantityStr := strings.TrimSpace(row[6])  // 재고수량

		var tags model.StringArray
		if len(row) > 7 {
			for _, tag := range strings.Split(row[7], ",") {
				if trimmed := strings.TrimSpace(tag); trimmed != "" {
					tags = append(tags, trimmed)
				}
			}
		}

		// 1. 기본 필수 항목 검사
		if name == "" || description == "" || categorySlug == "" {
			skippedCount++
			continue
		}

		// 2. 가격 유효성 검증
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skippedCount++
			continue
		}

		// 3. 할인가는 가격보다 낮아야 한다
		var discountPrice *float64
		if discountStr != "" {
			discount, err := strconv.ParseFloat(discountStr, 64)
			if err != nil || discount <= 0 || discount >= price {
				skippedCount++
				continue
			}
			discountPrice = &discount
		}

		// 4. 카테고리 확인 (캐시 우선)
		categoryID, ok := categoryCache[categorySlug]
		if !ok {
			category, err := categoryRepo.FindBySlug(categorySlug)
			if err != nil {
				unknownCategoryCount++
				skippedCount++
				continue
			}
			categoryID = category.ID
			categoryCache[categorySlug] = categoryID
		}

		// SKU 자동 생성 (빈 값인 경우)
		if sku == "" {
			sku = "PRD-" + strings.ToUpper(uuid.New().String()[:8])
		}

		// 중복 SKU 체크
		if seenSKUs[sku] {
			skippedCount++
			continue
		}
		seenSKUs[sku] = true

		quantity, err := strconv.Atoi(quantityStr)
		if err != nil || quantity < 0 {
			quantity = 0
		}

		product := model.Product{
			ShopID:        shopID,
			Name:          name,
			Description:   description,
			CategoryID:    categoryID,
			Price:         price,
			DiscountPrice: discountPrice,
			SKU:           sku,
			Quantity:      quantity,
			InStock:       quantity > 0,
			Tags:          tags,
			IsActive:      true,
		}

		products = append(products, product)

		// 진행 상황 출력 (500개마다)
		if len(products)%500 == 0 {
			fmt.Printf("Processed %d products...\n", len(products))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)
	fmt.Printf("  Rows with unknown category: %d\n", unknownCategoryCount)

	return products, nil
}
