package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 이메일/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // 소유자만 가능
	AuthzAuthorOnly   = "AUTHZ_AUTHOR_ONLY"    // 작성자만 가능
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // 관리자만 가능
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // 범위 초과
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목
	ValidationInvalidTarget = "VALIDATION_INVALID_TARGET" // 잘못된 리뷰 대상 유형

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 상점 (SHOP_) ====================
	ShopNotFound        = "SHOP_NOT_FOUND"        // 상점 없음
	ShopAlreadyExists   = "SHOP_ALREADY_EXISTS"   // 계정당 하나만 허용
	ShopRequired        = "SHOP_REQUIRED"         // 상점 필요 (상품 등록 시)
	ShopInvalidCategory = "SHOP_INVALID_CATEGORY" // 잘못된 상점 카테고리

	// ==================== 상품 (PRODUCT_) ====================
	ProductNotFound        = "PRODUCT_NOT_FOUND"        // 상품 없음
	ProductInvalidDiscount = "PRODUCT_INVALID_DISCOUNT" // 할인가가 정상가 이상
	ProductSKUExists       = "PRODUCT_SKU_EXISTS"       // SKU 중복

	// ==================== 리뷰 (REVIEW_) ====================
	ReviewNotFound       = "REVIEW_NOT_FOUND"        // 리뷰 없음
	ReviewInvalidRating  = "REVIEW_INVALID_RATING"   // 잘못된 평점
	ReviewTooShort       = "REVIEW_TOO_SHORT"        // 리뷰 내용 너무 짧음
	ReviewAlreadyExists  = "REVIEW_ALREADY_EXISTS"   // 이미 리뷰 작성함
	ReviewTargetNotFound = "REVIEW_TARGET_NOT_FOUND" // 리뷰 대상 없음

	// ==================== 카테고리 (CATEGORY_) ====================
	CategoryNotFound = "CATEGORY_NOT_FOUND" // 카테고리 없음
	CategoryExists   = "CATEGORY_EXISTS"    // 카테고리명 중복
	CategoryInUse    = "CATEGORY_IN_USE"    // 상품이 남아 있어 삭제 불가

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalCacheError    = "INTERNAL_CACHE_ERROR"    // 캐시 오류
)
