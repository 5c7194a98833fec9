package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// 보안상 민감한 정보는 숨기되, 사용자가 문제를 해결할 수 있는 정보 제공
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. 데이터베이스 제약 조건 에러

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") ||
		strings.Contains(errStrLower, "unique failed") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "필수 항목이 누락되었습니다",
		}
	}

	// 2-4. Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{
				Code:    ReviewInvalidRating,
				Message: "평점은 1~5 사이의 값이어야 합니다",
			}
		}
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "입력값이 유효하지 않습니다",
		}
	}

	// 3. 네트워크/연결 에러
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "서버 연결에 실패했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	// 4. 기본 내부 서버 오류
	return ErrorInfo{
		Code:    InternalServerError,
		Message: "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요",
	}
}

// parseDuplicateKeyError Unique constraint 위반 에러 파싱
func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// 리뷰 중복: (reviewer_id, target_id, target_type) 복합 인덱스
	// 사전 중복 체크를 통과한 동시 요청이 여기서 잡힌다
	if strings.Contains(errLower, "idx_reviewer_target") ||
		(strings.Contains(errLower, "reviews") && strings.Contains(errLower, "reviewer_id")) {
		return ErrorInfo{
			Code:    ReviewAlreadyExists,
			Message: "이미 이 대상에 리뷰를 작성하셨습니다",
		}
	}

	// 상점 중복: owner_id 유니크 인덱스 (계정당 하나)
	if strings.Contains(errLower, "owner_id") || strings.Contains(errLower, "idx_shops_owner_id") {
		return ErrorInfo{
			Code:    ShopAlreadyExists,
			Message: "이미 운영 중인 상점이 있습니다. 기존 상점을 수정해주세요",
		}
	}

	// 이메일 중복
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "이미 사용 중인 이메일입니다",
		}
	}

	// SKU 중복
	if strings.Contains(errLower, "sku") || strings.Contains(errLower, "idx_products_sku") {
		return ErrorInfo{
			Code:    ProductSKUExists,
			Message: "이미 사용 중인 상품 코드입니다",
		}
	}

	// 카테고리명/slug 중복
	if strings.Contains(errLower, "categories") || strings.Contains(errLower, "slug") {
		return ErrorInfo{
			Code:    CategoryExists,
			Message: "이미 존재하는 카테고리입니다",
		}
	}

	// 기본 중복 메시지
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "이미 존재하는 데이터입니다",
	}
}

// parseForeignKeyError Foreign key constraint 위반 에러 파싱
func parseForeignKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "연결된 데이터가 있어 삭제할 수 없습니다",
		}
	}

	if strings.Contains(errLower, "shop_id") {
		return ErrorInfo{
			Code:    ShopNotFound,
			Message: "존재하지 않는 상점입니다",
		}
	}
	if strings.Contains(errLower, "category_id") {
		return ErrorInfo{
			Code:    CategoryNotFound,
			Message: "존재하지 않는 카테고리입니다",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "참조하는 데이터를 찾을 수 없습니다",
	}
}

// ParseAndRespond 에러를 파싱해 표준 응답 봉투로 내려보낸다
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, Response{
		Success: false,
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

// IsDuplicateKeyError는 유니크 제약 위반 여부를 확인한다
// 리뷰 생성의 check-then-insert 경쟁에서 insert가 복합 인덱스에 걸렸는지 판별할 때 사용
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errLower := strings.ToLower(err.Error())
	return strings.Contains(errLower, "duplicate key") ||
		strings.Contains(errLower, "unique constraint") ||
		strings.Contains(errLower, "unique failed")
}

// getNotFoundMessage context에 따른 Not Found 메시지
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "shop") || strings.Contains(contextLower, "상점") {
		return "상점을 찾을 수 없습니다"
	}
	if strings.Contains(contextLower, "product") || strings.Contains(contextLower, "상품") {
		return "상품을 찾을 수 없습니다"
	}
	if strings.Contains(contextLower, "review") || strings.Contains(contextLower, "리뷰") {
		return "리뷰를 찾을 수 없습니다"
	}
	if strings.Contains(contextLower, "category") || strings.Contains(contextLower, "카테고리") {
		return "카테고리를 찾을 수 없습니다"
	}
	if strings.Contains(contextLower, "user") || strings.Contains(contextLower, "사용자") {
		return "사용자를 찾을 수 없습니다"
	}

	return "요청한 데이터를 찾을 수 없습니다"
}
