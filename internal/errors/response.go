package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError 필드 단위 검증 오류
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Response 표준 응답 봉투
// 성공/실패 모두 같은 구조를 사용한다
type Response struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`  // 에러 코드 (codes.go 참조)
	Message string       `json:"message"`          // 사용자 친화적 메시지 (한글)
	Data    interface{}  `json:"data,omitempty"`   // 응답 데이터
	Errors  []FieldError `json:"errors,omitempty"` // 필드별 검증 오류
}

// OK 200 성공 응답
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created 201 생성 성공 응답
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithError 에러 응답 헬퍼
// statusCode: HTTP 상태 코드
// errorCode: 에러 코드 상수 (codes.go 참조)
// message: 사용자에게 보여질 한글 메시지
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   errorCode,
		Message: message,
	})
}

// 자주 사용하는 에러 응답 단축 함수들

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "로그인이 필요합니다"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "접근 권한이 없습니다"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// RespondWithValidationError 필드별 검증 오류 응답
func RespondWithValidationError(c *gin.Context, fields []FieldError) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   ValidationInvalidInput,
		Message: "입력값이 올바르지 않습니다",
		Errors:  fields,
	})
}
