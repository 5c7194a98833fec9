package util

import "strings"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination 목록 응답에 포함되는 페이지 정보
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// NewPagination builds pagination metadata from a total row count
func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}

// NormalizePageLimit clamps page and limit to sane values
func NormalizePageLimit(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset 현재 페이지의 오프셋 계산
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// SplitSortKey parses "-created_at" style sort keys into a field name
// and direction. A leading '-' means descending.
func SplitSortKey(sort string) (field string, ascending bool) {
	if strings.HasPrefix(sort, "-") {
		return sort[1:], false
	}
	return sort, true
}
