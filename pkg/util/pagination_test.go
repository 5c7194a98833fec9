package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		page      int
		limit     int
		wantPages int
	}{
		{
			name:      "Exact multiple",
			total:     20,
			page:      1,
			limit:     10,
			wantPages: 2,
		},
		{
			name:      "Partial last page",
			total:     21,
			page:      1,
			limit:     10,
			wantPages: 3,
		},
		{
			name:      "Empty result",
			total:     0,
			page:      1,
			limit:     10,
			wantPages: 0,
		},
		{
			name:      "Single item",
			total:     1,
			page:      1,
			limit:     10,
			wantPages: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.wantPages, p.Pages)
		})
	}
}

func TestNormalizePageLimit(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{
			name:      "Valid values pass through",
			page:      3,
			limit:     25,
			wantPage:  3,
			wantLimit: 25,
		},
		{
			name:      "Zero page defaults",
			page:      0,
			limit:     10,
			wantPage:  DefaultPage,
			wantLimit: 10,
		},
		{
			name:      "Negative values default",
			page:      -1,
			limit:     -5,
			wantPage:  DefaultPage,
			wantLimit: DefaultLimit,
		},
		{
			name:      "Limit clamped to max",
			page:      1,
			limit:     500,
			wantPage:  1,
			wantLimit: MaxLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := NormalizePageLimit(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 10, Offset(2, 10))
	assert.Equal(t, 40, Offset(3, 20))
}

func TestSplitSortKey(t *testing.T) {
	field, ascending := SplitSortKey("rating")
	assert.Equal(t, "rating", field)
	assert.True(t, ascending)

	field, ascending = SplitSortKey("-created_at")
	assert.Equal(t, "created_at", field)
	assert.False(t, ascending)

	field, ascending = SplitSortKey("")
	assert.Equal(t, "", field)
	assert.True(t, ascending)
}
