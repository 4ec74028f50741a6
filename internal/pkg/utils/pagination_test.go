package utils

import (
	"net/url"
	"testing"
)

func TestParsePaginationParams(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 1, DefaultLimit, 0},
		{"explicit", "page=3&limit=10", 3, 10, 20},
		{"zero page clamps", "page=0&limit=10", 1, 10, 0},
		{"negative limit resets", "page=2&limit=-5", 2, DefaultLimit, DefaultLimit},
		{"limit capped", "page=1&limit=500", 1, MaxLimit, 0},
		{"garbage falls back", "page=abc&limit=xyz", 1, DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			got := ParsePaginationParams(values)
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit || got.Offset != tt.wantOffset {
				t.Errorf("got %+v, want page=%d limit=%d offset=%d",
					got, tt.wantPage, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}
