package utils

import (
	"net/url"
	"strconv"
)

// PaginationParams contains pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// DefaultLimit is the default number of items per page
const DefaultLimit = 20

// MaxLimit is the maximum number of items per page
const MaxLimit = 100

// ParsePaginationParams parses page/limit from query string with defaults
// and bounds enforcement. Pages are 1-based.
func ParsePaginationParams(query url.Values) PaginationParams {
	page := parseIntQuery(query.Get("page"), 1)
	limit := parseIntQuery(query.Get("limit"), DefaultLimit)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// TotalPages returns ceil(totalItems/limit).
func TotalPages(totalItems int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(totalItems) / limit
	if int(totalItems)%limit != 0 {
		pages++
	}
	return pages
}

func parseIntQuery(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}
