package repository

import (
	"strings"

	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// DefaultPageSize is used when the caller does not ask for a page size
const DefaultPageSize = 20

// NormalizePage clamps page and pageSize to sane bounds
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Paginate applies offset/limit for a 1-based page
func Paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

// likePattern builds a case-insensitive LIKE pattern for search terms
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// conn returns tx when the caller runs inside a transaction, otherwise the base handle
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
