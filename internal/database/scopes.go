package database

import "gorm.io/gorm"

// NewestFirst orders rows by creation time, most recent first.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// PrefixRange restricts column to the closed range [lower, upper], which is
// how prefix search is expressed without LIKE.
func PrefixRange(column, lower, upper string, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" <= ?", lower, upper).
			Order(column + " ASC").
			Limit(limit)
	}
}
