package db

import (
	"gorm.io/gorm"
)

// Paginate is a GORM scope applying LIMIT/OFFSET for 1-based page numbers.
//
// Example usage:
//
//	tx.Model(&models.TicketModel{}).Scopes(db.Paginate(page, pageSize)).Find(&rows)
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// NewestFirst orders by created_at descending with id as the tie breaker.
func NewestFirst() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Order("id DESC")
	}
}
