package database

import (
	"strconv"

	"gorm.io/gorm"

	"github.com/rpupo63/pulse-backend/models"
)

// Page is one window of an ordered post sequence.
type Page struct {
	Items      []*models.Post `json:"items"`
	Number     int            `json:"number"`
	Size       int            `json:"size"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int            `json:"totalPages"`
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrevious reports whether an earlier page exists.
func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// ParsePageNumber turns the raw ?page= value into a 1-based page
// number. Absent, non-numeric, or non-positive input falls back to 1.
func ParsePageNumber(raw string) int {
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// paginate runs the scoped feed query twice: once for the total count
// and once for the requested window. A page number past the end is
// clamped to the last non-empty page rather than erroring; an empty
// sequence yields page 1 with no items.
func paginate(db *gorm.DB, scope func(*gorm.DB) *gorm.DB, number, size int) (Page, error) {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = 1
	}

	var total int64
	if err := scope(db.Model(&models.Post{})).Count(&total).Error; err != nil {
		return Page{}, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	if number > totalPages {
		number = totalPages
	}

	var posts []*models.Post
	err := scope(db.Model(&models.Post{})).
		Order("pub_date DESC, id DESC").
		Limit(size).
		Offset((number - 1) * size).
		Preload("Author").
		Preload("Group").
		Find(&posts).Error
	if err != nil {
		return Page{}, err
	}

	return Page{
		Items:      posts,
		Number:     number,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}
