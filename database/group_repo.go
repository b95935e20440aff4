package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/rpupo63/pulse-backend/errs"
	"github.com/rpupo63/pulse-backend/models"
)

type GroupRepo struct {
	db *gorm.DB
}

func NewGroupRepo(db *gorm.DB) *GroupRepo {
	return &GroupRepo{db}
}

// Add inserts a new group. A duplicate slug surfaces as a conflict, not
// a generic database failure.
func (r *GroupRepo) Add(group *models.Group) error {
	err := r.db.Create(group).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return errs.NewUniqueConstraintViolationError("group", "slug", err)
	}
	return err
}

// FindBySlug returns a group by its unique URL token
func (r *GroupRepo) FindBySlug(slug string) (*models.Group, error) {
	var group models.Group
	err := r.db.Where("slug = ?", slug).First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByID returns a group by its ID
func (r *GroupRepo) FindByID(id uint) (*models.Group, error) {
	var group models.Group
	err := r.db.First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// FindAll returns all groups ordered by title
func (r *GroupRepo) FindAll() ([]*models.Group, error) {
	var groups []*models.Group
	err := r.db.Order("title ASC").Find(&groups).Error
	return groups, err
}

// Delete removes a group; referencing posts survive with a nulled group
func (r *GroupRepo) Delete(id uint) error {
	return r.db.Delete(&models.Group{}, id).Error
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
