package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/pulse-backend/errs"
	"github.com/rpupo63/pulse-backend/models"
)

type FollowRepo struct {
	db *gorm.DB
}

func NewFollowRepo(db *gorm.DB) *FollowRepo {
	return &FollowRepo{db}
}

// Follow creates the edge user -> author. A self-follow is refused with
// errs.ErrSelfFollow, which callers swallow rather than surface. The
// insert is conflict-ignoring, so a repeated or concurrent follow of the
// same author is an idempotent no-op instead of a duplicate row.
func (r *FollowRepo) Follow(userID, authorID uint) error {
	if userID == authorID {
		return errs.ErrSelfFollow
	}
	edge := models.Follow{UserID: userID, AuthorID: authorID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
}

// Unfollow removes the edge if present; a missing edge is a no-op
func (r *FollowRepo) Unfollow(userID, authorID uint) error {
	return r.db.
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether the edge user -> author exists
func (r *FollowRepo) IsFollowing(userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// FollowingAuthors returns the IDs of every author the user follows
func (r *FollowRepo) FollowingAuthors(userID uint) ([]uint, error) {
	var authorIDs []uint
	err := r.db.Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Pluck("author_id", &authorIDs).Error
	return authorIDs, err
}

// CountByUser returns how many authors the user follows
func (r *FollowRepo) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Count returns the total number of follow edges
func (r *FollowRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Count(&count).Error
	return count, err
}
