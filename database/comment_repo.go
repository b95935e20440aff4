package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/rpupo63/pulse-backend/errs"
	"github.com/rpupo63/pulse-backend/models"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// Add inserts a new comment into the database
func (r *CommentRepo) Add(comment *models.Comment) error {
	if strings.TrimSpace(comment.Text) == "" {
		return errs.NewMissingRequiredFieldError("text")
	}
	return r.db.Create(comment).Error
}

// FindByPost returns a post's comments, newest first
func (r *CommentRepo) FindByPost(postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.
		Where("post_id = ?", postID).
		Order("created DESC, id DESC").
		Preload("Author").
		Find(&comments).Error
	return comments, err
}
