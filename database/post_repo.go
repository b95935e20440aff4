package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/rpupo63/pulse-backend/errs"
	"github.com/rpupo63/pulse-backend/models"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// FindByID returns a post by its ID with author and group loaded; the
// comment thread comes from CommentRepo.FindByPost.
func (r *PostRepo) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Add inserts a new post. Text must already be validated upstream; the
// repo rejects blank text anyway so no write ever slips through.
func (r *PostRepo) Add(post *models.Post) error {
	if strings.TrimSpace(post.Text) == "" {
		return errs.NewMissingRequiredFieldError("text")
	}
	return r.db.Create(post).Error
}

// Update saves the mutable columns of an existing post. PubDate is set
// once at creation and never rewritten.
func (r *PostRepo) Update(post *models.Post) error {
	if strings.TrimSpace(post.Text) == "" {
		return errs.NewMissingRequiredFieldError("text")
	}
	return r.db.Model(&models.Post{ID: post.ID}).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
}

// Delete removes a post; the store cascades the delete to its comments
func (r *PostRepo) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

// Count returns the total number of posts
func (r *PostRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Count(&count).Error
	return count, err
}

// Index returns the global feed: every post, newest first.
func (r *PostRepo) Index(pageNumber, pageSize int) (Page, error) {
	return paginate(r.db, func(tx *gorm.DB) *gorm.DB {
		return tx
	}, pageNumber, pageSize)
}

// ByGroup returns the feed scoped to a single group.
func (r *PostRepo) ByGroup(groupID uint, pageNumber, pageSize int) (Page, error) {
	return paginate(r.db, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("group_id = ?", groupID)
	}, pageNumber, pageSize)
}

// ByAuthor returns the feed scoped to a single author's posts.
func (r *PostRepo) ByAuthor(authorID uint, pageNumber, pageSize int) (Page, error) {
	return paginate(r.db, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("author_id = ?", authorID)
	}, pageNumber, pageSize)
}

// ByFollowed returns the aggregated feed of every author the user
// follows. A user following nobody gets an empty page, not an error.
func (r *PostRepo) ByFollowed(userID uint, pageNumber, pageSize int) (Page, error) {
	return paginate(r.db, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(
			"author_id IN (?)",
			r.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", userID),
		)
	}, pageNumber, pageSize)
}
