package models

import "time"

// Comment is attached to a post by an authenticated user.
// PostID is nullable so a comment row can outlive handler-level
// detachment, but the FK still cascades when the post row is deleted.
type Comment struct {
	ID       uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	PostID   *uint     `json:"postId,omitempty" db:"post_id" gorm:"index"`
	AuthorID uint      `json:"authorId" db:"author_id" gorm:"not null;index"`
	Text     string    `json:"text" db:"text" gorm:"type:text;not null"`
	Created  time.Time `json:"created" db:"created" gorm:"not null;autoCreateTime"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}
