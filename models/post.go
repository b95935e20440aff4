package models

import "time"

// Post is a single entry in a feed.
//
// PubDate is assigned once at creation and never updated; feeds sort on
// it descending with ID as the tie-breaker. Deleting the author removes
// the post (cascade); deleting the group leaves the post in place with
// GroupID nulled out.
type Post struct {
	ID       uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Text     string    `json:"text" db:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pubDate" db:"pub_date" gorm:"not null;autoCreateTime;index"`
	AuthorID uint      `json:"authorId" db:"author_id" gorm:"not null;index"`
	GroupID  *uint     `json:"groupId,omitempty" db:"group_id" gorm:"index"`
	// Image is a path relative to the media root, e.g. "posts/<name>.png".
	Image string `json:"image,omitempty" db:"image" gorm:"type:text"`

	Author   User      `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Group    *Group    `json:"group,omitempty" gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:SET NULL"`
	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}
