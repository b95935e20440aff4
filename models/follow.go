package models

import "time"

// Follow is a directed edge: UserID follows AuthorID.
// The composite unique index makes a repeated follow a no-op at the
// schema level, so two concurrent follow calls cannot produce a
// duplicate edge. Self-follows are rejected in the repository.
type Follow struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" db:"user_id" gorm:"not null;index;uniqueIndex:idx_follow_user_author"`
	AuthorID  uint      `json:"authorId" db:"author_id" gorm:"not null;index;uniqueIndex:idx_follow_user_author"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`

	User   User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Author User `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}
