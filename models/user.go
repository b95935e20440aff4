package models

import "time"

// User is an author, commenter, and follower identity.
type User struct {
	ID           uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex"`
	Email        string    `json:"email,omitempty" db:"email" gorm:"type:text;uniqueIndex"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`
}
