package models

// Group is a named category posts can be filed under.
// Groups are created administratively; deleting one never deletes its
// posts, it only detaches them (see the Post.GroupID constraint).
type Group struct {
	ID          uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title       string `json:"title" db:"title" gorm:"type:text;not null"`
	Slug        string `json:"slug" db:"slug" gorm:"size:150;not null;uniqueIndex"`
	Description string `json:"description" db:"description" gorm:"type:text"`
}
