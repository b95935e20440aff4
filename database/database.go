package database

import (
	"gorm.io/gorm"

	"github.com/rpupo63/pulse-backend/models"
)

type Database struct {
	userRepo    *UserRepo
	groupRepo   *GroupRepo
	postRepo    *PostRepo
	commentRepo *CommentRepo
	followRepo  *FollowRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:    NewUserRepo(db),
		groupRepo:   NewGroupRepo(db),
		postRepo:    NewPostRepo(db),
		commentRepo: NewCommentRepo(db),
		followRepo:  NewFollowRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) GroupRepo() *GroupRepo {
	return d.groupRepo
}

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) FollowRepo() *FollowRepo {
	return d.followRepo
}

// Migrate creates or updates the schema for every entity. Referential
// actions (CASCADE / SET NULL) come from the constraint tags on the
// models, so the store enforces them rather than application code.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
}
