// Package forms holds the narrow input structs accepted from end users.
//
// Each operation gets its own struct carrying only the externally
// settable fields; server-assigned values (author, publication time,
// stored image path) never appear here, so they can never be injected
// through a request body.
package forms

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/rpupo63/pulse-backend/errs"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// "required" alone accepts strings of pure whitespace, which the
		// post/comment text rules forbid.
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if s == "" {
				return false
			}
			for _, r := range s {
				switch {
				case r >= 'a' && r <= 'z':
				case r >= '0' && r <= '9':
				case r == '-' || r == '_':
				default:
					return false
				}
			}
			return true
		})
	})
	return validate
}

// ImageUpload describes an uploaded attachment before it is persisted.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// PostForm is the user-submitted portion of a post.
type PostForm struct {
	Text    string       `json:"text" validate:"required,notblank"`
	GroupID *uint        `json:"groupId" validate:"omitempty,gt=0"`
	Image   *ImageUpload `json:"-" validate:"-"`
}

// CommentForm accepts the comment text and nothing else; the target
// post and the author come from the request context.
type CommentForm struct {
	Text string `json:"text" validate:"required,notblank"`
}

// GroupForm is the administrative input for creating a group.
type GroupForm struct {
	Title       string `json:"title" validate:"required,notblank"`
	Slug        string `json:"slug" validate:"required,max=150,slug"`
	Description string `json:"description"`
}

// SignupForm creates a user account.
type SignupForm struct {
	Username string `json:"username" validate:"required,min=2,max=150,alphanumunicode"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginForm exchanges credentials for a token.
type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (f *PostForm) Validate() error    { return validateStruct(f) }
func (f *CommentForm) Validate() error { return validateStruct(f) }
func (f *GroupForm) Validate() error   { return validateStruct(f) }
func (f *SignupForm) Validate() error  { return validateStruct(f) }
func (f *LoginForm) Validate() error   { return validateStruct(f) }

func validateStruct(s any) error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return errs.NewBadRequestError("invalid input")
	}

	// One field, one reason per response.
	first := fieldErrs[0]
	field := strings.ToLower(first.Field())
	switch first.Tag() {
	case "required", "notblank":
		return errs.NewMissingRequiredFieldError(field)
	default:
		return errs.NewInvalidFieldError(field, "failed "+first.Tag()+" validation")
	}
}
