package services

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rpupo63/pulse-backend/errs"
	"github.com/rpupo63/pulse-backend/forms"
)

// Uploaded post images live under this prefix inside the media root;
// the Post entity stores the prefix-relative path.
const imageDir = "posts"

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// SaveImage persists an uploaded image under mediaRoot/posts/ with a
// generated filename and returns the relative path to store on the
// post. The original filename only contributes its extension.
func SaveImage(mediaRoot string, upload *forms.ImageUpload) (string, error) {
	if upload == nil || len(upload.Data) == 0 {
		return "", errs.NewBadRequestError("empty image upload")
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !allowedImageExts[ext] {
		return "", errs.NewInvalidFieldError("image", "unsupported image type")
	}

	if err := os.MkdirAll(filepath.Join(mediaRoot, imageDir), 0o755); err != nil {
		return "", err
	}

	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(mediaRoot, imageDir, name), upload.Data, 0o644); err != nil {
		return "", err
	}

	// Forward slashes regardless of platform: the value is a URL path.
	return path.Join(imageDir, name), nil
}

// RemoveImage deletes a stored image by its relative path. A missing
// file is not an error; the referencing row may simply predate a wipe
// of the media directory.
func RemoveImage(mediaRoot, relPath string) error {
	if relPath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(mediaRoot, filepath.FromSlash(relPath)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
