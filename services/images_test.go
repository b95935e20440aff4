package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/pulse-backend/forms"
)

func TestSaveImage(t *testing.T) {
	mediaRoot := t.TempDir()

	relPath, err := SaveImage(mediaRoot, &forms.ImageUpload{
		Filename: "photo.PNG",
		Data:     []byte("fake image bytes"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relPath, "posts/"))
	assert.True(t, strings.HasSuffix(relPath, ".png"))

	data, err := os.ReadFile(filepath.Join(mediaRoot, filepath.FromSlash(relPath)))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image bytes"), data)
}

func TestSaveImageRejectsUnsupportedType(t *testing.T) {
	_, err := SaveImage(t.TempDir(), &forms.ImageUpload{
		Filename: "script.exe",
		Data:     []byte("nope"),
	})
	assert.Error(t, err)
}

func TestSaveImageRejectsEmptyUpload(t *testing.T) {
	_, err := SaveImage(t.TempDir(), nil)
	assert.Error(t, err)

	_, err = SaveImage(t.TempDir(), &forms.ImageUpload{Filename: "a.jpg"})
	assert.Error(t, err)
}

func TestRemoveImage(t *testing.T) {
	mediaRoot := t.TempDir()

	relPath, err := SaveImage(mediaRoot, &forms.ImageUpload{
		Filename: "photo.jpg",
		Data:     []byte("bytes"),
	})
	require.NoError(t, err)

	require.NoError(t, RemoveImage(mediaRoot, relPath))

	_, statErr := os.Stat(filepath.Join(mediaRoot, filepath.FromSlash(relPath)))
	assert.True(t, os.IsNotExist(statErr))

	// A second removal of the same path is a no-op.
	assert.NoError(t, RemoveImage(mediaRoot, relPath))
	assert.NoError(t, RemoveImage(mediaRoot, ""))
}
