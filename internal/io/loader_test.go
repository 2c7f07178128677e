package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func gradient(rows, cols int) []byte {
	data := make([]byte, rows*cols*3)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i := (y*cols + x) * 3
			data[i] = byte(x * 7)
			data[i+1] = byte(y * 11)
			data[i+2] = byte(x ^ y)
		}
	}
	return data
}

func TestSaveLoadRoundTripPNG(t *testing.T) {
	logger, _ := test.NewNullLogger()
	loader := NewImageLoader(logger)

	data := gradient(20, 30)
	mat, err := gocv.NewMatFromBytes(20, 30, gocv.MatTypeCV8UC3, data)
	require.NoError(t, err)
	defer mat.Close()

	path := filepath.Join(t.TempDir(), "result.png")
	require.NoError(t, loader.SaveImage(mat, path))

	loaded, err := loader.LoadImage(path)
	require.NoError(t, err)
	defer loaded.Close()

	assert.Equal(t, 3, loaded.Channels())
	assert.Equal(t, data, loaded.ToBytes())
}

func TestLoadImageFailures(t *testing.T) {
	logger, _ := test.NewNullLogger()
	loader := NewImageLoader(logger)
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		mat, err := loader.LoadImage(filepath.Join(dir, "nope.png"))
		assert.Error(t, err)
		assert.True(t, mat.Empty())
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.jpg")
		require.NoError(t, os.WriteFile(path, []byte("not a jpeg"), 0o644))

		mat, err := loader.LoadImage(path)
		assert.Error(t, err)
		assert.True(t, mat.Empty())
	})

	t.Run("unsupported extension", func(t *testing.T) {
		mat, err := loader.LoadImage(filepath.Join(dir, "notes.txt"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.True(t, mat.Empty())
	})
}

func TestSaveImageFailures(t *testing.T) {
	logger, _ := test.NewNullLogger()
	loader := NewImageLoader(logger)
	dir := t.TempDir()

	empty := gocv.NewMat()
	defer empty.Close()
	assert.ErrorIs(t, loader.SaveImage(empty, filepath.Join(dir, "a.png")), ErrEmptyImage)

	mat := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer mat.Close()
	assert.ErrorIs(t, loader.SaveImage(mat, filepath.Join(dir, "a.gif")), ErrUnsupportedFormat)
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("photo.JPG"))
	assert.True(t, IsSupportedFormat("/tmp/scan.tiff"))
	assert.False(t, IsSupportedFormat("archive.tar.gz"))
	assert.False(t, IsSupportedFormat("noext"))
	assert.Contains(t, SupportedExtensions(), ".png")
}
