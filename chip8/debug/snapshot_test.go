package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/video"
)

func TestFrameImage(t *testing.T) {
	fb := video.NewFrameBuffer()
	fb.SetPixel(0, 0, true)
	fb.SetPixel(63, 31, true)

	img := FrameImage(fb, 2)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())

	assert.Equal(t, uint8(1), img.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(1), img.ColorIndexAt(1, 1))
	assert.Equal(t, uint8(0), img.ColorIndexAt(2, 0))
	assert.Equal(t, uint8(1), img.ColorIndexAt(127, 63))
	assert.Equal(t, uint8(0), img.ColorIndexAt(125, 63))
}

func TestFrameImage_MinimumScale(t *testing.T) {
	img := FrameImage(video.NewFrameBuffer(), 0)
	assert.Equal(t, video.FramebufferWidth, img.Bounds().Dx())
}

func TestSaveFramePNGToDir(t *testing.T) {
	dir := t.TempDir()
	fb := video.NewFrameBuffer()
	fb.SetPixel(10, 5, true)

	path, err := SaveFramePNGToDir(fb, "test", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "test_"))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, video.FramebufferWidth*snapshotScale, img.Bounds().Dx())

	r, _, _, _ := img.At(10*snapshotScale, 5*snapshotScale).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	r, _, _, _ = img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
}

func TestSaveFramePNG_BadPath(t *testing.T) {
	err := SaveFramePNG(video.NewFrameBuffer(), filepath.Join(t.TempDir(), "missing", "x.png"), 1)
	assert.Error(t, err)
}
