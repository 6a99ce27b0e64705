package services

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnailer(t *testing.T) {
	scaler := NewThumbnailer(DefaultJPEGQuality)

	t.Run("ScalesDownWideImage", func(t *testing.T) {
		src := testImage(t, 1200, 800)

		out, err := scaler.Thumbnail(src, 480)
		require.NoError(t, err)

		decoded, err := jpeg.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 480, decoded.Bounds().Dx())
		assert.Equal(t, 320, decoded.Bounds().Dy(), "aspect ratio preserved")
	})

	t.Run("SmallImageKeptAtSize", func(t *testing.T) {
		src := testImage(t, 200, 100)

		out, err := scaler.Thumbnail(src, 480)
		require.NoError(t, err)

		decoded, err := jpeg.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 200, decoded.Bounds().Dx())
	})

	t.Run("RejectsNonImageData", func(t *testing.T) {
		_, err := scaler.Thumbnail([]byte("%PDF-1.4 not an image"), 480)
		assert.Error(t, err)
	})
}
