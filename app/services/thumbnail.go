package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultJPEGQuality is the JPEG quality used for poster previews.
const DefaultJPEGQuality = 80

// Thumbnailer produces JPEG previews of poster images.
type Thumbnailer interface {
	Thumbnail(src []byte, maxWidth int) ([]byte, error)
}

// ThumbnailerImpl implements Thumbnailer with Catmull-Rom scaling.
type ThumbnailerImpl struct {
	quality int
}

// NewThumbnailer creates a thumbnailer; quality is the JPEG quality (1-100)
func NewThumbnailer(quality int) Thumbnailer {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &ThumbnailerImpl{quality: quality}
}

// Thumbnail decodes src, scales it down to maxWidth preserving aspect
// ratio and re-encodes it as JPEG. Images already narrower than maxWidth
// are re-encoded without scaling.
func (t *ThumbnailerImpl) Thumbnail(src []byte, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image has empty bounds")
	}

	if maxWidth > 0 && width > maxWidth {
		scaledHeight := height * maxWidth / width
		if scaledHeight < 1 {
			scaledHeight = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, scaledHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: t.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
