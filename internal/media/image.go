// Package media normalizes uploaded product images and stores them.
package media

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/pawfectpets/pawfect-api/internal/httperr"
)

const (
	MaxUploadBytes = 5 << 20
	MaxWidth       = 1024
	webpQuality    = 80
)

var (
	errTooLarge    = httperr.ErrValidation("image_too_large", "Image must be 5MB or smaller")
	errUnsupported = httperr.ErrValidation("image_unsupported", "Image must be a JPEG, PNG or WebP file")
)

// Normalize decodes r, scales it down to MaxWidth keeping the aspect ratio
// and re-encodes it as WebP.
func Normalize(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxUploadBytes {
		return nil, errTooLarge
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errUnsupported
	}
	switch format {
	case "jpeg", "png", "webp":
	default:
		return nil, errUnsupported
	}

	img := fit(src, MaxWidth)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fit(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	if b.Dx() <= maxWidth {
		return src
	}

	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
