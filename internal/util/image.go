package util

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
)

// EncodeWebp decodes a gif, jpeg, png or webp image and writes it as lossy WebP.
func EncodeWebp(r io.Reader, w io.Writer, quality int) error {
	img, format, err := image.Decode(r)
	if err != nil {
		return errors.Wrap(err, "unable to decode image")
	}
	if quality <= 0 || quality > 100 {
		quality = 75
	}
	if err := webp.Encode(w, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return errors.Wrapf(err, "unable to encode %s image as webp", format)
	}
	return nil
}
