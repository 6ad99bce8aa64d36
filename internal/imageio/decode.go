// Package imageio reads G-buffer planes from image files and writes display
// and debug output.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// decoders maps lowercase file extensions to decoders. Formats are chosen by
// extension rather than sniffed: the TGA decoder registers an empty magic
// string and would claim every file.
var decoders = map[string]func(io.Reader) (image.Image, error){
	"png":  png.Decode,
	"jpg":  jpeg.Decode,
	"jpeg": jpeg.Decode,
	"gif":  gif.Decode,
	"tga":  tga.Decode,
	"bmp":  bmp.Decode,
	"tif":  tiff.Decode,
	"tiff": tiff.Decode,
	"webp": webp.Decode,
}

// Decode reads a PNG, JPEG, GIF, TGA, BMP, TIFF or WebP file and returns the
// image and its format extension.
func Decode(path string) (image.Image, string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	dec, ok := decoders[ext]
	if !ok {
		return nil, "", fmt.Errorf("imageio: unknown input format %q: %s", ext, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := dec(f)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return img, ext, nil
}

// toNRGBA64 converts any image to non-premultiplied 16-bit RGBA with the
// origin moved to (0, 0).
func toNRGBA64(src image.Image) *image.NRGBA64 {
	b := src.Bounds()
	dst := image.NewNRGBA64(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch s := src.(type) {
	case *image.NRGBA64:
		for y := 0; y < b.Dy(); y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()*8], s.Pix[s.PixOffset(b.Min.X, b.Min.Y+y):])
		}
	case *image.NRGBA:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				si := s.PixOffset(b.Min.X+x, b.Min.Y+y)
				di := dst.PixOffset(x, y)
				for c := 0; c < 4; c++ {
					dst.Pix[di+c*2] = s.Pix[si+c]
					dst.Pix[di+c*2+1] = s.Pix[si+c]
				}
			}
		}
	case *image.YCbCr, *image.Gray, *image.Gray16:
		// No alpha
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBA64Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
				dst.SetNRGBA64(x, y, c)
			}
		}
	}
	return dst
}
