package imageio

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Formats lists the output formats Save understands, by extension.
var Formats = []string{"webp", "png", "tga"}

// KnownFormat reports whether format is an output format Save can write.
func KnownFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Save encodes img to path, choosing the format from the extension.
// Parent directories are created.
func Save(path string, img image.Image) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !KnownFormat(ext) {
		return fmt.Errorf("imageio: unknown output format %q", ext)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("imageio: mkdir %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}

	switch ext {
	case "webp":
		err = nativewebp.Encode(f, img, nil)
	case "png":
		err = png.Encode(f, img)
	case "tga":
		err = tga.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}
	return nil
}
