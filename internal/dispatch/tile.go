// Package dispatch runs per-pixel passes over a 2D grid, one task per tile.
package dispatch

// DefaultGroupSize matches an 8×8 compute shader workgroup.
const DefaultGroupSize = 8

// Tile is a half-open pixel rectangle [X0, X1) × [Y0, Y1).
type Tile struct {
	X0, Y0, X1, Y1 int
}

// Pixels returns the number of pixels in the tile.
func (t Tile) Pixels() int {
	return (t.X1 - t.X0) * (t.Y1 - t.Y0)
}

// Tiles splits a w×h grid into group×group tiles in row-major order.
// Edge tiles are cropped so every pixel is covered exactly once.
func Tiles(w, h, group int) []Tile {
	if w <= 0 || h <= 0 {
		return nil
	}
	if group <= 0 {
		group = DefaultGroupSize
	}
	nx := (w + group - 1) / group
	ny := (h + group - 1) / group
	tiles := make([]Tile, 0, nx*ny)
	for y := 0; y < h; y += group {
		for x := 0; x < w; x += group {
			tiles = append(tiles, Tile{
				X0: x,
				Y0: y,
				X1: min(x+group, w),
				Y1: min(y+group, h),
			})
		}
	}
	return tiles
}
