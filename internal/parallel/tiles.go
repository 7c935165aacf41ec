package parallel

import "image"

// DefaultTileSize is the tile edge used by the software renderer.
// A 64x64 gray tile is 4 KiB, small enough to stay in L1 while written.
const DefaultTileSize = 64

// SplitTiles cuts a width x height surface into tiles of at most tw x th
// pixels, in row-major order. Edge tiles are clipped to the surface, so the
// tiles cover every pixel exactly once.
//
// A non-positive tile size falls back to DefaultTileSize. A zero-area
// surface yields no tiles.
func SplitTiles(width, height, tw, th int) []image.Rectangle {
	if width <= 0 || height <= 0 {
		return nil
	}
	if tw <= 0 {
		tw = DefaultTileSize
	}
	if th <= 0 {
		th = DefaultTileSize
	}

	cols := (width + tw - 1) / tw
	rows := (height + th - 1) / th
	tiles := make([]image.Rectangle, 0, cols*rows)
	for y := 0; y < height; y += th {
		for x := 0; x < width; x += tw {
			tiles = append(tiles, image.Rect(x, y, min(x+tw, width), min(y+th, height)))
		}
	}
	return tiles
}
