package preview

import (
	"hash/fnv"
	"image"
	"image/color"
)

// SwatchSize is the edge of generated icons
const SwatchSize = 64

// Swatch draws a rounded square whose color is derived from id. It stands in
// for items that ship no icon.
func Swatch(id string, size int) *image.RGBA {
	h := fnv.New32a()
	h.Write([]byte(id))
	sum := h.Sum32()
	fill := color.RGBA{R: 0x40 | uint8(sum), G: 0x40 | uint8(sum>>8), B: 0x40 | uint8(sum>>16), A: 0xff}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	radius := size / 5
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if insideRounded(x, y, size, radius) {
				img.SetRGBA(x, y, fill)
			}
		}
	}
	return img
}

// insideRounded reports whether pixel (x, y) lies in a size x size square
// with corners of the given radius
func insideRounded(x, y, size, radius int) bool {
	cx := min(max(x, radius), size-1-radius)
	cy := min(max(y, radius), size-1-radius)
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}

// WithSwatches returns icons extended by a swatch for every id it lacks
func WithSwatches(icons Icons, ids []string) Icons {
	out := make(Icons, len(ids))
	for id, img := range icons {
		out[id] = img
	}
	for _, id := range ids {
		if _, ok := out.Icon(id); !ok {
			out[id] = Swatch(id, SwatchSize)
		}
	}
	return out
}
