package imaging

import (
	"bytes"
	"image"

	"github.com/rwcarlsen/goexif/exif"
)

// getOrientation reads the EXIF orientation tag; 1 (as is) when there is none.
func getOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation turns the image upright. Orientations 5-8 swap width and height.
func applyOrientation(src image.Image, orientation int) image.Image {
	if orientation < 2 || orientation > 8 {
		return src
	}
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	dstWidth, dstHeight := width, height
	if orientation >= 5 {
		dstWidth, dstHeight = height, width
	}
	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := orientedPoint(orientation, x, y, width, height)
			dst.Set(dx, dy, src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return dst
}

func orientedPoint(orientation, x, y, width, height int) (int, int) {
	switch orientation {
	case 2: // flip horizontal
		return width - 1 - x, y
	case 3: // rotate 180
		return width - 1 - x, height - 1 - y
	case 4: // flip vertical
		return x, height - 1 - y
	case 5: // transpose
		return y, x
	case 6: // rotate 90 clockwise
		return height - 1 - y, x
	case 7: // transverse
		return height - 1 - y, width - 1 - x
	default: // 8: rotate 90 counter-clockwise
		return y, width - 1 - x
	}
}
