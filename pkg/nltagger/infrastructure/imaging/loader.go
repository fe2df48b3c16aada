package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	"kgeyst.com/nltagger/pkg/common"
	"kgeyst.com/nltagger/pkg/nltagger/domain"
)

// ConfigKeyImageMaxDimension images larger than this (in pixels, either side) are scaled down before being shown to
// the model; 0 disables scaling
const ConfigKeyImageMaxDimension = "imageMaxDimension"

const defaultMaxDimension = 1344

// Loader decodes PNG and JPEG files into opaque RGB images, applying EXIF orientation.
type Loader struct {
	maxDimension int
}

func NewLoader(config *common.Config) *Loader {
	return &Loader{
		maxDimension: config.GetIntOrDefault(ConfigKeyImageMaxDimension, defaultMaxDimension),
	}
}

func (l *Loader) Load(path string) (*domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	oriented := applyOrientation(decoded, getOrientation(data))
	pixels := toOpaqueRGBA(oriented)
	if l.maxDimension > 0 {
		pixels = downscale(pixels, l.maxDimension)
	}
	return &domain.Image{
		Path:   path,
		Pixels: pixels,
	}, nil
}

// Transparent areas end up white, which is what a person looking at the picture would usually see.
func toOpaqueRGBA(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst
}

func downscale(src *image.RGBA, maxDimension int) *image.RGBA {
	width := src.Bounds().Dx()
	height := src.Bounds().Dy()
	if width <= maxDimension && height <= maxDimension {
		return src
	}
	scale := float64(maxDimension) / float64(max(width, height))
	newWidth := max(1, min(maxDimension, int(float64(width)*scale)))
	newHeight := max(1, min(maxDimension, int(float64(height)*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
