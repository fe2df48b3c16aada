package domain

import (
	"context"
	"image"
)

// Image a picture decoded into RGB pixel data, ready to be shown to a multimodal model.
type Image struct {
	// Path where the picture was loaded from.
	Path string
	// Pixels are always fully opaque; the alpha channel carries no information.
	Pixels *image.RGBA
}

// ImageLoader decodes an image file on disk into an Image.
type ImageLoader interface {
	Load(path string) (*Image, error)
}

// Captioner a generic interface for a pretrained multimodal model which can describe a picture in natural language.
// Model loading and inference are entirely up to the implementation; a Captioner is constructed once and reused
// across runs.
type Captioner interface {
	// Caption asks the model `prompt` about `image`. A non-nil error means no caption was produced.
	Caption(ctx context.Context, image *Image, prompt string, options CaptionOptions) (string, error)
}
