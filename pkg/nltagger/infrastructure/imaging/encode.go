package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
)

const jpegQuality = 92

// EncodeJPEG serializes decoded pixels for backends which accept only encoded files.
func EncodeJPEG(pixels image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := jpeg.Encode(&buf, pixels, &jpeg.Options{Quality: jpegQuality})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJPEG is like EncodeJPEG, but saves the result to `path`.
func WriteJPEG(path string, pixels image.Image) error {
	data, err := EncodeJPEG(pixels)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
