package common

import (
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// IsImageFormat reports whether the file name ends with a supported image extension (case-insensitive).
func IsImageFormat(fileName string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(fileName))]
}

// ReplaceExtension swaps the extension of `fileName` for `newExtension` (which includes the leading dot).
// Leading dots don't start an extension: ".png" has none and becomes ".png.txt".
func ReplaceExtension(fileName, newExtension string) string {
	extension := filepath.Ext(fileName)
	if strings.Trim(strings.TrimSuffix(filepath.Base(fileName), extension), ".") == "" {
		extension = ""
	}
	return strings.TrimSuffix(fileName, extension) + newExtension
}
