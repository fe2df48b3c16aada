package domain

// FileSystem the part of the file system the batch captioner needs.
type FileSystem interface {
	// DirectoryExists returns true only if `path` exists and is a directory.
	DirectoryExists(path string) bool
	// ListFileNames returns the names (not paths) of all non-directory entries directly inside `directory`, symlinks included, in no particular order.
	ListFileNames(directory string) ([]string, error)
	// WriteTextFile writes `content` as UTF-8, replacing the file if it already exists.
	WriteTextFile(path, content string) error
}
