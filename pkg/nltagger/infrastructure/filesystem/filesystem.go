package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// FileSystem implements domain.FileSystem on top of the OS file system.
type FileSystem struct{}

func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

func (f *FileSystem) DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (f *FileSystem) ListFileNames(directory string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if isDirectory(directory, entry) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Symlinks are followed; a broken link is still listed so that the run reports it.
func isDirectory(directory string, entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(filepath.Join(directory, entry.Name()))
	return err == nil && info.IsDir()
}

func (f *FileSystem) WriteTextFile(path, content string) error {
	// Models occasionally emit broken byte sequences; the caption must stay valid UTF-8.
	content = strings.ToValidUTF8(content, "\uFFFD")
	return os.WriteFile(path, []byte(content), 0644)
}
