package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/nltagger/pkg/common"
)

func TestDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	fileSystem := NewFileSystem()

	assert.True(t, fileSystem.DirectoryExists(dir))
	assert.False(t, fileSystem.DirectoryExists(file))
	assert.False(t, fileSystem.DirectoryExists(filepath.Join(dir, "missing")))
}

func TestListFileNamesSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "album.jpg"), 0755))

	names, err := NewFileSystem().ListFileNames(dir)

	require.NoError(t, err)
	sort.Strings(names)
	assert.Equal(t, []string{"a.png", "notes.txt"}, names)
}

func TestListFileNamesFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "pictures")
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "real.png"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "album"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain.png"), []byte("x"), 0644))
	if err := os.Symlink(filepath.Join(root, "real.png"), filepath.Join(dir, "linked.png")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "album"), filepath.Join(dir, "linked-album.jpg")))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.png"), filepath.Join(dir, "dangling.png")))

	names, err := NewFileSystem().ListFileNames(dir)

	require.NoError(t, err)
	sort.Strings(names)
	assert.Equal(t, []string{"dangling.png", "linked.png", "plain.png"}, names)
}

func TestWriteTextFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	fileSystem := NewFileSystem()

	require.NoError(t, fileSystem.WriteTextFile(path, "a much longer first caption"))
	require.NoError(t, fileSystem.WriteTextFile(path, "Кошка на столе."))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Кошка на столе.", string(data))
}

func TestWriteTextFileRepairsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")

	require.NoError(t, NewFileSystem().WriteTextFile(path, "cat\xff"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cat�", string(data))
}

func TestTempFilePathProvider(t *testing.T) {
	provider := NewTempFilePathProvider(common.NewConfig(map[string]any{ConfigKeyTempDirectoryPath: "/scratch"}))

	assert.Equal(t, filepath.Join("/scratch", "x.jpg"), provider.GetTempFilePath("x.jpg"))
}
