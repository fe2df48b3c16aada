package domain

import (
	"context"
	"errors"
	"image"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/nltagger/pkg/common"
)

const testDirectory = "/pictures"

type memoryFileSystem struct {
	directories map[string][]string
	written     map[string]string
	writeErrors map[string]error
}

func newMemoryFileSystem(directory string, fileNames ...string) *memoryFileSystem {
	return &memoryFileSystem{
		directories: map[string][]string{directory: fileNames},
		written:     make(map[string]string),
		writeErrors: make(map[string]error),
	}
}

func (m *memoryFileSystem) DirectoryExists(path string) bool {
	_, ok := m.directories[path]
	return ok
}

func (m *memoryFileSystem) ListFileNames(directory string) ([]string, error) {
	return m.directories[directory], nil
}

func (m *memoryFileSystem) WriteTextFile(path, content string) error {
	if err := m.writeErrors[path]; err != nil {
		return err
	}
	m.written[path] = content
	return nil
}

type fakeLoader struct{}

func (fakeLoader) Load(path string) (*Image, error) {
	return &Image{Path: path, Pixels: image.NewRGBA(image.Rect(0, 0, 1, 1))}, nil
}

type captionCall struct {
	name    string
	prompt  string
	options CaptionOptions
}

type fakeCaptioner struct {
	captions map[string]string
	failures map[string]error
	calls    []captionCall
}

func (f *fakeCaptioner) Caption(_ context.Context, image *Image, prompt string, options CaptionOptions) (string, error) {
	name := filepath.Base(image.Path)
	f.calls = append(f.calls, captionCall{name: name, prompt: prompt, options: options})
	if err := f.failures[name]; err != nil {
		return "", err
	}
	if name == "panic.png" {
		panic("out of VRAM")
	}
	return f.captions[name], nil
}

func newTestBatchCaptioner(fileSystem FileSystem, captioner Captioner) *BatchCaptioner {
	return NewBatchCaptioner(fileSystem, fakeLoader{}, captioner, common.NewConfig(nil), common.NewConsoleLogger(io.Discard))
}

func collect(seq func(func(Snapshot) bool)) []Snapshot {
	var result []Snapshot
	for snapshot := range seq {
		result = append(result, snapshot)
	}
	return result
}

func TestRunCaptionsImagesAndReportsFailures(t *testing.T) {
	fileSystem := newMemoryFileSystem(testDirectory, "b.jpg", "notes.txt", "a.png")
	captioner := &fakeCaptioner{
		captions: map[string]string{"a.png": "A cat on a table."},
		failures: map[string]error{"b.jpg": errors.New("model crashed")},
	}
	batchCaptioner := newTestBatchCaptioner(fileSystem, captioner)

	snapshots := collect(batchCaptioner.Run(context.Background(), testDirectory, 0.7))

	require.Len(t, snapshots, 3)
	assert.Equal(t, map[string]string{filepath.Join(testDirectory, "a.txt"): "A cat on a table."}, fileSystem.written)
	assert.Equal(t, "Processed a.png, saved description to a.txt\n", snapshots[0].Text)
	assert.Equal(t, "Processed a.png, saved description to a.txt\nFailed to process b.jpg: model crashed\n", snapshots[1].Text)
	final := snapshots[2]
	assert.True(t, final.Completed)
	assert.True(t, strings.HasSuffix(final.Text, "\n"+CompletionMarker))
	assert.Equal(t, snapshots[1].Text+"\n"+CompletionMarker, final.Text)
	assert.Equal(t, 2, final.Total)
	assert.Equal(t, 2, final.Processed)
	assert.Equal(t, 1, final.Succeeded)
	assert.Equal(t, 1, final.Failed)
	assert.NotContains(t, final.Text, "notes.txt")
}

func TestRunPassesPromptAndOptionsThrough(t *testing.T) {
	fileSystem := newMemoryFileSystem(testDirectory, "a.png")
	captioner := &fakeCaptioner{captions: map[string]string{"a.png": "x"}}
	batchCaptioner := newTestBatchCaptioner(fileSystem, captioner)

	collect(batchCaptioner.Run(context.Background(), testDirectory, 0.3))

	require.Len(t, captioner.calls, 1)
	assert.Equal(t, DefaultCaptionPrompt, captioner.calls[0].prompt)
	assert.Equal(t, CaptionOptions{TopK: 50, TopP: 0.9, Temperature: 0.3}, captioner.calls[0].options)
}

func TestRunIgnoresNonImagesAndMatchesExtensionsCaseInsensitively(t *testing.T) {
	fileSystem := newMemoryFileSystem(testDirectory, "A.PNG", "b.Jpeg", "c.gif", "d.txt", "e.jpg.bak", "f.JPG")
	captioner := &fakeCaptioner{}
	batchCaptioner := newTestBatchCaptioner(fileSystem, captioner)

	snapshots := collect(batchCaptioner.Run(context.Background(), testDirectory, 0.7))

	require.Len(t, snapshots, 4)
	var names []string
	for _, call := range captioner.calls {
		names = append(names, call.name)
	}
	assert.Equal(t, []string{"A.PNG", "b.Jpeg", "f.JPG"}, names)
	assert.Contains(t, fileSystem.written, filepath.Join(testDirectory, "A.txt"))
	assert.Contains(t, fileSystem.written, filepath.Join(testDirectory, "b.txt"))
	assert.Contains(t, fileSystem.written, filepath.Join(testDirectory, "f.txt"))
}

func TestRunWithMissingDirectoryProducesSingleLine(t *testing.T) {
	fileSystem := newMemoryFileSystem(testDirectory, "a.png")
	captioner := &fakeCaptioner{}
	batchCaptioner := newTestBatchCaptioner(fileSystem, captioner)

	snapshots := collect(batchCaptioner.Run(context.Background(), "/missing", 0.7))

	require.Len(t, snapshots, 1)
	assert.Equal(t, "Error: image directory \"/missing\" does not exist!\n", snapshots[0].Text)
	assert.True(t, snapshots[0].Completed)
	assert.Empty(t, captioner.calls)
	assert.Empty(t, fileSystem.written)
}

func TestRunWithInvalidTemperatureProducesSingleLine(t *testing.T) {
	fileSystem := newMemoryFileSystem(testDirectory, "a.png")
	captioner := &fakeCaptioner{}
	batchCaptioner := newTestBatchCaptioner(fileSystem, captioner)

	snapshots := collect(batchCaptioner.Run(context.Background(), testDirectory, 0))

	require.Len(t, snapshots, 1)
	assert.Equal(t, 1, strings.Count(snapshots[0].Text, "\n"))
	assert.Contains(t, snapshots[0].Text, "temperature")
	assert.Empty(t, captioner.calls)
}

func TestRunRecordsWriteFailureAsUnexpectedError(t *testing.T) {
	fileSystem := newMemoryFileSystem(testDirectory, "a.png", "b.png")
	fileSystem.writeErrors[filepath.Join(testDirectory, "a.txt")] = errors.New("disk full")
	captioner := &fakeCaptioner{captions: map[string]string{"a.png": "a", "b.png": "b"}}
	batchCaptioner := newTestBatchCaptioner(fileSystem, captioner)

	snapshots := collect(batchCaptioner.Run(context.Background(), testDirectory, 0.7))

	final := snapshots[len(snapshots)-1]
	assert.Contains(t, final.Text, "Error during processing a.png: disk full\n")
	assert.Contains(t, final.Text, "Processed b.png, saved description to b.txt\n")
	assert.Equal(t, 1, final.Succeeded)
	assert.Equal(t, 1, final.Failed)
	assert.Len(t, fileSystem.written, 1)
}

func TestRunSurvivesPanickingCaptioner(t *testing.T) {
	fileSystem := newMemoryFileSystem(testDirectory, "panic.png", "z.png")
	captioner := &fakeCaptioner{captions: map[string]string{"z.png": "z"}}
	batchCaptioner := newTestBatchCaptioner(fileSystem, captioner)

	snapshots := collect(batchCaptioner.Run(context.Background(), testDirectory, 0.7))

	require.Len(t, snapshots, 3)
	assert.Contains(t, snapshots[0].Text, "Failed to process panic.png: captioner panicked: out of VRAM")
	assert.Contains(t, snapshots[2].Text, "Processed z.png")
}

func TestRunIsRestartableWithFreshLog(t *testing.T) {
	fileSystem := newMemoryFileSystem(testDirectory, "a.png")
	captioner := &fakeCaptioner{captions: map[string]string{"a.png": "first"}}
	batchCaptioner := newTestBatchCaptioner(fileSystem, captioner)
	seq := batchCaptioner.Run(context.Background(), testDirectory, 0.7)

	first := collect(seq)
	captioner.captions["a.png"] = "second"
	second := collect(seq)

	assert.Equal(t, first[len(first)-1].Text, second[len(second)-1].Text)
	assert.Equal(t, 1, strings.Count(second[len(second)-1].Text, "Processed a.png"))
	assert.NotEqual(t, first[0].RunID, second[0].RunID)
	assert.Equal(t, "second", fileSystem.written[filepath.Join(testDirectory, "a.txt")])
}

func TestRunIsLazy(t *testing.T) {
	fileSystem := newMemoryFileSystem(testDirectory, "a.png", "b.png", "c.png")
	captioner := &fakeCaptioner{}
	batchCaptioner := newTestBatchCaptioner(fileSystem, captioner)

	seq := batchCaptioner.Run(context.Background(), testDirectory, 0.7)
	assert.Empty(t, captioner.calls)

	for snapshot := range seq {
		assert.Equal(t, 1, snapshot.Processed)
		break
	}
	assert.Len(t, captioner.calls, 1)
}

func TestRunStopsBetweenFilesWhenCancelled(t *testing.T) {
	fileSystem := newMemoryFileSystem(testDirectory, "a.png", "b.png", "c.png")
	captioner := &fakeCaptioner{}
	batchCaptioner := newTestBatchCaptioner(fileSystem, captioner)
	ctx, cancel := context.WithCancel(context.Background())

	var snapshots []Snapshot
	for snapshot := range batchCaptioner.Run(ctx, testDirectory, 0.7) {
		snapshots = append(snapshots, snapshot)
		cancel()
	}

	require.Len(t, snapshots, 2)
	assert.Len(t, captioner.calls, 1)
	final := snapshots[1]
	assert.True(t, final.Completed)
	assert.Contains(t, final.Text, "Run cancelled: 2 file(s) not processed\n")
	assert.True(t, strings.HasSuffix(final.Text, CompletionMarker))
}

func TestRunWithEmptyDirectoryOnlyCompletes(t *testing.T) {
	fileSystem := newMemoryFileSystem(testDirectory, "readme.md")
	batchCaptioner := newTestBatchCaptioner(fileSystem, &fakeCaptioner{})

	snapshots := collect(batchCaptioner.Run(context.Background(), testDirectory, 0.7))

	require.Len(t, snapshots, 1)
	assert.Equal(t, "\n"+CompletionMarker, snapshots[0].Text)
	assert.Equal(t, 0, snapshots[0].Total)
}
