package domain

import (
	"path/filepath"
	"sort"

	"kgeyst.com/nltagger/pkg/common"
)

// CaptionExtension the extension of caption files written next to images.
const CaptionExtension = ".txt"

// ImageTask a single image found during a scan.
type ImageTask struct {
	Path string
	Name string
}

func NewImageTask(directory, name string) ImageTask {
	return ImageTask{
		Path: filepath.Join(directory, name),
		Name: name,
	}
}

// CaptionName the file name of the caption written for this image: "cat.PNG" => "cat.txt".
func (t ImageTask) CaptionName() string {
	return common.ReplaceExtension(t.Name, CaptionExtension)
}

// CaptionPath the full path of the caption, in the same directory as the image.
func (t ImageTask) CaptionPath() string {
	return filepath.Join(filepath.Dir(t.Path), t.CaptionName())
}

// NewImageTasks keeps only image files among `fileNames` and sorts them by name so that runs are reproducible.
func NewImageTasks(directory string, fileNames []string) []ImageTask {
	var names []string
	for _, name := range fileNames {
		if common.IsImageFormat(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	tasks := make([]ImageTask, 0, len(names))
	for _, name := range names {
		tasks = append(tasks, NewImageTask(directory, name))
	}
	return tasks
}
