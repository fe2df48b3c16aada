package domain

import (
	"errors"
	"fmt"
)

var ErrDirectoryNotFound = errors.New("image directory not found")

// TaskErrorKind tells apart failures of the model from everything else that can go wrong with a single image.
type TaskErrorKind int

const (
	// TaskErrorInference the image couldn't be loaded or the captioner failed
	TaskErrorInference = TaskErrorKind(iota)
	// TaskErrorUnexpected anything else, for example the caption couldn't be written
	TaskErrorUnexpected
)

// TaskError a per-file failure. It never stops a run; it ends up as a line in the ProcessingLog.
type TaskError struct {
	Kind     TaskErrorKind
	TaskName string
	Err      error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s: %v", e.TaskName, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}
