package domain

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"

	"kgeyst.com/nltagger/pkg/common"
)

const (
	directoryNotFoundFormat = "Error: image directory %q does not exist!"
	listFailedFormat        = "Error: cannot list image directory %q: %v"
	invalidOptionsFormat    = "Error: %v"
	processedFormat         = "Processed %s, saved description to %s"
	failedFormat            = "Failed to process %s: %v"
	unexpectedErrorFormat   = "Error during processing %s: %v"
	runCancelledFormat      = "Run cancelled: %d file(s) not processed"
	// CompletionMarker the last line of every run which got past the preconditions.
	CompletionMarker = "Image captioning completed!"
)

// BatchCaptioner captions every image in a directory, one after another, writing each caption next to its image.
type BatchCaptioner struct {
	fileSystem  FileSystem
	imageLoader ImageLoader
	captioner   Captioner
	logger      common.Logger
	prompt      string
	options     CaptionOptions
}

func NewBatchCaptioner(
	fileSystem FileSystem,
	imageLoader ImageLoader,
	captioner Captioner,
	config *common.Config,
	logger common.Logger,
) *BatchCaptioner {
	return &BatchCaptioner{
		fileSystem:  fileSystem,
		imageLoader: imageLoader,
		captioner:   captioner,
		logger:      logger,
		prompt:      config.GetStringOrDefault(ConfigKeyCaptionPrompt, DefaultCaptionPrompt),
		options: CaptionOptions{
			TopK:        config.GetIntOrDefault(ConfigKeyCaptionTopK, DefaultCaptionOptions.TopK),
			TopP:        config.GetFloatOrDefault(ConfigKeyCaptionTopP, DefaultCaptionOptions.TopP),
			Temperature: DefaultCaptionOptions.Temperature,
		},
	}
}

// Run returns a lazy sequence of snapshots: one after every image (whether it succeeded or failed) and a final one
// which ends with CompletionMarker. Nothing happens until the sequence is iterated, and every iteration is a new run
// with an empty log. The run waits for the consumer between images; if the consumer stops iterating, the remaining
// images are left alone.
//
// A missing directory or invalid options produce a single snapshot with a single error line. Per-image failures
// never stop the run. `ctx` is checked between images.
func (b *BatchCaptioner) Run(ctx context.Context, directory string, temperature float64) iter.Seq[Snapshot] {
	options := b.options.WithTemperature(temperature)
	return func(yield func(Snapshot) bool) {
		b.run(ctx, directory, options, yield)
	}
}

type runState struct {
	id        string
	log       ProcessingLog
	processed int
	total     int
	succeeded int
	failed    int
}

func (r *runState) snapshot() Snapshot {
	return Snapshot{
		RunID:     r.id,
		Text:      r.log.String(),
		Processed: r.processed,
		Total:     r.total,
		Succeeded: r.succeeded,
		Failed:    r.failed,
	}
}

func (r *runState) finalSnapshot() Snapshot {
	result := r.snapshot()
	result.Text += "\n" + CompletionMarker
	result.Completed = true
	return result
}

func (r *runState) abortedSnapshot(line string) Snapshot {
	r.log.Append(line)
	result := r.snapshot()
	result.Completed = true
	return result
}

func (b *BatchCaptioner) run(ctx context.Context, directory string, options CaptionOptions, yield func(Snapshot) bool) {
	state := &runState{id: uuid.NewString()}
	err := options.Validate()
	if err != nil {
		b.logger.LogError("run rejected", err)
		yield(state.abortedSnapshot(fmt.Sprintf(invalidOptionsFormat, err)))
		return
	}
	if !b.fileSystem.DirectoryExists(directory) {
		b.logger.LogError("run rejected", fmt.Errorf("%w: %s", ErrDirectoryNotFound, directory))
		yield(state.abortedSnapshot(fmt.Sprintf(directoryNotFoundFormat, directory)))
		return
	}
	fileNames, err := b.fileSystem.ListFileNames(directory)
	if err != nil {
		b.logger.LogError("run rejected", err)
		yield(state.abortedSnapshot(fmt.Sprintf(listFailedFormat, directory, err)))
		return
	}
	tasks := NewImageTasks(directory, fileNames)
	state.total = len(tasks)
	b.logger.LogFields("run started", common.Fields{
		"runId":       state.id,
		"directory":   directory,
		"images":      state.total,
		"temperature": options.Temperature,
	})
	for i, task := range tasks {
		if ctx.Err() != nil {
			state.log.Append(fmt.Sprintf(runCancelledFormat, len(tasks)-i))
			b.logger.LogFields("run cancelled", common.Fields{"runId": state.id, "remaining": len(tasks) - i})
			break
		}
		b.processTask(ctx, task, options, state)
		if !yield(state.snapshot()) {
			b.logger.LogFields("run abandoned by consumer", common.Fields{"runId": state.id})
			return
		}
	}
	b.logger.LogFields("run completed", common.Fields{
		"runId":     state.id,
		"succeeded": state.succeeded,
		"failed":    state.failed,
	})
	yield(state.finalSnapshot())
}

func (b *BatchCaptioner) processTask(ctx context.Context, task ImageTask, options CaptionOptions, state *runState) {
	err := b.captionTask(ctx, task, options)
	state.processed++
	if err != nil {
		state.failed++
		state.log.Append(formatTaskError(task, err))
		b.logger.LogError("failed to caption "+task.Path, err)
		return
	}
	state.succeeded++
	state.log.Append(fmt.Sprintf(processedFormat, task.Name, task.CaptionName()))
}

func (b *BatchCaptioner) captionTask(ctx context.Context, task ImageTask, options CaptionOptions) error {
	caption, err := b.inferCaption(ctx, task, options)
	if err != nil {
		return &TaskError{Kind: TaskErrorInference, TaskName: task.Name, Err: err}
	}
	err = b.fileSystem.WriteTextFile(task.CaptionPath(), caption)
	if err != nil {
		return &TaskError{Kind: TaskErrorUnexpected, TaskName: task.Name, Err: err}
	}
	return nil
}

// Panics in the loader or the captioner become ordinary per-image failures.
func (b *BatchCaptioner) inferCaption(ctx context.Context, task ImageTask, options CaptionOptions) (caption string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("captioner panicked: %v", r)
		}
	}()
	image, err := b.imageLoader.Load(task.Path)
	if err != nil {
		return "", err
	}
	return b.captioner.Caption(ctx, image, b.prompt, options)
}

func formatTaskError(task ImageTask, err error) string {
	var taskErr *TaskError
	if errors.As(err, &taskErr) && taskErr.Kind == TaskErrorInference {
		return fmt.Sprintf(failedFormat, task.Name, taskErr.Err)
	}
	if taskErr != nil {
		err = taskErr.Err
	}
	return fmt.Sprintf(unexpectedErrorFormat, task.Name, err)
}
