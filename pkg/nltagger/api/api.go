package api

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"kgeyst.com/nltagger/pkg/common"
	"kgeyst.com/nltagger/pkg/nltagger/domain"
	"kgeyst.com/nltagger/pkg/nltagger/infrastructure/filesystem"
	"kgeyst.com/nltagger/pkg/nltagger/infrastructure/imaging"
	"kgeyst.com/nltagger/pkg/nltagger/infrastructure/llavacpp"
	"kgeyst.com/nltagger/pkg/nltagger/infrastructure/logging"
	"kgeyst.com/nltagger/pkg/nltagger/infrastructure/ollama"
)

// See domain/config.go
const (
	ConfigKeyLogPath = domain.ConfigKeyLogPath
	// ConfigKeyCaptionerBackend which model runtime captions the pictures: "ollama" (default) or "llavacpp"
	ConfigKeyCaptionerBackend = "captionerBackend"
)

const (
	BackendOllama   = "ollama"
	BackendLlavaCpp = "llavacpp"
)

type Snapshot = domain.Snapshot

const (
	DefaultTemperature = domain.DefaultTemperature
	MinTemperature     = domain.MinTemperature
	MaxTemperature     = domain.MaxTemperature
	CompletionMarker   = domain.CompletionMarker
)

type api struct {
	mutex          sync.Mutex
	batchCaptioner *domain.BatchCaptioner
}

// API is the entrypoint to the tagger. It shouldn't contain any logic of its own; it glues all the components
// together. It can be used from a browser, a console, an IRC chat etc.
type API interface {
	// DescribeImages captions every picture in `directory` and saves each caption as a .txt file next to its picture.
	// The returned sequence is lazy: every iteration performs a new run and yields the whole log after each picture,
	// then a final snapshot ending with CompletionMarker. Only one run is executed at a time; a second iteration
	// waits until the first one is over.
	DescribeImages(ctx context.Context, directory string, temperature float64) iter.Seq[Snapshot]
}

func NewAPI(config *common.Config) (API, error) {
	logger := common.NewFileLogger(config.GetStringOrDefault(ConfigKeyLogPath, "log.txt"))
	captioner, err := newCaptioner(config)
	if err != nil {
		return nil, err
	}
	return NewAPIWithCaptioner(logging.NewCaptionerDecorator(captioner, logger), config, logger), nil
}

// NewAPIWithCaptioner is like NewAPI, but with a custom model backend.
func NewAPIWithCaptioner(captioner domain.Captioner, config *common.Config, logger common.Logger) API {
	return &api{
		batchCaptioner: domain.NewBatchCaptioner(
			filesystem.NewFileSystem(),
			imaging.NewLoader(config),
			captioner,
			config,
			logger,
		),
	}
}

func newCaptioner(config *common.Config) (domain.Captioner, error) {
	backend := config.GetStringOrDefault(ConfigKeyCaptionerBackend, BackendOllama)
	switch backend {
	case BackendOllama:
		return ollama.NewCaptioner(config)
	case BackendLlavaCpp:
		return llavacpp.NewCaptioner(filesystem.NewTempFilePathProvider(config), config)
	default:
		return nil, fmt.Errorf("unknown captioner backend %q", backend)
	}
}

func (a *api) DescribeImages(ctx context.Context, directory string, temperature float64) iter.Seq[Snapshot] {
	run := a.batchCaptioner.Run(ctx, directory, temperature)
	return func(yield func(Snapshot) bool) {
		a.mutex.Lock()
		defer a.mutex.Unlock()
		for snapshot := range run {
			if !yield(snapshot) {
				return
			}
		}
	}
}
