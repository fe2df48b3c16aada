package llavacpp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kgeyst.com/nltagger/pkg/common"
	"kgeyst.com/nltagger/pkg/nltagger/domain"
	"kgeyst.com/nltagger/pkg/nltagger/infrastructure/imaging"
)

const (
	// ConfigKeyBinaryPath path to the llava.cpp executable
	ConfigKeyBinaryPath = "llavaBinaryPath"
	// ConfigKeyModelPath path to the language model weights
	ConfigKeyModelPath = "llavaModelPath"
	// ConfigKeyProjectorPath path to the multimodal projector weights
	ConfigKeyProjectorPath = "llavaProjectorPath"
	// ConfigKeyCaptionTimeout when to kill the process if it takes too long, in milliseconds; 0 waits forever
	ConfigKeyCaptionTimeout = "captionTimeout"
)

type TempFilePathProvider interface {
	GetTempFilePath(fileName string) string
}

// Captioner runs the llava.cpp binary once per picture.
type Captioner struct {
	// Only 1 picture can be processed at a time because commodity GPUs usually can't hold two models in VRAM.
	mutex                sync.Mutex
	tempFilePathProvider TempFilePathProvider
	binaryPath           string
	modelPath            string
	projectorPath        string
	timeout              time.Duration
}

func NewCaptioner(tempFilePathProvider TempFilePathProvider, config *common.Config) (*Captioner, error) {
	workingDirectory, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return &Captioner{
		tempFilePathProvider: tempFilePathProvider,
		binaryPath:           config.GetStringOrDefault(ConfigKeyBinaryPath, filepath.Join(workingDirectory, "llava.cpp")),
		modelPath:            config.GetStringOrDefault(ConfigKeyModelPath, filepath.Join(workingDirectory, "llava.bin")),
		projectorPath:        config.GetStringOrDefault(ConfigKeyProjectorPath, filepath.Join(workingDirectory, "llava-proj.bin")),
		timeout:              config.GetDurationOrDefault(ConfigKeyCaptionTimeout, 0),
	}, nil
}

func (c *Captioner) Caption(ctx context.Context, image *domain.Image, prompt string, options domain.CaptionOptions) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	// llava.cpp reads pictures from disk, so the normalized pixels go to a temporary JPEG first.
	imagePath := c.tempFilePathProvider.GetTempFilePath("nltagger_" + uuid.NewString() + ".jpg")
	err := imaging.WriteJPEG(imagePath, image.Pixels)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = os.Remove(imagePath)
	}()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, c.binaryPath, c.buildArgs(imagePath, prompt, options)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()
	if err != nil {
		return "", fmt.Errorf("llava.cpp failed: %w (%s)", err, lastLine(stderr.String()))
	}
	return removeGarbage(stdout.String()), nil
}

func (c *Captioner) buildArgs(imagePath, prompt string, options domain.CaptionOptions) []string {
	return []string{
		"-m", c.modelPath,
		"--mmproj", c.projectorPath,
		"--image", imagePath,
		"--temp", strconv.FormatFloat(options.Temperature, 'f', -1, 64),
		"--top-k", strconv.Itoa(options.TopK),
		"--top-p", strconv.FormatFloat(options.TopP, 'f', -1, 64),
		"-p", prompt,
	}
}

// llava.cpp prints model loading diagnostics before the answer; everything up to the last of them is cut off.
func removeGarbage(result string) string {
	const anchor = "per image patch)"
	hackIndex := strings.LastIndex(result, anchor)
	if hackIndex != -1 {
		result = result[hackIndex+len(anchor):]
	}
	return strings.TrimSpace(result)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	index := strings.LastIndex(s, "\n")
	if index != -1 {
		s = s[index+1:]
	}
	return s
}
