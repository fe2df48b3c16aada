package ollama

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"kgeyst.com/nltagger/pkg/common"
	"kgeyst.com/nltagger/pkg/nltagger/domain"
	"kgeyst.com/nltagger/pkg/nltagger/infrastructure/imaging"
)

const (
	// ConfigKeyOllamaHost the base URL of the Ollama server
	ConfigKeyOllamaHost = "ollamaHost"
	// ConfigKeyOllamaModel the vision model to use (must support images, for example "minicpm-v" or "llava")
	ConfigKeyOllamaModel = "ollamaModel"
	// ConfigKeyCaptionTimeout when to give up on a single picture, in milliseconds; 0 waits forever
	ConfigKeyCaptionTimeout = "captionTimeout"
)

var errEmptyResponse = errors.New("the model returned an empty response")

// Captioner describes pictures with a vision model served by Ollama.
type Captioner struct {
	client  *api.Client
	model   string
	timeout time.Duration
}

func NewCaptioner(config *common.Config) (*Captioner, error) {
	host, err := url.Parse(config.GetStringOrDefault(ConfigKeyOllamaHost, "http://127.0.0.1:11434"))
	if err != nil {
		return nil, err
	}
	return &Captioner{
		client:  api.NewClient(host, http.DefaultClient),
		model:   config.GetStringOrDefault(ConfigKeyOllamaModel, "minicpm-v"),
		timeout: config.GetDurationOrDefault(ConfigKeyCaptionTimeout, 0),
	}, nil
}

func (c *Captioner) Caption(ctx context.Context, image *domain.Image, prompt string, options domain.CaptionOptions) (string, error) {
	imageData, err := imaging.EncodeJPEG(image.Pixels)
	if err != nil {
		return "", err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	stream := false
	request := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: prompt,
				Images:  []api.ImageData{imageData},
			},
		},
		Stream: &stream,
		Options: map[string]any{
			"top_k":       options.TopK,
			"top_p":       options.TopP,
			"temperature": options.Temperature,
		},
	}
	var response strings.Builder
	err = c.client.Chat(ctx, request, func(chatResponse api.ChatResponse) error {
		response.WriteString(chatResponse.Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	caption := strings.TrimSpace(response.String())
	if caption == "" {
		return "", errEmptyResponse
	}
	return caption, nil
}
