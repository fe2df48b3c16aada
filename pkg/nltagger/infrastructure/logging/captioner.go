package logging

import (
	"context"
	"time"

	"kgeyst.com/nltagger/pkg/common"
	"kgeyst.com/nltagger/pkg/nltagger/domain"
)

type captionerDecorator struct {
	wrappedCaptioner domain.Captioner
	logger           common.Logger
}

func NewCaptionerDecorator(wrappedCaptioner domain.Captioner, logger common.Logger) domain.Captioner {
	return &captionerDecorator{
		wrappedCaptioner: wrappedCaptioner,
		logger:           logger,
	}
}

func (c *captionerDecorator) Caption(ctx context.Context, image *domain.Image, prompt string, options domain.CaptionOptions) (string, error) {
	c.logger.LogFields("caption requested", common.Fields{
		"image":       image.Path,
		"prompt":      prompt,
		"temperature": options.Temperature,
	})
	t := time.Now()
	caption, err := c.wrappedCaptioner.Caption(ctx, image, prompt, options)
	if err != nil {
		c.logger.LogError("caption failed for "+image.Path, err)
		return "", err
	}
	c.logger.LogFields("caption received", common.Fields{
		"image":   image.Path,
		"caption": caption,
		"tookMs":  time.Since(t).Milliseconds(),
	})
	return caption, nil
}
