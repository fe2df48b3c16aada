package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidCaptionOptions = errors.New("invalid caption options")

var DefaultCaptionOptions = CaptionOptions{
	TopK:        50,
	TopP:        0.9,
	Temperature: DefaultTemperature,
}

// CaptionOptions generation parameters passed to a Captioner as is.
type CaptionOptions struct {
	// TopK limits sampling to the K most likely tokens.
	TopK int
	// TopP limits sampling to the smallest set of tokens whose cumulative probability exceeds P.
	TopP float64
	// Temperature how creative the output is.
	Temperature float64
}

func (c CaptionOptions) WithTemperature(value float64) CaptionOptions {
	c.Temperature = value
	return c
}

// Validate checks top_k >= 1, top_p in (0, 1] and temperature > 0.
func (c CaptionOptions) Validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("%w: top_k must be at least 1, got %d", ErrInvalidCaptionOptions, c.TopK)
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return fmt.Errorf("%w: top_p must be in (0, 1], got %g", ErrInvalidCaptionOptions, c.TopP)
	}
	if c.Temperature <= 0 {
		return fmt.Errorf("%w: temperature must be positive, got %g", ErrInvalidCaptionOptions, c.Temperature)
	}
	return nil
}
