package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"our-recipes/domain"

	"github.com/gofiber/fiber/v2"
)

const maxImageRedirects = 5

// FetchBytes downloads url with the fiber client. Non-2xx answers are errors.
func FetchBytes(url string, timeout time.Duration) ([]byte, error) {
	agent := fiber.Get(url).
		Timeout(timeout).
		MaxRedirectsCount(maxImageRedirects)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrImageFetchFailed, errors.Join(errs...))
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrImageFetchFailed, url, code)
	}
	return body, nil
}

// ImageDownloader fetches remote recipe images with a bounded timeout.
type ImageDownloader struct {
	Timeout time.Duration
}

func (d ImageDownloader) FetchImage(_ context.Context, url string) ([]byte, error) {
	return FetchBytes(url, d.Timeout)
}
