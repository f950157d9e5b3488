// Package classifier asks a Gemini model which catalog category a recipe
// belongs to.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"our-recipes/domain"

	"google.golang.org/genai"
)

const (
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 30 * time.Second
)

var ErrMissingAPIKey = errors.New("gemini API key is required")

type (
	Classifier interface {
		Classify(ctx context.Context, title string, ingredients []string) (string, error)
	}

	Config struct {
		APIKey  string
		Model   string
		BaseURL string
		Timeout time.Duration
	}

	classifier struct {
		client  *genai.Client
		model   string
		timeout time.Duration
	}
)

func NewClassifier(ctx context.Context, cfg Config) (Classifier, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &classifier{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

func (c *classifier) Classify(ctx context.Context, title string, ingredients []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(Prompt(title, ingredients)),
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrClassifyFailed, err)
	}

	category := ParseCategory(resp.Text())
	if category == "" {
		return "", fmt.Errorf("%w: empty response from %s", domain.ErrClassifyFailed, c.model)
	}
	return category, nil
}

// Prompt builds the one-word classification question for a recipe.
func Prompt(title string, ingredients []string) string {
	var b strings.Builder
	b.WriteString("Based on the recipe below, is this a vegetarian, pescatarian, starter or dessert recipe?\n")
	b.WriteString("Output ONE WORD ONLY!\n\n")
	if title != "" {
		b.WriteString("Title: ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	b.WriteString("Ingredients: ")
	b.WriteString(strings.Join(ingredients, ", "))
	b.WriteString("\n")
	return b.String()
}

// ParseCategory keeps the last non-empty line of the model output and
// capitalizes it: first letter upper case, the rest lower case.
func ParseCategory(raw string) string {
	lines := strings.Split(strings.TrimSpace(raw), "\n")

	var answer string
	for i := len(lines) - 1; i >= 0; i-- {
		answer = strings.Trim(lines[i], " \t\r.!*\"'`")
		if answer != "" {
			break
		}
	}
	if answer == "" {
		return ""
	}

	first, size := utf8.DecodeRuneInString(answer)
	return string(unicode.ToUpper(first)) + strings.ToLower(answer[size:])
}
