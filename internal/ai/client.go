package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"

	"simpletools/internal/types"
)

// DefaultModel is the chat-completion model used for version analysis.
// Version relationships are a simple classification task; the small
// model is sufficient and cheap.
const DefaultModel = "claude-3-5-haiku-20241022"

const (
	maxTokens      = 1024
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	requestTimeout = 30 * time.Second
	// maxConcurrentCalls caps in-flight API requests to avoid rate limits.
	maxConcurrentCalls = 3
)

// Client wraps the Anthropic API for duplicate-set version analysis.
type Client struct {
	client anthropic.Client
	model  string
	sem    *semaphore.Weighted
}

// ClientConfig holds the knobs for the API client.
type ClientConfig struct {
	APIKey string // If empty, reads ANTHROPIC_API_KEY
	Model  string // Defaults to DefaultModel
}

// NewClient creates an API client, or returns an error when no API key
// is available. Callers treat a missing key as "AI disabled", not fatal.
func NewClient(cfg ClientConfig) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured (set ANTHROPIC_API_KEY)")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		sem:    semaphore.NewWeighted(maxConcurrentCalls),
	}, nil
}

// modelAnswer is the JSON shape the prompt asks the model to return.
type modelAnswer struct {
	RecommendedPath string  `json:"recommended_path"`
	Confidence      float64 `json:"confidence"`
	Reason          string  `json:"reason"`
}

// refine sends the scored set to the model and returns its pick, after
// validating that the answer names an actual member.
func (c *Client) refine(ctx context.Context, versions []fileVersion, heuristic *types.Recommendation) (*types.Recommendation, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	prompt := buildPrompt(versions, heuristic)

	var response *anthropic.Message
	err := retryWithBackoff(ctx, func(attemptCtx context.Context) error {
		resp, apiErr := c.client.Messages.New(attemptCtx, anthropic.MessageNewParams{
			Model:     anthropic.Model(c.model),
			MaxTokens: maxTokens,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if apiErr != nil {
			return apiErr
		}
		response = resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var responseText strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			responseText.WriteString(block.Text)
		}
	}

	answer, err := parseAnswer(responseText.String())
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(versions))
	for i, v := range versions {
		paths[i] = v.path
	}
	if !slices.Contains(paths, answer.RecommendedPath) {
		return nil, fmt.Errorf("model recommended %q, not a set member", answer.RecommendedPath)
	}

	return &types.Recommendation{
		Path:       answer.RecommendedPath,
		Confidence: clamp01(answer.Confidence),
		Reason:     answer.Reason,
	}, nil
}

// buildPrompt renders the version-analysis prompt. The model sees file
// names, sizes are identical by construction so only mtimes and the
// heuristic pick are included.
func buildPrompt(versions []fileVersion, heuristic *types.Recommendation) string {
	var sb strings.Builder
	sb.WriteString("These files have byte-identical content. Decide which single file the user should KEEP, based on filename version conventions and modification times.\n\nFiles:\n")
	for _, v := range versions {
		fmt.Fprintf(&sb, "- path: %s\n  modified: %s\n", v.path, v.modTime.Format(time.RFC3339))
		if v.indicator != "" {
			fmt.Fprintf(&sb, "  version_marker: %s\n", v.indicator)
		}
	}
	fmt.Fprintf(&sb, "\nA heuristic pass suggests keeping %s.\n\n", heuristic.Path)
	sb.WriteString(`Respond with ONLY a JSON object, no prose:
{"recommended_path": "<one of the paths above, verbatim>", "confidence": <0.0-1.0>, "reason": "<one short sentence>"}`)
	return sb.String()
}

var codeFenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// parseAnswer parses the model response, tolerating markdown code fences
// around the JSON object.
func parseAnswer(text string) (*modelAnswer, error) {
	text = strings.TrimSpace(text)
	if m := codeFenceRegex.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	var answer modelAnswer
	if err := json.Unmarshal([]byte(text), &answer); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	if answer.RecommendedPath == "" {
		return nil, fmt.Errorf("model response missing recommended_path")
	}
	return &answer, nil
}

// retryWithBackoff runs fn with exponential backoff on failure. Each
// attempt gets its own timeout; the parent ctx bounds the whole sequence.
func retryWithBackoff(ctx context.Context, fn func(context.Context) error) error {
	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		attemptCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		lastErr = fn(attemptCtx)
		cancel()
		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("after %d attempts: %w", maxRetries+1, lastErr)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
