package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/junaidjmomin/financial/internal/dispatch"
	"github.com/junaidjmomin/financial/internal/prompt"
)

// Client wraps Gemini API interactions. It implements
// dispatch.Generator, returning classified errors so the dispatcher
// can decide what is retryable.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a new Gemini client. The API key is read from
// GEMINI_API_KEY or GOOGLE_API_KEY.
func NewClient(ctx context.Context, model string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY or GOOGLE_API_KEY")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	return c.client.Close()
}

// Generate sends one assembled request to Gemini and returns the reply
// text. Failures come back as *dispatch.Error.
func (c *Client) Generate(ctx context.Context, req prompt.Request) (string, error) {
	model := c.client.GenerativeModel(c.model)
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}

	chat := model.StartChat()
	if len(req.History) > 0 {
		history := make([]*genai.Content, 0, len(req.History))
		for _, msg := range req.History {
			history = append(history, &genai.Content{
				Role:  msg.Role,
				Parts: []genai.Part{genai.Text(msg.Text)},
			})
		}
		chat.History = history
	}

	resp, err := chat.SendMessage(ctx, genai.Text(req.Message))
	if err != nil {
		return "", &dispatch.Error{Kind: classify(err), Err: err}
	}

	text, ok := replyText(resp)
	if !ok {
		return "", &dispatch.Error{
			Kind: dispatch.KindMalformed,
			Err:  errors.New("gemini response contained no text"),
		}
	}
	return text, nil
}

// replyText extracts the text of the first candidate, if any.
func replyText(resp *genai.GenerateContentResponse) (string, bool) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// classify maps a provider error onto a dispatch kind. The API
// surfaces quota problems as HTTP 429 and credential problems as
// 401/403; the text match catches the same signals when the status
// code is missing.
func classify(err error) dispatch.Kind {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusTooManyRequests:
			return dispatch.KindRateLimited
		case http.StatusUnauthorized, http.StatusForbidden:
			return dispatch.KindUnauthorized
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "resource exhausted"):
		return dispatch.KindRateLimited
	case strings.Contains(msg, "api key"),
		strings.Contains(msg, "unauthenticated"),
		strings.Contains(msg, "permission_denied"),
		strings.Contains(msg, "permission denied"):
		return dispatch.KindUnauthorized
	}
	return dispatch.KindUnavailable
}
