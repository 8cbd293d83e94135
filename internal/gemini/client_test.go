package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"

	"github.com/junaidjmomin/financial/internal/dispatch"
)

func TestClassifyByStatusCode(t *testing.T) {
	cases := []struct {
		code int
		want dispatch.Kind
	}{
		{429, dispatch.KindRateLimited},
		{401, dispatch.KindUnauthorized},
		{403, dispatch.KindUnauthorized},
		{500, dispatch.KindUnavailable},
		{503, dispatch.KindUnavailable},
	}
	for _, tc := range cases {
		err := fmt.Errorf("request failed: %w", &googleapi.Error{Code: tc.code, Message: "boom"})
		if got := classify(err); got != tc.want {
			t.Errorf("classify(code %d) = %s, want %s", tc.code, got, tc.want)
		}
	}
}

func TestClassifyByMessageText(t *testing.T) {
	cases := []struct {
		msg  string
		want dispatch.Kind
	}{
		{"rpc error: code = ResourceExhausted desc = quota exceeded", dispatch.KindRateLimited},
		{"googleapi: Error 429: rate limit", dispatch.KindRateLimited},
		{"API key not valid", dispatch.KindUnauthorized},
		{"rpc error: code = Unauthenticated", dispatch.KindUnauthorized},
		{"rpc error: code = PERMISSION_DENIED", dispatch.KindUnauthorized},
		{"connection reset by peer", dispatch.KindUnavailable},
	}
	for _, tc := range cases {
		if got := classify(errors.New(tc.msg)); got != tc.want {
			t.Errorf("classify(%q) = %s, want %s", tc.msg, got, tc.want)
		}
	}
}

func TestReplyTextEmptyCandidates(t *testing.T) {
	if _, ok := replyText(&genai.GenerateContentResponse{}); ok {
		t.Error("expected no text for empty candidate list")
	}

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: nil}},
	}
	if _, ok := replyText(resp); ok {
		t.Error("expected no text for nil content")
	}
}

func TestReplyTextJoinsTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []genai.Part{genai.Text("Your balance "), genai.Text("is $500.")},
			},
		}},
	}
	text, ok := replyText(resp)
	if !ok {
		t.Fatal("expected text")
	}
	if text != "Your balance is $500." {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	if _, err := NewClient(context.Background(), "gemini-1.5-flash"); err == nil {
		t.Fatal("expected error without an API key")
	}
}
