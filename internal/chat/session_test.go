package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/junaidjmomin/financial/internal/capture"
	"github.com/junaidjmomin/financial/internal/conversation"
	"github.com/junaidjmomin/financial/internal/dispatch"
	"github.com/junaidjmomin/financial/internal/prompt"
)

// recordingGenerator captures the requests it receives and replies
// with a fixed script.
type recordingGenerator struct {
	requests []prompt.Request
	errs     []error
	reply    string
}

func (g *recordingGenerator) Generate(_ context.Context, req prompt.Request) (string, error) {
	g.requests = append(g.requests, req)
	if len(g.errs) > 0 {
		err := g.errs[0]
		g.errs = g.errs[1:]
		return "", err
	}
	return g.reply, nil
}

func newTestSession(gen dispatch.Generator) *Session {
	store := conversation.NewStore("Welcome! Ask me about your finances.")
	dispatcher := dispatch.NewDispatcher(gen, 2, time.Millisecond)
	return NewSession(store, dispatcher, "You are a financial advisor.")
}

func TestSendAppendsUserAndAssistantTurn(t *testing.T) {
	gen := &recordingGenerator{reply: "Your balance is $500."}
	s := newTestSession(gen)

	turn := s.Send(context.Background(), "What's my balance?", nil)

	turns := s.Store().Turns()
	if len(turns) != 3 {
		t.Fatalf("expected welcome + user + assistant, got %d turns", len(turns))
	}
	if turns[1].Role != conversation.RoleUser || turns[1].Text != "What's my balance?" {
		t.Errorf("unexpected user turn: %+v", turns[1])
	}
	if turn.Role != conversation.RoleAssistant || turn.Text != "Your balance is $500." {
		t.Errorf("unexpected assistant turn: %+v", turn)
	}
}

func TestSendExcludesWelcomeAndCurrentMessageFromHistory(t *testing.T) {
	gen := &recordingGenerator{reply: "ok"}
	s := newTestSession(gen)

	s.Send(context.Background(), "first", nil)
	s.Send(context.Background(), "second", nil)

	if len(gen.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(gen.requests))
	}

	// First send: only the welcome turn existed, so no history at all
	if len(gen.requests[0].History) != 0 {
		t.Errorf("first request should carry no history, got %v", gen.requests[0].History)
	}

	// Second send: history is first user turn + first reply, nothing else
	second := gen.requests[1]
	if len(second.History) != 2 {
		t.Fatalf("expected 2 history messages, got %d", len(second.History))
	}
	if second.History[0].Role != prompt.RoleUser || second.History[0].Text != "first" {
		t.Errorf("unexpected history[0]: %+v", second.History[0])
	}
	if second.History[1].Role != prompt.RoleModel || second.History[1].Text != "ok" {
		t.Errorf("unexpected history[1]: %+v", second.History[1])
	}
	if second.Message != "second" {
		t.Errorf("current message leaked into history or was altered: %q", second.Message)
	}
}

func TestSendInjectsAttachedDocuments(t *testing.T) {
	gen := &recordingGenerator{reply: "Your balance is $500."}
	s := newTestSession(gen)

	docs := []capture.Document{{
		Name:     "statement.txt",
		Encoding: capture.EncodingText,
		Payload:  "Balance: $500",
	}}
	s.Send(context.Background(), "What's my balance?", docs)

	msg := gen.requests[0].Message
	if !strings.Contains(msg, "FILE: statement.txt") || !strings.Contains(msg, "Balance: $500") {
		t.Errorf("document content missing from message:\n%s", msg)
	}

	// Documents are not retained: the next send carries none
	s.Send(context.Background(), "And now?", nil)
	if strings.Contains(gen.requests[1].Message, "statement.txt") {
		t.Error("previous send's documents leaked into the next request")
	}
}

func TestSendSurfacesUnauthorizedWithRemediation(t *testing.T) {
	gen := &recordingGenerator{
		errs: []error{&dispatch.Error{Kind: dispatch.KindUnauthorized, Err: errors.New("401")}},
	}
	s := newTestSession(gen)

	turn := s.Send(context.Background(), "What's my balance?", nil)

	if turn.Role != conversation.RoleAssistant {
		t.Fatalf("failure was not surfaced as an assistant turn: %+v", turn)
	}
	if !strings.Contains(turn.Text, "GEMINI_API_KEY") {
		t.Errorf("unauthorized message carries no remediation hint: %q", turn.Text)
	}
	if len(gen.requests) != 1 {
		t.Errorf("unauthorized failure was retried: %d attempts", len(gen.requests))
	}
}

func TestSendSurfacesRateLimitAfterRetries(t *testing.T) {
	limited := func() error {
		return &dispatch.Error{Kind: dispatch.KindRateLimited, Err: errors.New("429")}
	}
	gen := &recordingGenerator{errs: []error{limited(), limited(), limited()}}
	s := newTestSession(gen)

	turn := s.Send(context.Background(), "What's my balance?", nil)

	if len(gen.requests) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(gen.requests))
	}
	if !strings.Contains(turn.Text, "too many requests") {
		t.Errorf("unexpected rate-limit message: %q", turn.Text)
	}

	// The session stays usable after a failure
	gen.reply = "recovered"
	if next := s.Send(context.Background(), "retry please", nil); next.Text != "recovered" {
		t.Errorf("session unusable after failure: %q", next.Text)
	}
}

func TestSendAlwaysAppendsExactlyTwoTurns(t *testing.T) {
	gen := &recordingGenerator{
		errs: []error{&dispatch.Error{Kind: dispatch.KindUnavailable, Err: errors.New("500")}},
	}
	s := newTestSession(gen)

	before := s.Store().Len()
	s.Send(context.Background(), "hello", nil)
	if got := s.Store().Len() - before; got != 2 {
		t.Errorf("expected exactly 2 new turns, got %d", got)
	}
}
