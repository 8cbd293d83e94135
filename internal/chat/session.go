package chat

import (
	"context"

	"github.com/junaidjmomin/financial/internal/capture"
	"github.com/junaidjmomin/financial/internal/conversation"
	"github.com/junaidjmomin/financial/internal/dispatch"
	"github.com/junaidjmomin/financial/internal/prompt"
)

// Session ties one conversation log to a dispatcher. Every Send leaves
// the log with exactly one new user turn and one new assistant turn,
// whatever happens on the wire.
type Session struct {
	store        *conversation.Store
	dispatcher   *dispatch.Dispatcher
	systemPrompt string
}

// NewSession creates a session over the given store and dispatcher.
func NewSession(store *conversation.Store, dispatcher *dispatch.Dispatcher, systemPrompt string) *Session {
	return &Session{
		store:        store,
		dispatcher:   dispatcher,
		systemPrompt: systemPrompt,
	}
}

// Store exposes the conversation log for the UI.
func (s *Session) Store() *conversation.Store {
	return s.store
}

// Send delivers one user message with optional attachments and returns
// the assistant turn that was appended: the model's reply, or a
// human-readable explanation of the failure. Errors never escape Send.
//
// Attachments belong to this send only; history carries just the turn
// text, so documents are not re-sent on later turns.
func (s *Session) Send(ctx context.Context, text string, docs []capture.Document) conversation.Turn {
	// Snapshot before appending so the new text travels only in the
	// request message, not doubled into history.
	prior := s.store.Turns()
	s.store.Append(conversation.RoleUser, text)

	req := prompt.BuildRequest(s.systemPrompt, prior, text, docs)

	reply, err := s.dispatcher.Dispatch(ctx, req)
	if err != nil {
		return s.store.Append(conversation.RoleAssistant, failureText(err))
	}
	return s.store.Append(conversation.RoleAssistant, reply)
}

// failureText renders a classified dispatch failure as a conversation
// turn the user can act on.
func failureText(err error) string {
	switch dispatch.KindOf(err) {
	case dispatch.KindRateLimited:
		return "I'm receiving too many requests right now. Please wait a moment and try again."
	case dispatch.KindUnauthorized:
		return "I couldn't authenticate with the model service. Please check that GEMINI_API_KEY is set to a valid key and restart."
	case dispatch.KindMalformed:
		return "The model service returned an unexpected response. Please try asking again."
	default:
		return "The model service is currently unavailable. Please try again shortly."
	}
}
