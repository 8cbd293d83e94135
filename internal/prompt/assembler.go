package prompt

import (
	"strings"

	"github.com/junaidjmomin/financial/internal/capture"
	"github.com/junaidjmomin/financial/internal/conversation"
)

// Roles used on the wire. Gemini requires "model" for assistant turns
// and requires the history to open with a user turn.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one role-tagged history entry of a Request.
type Message struct {
	Role string
	Text string
}

// Request is the provider-ready form of one send. It is built fresh
// per send and never reused.
type Request struct {
	SystemPrompt string
	History      []Message
	Message      string
}

// Document block wire format. This is a versioned prompt contract, not
// incidental formatting; changing it changes model behavior.
const (
	attachmentHeader = "I have attached the following documents for you to review:"
	delimiterLine    = "========================================"
)

// BuildRequest assembles the outgoing request from the prior turn log,
// the new user text, and any attached documents. priorTurns is the log
// as it stood before the current user turn was appended.
func BuildRequest(systemPrompt string, priorTurns []conversation.Turn, userText string, docs []capture.Document) Request {
	return Request{
		SystemPrompt: systemPrompt,
		History:      ProjectHistory(priorTurns),
		Message:      ComposeMessage(userText, docs),
	}
}

// ProjectHistory maps turns onto wire messages, preserving order. The
// first turn is always the seeded welcome message; it is dropped
// because the provider rejects a history that opens on a model turn.
func ProjectHistory(turns []conversation.Turn) []Message {
	if len(turns) <= 1 {
		return nil
	}

	history := make([]Message, 0, len(turns)-1)
	for _, turn := range turns[1:] {
		role := RoleModel
		if turn.Role == conversation.RoleUser {
			role = RoleUser
		}
		history = append(history, Message{Role: role, Text: turn.Text})
	}
	return history
}

// ComposeMessage returns the user text, with the document block
// appended when documents are attached. Payloads are inserted verbatim;
// no truncation or summarization happens here, so message size grows
// linearly with attached content.
func ComposeMessage(userText string, docs []capture.Document) string {
	if len(docs) == 0 {
		return userText
	}
	return userText + documentBlock(userText, docs)
}

// documentBlock renders the attachment section. Identical inputs must
// yield byte-identical output.
func documentBlock(userText string, docs []capture.Document) string {
	var b strings.Builder
	b.Grow(estimateBlockSize(userText, docs))

	b.WriteString("\n\n")
	b.WriteString(attachmentHeader)
	b.WriteString("\n")

	for _, doc := range docs {
		b.WriteString(delimiterLine)
		b.WriteString("\n")
		b.WriteString("FILE: ")
		b.WriteString(doc.Name)
		b.WriteString("\n")
		b.WriteString(delimiterLine)
		b.WriteString("\n\n")
		b.WriteString(doc.Payload)
		b.WriteString("\n\n")
	}

	b.WriteString(delimiterLine)
	b.WriteString("\n")
	b.WriteString("Please analyze the documents above, then answer my question: ")
	b.WriteString(userText)
	return b.String()
}

// estimateBlockSize pre-sizes the builder to avoid regrowth on large payloads.
func estimateBlockSize(userText string, docs []capture.Document) int {
	size := len(userText) + len(attachmentHeader) + 128
	for _, doc := range docs {
		size += len(doc.Name) + len(doc.Payload) + 3*len(delimiterLine) + 16
	}
	return size
}
