package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/junaidjmomin/financial/internal/capture"
	"github.com/junaidjmomin/financial/internal/conversation"
)

// ChatView handles the chat interface using tview
type ChatView struct {
	app      *App
	flex     *tview.Flex
	messages *tview.TextView
	status   *tview.TextView
	input    *tview.TextArea

	loading bool
}

// NewChatView creates a new chat view
func NewChatView(app *App) *ChatView {
	cv := &ChatView{app: app}

	cv.messages = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetScrollable(true)
	cv.messages.SetBorder(true).SetTitle(" Financial Advisor ")

	cv.status = tview.NewTextView().
		SetDynamicColors(true).
		SetText("[gray]Ctrl+Enter: send | Ctrl+D: attachments | Esc: quit")

	cv.input = tview.NewTextArea().
		SetPlaceholder("Ask about your finances... (Ctrl+Enter to send)").
		SetWrap(true)

	cv.input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEnter && event.Modifiers()&tcell.ModCtrl != 0 {
			cv.sendMessage()
			return nil
		}
		return event
	})

	cv.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(cv.messages, 0, 1, false).
		AddItem(cv.input, 3, 0, true).
		AddItem(cv.status, 1, 0, false)

	cv.renderMessages()

	return cv
}

// GetPrimitive returns the tview primitive
func (cv *ChatView) GetPrimitive() tview.Primitive {
	return cv.flex
}

// sendMessage sends the composed message with any pending attachments.
// Sends are disabled while one is in flight.
func (cv *ChatView) sendMessage() {
	userMsg := strings.TrimSpace(cv.input.GetText())
	if userMsg == "" || cv.loading {
		return
	}

	cv.input.SetText("", false)
	cv.loading = true

	// Pending attachments belong to this send only
	docs := cv.app.attachmentsView.TakeAll()

	if len(docs) > 0 {
		cv.status.SetText(fmt.Sprintf("[yellow]Thinking... (%d attachment(s))", len(docs)))
	} else {
		cv.status.SetText("[yellow]Thinking...")
	}
	cv.renderMessages()

	go cv.generateResponse(userMsg, docs)
}

// generateResponse runs one send off the UI goroutine.
func (cv *ChatView) generateResponse(userMsg string, docs []capture.Document) {
	cv.app.session.Send(context.Background(), userMsg, docs)

	cv.app.app.QueueUpdateDraw(func() {
		cv.loading = false
		cv.status.SetText("[gray]Ctrl+Enter: send | Ctrl+D: attachments | Esc: quit")
		cv.renderMessages()
	})
}

// renderMessages redraws the conversation log.
func (cv *ChatView) renderMessages() {
	var lines []string
	for _, turn := range cv.app.session.Store().Turns() {
		if turn.Role == conversation.RoleUser {
			lines = append(lines, fmt.Sprintf("[cyan]You: %s[white]", tview.Escape(turn.Text)))
		} else {
			lines = append(lines, fmt.Sprintf("[white]Advisor: %s[white]", formatMarkdown(turn.Text)))
		}
		lines = append(lines, "")
	}
	if cv.loading {
		lines = append(lines, "[yellow]Advisor is thinking...")
	}
	cv.messages.SetText(strings.Join(lines, "\n"))
	cv.messages.ScrollToEnd()
}

// formatMarkdown converts the markdown Gemini tends to emit into tview
// color tags: headers and bullets highlighted, **bold** in yellow.
func formatMarkdown(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "# "), strings.HasPrefix(trimmed, "## "), strings.HasPrefix(trimmed, "### "):
			header := strings.TrimLeft(trimmed, "# ")
			out = append(out, fmt.Sprintf("[yellow]%s[white]", tview.Escape(header)))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			bullet := strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
			out = append(out, fmt.Sprintf("  [gray]-[white] %s", formatBold(bullet)))
		default:
			out = append(out, formatBold(line))
		}
	}
	return strings.Join(out, "\n")
}

// formatBold rewrites **bold** spans as yellow tview tags.
func formatBold(text string) string {
	text = tview.Escape(text)
	var b strings.Builder
	open := false
	for i := 0; i < len(text); i++ {
		if i+1 < len(text) && text[i] == '*' && text[i+1] == '*' {
			if open {
				b.WriteString("[white]")
			} else {
				b.WriteString("[yellow]")
			}
			open = !open
			i++
			continue
		}
		b.WriteByte(text[i])
	}
	if open {
		b.WriteString("[white]")
	}
	return b.String()
}
