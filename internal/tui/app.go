package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/junaidjmomin/financial/config"
	"github.com/junaidjmomin/financial/internal/capture"
	"github.com/junaidjmomin/financial/internal/chat"
)

// App represents the main TUI application using tview
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	session  *chat.Session
	capturer *capture.Capturer
	cfg      *config.Config

	// Views
	chatView        *ChatView
	attachmentsView *AttachmentsView
}

// NewApp creates a new TUI application around an existing session.
func NewApp(cfg *config.Config, session *chat.Session) *App {
	app := &App{
		session:  session,
		capturer: capture.NewCapturer(cfg.Limits.MaxDocumentBytes),
		cfg:      cfg,
	}

	app.app = tview.NewApplication()
	app.pages = tview.NewPages()

	app.chatView = NewChatView(app)
	app.attachmentsView = NewAttachmentsView(app)

	app.pages.AddPage("chat", app.chatView.GetPrimitive(), true, true)
	app.pages.AddPage("attachments", app.attachmentsView.GetPrimitive(), true, false)

	app.app.SetRoot(app.pages, true).SetFocus(app.pages)

	// Focus the message input whenever the chat page comes to front
	app.pages.SetChangedFunc(func() {
		name, _ := app.pages.GetFrontPage()
		if name == "chat" {
			app.app.SetFocus(app.chatView.input)
		}
	})

	app.setupGlobalKeys()

	return app
}

// setupGlobalKeys sets up global keyboard shortcuts
func (a *App) setupGlobalKeys() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			a.app.Stop()
			return nil
		case tcell.KeyCtrlD:
			a.pages.SwitchToPage("attachments")
			return nil
		case tcell.KeyEsc:
			name, _ := a.pages.GetFrontPage()
			if name == "chat" {
				a.app.Stop()
				return nil
			}
			a.pages.SwitchToPage("chat")
			return nil
		}
		return event
	})
}

// Run starts the TUI application
func (a *App) Run() error {
	return a.app.Run()
}
