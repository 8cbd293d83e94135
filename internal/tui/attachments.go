package tui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/junaidjmomin/financial/internal/capture"
)

// AttachmentsView manages documents pending for the next send.
type AttachmentsView struct {
	app   *App
	flex  *tview.Flex
	list  *tview.List
	info  *tview.TextView
	input *tview.InputField

	pending []capture.Document
}

// NewAttachmentsView creates the attachments view.
func NewAttachmentsView(app *App) *AttachmentsView {
	av := &AttachmentsView{app: app}

	av.list = tview.NewList().
		ShowSecondaryText(true).
		SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			av.showDocumentInfo(index)
		})
	av.list.SetBorder(true).SetTitle(" Attachments (next message) ")

	av.info = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true)
	av.info.SetBorder(true).SetTitle(" Info ")

	av.input = tview.NewInputField().
		SetLabel("Files: ").
		SetPlaceholder("paths, space-separated, Enter to attach")
	av.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			paths := strings.Fields(av.input.GetText())
			av.input.SetText("")
			av.app.app.SetFocus(av.list)
			if len(paths) > 0 {
				av.addFiles(paths)
			}
		}
	})

	av.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(
			tview.NewFlex().
				AddItem(av.list, 0, 2, true).
				AddItem(av.info, 0, 1, false),
			0, 1, true,
		).
		AddItem(av.input, 1, 0, false).
		AddItem(
			tview.NewTextView().
				SetText("[yellow]a[white]: Add | [yellow]d[white]: Remove | [yellow]c[white]: Clear | [yellow]Esc[white]: Back to chat").
				SetDynamicColors(true),
			1, 0, false,
		)

	av.list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'a', 'A':
			av.app.app.SetFocus(av.input)
			return nil
		case 'd', 'D':
			av.removeSelected()
			return nil
		case 'c', 'C':
			av.pending = nil
			av.refreshList()
			av.info.SetText("[yellow]All attachments cleared")
			return nil
		}
		return event
	})

	av.refreshList()

	return av
}

// GetPrimitive returns the tview primitive
func (av *AttachmentsView) GetPrimitive() tview.Primitive {
	return av.flex
}

// TakeAll hands the pending documents to a send and clears the list.
// Must be called from the UI goroutine.
func (av *AttachmentsView) TakeAll() []capture.Document {
	docs := av.pending
	av.pending = nil
	av.refreshList()
	return docs
}

// addFiles captures the given paths in one concurrent batch. Failed
// files are reported and logged; the rest are attached.
func (av *AttachmentsView) addFiles(paths []string) {
	av.info.SetText(fmt.Sprintf("[yellow]Reading %d file(s)...", len(paths)))

	go func() {
		result := av.app.capturer.CaptureAll(context.Background(), paths)
		for _, failure := range result.Failures {
			log.Printf("capture failed for %s: %v", failure.Name, failure.Err)
		}

		av.app.app.QueueUpdateDraw(func() {
			av.pending = append(av.pending, result.Documents...)
			av.refreshList()

			var parts []string
			if len(result.Documents) > 0 {
				parts = append(parts, fmt.Sprintf("[green]Attached: %d", len(result.Documents)))
			}
			for _, failure := range result.Failures {
				parts = append(parts, fmt.Sprintf("[red]%s: %v", failure.Name, failure.Err))
			}
			av.info.SetText(strings.Join(parts, "\n"))
		})
	}()
}

// removeSelected drops the selected pending document.
func (av *AttachmentsView) removeSelected() {
	selected := av.list.GetCurrentItem()
	if selected < 0 || selected >= len(av.pending) {
		return
	}
	av.pending = append(av.pending[:selected], av.pending[selected+1:]...)
	av.refreshList()
}

// refreshList redraws the pending document list.
func (av *AttachmentsView) refreshList() {
	av.list.Clear()
	for i, doc := range av.pending {
		mainText := fmt.Sprintf("%d. %s", i+1, doc.Name)
		secondaryText := fmt.Sprintf("%s | %d bytes", doc.Encoding, doc.SizeBytes)
		av.list.AddItem(mainText, secondaryText, 0, nil)
	}

	if len(av.pending) == 0 {
		av.info.SetText("[yellow]No attachments. Press 'a' to add files for your next message.")
	}
}

// showDocumentInfo displays details for the selected document.
func (av *AttachmentsView) showDocumentInfo(index int) {
	if index < 0 || index >= len(av.pending) {
		return
	}

	doc := av.pending[index]
	var infoText strings.Builder
	infoText.WriteString(fmt.Sprintf("[white]File: [yellow]%s[white]\n", doc.Name))
	infoText.WriteString(fmt.Sprintf("Size: [cyan]%d bytes[white]\n", doc.SizeBytes))
	infoText.WriteString(fmt.Sprintf("Encoding: [cyan]%s[white]\n", doc.Encoding))
	if doc.MediaTypeHint != "" {
		infoText.WriteString(fmt.Sprintf("Type: [gray]%s[white]\n", doc.MediaTypeHint))
	}
	av.info.SetText(infoText.String())
}
