package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrNoProgram = errors.New("dialog is not attached to a program")

// DialogMsg asks the root model to show a dialog. The answer goes to Reply,
// which is buffered so answering never blocks the UI.
type DialogMsg struct {
	Title   string
	Message string
	Confirm bool
	Reply   chan<- bool
}

// Dialog shows messages and confirmations on behalf of code running in a
// tea.Cmd. It blocks the calling goroutine until the user answers.
type Dialog struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func NewDialog() *Dialog {
	return &Dialog{}
}

// Attach routes dialogs to p. Call it before p.Run.
func (d *Dialog) Attach(p *tea.Program) {
	d.AttachFunc(p.Send)
}

// AttachFunc routes dialogs to send.
func (d *Dialog) AttachFunc(send func(tea.Msg)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.send = send
}

func (d *Dialog) ShowMessage(ctx context.Context, title, message string) error {
	_, err := d.ask(ctx, title, message, false)
	return err
}

func (d *Dialog) ShowConfirm(ctx context.Context, title, message string) (bool, error) {
	return d.ask(ctx, title, message, true)
}

func (d *Dialog) ask(ctx context.Context, title, message string, confirm bool) (bool, error) {
	d.mu.Lock()
	send := d.send
	d.mu.Unlock()

	if send == nil {
		return false, ErrNoProgram
	}

	reply := make(chan bool, 1)
	send(DialogMsg{Title: title, Message: message, Confirm: confirm, Reply: reply})

	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, fmt.Errorf("waiting for %q: %w", title, ctx.Err())
	}
}

// DialogModel is the dialog currently on screen.
type DialogModel struct {
	msg *DialogMsg
}

func (m DialogModel) Active() bool { return m.msg != nil }

func (m DialogModel) Open(msg DialogMsg) DialogModel {
	m.msg = &msg
	return m
}

// Update answers the dialog on y/enter or n/esc and closes it.
func (m DialogModel) Update(msg tea.KeyMsg) DialogModel {
	if m.msg == nil {
		return m
	}

	var answer bool

	switch msg.String() {
	case "y", "enter":
		answer = true
	case "n", "esc":
		answer = false
	default:
		return m
	}

	if !m.msg.Confirm {
		answer = true
	}

	m.msg.Reply <- answer
	m.msg = nil

	return m
}

func (m DialogModel) View() string {
	if m.msg == nil {
		return ""
	}

	help := "(Enter to close)"
	if m.msg.Confirm {
		help = "(y: yes | n: no)"
	}

	return panelStyle.Width(50).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(m.msg.Title),
			"",
			m.msg.Message,
			"",
			faintStyle.Render(help),
		),
	)
}
