// Package ui is the interactive terminal view over the todo cache.
//
// The view renders the cache snapshot and turns key presses into
// mutations: begin phases run inside Update so the change is on screen
// immediately, and the remote call settles in a tea.Cmd. Failed mutations
// are rolled back by the controller and only logged.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"todoctl/internal/cache"
	"todoctl/internal/service"
)

// Title is shown above the list.
const Title = "Let's Get Things Done!"

type mode int

const (
	modeNormal mode = iota
	modeInput
	modeEdit
)

// Model is the bubbletea model for the todo view.
type Model struct {
	ctx    context.Context
	ctrl   *cache.Controller
	logger *log.Logger

	mode     mode
	cursor   int
	input    []rune
	editID   string
	editText []rune
	pending  int
	width    int
}

type refreshedMsg struct {
	err error
}

type settledMsg struct {
	res cache.Result
}

// New creates the model. ctx bounds every remote call the view issues.
func New(ctx context.Context, ctrl *cache.Controller, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Model{ctx: ctx, ctrl: ctrl, logger: logger}
}

// Run starts the view on the terminal and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, ctrl *cache.Controller, logger *log.Logger, out io.Writer) error {
	if !IsTTY(out) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(New(ctx, ctrl, logger), tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func (m *Model) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeInput:
			return m, m.updateInput(msg)
		case modeEdit:
			return m, m.updateEdit(msg)
		default:
			return m, m.updateNormal(msg)
		}
	case refreshedMsg:
		if msg.err != nil && !errors.Is(msg.err, cache.ErrStale) {
			m.logger.Error("load todos failed", "err", msg.err)
		}
		m.clampCursor()
	case settledMsg:
		m.pending--
		m.logger.Debug("mutation settled", "kind", msg.res.Kind, "id", msg.res.ID, "outcome", msg.res.Outcome)
		m.clampCursor()
	}
	return m, nil
}

func (m *Model) updateNormal(msg tea.KeyMsg) tea.Cmd {
	// A settle or refresh may have shrunk the cache before its message arrived.
	todos := m.ctrl.Cache().Snapshot()
	m.clampTo(len(todos))
	switch msg.String() {
	case "q":
		return tea.Quit
	case "j", "down":
		if m.cursor < len(todos)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a", "n":
		m.mode = modeInput
		m.input = nil
	case "e", "enter":
		if len(todos) > 0 {
			todo := todos[m.cursor]
			m.mode = modeEdit
			m.editID = todo.ID
			m.editText = []rune(todo.Title)
		}
	case "d", "x":
		if len(todos) > 0 {
			op, ok := m.ctrl.BeginDelete(todos[m.cursor].ID)
			m.clampCursor()
			return m.settle(op, ok)
		}
	case "r":
		return m.refreshCmd()
	}
	return nil
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input = nil
	case tea.KeyEnter:
		title := string(m.input)
		m.mode = modeNormal
		m.input = nil
		op, ok := m.ctrl.BeginAdd(title)
		if ok {
			m.cursor = 0
		}
		return m.settle(op, ok)
	default:
		m.input = editRunes(m.input, msg)
	}
	return nil
}

func (m *Model) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeModal()
	case tea.KeyEnter:
		id, title := m.editID, strings.TrimSpace(string(m.editText))
		m.closeModal()
		if title == "" {
			return nil
		}
		op, ok := m.ctrl.BeginUpdate(id, title)
		if !ok {
			m.logger.Debug("edit skipped, todo not saved yet", "id", id)
		}
		return m.settle(op, ok)
	default:
		m.editText = editRunes(m.editText, msg)
	}
	return nil
}

func (m *Model) closeModal() {
	m.mode = modeNormal
	m.editID = ""
	m.editText = nil
}

// settle returns a command that completes op in the background.
func (m *Model) settle(op *cache.Op, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		return settledMsg{res: op.Settle(ctx)}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return refreshedMsg{err: ctrl.Refresh(ctx)}
	}
}

func (m *Model) clampCursor() {
	m.clampTo(m.ctrl.Cache().Len())
}

func (m *Model) clampTo(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// editRunes applies a text-editing key to buf.
func editRunes(buf []rune, msg tea.KeyMsg) []rune {
	switch msg.Type {
	case tea.KeyBackspace:
		if len(buf) > 0 {
			buf = buf[:len(buf)-1]
		}
	case tea.KeySpace:
		buf = append(buf, ' ')
	case tea.KeyRunes:
		buf = append(buf, msg.Runes...)
	}
	return buf
}

func (m *Model) View() string {
	var b strings.Builder
	writeTitle(&b)

	if !m.ctrl.Cache().Loaded() {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.mode, m.pending)
		return b.String()
	}

	writeTodos(&b, m.ctrl.Cache().Snapshot(), m.cursor)
	switch m.mode {
	case modeInput:
		writeInput(&b, m.input)
	case modeEdit:
		writeModal(&b, m.editText, m.width)
	}
	writeFooter(&b, m.mode, m.pending)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n\n")
}

func writeTodos(b *strings.Builder, todos []service.Todo, cursor int) {
	if len(todos) == 0 {
		b.WriteString(dimStyle.Render("  Nothing to do. Press a to add a todo."))
		b.WriteString("\n\n")
		return
	}
	for i, todo := range todos {
		line := todo.Title
		if cache.IsTemp(todo.ID) {
			line = pendingStyle.Render(line)
		}
		if i == cursor {
			b.WriteString(cursorStyle.Render("> ") + selectedStyle.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeInput(b *strings.Builder, input []rune) {
	b.WriteString(labelStyle.Render("New todo: "))
	b.WriteString(string(input))
	b.WriteString("_\n\n")
}

func writeModal(b *strings.Builder, text []rune, width int) {
	body := labelStyle.Render("Edit todo") + "\n\n" + string(text) + "_\n\n" +
		dimStyle.Render("enter save | esc close")
	b.WriteString(modalStyle(width).Render(body))
	b.WriteString("\n\n")
}

func writeFooter(b *strings.Builder, mode mode, pending int) {
	var help string
	switch mode {
	case modeInput:
		help = "enter add | esc cancel"
	case modeEdit:
		help = ""
	default:
		help = "a add | e edit | d delete | r refresh | q quit"
	}
	if pending > 0 {
		if help != "" {
			help += " | "
		}
		help += fmt.Sprintf("saving %d", pending)
	}
	b.WriteString(dimStyle.Render(help))
	b.WriteString("\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
