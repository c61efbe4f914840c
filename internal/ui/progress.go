package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nudibranch/nudi/cli/internal/ui/components"
	"github.com/nudibranch/nudi/cli/internal/upload"
)

// UploadMsg carries a coordinator event into the progress view.
type UploadMsg upload.Event

type finishedMsg struct{}

type uploadRow struct {
	field  string
	file   string
	kind   upload.EventKind
	fileID string
	err    error
}

// ProgressModel shows the file queue of one submission as it resolves.
type ProgressModel struct {
	title     string
	rows      []uploadRow
	index     map[string]int
	total     int
	done      bool
	finished  bool
	cancelled bool
	cancel    func()
	width     int
}

// NewProgressModel creates the view. cancel is called when the user
// interrupts it.
func NewProgressModel(title string, cancel func()) ProgressModel {
	return ProgressModel{
		title:  title,
		index:  map[string]int{},
		cancel: cancel,
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			m.cancelled = true
			return m, tea.Quit
		}
	case UploadMsg:
		m = m.apply(upload.Event(msg))
	case finishedMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) apply(ev upload.Event) ProgressModel {
	if ev.Kind == upload.EventDone {
		m.done = true
		return m
	}
	i, ok := m.index[ev.Field]
	if !ok {
		if m.total == 0 {
			m.total = ev.Remaining + 1
		}
		m.rows = append(m.rows, uploadRow{field: ev.Field, file: ev.File})
		i = len(m.rows) - 1
		m.index[ev.Field] = i
	}
	row := &m.rows[i]
	row.kind = ev.Kind
	if ev.File != "" {
		row.file = ev.File
	}
	if ev.FileID != "" {
		row.fileID = ev.FileID
	}
	row.err = ev.Err
	return m
}

// Resolved counts files that have a server id.
func (m ProgressModel) Resolved() int {
	n := 0
	for _, r := range m.rows {
		if r.kind == upload.EventResolved {
			n++
		}
	}
	return n
}

// Cancelled reports whether the user interrupted the view.
func (m ProgressModel) Cancelled() bool {
	return m.cancelled
}

func (m ProgressModel) View() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(components.SanitizeOneLine(m.title)))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(MutedStyle.Render("  no files to upload") + "\n")
	}
	for _, r := range m.rows {
		b.WriteString(renderUploadRow(r) + "\n")
	}

	total := max(m.total, len(m.rows))
	summary := fmt.Sprintf("%d/%d files resolved", m.Resolved(), total)
	switch {
	case m.cancelled:
		b.WriteString(WarningStyle.Render("cancelled") + "\n")
	case m.done:
		b.WriteString(SuccessStyle.Render(summary) + "\n")
	default:
		b.WriteString(MutedStyle.Render(summary) + "\n")
	}
	if !m.finished && !m.cancelled {
		b.WriteString(components.StatusBar([]string{components.Hint("ctrl+c", "Cancel")}, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

func renderUploadRow(r uploadRow) string {
	name := components.SanitizeOneLine(r.field)
	if r.file != "" {
		name += MutedStyle.Render(" (" + components.SanitizeOneLine(r.file) + ")")
	}
	switch r.kind {
	case upload.EventFound:
		return "  " + AccentStyle.Render("≡") + " " + name + MutedStyle.Render(" already on server")
	case upload.EventUploading:
		return "  " + AccentStyle.Render("↑") + " " + name + MutedStyle.Render(" uploading")
	case upload.EventResolved:
		return "  " + SuccessStyle.Render("✓") + " " + name + MutedStyle.Render(" → "+r.fileID)
	case upload.EventFailed:
		msg := "failed"
		if r.err != nil {
			msg = components.SanitizeOneLine(r.err.Error())
		}
		return "  " + ErrorStyle.Render("✗") + " " + name + " " + ErrorStyle.Render(msg)
	}
	return "  " + MutedStyle.Render("·") + " " + name + MutedStyle.Render(" hashing")
}

// Progress runs a ProgressModel as a program fed from the coordinator.
type Progress struct {
	program *tea.Program
}

// NewProgress renders to out and reads keys from in; a nil in disables
// keyboard input.
func NewProgress(in io.Reader, out io.Writer, title string, cancel func()) *Progress {
	m := NewProgressModel(title, cancel)
	return &Progress{program: tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out))}
}

// Observe is an upload.Observer. It blocks until the program takes the
// event, and returns immediately once the program has exited.
func (p *Progress) Observe(ev upload.Event) {
	p.program.Send(UploadMsg(ev))
}

// Finish stops the program after the submission completed.
func (p *Progress) Finish() {
	p.program.Send(finishedMsg{})
}

// Run blocks until Finish is called or the user cancels.
func (p *Progress) Run() (ProgressModel, error) {
	final, err := p.program.Run()
	if err != nil {
		return ProgressModel{}, fmt.Errorf("progress view: %w", err)
	}
	m, _ := final.(ProgressModel)
	return m, nil
}
