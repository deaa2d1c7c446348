package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/layoutdsl/pkg/layout"
)

// REPL styles
var (
	replPromptStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	replInputStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	replDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

const replPrompt = "layout› "

// replCommand creates the repl command.
func (c *CLI) replCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interpret layout descriptions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := NewREPLModel(layout.NewInterpreter(loggerFromContext(cmd.Context())))
			_, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// REPLModel - Interactive interpretation
// =============================================================================

// replEntry is one evaluated line.
type replEntry struct {
	Source string
	Result *layout.Result
}

// REPLModel is the bubbletea model for the interactive interpreter.
type REPLModel struct {
	Interpreter *layout.Interpreter
	Input       []rune
	Entries     []replEntry
	// Recall indexes Entries while browsing history; len(Entries) means
	// the fresh input line.
	Recall int
	// Height is the number of entries kept on screen.
	Height int
}

// NewREPLModel creates a new REPL model.
func NewREPLModel(in *layout.Interpreter) REPLModel {
	if in == nil {
		in = layout.NewInterpreter(nil)
	}
	return REPLModel{Interpreter: in, Height: 5}
}

func (m REPLModel) Init() tea.Cmd {
	return nil
}

func (m REPLModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit(), nil
		case tea.KeyBackspace:
			if len(m.Input) > 0 {
				m.Input = m.Input[:len(m.Input)-1]
			}
		case tea.KeyCtrlU:
			m.Input = nil
		case tea.KeyUp:
			if m.Recall > 0 {
				m.Recall--
				m.Input = []rune(m.Entries[m.Recall].Source)
			}
		case tea.KeyDown:
			if m.Recall < len(m.Entries)-1 {
				m.Recall++
				m.Input = []rune(m.Entries[m.Recall].Source)
			} else {
				m.Recall = len(m.Entries)
				m.Input = nil
			}
		case tea.KeySpace:
			m.Input = append(m.Input, ' ')
		case tea.KeyRunes:
			m.Input = append(m.Input, msg.Runes...)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height / 8
		if m.Height < 1 {
			m.Height = 1
		}
	}
	return m, nil
}

// submit interprets the current input and appends the result.
func (m REPLModel) submit() REPLModel {
	src := strings.TrimSpace(string(m.Input))
	if src == "" {
		return m
	}
	m.Entries = append(m.Entries, replEntry{Source: src, Result: m.Interpreter.Interpret(src)})
	m.Input = nil
	m.Recall = len(m.Entries)
	return m
}

func (m REPLModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("layoutdsl"))
	b.WriteString("\n")
	b.WriteString(replDimStyle.Render("⏎ interpret  ↑/↓ history  ctrl+u clear  esc quit"))
	b.WriteString("\n\n")

	start := 0
	if len(m.Entries) > m.Height {
		start = len(m.Entries) - m.Height
	}
	for _, e := range m.Entries[start:] {
		b.WriteString(replDimStyle.Render(replPrompt + e.Source))
		b.WriteString("\n")
		b.WriteString(directiveTable(e.Result))
		b.WriteString("\n\n")
	}

	b.WriteString(replPromptStyle.Render(replPrompt))
	b.WriteString(replInputStyle.Render(string(m.Input)))
	b.WriteString("█")
	return b.String()
}
