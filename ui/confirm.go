package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrCanceled is returned when the user leaves a prompt with esc or ctrl+c
var ErrCanceled = errors.New("prompt canceled")

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(question string, defaultYes bool) (bool, error)
}

// AutoConfirm accepts every question without asking, used in batch mode
type AutoConfirm struct{}

func (AutoConfirm) Confirm(string, bool) (bool, error) {
	return true, nil
}

// Prompt asks questions with an interactive yes/no selector
type Prompt struct {
	in          io.Reader
	out         io.Writer
	interactive bool
}

// NewTerminalPrompt prompts on the given terminal.
// When in is not a terminal every question resolves to its default answer.
func NewTerminalPrompt(in *os.File, out io.Writer) *Prompt {
	prompt := NewPrompt(in, out)
	prompt.interactive = term.IsTerminal(int(in.Fd()))
	return prompt
}

// NewPrompt reads key presses from in and renders to out
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{
		in:          in,
		out:         out,
		interactive: true,
	}
}

// Confirm shows the question with Yes/No options, the default option is preselected.
func (p *Prompt) Confirm(question string, defaultYes bool) (bool, error) {
	if !p.interactive {
		return defaultYes, nil
	}

	program := tea.NewProgram(newConfirmModel(question, defaultYes),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	finalModel, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("failed to run prompt: %w", err)
	}

	m := finalModel.(*confirmModel)
	if m.canceled {
		return false, ErrCanceled
	}

	answer := "No"
	if m.selection {
		answer = "Yes"
	}
	_, _ = fmt.Fprintf(p.out, "%s %s\n", questionStyle.Render(question), hintStyle.Render(answer))
	return m.selection, nil
}

type confirmModel struct {
	question  string
	selection bool
	done      bool
	canceled  bool
}

func newConfirmModel(question string, defaultYes bool) *confirmModel {
	return &confirmModel{
		question:  question,
		selection: defaultYes,
	}
}

func (m *confirmModel) Init() tea.Cmd {
	return nil
}

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		m.done = true
		m.canceled = true
		return m, tea.Quit
	case "y", "Y":
		m.selection = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.selection = false
		m.done = true
		return m, tea.Quit
	case "left", "h":
		m.selection = true
	case "right", "l":
		m.selection = false
	case "up", "down", "tab", "shift+tab":
		m.selection = !m.selection
	case "enter", " ":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *confirmModel) View() string {
	if m.done {
		return ""
	}

	yesView := inactiveOptionStyle.Render("Yes")
	noView := inactiveOptionStyle.Render("No")
	if m.selection {
		yesView = activeOptionStyle.Render("Yes")
	} else {
		noView = activeOptionStyle.Render("No")
	}

	return strings.Join([]string{
		questionStyle.Render(m.question),
		yesView + "  " + noView,
		hintStyle.Render("enter submit • y yes • n no • esc cancel"),
	}, "\n")
}
