// Package tui implements the interactive alias-creation prompt.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PromptResult is what the user chose in the prompt.
type PromptResult struct {
	AliasName string
	Domain    string
	Cancelled bool
}

type promptModel struct {
	input    textinput.Model
	domains  []string
	selected int

	errText   string
	done      bool
	cancelled bool
}

func newPrompt(suggestion string, domains []string, defaultDomain string) promptModel {
	input := textinput.New()
	input.Placeholder = suggestion
	input.SetValue(suggestion)
	input.CharLimit = 64
	input.Focus()

	selected := 0
	for i, d := range domains {
		if d == defaultDomain {
			selected = i
			break
		}
	}

	return promptModel{
		input:    input,
		domains:  domains,
		selected: selected,
	}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if strings.TrimSpace(m.input.Value()) == "" {
				m.errText = "alias name must not be empty"
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		case tea.KeyLeft:
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case tea.KeyRight:
			if m.selected < len(m.domains)-1 {
				m.selected++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.errText = ""
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Create new email alias"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for i, d := range m.domains {
		if i == m.selected {
			b.WriteString(selectedStyle.Render("@" + d))
		} else {
			b.WriteString(domainStyle.Render("@" + d))
		}
	}
	b.WriteString("\n\n")
	if m.errText != "" {
		b.WriteString(errorStyle.Render(m.errText))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter: create • ←/→: domain • esc: cancel"))

	return boxStyle.Render(b.String())
}

// RunPrompt shows the alias-creation prompt and returns the user's choice.
func RunPrompt(suggestion string, domains []string, defaultDomain string) (PromptResult, error) {
	if len(domains) == 0 {
		return PromptResult{}, fmt.Errorf("no domains available")
	}

	final, err := tea.NewProgram(newPrompt(suggestion, domains, defaultDomain)).Run()
	if err != nil {
		return PromptResult{}, fmt.Errorf("failed to run prompt: %w", err)
	}

	m, ok := final.(promptModel)
	if !ok {
		return PromptResult{}, fmt.Errorf("unexpected prompt model type")
	}
	if m.cancelled {
		return PromptResult{Cancelled: true}, nil
	}
	return PromptResult{
		AliasName: strings.TrimSpace(m.input.Value()),
		Domain:    m.domains[m.selected],
	}, nil
}
