package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
)

// errPickerAborted is returned when the user quits the picker without a
// selection.
var errPickerAborted = errors.New("selection aborted")

// caseListModel is the bubbletea model for interactive case selection,
// used by `quadgen generate` when no case file is given.
type caseListModel struct {
	cases  []string
	cursor int
	choice string
	quit   bool
}

// Init implements tea.Model.
func (m caseListModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m caseListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.cases)-1 {
			m.cursor++
		}
	case "enter":
		m.choice = m.cases[m.cursor]
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m caseListModel) View() string {
	s := StyleTitle.Render("Select a meshing case") + "\n\n"
	for i, c := range m.cases {
		cursor := "  "
		line := filepath.Base(c)
		if i == m.cursor {
			cursor = StyleHighlight.Render("> ")
			line = StyleHighlight.Render(line)
		} else {
			line = StyleValue.Render(line)
		}
		s += cursor + line + "\n"
	}
	s += "\n" + StyleDim.Render("↑/↓ move · enter select · q quit") + "\n"
	return s
}

// pickCase shows the interactive picker over the given case files.
func pickCase(cases []string) (string, error) {
	if len(cases) == 0 {
		return "", fmt.Errorf("no case files found (*.toml)")
	}
	sort.Strings(cases)

	p := tea.NewProgram(caseListModel{cases: cases})
	out, err := p.Run()
	if err != nil {
		return "", err
	}

	m := out.(caseListModel)
	if m.quit || m.choice == "" {
		return "", errPickerAborted
	}
	return m.choice, nil
}

// discoverCases lists candidate case files in the working directory and an
// examples/ subdirectory.
func discoverCases() []string {
	var out []string
	for _, pattern := range []string{"*.toml", "examples/*.toml"} {
		if matches, err := filepath.Glob(pattern); err == nil {
			out = append(out, matches...)
		}
	}
	return out
}
