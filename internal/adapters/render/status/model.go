package status

import (
	"errors"
	"io"

	"github.com/bnema/smux/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

// Overview is the provider catalogue together with the committed selection.
type Overview struct {
	Providers []domain.Provider
	Context   domain.ProviderAccountContext
}

type renderReadyMsg struct{}

type model struct {
	overview Overview
	opts     RenderOptions
	styles   styles
	output   string
}

func newModel(overview Overview, opts RenderOptions) model {
	return model{
		overview: overview,
		opts:     opts,
		styles:   newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.overview, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func Render(overview Overview, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(overview, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
