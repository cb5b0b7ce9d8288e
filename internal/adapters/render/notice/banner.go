package notice

import (
	"fmt"
	"io"
	"strings"

	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/ports"
	"github.com/charmbracelet/lipgloss"
)

// Banner renders provider switch notices as a short block of terminal text
// that can be written straight into a session's output stream.
type Banner struct {
	title    lipgloss.Style
	official lipgloss.Style
	third    lipgloss.Style
	detail   lipgloss.Style
	warning  lipgloss.Style
}

var _ ports.NoticeRenderer = (*Banner)(nil)

// NewBanner picks the color profile from out, the stream the banner ends up on.
func NewBanner(out io.Writer) *Banner {
	r := lipgloss.NewRenderer(out)
	return &Banner{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		official: r.NewStyle().Foreground(lipgloss.Color("114")),
		third:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		detail:   r.NewStyle().Foreground(lipgloss.Color("245")),
		warning:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}

func (b *Banner) Render(n domain.Notice) []byte {
	kind := b.official
	if n.Kind != domain.ProviderKindOfficial {
		kind = b.third
	}

	head := b.title.Render("[smux] provider: "+n.ProviderName) + " " + kind.Render("["+n.Kind.Label()+"]")
	if account := accountLabel(n); account != "" {
		head += " " + b.detail.Render("account: "+account)
	}

	lines := []string{"", head}
	if endpoint := strings.TrimSpace(n.Endpoint); endpoint != "" {
		lines = append(lines, b.detail.Render("[smux] endpoint: "+endpoint))
	}
	if n.NotActivated {
		lines = append(lines, b.warning.Render(fmt.Sprintf("[smux] account %s of %s is not activated", accountLabel(n), n.ProviderName)))
	}

	// Raw-mode terminals need an explicit carriage return.
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func accountLabel(n domain.Notice) string {
	if name := strings.TrimSpace(n.AccountName); name != "" {
		return name
	}
	return string(n.AccountID)
}
