package status

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/smux/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	// ShowEnv lists the variable names each provider injects into sessions.
	ShowEnv bool
}

func renderView(overview Overview, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Providers"),
		s.header.Render(headerLine(overview)),
	}

	if len(overview.Providers) == 0 {
		lines = append(lines, s.empty.Render("No providers configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	if overview.Context.Stale {
		lines = append(lines, s.warning.Render("[stale] active account is no longer listed by its provider"))
	}

	for _, provider := range overview.Providers {
		lines = append(lines, s.section.Render(renderProvider(provider, overview.Context, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func headerLine(overview Overview) string {
	header := fmt.Sprintf("providers: %d", len(overview.Providers))
	selection := overview.Context.Selection
	if selection.ProviderID == "" {
		return header + " · active: none"
	}
	active := string(selection.ProviderID)
	if selection.AccountID != "" {
		active += "/" + string(selection.AccountID)
	}
	return header + " · active: " + active
}

func renderProvider(provider domain.Provider, ctx domain.ProviderAccountContext, opts RenderOptions, s styles) string {
	title := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.provider.Render(fmt.Sprintf("%s (%s)", provider.Name, provider.ID)),
		" ",
		kindBadge(provider.Kind, s),
	)
	if provider.ID == ctx.ProviderID {
		title = s.active.Render("* ") + title
	} else {
		title = "  " + title
	}

	parts := []string{title}
	if endpoint := strings.TrimSpace(provider.Endpoint); endpoint != "" {
		parts = append(parts, s.detail.Render("    endpoint: "+endpoint))
	}
	if opts.ShowEnv {
		if line := envLine(provider); line != "" {
			parts = append(parts, s.detail.Render("    env: "+line))
		}
	}

	if len(provider.Accounts) == 0 {
		parts = append(parts, s.empty.Render("    no accounts"))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	for _, account := range provider.Accounts {
		parts = append(parts, accountLine(provider, account, ctx, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func kindBadge(kind domain.ProviderKind, s styles) string {
	label := "[" + kind.Label() + "]"
	if kind == domain.ProviderKindOfficial {
		return s.official.Render(label)
	}
	return s.thirdParty.Render(label)
}

func accountLine(provider domain.Provider, account domain.Account, ctx domain.ProviderAccountContext, s styles) string {
	marker := "    - "
	style := s.account
	if provider.ID == ctx.ProviderID && account.ID == ctx.AccountID {
		marker = "    > "
		style = s.active
	}

	line := style.Render(marker + accountTitle(account))
	if account.ID == provider.DefaultAccountID {
		line += " " + s.detail.Render("(default)")
	}
	if !account.IsActivated() {
		line += " " + s.warning.Render("[not activated]")
	}
	return line
}

func accountTitle(account domain.Account) string {
	name := strings.TrimSpace(account.DisplayName)
	if name == "" || name == string(account.ID) {
		return string(account.ID)
	}
	return fmt.Sprintf("%s (%s)", name, account.ID)
}

func envLine(provider domain.Provider) string {
	names := make([]string, 0, len(provider.Env)+1)
	for name := range provider.Env {
		names = append(names, name)
	}
	sort.Strings(names)
	if provider.CredentialEnv != "" {
		names = append(names, provider.CredentialEnv+"=<secret>")
	}
	return strings.Join(names, " ")
}
