package cmd

import (
	"encoding/json"
	"fmt"

	statusadapter "github.com/bnema/smux/internal/adapters/render/status"
	"github.com/bnema/smux/internal/domain"
	"github.com/spf13/cobra"
)

type overviewJSON struct {
	ActiveProvider domain.ProviderID `json:"active_provider,omitempty"`
	ActiveAccount  domain.AccountID  `json:"active_account,omitempty"`
	Stale          bool              `json:"stale"`
	Providers      []providerJSON    `json:"providers"`
}

type providerJSON struct {
	ID             domain.ProviderID   `json:"id"`
	Name           string              `json:"name"`
	Kind           domain.ProviderKind `json:"kind"`
	Endpoint       string              `json:"endpoint,omitempty"`
	DefaultAccount domain.AccountID    `json:"default_account,omitempty"`
	Accounts       []accountJSON       `json:"accounts"`
}

type accountJSON struct {
	ID          domain.AccountID       `json:"id"`
	DisplayName string                 `json:"display_name"`
	Activation  domain.ActivationState `json:"activation"`
}

func loadOverview(cmd *cobra.Command, app *app) (statusadapter.Overview, error) {
	providers, err := app.providers.ListProviders(cmd.Context())
	if err != nil {
		return statusadapter.Overview{}, err
	}
	selection, err := app.providers.ActiveSelection(cmd.Context())
	if err != nil {
		return statusadapter.Overview{}, err
	}

	ctx := domain.ProviderAccountContext{Selection: selection}
	if selection.AccountID != "" {
		provider, ok := domain.FindProvider(providers, selection.ProviderID)
		if !ok {
			ctx.Stale = true
		} else if _, ok := provider.Account(selection.AccountID); !ok {
			ctx.Stale = true
		}
	}

	return statusadapter.Overview{Providers: providers, Context: ctx}, nil
}

func writeOverviewOutput(cmd *cobra.Command, app *app, overview statusadapter.Overview, opts statusadapter.RenderOptions, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(toOverviewJSON(overview))
	}

	rendered, err := app.statusRenderer(overview, opts)
	if err != nil {
		return fmt.Errorf("render providers: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

// Secret refs and env values stay out of the JSON output.
func toOverviewJSON(overview statusadapter.Overview) overviewJSON {
	out := overviewJSON{
		ActiveProvider: overview.Context.ProviderID,
		ActiveAccount:  overview.Context.AccountID,
		Stale:          overview.Context.Stale,
		Providers:      make([]providerJSON, 0, len(overview.Providers)),
	}
	for _, provider := range overview.Providers {
		p := providerJSON{
			ID:             provider.ID,
			Name:           provider.Name,
			Kind:           provider.Kind,
			Endpoint:       provider.Endpoint,
			DefaultAccount: provider.DefaultAccountID,
			Accounts:       make([]accountJSON, 0, len(provider.Accounts)),
		}
		for _, account := range provider.Accounts {
			p.Accounts = append(p.Accounts, accountJSON{ID: account.ID, DisplayName: account.DisplayName, Activation: account.Activation})
		}
		out.Providers = append(out.Providers, p)
	}
	return out
}
