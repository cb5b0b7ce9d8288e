package cmd

import (
	"context"
	"fmt"

	statusadapter "github.com/bnema/smux/internal/adapters/render/status"
	"github.com/bnema/smux/internal/application"
	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/logging"
	"github.com/spf13/cobra"
)

func newProviderCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Inspect and select providers",
	}

	cmd.AddCommand(
		newProviderListCmd(app),
		newProviderUseCmd(app),
		newProviderRefreshCmd(app),
	)

	return cmd
}

func newProviderListCmd(app *app) *cobra.Command {
	var (
		asJSON  bool
		showEnv bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List providers, their accounts and the active selection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			overview, err := loadOverview(cmd, app)
			if err != nil {
				return err
			}
			return writeOverviewOutput(cmd, app, overview, statusadapter.RenderOptions{ShowEnv: showEnv}, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print providers as JSON")
	cmd.Flags().BoolVar(&showEnv, "env", false, "Show the environment variable names each provider sets")

	return cmd
}

func newProviderUseCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use <provider-id>",
		Short: "Make a provider active with its default account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithContext(cmd.Context(), app.logger)
			svc := app.providerContext()
			if err := svc.Load(ctx); err != nil {
				return err
			}

			result, err := svc.SwitchProvider(ctx, domain.ProviderID(args[0]))
			if err != nil {
				return err
			}

			return writeSwitchResult(cmd, result)
		},
	}
}

func newProviderRefreshCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Re-read accounts and activation flags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithContext(cmd.Context(), app.logger)
			svc := app.providerContext()
			if err := svc.Load(ctx); err != nil {
				return err
			}

			var result application.RefreshResult
			refresh := func(ctx context.Context) error {
				var err error
				result, err = svc.RefreshAccounts(ctx)
				return err
			}

			if asJSON {
				if err := refresh(ctx); err != nil {
					return err
				}
			} else if err := runWithSpinner(ctx, cmd.ErrOrStderr(), "Refreshing accounts...", refresh); err != nil {
				return err
			}

			overview := statusadapter.Overview{
				Providers: result.Providers,
				Context:   svc.Snapshot().Context,
			}
			return writeOverviewOutput(cmd, app, overview, statusadapter.RenderOptions{}, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print providers as JSON")

	return cmd
}

func writeSwitchResult(cmd *cobra.Command, result application.SwitchResult) error {
	line := fmt.Sprintf("Active provider: %s (%s) [%s]", result.Provider.Name, result.Provider.ID, result.Provider.Kind.Label())
	if result.Account != nil {
		line += fmt.Sprintf(", account: %s (%s)", result.Account.DisplayName, result.Account.ID)
	} else {
		line += ", no account"
	}

	if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
		return err
	}
	if result.Warning != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", result.Warning)
	}
	return nil
}
