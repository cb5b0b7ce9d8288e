package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/smux/internal/application"
	"github.com/bnema/smux/internal/domain"
	"github.com/bnema/smux/internal/logging"
	"github.com/spf13/cobra"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Select accounts and manage their credentials",
	}

	cmd.AddCommand(
		newAccountUseCmd(app),
		newAccountSetKeyCmd(app),
	)

	return cmd
}

func newAccountUseCmd(app *app) *cobra.Command {
	var providerID string

	cmd := &cobra.Command{
		Use:   "use <account-id>",
		Short: "Select an account of the active provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithContext(cmd.Context(), app.logger)
			svc := app.providerContext()
			if err := svc.Load(ctx); err != nil {
				return err
			}

			target := domain.ProviderID(providerID)
			if target == "" {
				target = svc.Snapshot().Context.ProviderID
			}
			if target == "" {
				return errors.New("no active provider; pass --provider or run 'smux provider use' first")
			}

			result, err := svc.SwitchAccount(ctx, target, domain.AccountID(args[0]))
			if err != nil {
				return err
			}

			return writeSwitchResult(cmd, result)
		},
	}

	cmd.Flags().StringVar(&providerID, "provider", "", "Provider ID (defaults to the active provider)")

	return cmd
}

func newAccountSetKeyCmd(app *app) *cobra.Command {
	var (
		providerID  string
		accountID   string
		displayName string
		secretValue string
		fromStdin   bool
	)

	cmd := &cobra.Command{
		Use:   "set-key",
		Short: "Store an account's credential and mark the account activated",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := secretValue
			if fromStdin {
				value, err := readSecretLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				secret = value
			}
			if secret == "" {
				return errors.New("a secret is required: pass --secret-value or --secret-stdin")
			}

			account, err := app.credentials.SetKey(cmd.Context(), application.SetKeyRequest{
				ProviderID:  domain.ProviderID(providerID),
				AccountID:   domain.AccountID(accountID),
				DisplayName: displayName,
				Secret:      secret,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Stored key for %s/%s (%s)\n", providerID, account.ID, account.Activation)
			return err
		},
	}

	cmd.Flags().StringVar(&providerID, "provider", "", "Provider ID")
	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	cmd.Flags().StringVar(&displayName, "name", "", "Display name for the account")
	cmd.Flags().StringVar(&secretValue, "secret-value", "", "Secret value")
	cmd.Flags().BoolVar(&fromStdin, "secret-stdin", false, "Read the secret from the first line of stdin")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("account")
	cmd.MarkFlagsMutuallyExclusive("secret-value", "secret-stdin")

	return cmd
}

func readSecretLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read secret from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
