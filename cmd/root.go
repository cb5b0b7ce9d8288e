package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "smux",
		Short:         "smux: many terminal sessions, one provider/account context",
		Long:          "smux runs several interactive sessions in one terminal. Every new session is launched against the active provider and account, and every open session is told when that context changes.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newProviderCmd(app),
		newAccountCmd(app),
		newRunCmd(app),
	)

	return rootCmd
}
