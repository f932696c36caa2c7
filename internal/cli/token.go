package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Authorize and print the API token",
		Long:  `Returns the cached token when it is still valid and authorizes otherwise. With AUTH_TOKEN_FILE set the token is persisted for later runs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			token, err := app.Auth.Token(commandContext(cmd))
			if err != nil {
				return err
			}

			if show, _ := cmd.Flags().GetBool("show"); show {
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "authorized, token %s\n", mask(token))
			return nil
		},
	}
	cmd.Flags().Bool("show", false, "Print the full token")
	return cmd
}

func mask(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "****"
}
