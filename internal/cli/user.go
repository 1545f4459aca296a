package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/place-notes/internal/auth"
)

func newUserAddCmd() *cobra.Command {
	var nickname, avatar string

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Register a user and issue an API key",
		Long:  "Register a user directly in the local database and print a new API key for them. The key is shown once.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserAdd(cmd, args[0], nickname, avatar)
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "display name (default: local part of the email)")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar image URL")

	return cmd
}

func runUserAdd(cmd *cobra.Command, email, nickname, avatar string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	u, err := auth.NewUserStore(database).Add(email, nickname, avatar)
	if err != nil {
		return err
	}

	rawKey, _, err := auth.NewAPIKeyStore(database).Create("cli", u.ID)
	if err != nil {
		return fmt.Errorf("creating api key: %w", err)
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, map[string]interface{}{"user": u, "key": rawKey})
	}

	fmt.Fprintf(out, "User #%d (%s) added.\n", u.ID, u.Nickname)
	fmt.Fprintf(out, "API key: %s\n", rawKey)
	fmt.Fprintln(out, "Store it now; it is not shown again.")
	return nil
}
