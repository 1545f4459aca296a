package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the profile of the logged-in user",
		Args:  cobra.NoArgs,
		RunE:  runWhoami,
	}
}

func runWhoami(cmd *cobra.Command, args []string) error {
	cfg := resolveConfig()
	if !cfg.LoggedIn() {
		return fmt.Errorf("not logged in; run 'pn login'")
	}

	u, err := cfg.Client().GetUserProfile(cmd.Context(), "")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, u)
	}

	fmt.Fprintf(out, "User #%d\n", u.ID)
	fmt.Fprintf(out, "  Nickname: %s\n", u.Nickname)
	fmt.Fprintf(out, "  Email:    %s\n", u.Email)
	if u.Avatar != "" {
		fmt.Fprintf(out, "  Avatar:   %s\n", u.Avatar)
	}
	return nil
}
