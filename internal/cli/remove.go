package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a place",
		Long:  "Remove a place and all its comments.",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID("place", args[0])
	if err != nil {
		return err
	}

	if err := newAPIClient().DeletePlace(cmd.Context(), id); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, map[string]interface{}{
			"id":      id,
			"removed": true,
		})
	}

	fmt.Fprintf(out, "Place #%d removed.\n", id)
	return nil
}
