package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a place",
		Long:  "Show a place and its comment thread. Comments you can edit are marked with *.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID("place", args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	resp, err := newAPIClient().GetPlace(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, resp)
	}

	co, err := newThread(ctx, cmd, id)
	if err != nil {
		return err
	}

	printPlaceSummary(out, resp.Place)
	fmt.Fprintf(out, "\nComments (%d):\n\n", len(resp.Comments))
	printThread(out, co.View(resp.Comments))
	return nil
}
