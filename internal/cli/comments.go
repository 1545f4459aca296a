package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments <place-id>",
		Short: "List comments on a place",
		Long:  "List all comments on a place, oldest first. Comments you can edit are marked with *.",
		Args:  cobra.ExactArgs(1),
		RunE:  runComments,
	}
}

func runComments(cmd *cobra.Command, args []string) error {
	id, err := parseID("place", args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	co, err := newThread(ctx, cmd, id)
	if err != nil {
		return err
	}

	comments, err := co.Comments(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, comments)
	}

	fmt.Fprintf(out, "Comments for place #%d:\n\n", id)
	printThread(out, co.View(comments))
	return nil
}
