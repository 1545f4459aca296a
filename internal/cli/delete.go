package cli

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <place-id> <comment-id>",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(2),
		RunE:  runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	placeID, err := parseID("place", args[0])
	if err != nil {
		return err
	}
	commentID, err := parseID("comment", args[1])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	co, err := newThread(ctx, cmd, placeID)
	if err != nil {
		return err
	}

	if _, err := ownComment(cmd, co, commentID); err != nil {
		return err
	}
	if err := co.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"id":      commentID,
			"deleted": true,
		})
	}
	return nil
}
