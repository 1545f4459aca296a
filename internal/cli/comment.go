package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/place-notes/internal/comment"
	"github.com/evcraddock/place-notes/internal/thread"
)

func newCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `comment <place-id> "text"`,
		Short: "Comment on a place",
		Long:  "Add a comment to a place as the logged-in user.",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runComment,
	}
}

func runComment(cmd *cobra.Command, args []string) error {
	id, err := parseID("place", args[0])
	if err != nil {
		return err
	}

	text := strings.Join(args[1:], " ")
	if comment.IsBlank(text) {
		if !isJSON() {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to save.")
		}
		return nil
	}

	ctx := cmd.Context()
	co, err := newThread(ctx, cmd, id)
	if err != nil {
		return err
	}
	profile := co.Profile()
	if profile == nil {
		return thread.ErrNotAuthenticated
	}

	if err := co.SubmitNewComment(ctx, text, thread.AuthorFromUser(profile)); err != nil {
		return err
	}

	if isJSON() {
		comments, err := co.Comments(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), comments)
	}
	return nil
}
