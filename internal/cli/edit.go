package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/place-notes/internal/comment"
	"github.com/evcraddock/place-notes/internal/thread"
)

// errEditRejected is returned after the notifier has reported why.
var errEditRejected = errors.New("comment not updated")

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `edit <place-id> <comment-id> "text"`,
		Short: "Edit one of your comments",
		Long:  "Replace the text of a comment you wrote. Blank text leaves the comment unchanged.",
		Args:  cobra.MinimumNArgs(3),
		RunE:  runEdit,
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	placeID, err := parseID("place", args[0])
	if err != nil {
		return err
	}
	commentID, err := parseID("comment", args[1])
	if err != nil {
		return err
	}
	text := strings.Join(args[2:], " ")

	ctx := cmd.Context()
	co, err := newThread(ctx, cmd, placeID)
	if err != nil {
		return err
	}

	target, err := ownComment(cmd, co, commentID)
	if err != nil {
		return err
	}

	co.BeginEdit(target.ID, target.Text)
	p := co.SubmitEdit(ctx, text)
	if err := p.Wait(ctx); err != nil {
		return errEditRejected
	}

	out := cmd.OutOrStdout()
	if p.Skipped() {
		if !isJSON() {
			fmt.Fprintln(out, "Nothing to save.")
		}
		return nil
	}

	comments, err := co.Comments(ctx)
	if err != nil {
		return err
	}
	updated, ok := findComment(comments, commentID)
	if !ok {
		return fmt.Errorf("comment #%d: %w", commentID, comment.ErrNotFound)
	}

	if isJSON() {
		return printJSON(out, updated)
	}
	printCommentSingle(out, "updated", &updated)
	return nil
}

// ownComment finds commentID in the thread and checks the caller wrote it.
func ownComment(cmd *cobra.Command, co *thread.Coordinator, commentID int64) (comment.Comment, error) {
	if !co.Auth().Authenticated {
		return comment.Comment{}, thread.ErrNotAuthenticated
	}

	comments, err := co.Comments(cmd.Context())
	if err != nil {
		return comment.Comment{}, err
	}

	c, ok := findComment(comments, commentID)
	if !ok {
		return comment.Comment{}, fmt.Errorf("comment #%d: %w", commentID, comment.ErrNotFound)
	}
	if !co.Auth().Owns(c.UserID) {
		return comment.Comment{}, fmt.Errorf("comment #%d was written by %s; you can only change your own comments", c.ID, author(c))
	}
	return c, nil
}

func findComment(comments []comment.Comment, id int64) (comment.Comment, bool) {
	for _, c := range comments {
		if c.ID == id {
			return c, true
		}
	}
	return comment.Comment{}, false
}
