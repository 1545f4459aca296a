package thread

// EditState is the comment currently open in the inline edit form.
// Text is a working copy, independent of the stored text until submitted.
type EditState struct {
	CommentID int64
	Text      string
	Active    bool
}

// toggle returns the state after the user picks "edit" on a comment.
func (e EditState) toggle(commentID int64, text string) EditState {
	if e.Active && e.CommentID == commentID {
		return EditState{}
	}
	return EditState{CommentID: commentID, Text: text, Active: true}
}
