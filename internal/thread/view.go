package thread

import "github.com/evcraddock/place-notes/internal/comment"

// Item is one comment as the caller sees it.
type Item struct {
	Comment   comment.Comment
	CanEdit   bool
	CanDelete bool
	Editing   bool
	Draft     string // working text while Editing
}

// View is a rendered thread.
type View struct {
	PlaceID      int64
	ShowComposer bool // only logged-in callers can post
	Items        []Item
}

// Render builds the view of placeID's thread. Comments of other places are
// dropped; the rest keep their order. Edit and delete are offered only on
// the caller's own comments, and only one item can be in edit mode.
func Render(placeID int64, comments []comment.Comment, ac AuthContext, edit EditState) View {
	v := View{
		PlaceID:      placeID,
		ShowComposer: ac.Authenticated,
	}

	for _, c := range comment.ForPlace(comments, placeID) {
		owns := ac.Owns(c.UserID)
		item := Item{
			Comment:   c,
			CanEdit:   owns,
			CanDelete: owns,
		}
		if edit.Active && edit.CommentID == c.ID {
			item.Editing = true
			item.Draft = edit.Text
		}
		v.Items = append(v.Items, item)
	}

	return v
}
