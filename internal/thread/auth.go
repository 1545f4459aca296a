package thread

import "github.com/evcraddock/place-notes/internal/auth"

// AuthContext is the caller's identity, passed in rather than read from
// global state.
type AuthContext struct {
	UserID        int64
	Token         string
	Authenticated bool
}

// Anonymous is the AuthContext of a caller who has not logged in.
var Anonymous = AuthContext{}

// Author is the profile attached to a new comment.
type Author struct {
	UserID   int64
	Nickname string
	Avatar   string
}

// AuthorFromUser builds an Author from a user profile.
func AuthorFromUser(u *auth.User) Author {
	return Author{UserID: u.ID, Nickname: u.Nickname, Avatar: u.Avatar}
}

// Owns reports whether the caller may edit or delete a comment by authorID.
// This only gates what is offered; the server enforces authorship itself.
func (a AuthContext) Owns(authorID int64) bool {
	return a.Authenticated && a.UserID != 0 && a.UserID == authorID
}
