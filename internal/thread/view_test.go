package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/place-notes/internal/comment"
)

func TestRenderFiltersByPlace(t *testing.T) {
	mixed := []comment.Comment{
		{ID: 1, PlaceID: 1, Text: "A1"},
		{ID: 2, PlaceID: 2, Text: "B1"},
		{ID: 3, PlaceID: 1, Text: "A2"},
		{ID: 4, PlaceID: 2, Text: "B2"},
		{ID: 5, PlaceID: 1, Text: "A3"},
	}

	v := Render(1, mixed, Anonymous, EditState{})

	var texts []string
	for _, it := range v.Items {
		texts = append(texts, it.Comment.Text)
	}
	assert.Equal(t, []string{"A1", "A2", "A3"}, texts)
}

func TestRenderOwnershipGating(t *testing.T) {
	comments := []comment.Comment{
		{ID: 1, PlaceID: 1, UserID: 1, Text: "by U1"},
		{ID: 2, PlaceID: 1, UserID: 2, Text: "by U2"},
	}

	tests := []struct {
		name      string
		auth      AuthContext
		composer  bool
		ownsFirst bool
	}{
		{"author sees controls on own comment", AuthContext{UserID: 1, Token: "t", Authenticated: true}, true, true},
		{"unauthenticated with matching id", AuthContext{UserID: 1}, false, false},
		{"anonymous", Anonymous, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Render(1, comments, tt.auth, EditState{})
			require.Len(t, v.Items, 2)

			assert.Equal(t, tt.composer, v.ShowComposer)
			assert.Equal(t, tt.ownsFirst, v.Items[0].CanEdit)
			assert.Equal(t, tt.ownsFirst, v.Items[0].CanDelete)
			assert.False(t, v.Items[1].CanEdit, "never offered on another user's comment")
			assert.False(t, v.Items[1].CanDelete)
		})
	}
}

func TestRenderEditingOnlyTarget(t *testing.T) {
	comments := []comment.Comment{
		{ID: 1, PlaceID: 1, UserID: 1, Text: "one"},
		{ID: 2, PlaceID: 1, UserID: 1, Text: "two"},
	}
	edit := EditState{}.toggle(2, "two (draft)")

	v := Render(1, comments, AuthContext{UserID: 1, Authenticated: true}, edit)

	assert.False(t, v.Items[0].Editing)
	assert.True(t, v.Items[1].Editing)
	assert.Equal(t, "two (draft)", v.Items[1].Draft)
	assert.Equal(t, "two", v.Items[1].Comment.Text, "stored text untouched by the draft")
}

func TestCoordinatorViewUsesEditState(t *testing.T) {
	co, _, _ := newTestCoordinator(t, &fakeAPI{})
	co.BeginEdit(3, "third")
	co.SetDraft("third, draft")

	v := co.View(seedComments())
	require.Len(t, v.Items, 3)
	assert.True(t, v.ShowComposer)
	assert.True(t, v.Items[2].Editing)
	assert.Equal(t, "third, draft", v.Items[2].Draft)
	assert.False(t, v.Items[1].CanEdit, "bob's comment")
}
