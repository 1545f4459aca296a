package thread

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/place-notes/internal/auth"
	"github.com/evcraddock/place-notes/internal/cache"
	"github.com/evcraddock/place-notes/internal/comment"
)

const placeA int64 = 1

var alice = AuthContext{UserID: 10, Token: "pn_alice", Authenticated: true}

func seedComments() []comment.Comment {
	return []comment.Comment{
		{ID: 1, PlaceID: placeA, UserID: 10, Nickname: "alice", Text: "first"},
		{ID: 2, PlaceID: placeA, UserID: 20, Nickname: "bob", Text: "second"},
		{ID: 3, PlaceID: placeA, UserID: 10, Nickname: "alice", Text: "third"},
	}
}

func newTestCoordinator(t *testing.T, api *fakeAPI) (*Coordinator, *fakeCache, *recorder) {
	t.Helper()
	fc := newFakeCache()
	fc.lists[cache.CommentsKey(placeA)] = seedComments()
	rec := &recorder{}
	return New(placeA, api, fc, alice, WithNotifier(rec)), fc, rec
}

func TestBeginEditToggle(t *testing.T) {
	co, fc, _ := newTestCoordinator(t, &fakeAPI{})

	co.BeginEdit(1, "first")
	assert.Equal(t, EditState{CommentID: 1, Text: "first", Active: true}, co.Editing())

	co.BeginEdit(1, "first")
	assert.False(t, co.Editing().Active, "second BeginEdit on the same id closes the form")

	co.BeginEdit(1, "first")
	co.BeginEdit(3, "third")
	assert.Equal(t, int64(3), co.Editing().CommentID)
	assert.True(t, co.Editing().Active)

	assert.Empty(t, fc.opLog(), "BeginEdit must not touch the cache")
}

func TestSetDraftAndCancel(t *testing.T) {
	co, _, _ := newTestCoordinator(t, &fakeAPI{})

	co.SetDraft("ignored while inactive")
	assert.Equal(t, EditState{}, co.Editing())

	co.BeginEdit(1, "first")
	co.SetDraft("first, revised")
	assert.Equal(t, "first, revised", co.Editing().Text)

	co.CancelEdit()
	assert.False(t, co.Editing().Active)
}

func TestSubmitEditOptimisticVisibility(t *testing.T) {
	api := &fakeAPI{gate: make(chan struct{})}
	co, fc, _ := newTestCoordinator(t, api)
	key := co.Key()

	co.BeginEdit(2, "second")
	p := co.SubmitEdit(context.Background(), "second, edited")
	require.False(t, p.Skipped())

	// The server has not answered yet.
	got := fc.get(key)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "second, edited", got[1].Text)
	assert.Equal(t, "third", got[2].Text)
	assert.Equal(t, []int64{1, 2, 3}, []int64{got[0].ID, got[1].ID, got[2].ID})
	assert.False(t, co.Editing().Active, "edit form closes before the request resolves")
	assert.Equal(t, []string{"cancel", "read", "write"}, fc.opLog())

	close(api.gate)
	require.NoError(t, p.Wait(context.Background()))
	assert.Equal(t, []string{"second, edited"}, api.updates)
}

func TestSubmitEditSuccessInvalidates(t *testing.T) {
	api := &fakeAPI{comments: seedComments()}
	co, fc, rec := newTestCoordinator(t, api)

	co.BeginEdit(1, "first")
	require.NoError(t, co.SubmitEdit(context.Background(), "updated").Wait(context.Background()))

	assert.Equal(t, []string{"cancel", "read", "write", "invalidate"}, fc.opLog())
	assert.True(t, fc.isStale(co.Key()))
	assert.Equal(t, "updated", fc.get(co.Key())[0].Text)
	assert.Empty(t, rec.all(), "a successful edit is silent")
}

func TestSubmitEditRollback(t *testing.T) {
	api := &fakeAPI{updateErr: errServer}
	co, fc, rec := newTestCoordinator(t, api)
	before := seedComments()

	co.BeginEdit(3, "third")
	err := co.SubmitEdit(context.Background(), "will be rejected").Wait(context.Background())
	require.ErrorIs(t, err, errServer)

	assert.Equal(t, before, fc.get(co.Key()), "cache must equal the pre-edit list exactly")
	assert.Equal(t, []string{"cancel", "read", "write", "write", "invalidate"}, fc.opLog())

	notices := rec.all()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Kind)
	assert.Contains(t, notices[0].Message, errServer.Error())
	assert.False(t, co.Editing().Active)
}

func TestSubmitEditRollbackWithoutCachedList(t *testing.T) {
	api := &fakeAPI{updateErr: errServer}
	fc := newFakeCache()
	co := New(placeA, api, fc, alice, WithNotifier(&recorder{}))

	co.BeginEdit(1, "first")
	err := co.SubmitEdit(context.Background(), "x").Wait(context.Background())
	require.Error(t, err)

	_, ok := fc.lists[co.Key()]
	assert.False(t, ok, "nothing cached means nothing written")
	assert.Equal(t, []string{"cancel", "read", "invalidate"}, fc.opLog())
}

func TestSubmitEditBlankIsNoop(t *testing.T) {
	api := &fakeAPI{}
	co, fc, _ := newTestCoordinator(t, api)

	co.BeginEdit(1, "first")
	p := co.SubmitEdit(context.Background(), "   ")

	assert.True(t, p.Skipped())
	assert.NoError(t, p.Wait(context.Background()))
	assert.Zero(t, api.requests())
	assert.Empty(t, fc.opLog())
	assert.Equal(t, seedComments(), fc.get(co.Key()))
	assert.False(t, co.Editing().Active, "blank submit still closes the form")
}

func TestSubmitEditWithoutActiveEdit(t *testing.T) {
	api := &fakeAPI{}
	co, fc, _ := newTestCoordinator(t, api)

	p := co.SubmitEdit(context.Background(), "text")
	assert.True(t, p.Skipped())
	assert.Zero(t, api.requests())
	assert.Empty(t, fc.opLog())
}

func TestSubmitNewCommentBlankIsNoop(t *testing.T) {
	api := &fakeAPI{}
	co, fc, rec := newTestCoordinator(t, api)

	require.NoError(t, co.SubmitNewComment(context.Background(), "", Author{UserID: 10}))
	require.NoError(t, co.SubmitNewComment(context.Background(), " \n ", Author{UserID: 10}))

	assert.Zero(t, api.requests())
	assert.Empty(t, fc.opLog())
	assert.Empty(t, rec.all())
}

func TestSubmitNewComment(t *testing.T) {
	api := &fakeAPI{}
	co, fc, rec := newTestCoordinator(t, api)
	author := Author{UserID: 10, Nickname: "alice", Avatar: "https://img.example/a.png"}

	require.NoError(t, co.SubmitNewComment(context.Background(), "hello", author))

	require.Len(t, api.drafts, 1)
	assert.Equal(t, comment.Draft{
		PlaceID:  placeA,
		UserID:   10,
		Nickname: "alice",
		Avatar:   "https://img.example/a.png",
		Text:     "hello",
	}, api.drafts[0])

	// No optimistic insert: the list only changes after a refetch.
	assert.Len(t, fc.get(co.Key()), 3)
	assert.Equal(t, []string{"invalidate"}, fc.opLog())

	notices := rec.all()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeInfo, notices[0].Kind)
}

func TestSubmitNewCommentErrors(t *testing.T) {
	t.Run("anonymous rejected by server", func(t *testing.T) {
		api := &fakeAPI{addErr: errServer}
		co := New(placeA, api, newFakeCache(), Anonymous)

		err := co.SubmitNewComment(context.Background(), "hello", Author{})
		assert.ErrorIs(t, err, errServer)
		assert.Equal(t, 1, api.requests())
	})

	t.Run("server failure", func(t *testing.T) {
		api := &fakeAPI{addErr: errServer}
		co, fc, rec := newTestCoordinator(t, api)

		err := co.SubmitNewComment(context.Background(), "hello", Author{UserID: 10})
		assert.ErrorIs(t, err, errServer)
		assert.Empty(t, fc.opLog())
		assert.Empty(t, rec.all())
	})
}

func TestDeleteComment(t *testing.T) {
	api := &fakeAPI{}
	co, fc, rec := newTestCoordinator(t, api)

	require.NoError(t, co.DeleteComment(context.Background(), 3))
	assert.Equal(t, []int64{3}, api.deleted)
	assert.Len(t, fc.get(co.Key()), 3, "no optimistic removal")
	assert.Equal(t, []string{"invalidate"}, fc.opLog())
	assert.Len(t, rec.all(), 1)

	api.deleteErr = errServer
	err := co.DeleteComment(context.Background(), 1)
	assert.ErrorIs(t, err, errServer)
	assert.Equal(t, []string{"invalidate"}, fc.opLog())
}

func TestRefreshProfile(t *testing.T) {
	api := &fakeAPI{profile: &auth.User{ID: 42, Nickname: "ali"}}
	co := New(placeA, api, newFakeCache(), AuthContext{Token: "pn_tok"})

	u, err := co.RefreshProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ali", u.Nickname)
	assert.Equal(t, AuthContext{UserID: 42, Token: "pn_tok", Authenticated: true}, co.Auth())
	assert.Same(t, u, co.Profile())

	_, err = New(placeA, api, newFakeCache(), Anonymous).RefreshProfile(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCommentsReadThroughStore(t *testing.T) {
	api := &fakeAPI{comments: append(seedComments(), comment.Comment{ID: 9, PlaceID: 2, Text: "elsewhere"})}
	store, err := NewCache(api, 8)
	require.NoError(t, err)
	co := New(placeA, api, store, alice, WithNotifier(&recorder{}))
	ctx := context.Background()

	got, err := co.Comments(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3, "other places are filtered out")

	_, err = co.Comments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, api.listCalls)

	co.BeginEdit(2, "second")
	require.NoError(t, co.SubmitEdit(ctx, "resynced").Wait(ctx))

	got, err = co.Comments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.listCalls, "edit invalidates the list")
	assert.Equal(t, "resynced", got[1].Text)
}

func TestCommentsReadThroughFakeCache(t *testing.T) {
	api := &fakeAPI{comments: seedComments()}
	fc := newFakeCache()
	co := New(placeA, api, fc, alice)

	got, err := co.Comments(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, seedComments(), fc.get(co.Key()))
}

func TestSubmitEditCancelsInFlightFetch(t *testing.T) {
	fetchStarted := make(chan struct{})
	releaseFetch := make(chan struct{})
	api := &fakeAPI{comments: seedComments()}

	store, err := cache.New[[]comment.Comment](8, func(ctx context.Context, key cache.Key) ([]comment.Comment, error) {
		close(fetchStarted)
		<-releaseFetch
		return seedComments(), nil // the pre-edit server state
	})
	require.NoError(t, err)
	store.Write(cache.CommentsKey(placeA), seedComments())
	store.Invalidate(cache.CommentsKey(placeA))

	updateGate := make(chan struct{})
	api.gate = updateGate
	co := New(placeA, api, store, alice, WithNotifier(&recorder{}))
	ctx := context.Background()

	readDone := make(chan []comment.Comment, 1)
	go func() {
		got, err := co.Comments(ctx)
		assert.NoError(t, err)
		readDone <- got
	}()
	<-fetchStarted

	co.BeginEdit(1, "first")
	p := co.SubmitEdit(ctx, "optimistic")
	close(releaseFetch)

	got := <-readDone
	assert.Equal(t, "optimistic", got[0].Text, "late fetch must not overwrite the optimistic write")

	cached, ok := store.Read(co.Key())
	require.True(t, ok)
	assert.Equal(t, "optimistic", cached[0].Text)

	close(updateGate)
	require.NoError(t, p.Wait(ctx))
}

// Overlapping optimistic edits are not serialized. When an earlier edit
// fails after a later one succeeded, its rollback restores the list from
// before both, hiding the accepted text until the next refetch.
func TestOverlappingEditsAreNotSerialized(t *testing.T) {
	gateOne, gateTwo := make(chan struct{}), make(chan struct{})
	api := &fakeAPI{
		gates:    map[int64]chan struct{}{1: gateOne, 2: gateTwo},
		failures: map[int64]error{1: errServer},
	}
	co, fc, _ := newTestCoordinator(t, api)
	ctx := context.Background()

	co.BeginEdit(1, "first")
	p1 := co.SubmitEdit(ctx, "edit one")

	co.BeginEdit(2, "second")
	p2 := co.SubmitEdit(ctx, "edit two")

	got := fc.get(co.Key())
	assert.Equal(t, "edit one", got[0].Text)
	assert.Equal(t, "edit two", got[1].Text)

	close(gateTwo)
	require.NoError(t, p2.Wait(ctx))

	close(gateOne)
	require.ErrorIs(t, p1.Wait(ctx), errServer)
	co.Wait()

	final := fc.get(co.Key())
	assert.Equal(t, "first", final[0].Text)
	assert.Equal(t, "second", final[1].Text, "accepted edit hidden by the earlier rollback")
	assert.True(t, fc.isStale(co.Key()), "the next read refetches and shows it again")
}

func TestPendingWaitHonorsContext(t *testing.T) {
	api := &fakeAPI{gate: make(chan struct{})}
	co, _, _ := newTestCoordinator(t, api)

	co.BeginEdit(1, "first")
	p := co.SubmitEdit(context.Background(), "slow")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.True(t, errors.Is(p.Wait(ctx), context.DeadlineExceeded))

	close(api.gate)
	<-p.Done()
}
