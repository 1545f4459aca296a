// Package thread coordinates a place's comment thread: reading it through
// the keyed cache, creating and deleting comments, and editing them with an
// optimistic cache write that is rolled back if the server rejects it.
package thread

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/evcraddock/place-notes/internal/auth"
	"github.com/evcraddock/place-notes/internal/cache"
	"github.com/evcraddock/place-notes/internal/comment"
)

// ErrNotAuthenticated is returned for operations that need a logged-in caller.
var ErrNotAuthenticated = errors.New("not logged in")

// API is the remote comment service.
type API interface {
	ListComments(ctx context.Context, placeID int64) ([]comment.Comment, error)
	AddComment(ctx context.Context, d comment.Draft) (*comment.Comment, error)
	UpdateComment(ctx context.Context, id int64, text string) (*comment.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	GetUserProfile(ctx context.Context, token string) (*auth.User, error)
}

// CommentCache holds comment lists by key.
type CommentCache interface {
	Read(key cache.Key) ([]comment.Comment, bool)
	Write(key cache.Key, comments []comment.Comment)
	CancelPending(key cache.Key)
	Invalidate(key cache.Key)
}

// loader is implemented by caches that can fetch on a miss, like *cache.Store.
type loader interface {
	Get(ctx context.Context, key cache.Key) ([]comment.Comment, error)
}

// NewCache returns a comment cache that loads lists from api.
func NewCache(api API, size int) (*cache.Store[[]comment.Comment], error) {
	return cache.New[[]comment.Comment](size, func(ctx context.Context, key cache.Key) ([]comment.Comment, error) {
		return api.ListComments(ctx, key.ParentID)
	})
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithNotifier sets where user-facing notices go.
func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) { c.notifier = n }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// Coordinator drives the comment thread of one place.
type Coordinator struct {
	placeID  int64
	key      cache.Key
	api      API
	cache    CommentCache
	notifier Notifier
	log      *slog.Logger

	mu       sync.Mutex
	auth     AuthContext
	profile  *auth.User
	edit     EditState
	inflight int // optimistic edits on key not yet resolved

	wg sync.WaitGroup
}

// New creates a coordinator for the thread of placeID.
func New(placeID int64, api API, c CommentCache, ac AuthContext, opts ...Option) *Coordinator {
	co := &Coordinator{
		placeID: placeID,
		key:     cache.CommentsKey(placeID),
		api:     api,
		cache:   c,
		auth:    ac,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(co)
	}
	if co.notifier == nil {
		co.notifier = logNotifier{log: co.log}
	}
	co.log = co.log.With("place_id", placeID)
	return co
}

// Key returns the cache key of this thread's comment list.
func (c *Coordinator) Key() cache.Key {
	return c.key
}

// Auth returns the caller's current identity.
func (c *Coordinator) Auth() AuthContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.auth
}

// Profile returns the last profile loaded by RefreshProfile, or nil.
func (c *Coordinator) Profile() *auth.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// RefreshProfile loads the caller's latest profile and adopts its user ID.
func (c *Coordinator) RefreshProfile(ctx context.Context) (*auth.User, error) {
	token := c.Auth().Token
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	u, err := c.api.GetUserProfile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	c.mu.Lock()
	c.profile = u
	c.auth.UserID = u.ID
	c.auth.Authenticated = true
	c.mu.Unlock()

	return u, nil
}

// Comments returns the place's comments, read through the cache.
func (c *Coordinator) Comments(ctx context.Context) ([]comment.Comment, error) {
	var (
		list []comment.Comment
		err  error
	)
	if l, ok := c.cache.(loader); ok {
		list, err = l.Get(ctx, c.key)
	} else {
		list, err = c.readThrough(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("loading comments: %w", err)
	}
	return comment.ForPlace(list, c.placeID), nil
}

func (c *Coordinator) readThrough(ctx context.Context) ([]comment.Comment, error) {
	if list, ok := c.cache.Read(c.key); ok {
		return list, nil
	}
	list, err := c.api.ListComments(ctx, c.placeID)
	if err != nil {
		return nil, err
	}
	c.cache.Write(c.key, list)
	return list, nil
}

// BeginEdit opens the edit form for a comment. Calling it again for the
// comment already being edited closes the form.
func (c *Coordinator) BeginEdit(commentID int64, currentText string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edit = c.edit.toggle(commentID, currentText)
}

// SetDraft updates the working text of the open edit.
func (c *Coordinator) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit.Active {
		c.edit.Text = text
	}
}

// CancelEdit closes the edit form without saving.
func (c *Coordinator) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edit = EditState{}
}

// Editing returns the current edit state.
func (c *Coordinator) Editing() EditState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.edit
}

// SubmitEdit saves newText for the comment being edited. The cache shows
// the new text before the server answers; if the server rejects the
// update the cached list is restored to what it was before. Either way the
// list is invalidated once the outcome is known. The edit form is closed
// in all cases, including blank input, which sends nothing.
func (c *Coordinator) SubmitEdit(ctx context.Context, newText string) *Pending {
	c.mu.Lock()
	edit := c.edit
	if !edit.Active || comment.IsBlank(newText) {
		c.edit = EditState{}
		c.mu.Unlock()
		return skippedPending()
	}

	// A list fetch landing after the write below would hide the new text.
	c.cache.CancelPending(c.key)

	previous, cached := c.cache.Read(c.key)
	snapshot := slices.Clone(previous)
	if cached {
		c.cache.Write(c.key, comment.ReplaceText(previous, edit.CommentID, newText))
	}

	c.edit = EditState{}
	c.inflight++
	overlapping := c.inflight > 1
	c.mu.Unlock()

	log := c.log.With("mutation_id", uuid.NewString(), "comment_id", edit.CommentID)
	if overlapping {
		// Not serialized: a rollback of the earlier edit can overwrite this one.
		log.Warn("overlapping optimistic edit", "key", c.key.String())
	}
	log.Debug("optimistic edit applied", "cached", cached)

	p := newPending()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		_, err := c.api.UpdateComment(ctx, edit.CommentID, newText)
		if err != nil {
			if cached {
				c.cache.Write(c.key, snapshot)
			}
			log.Warn("edit rejected, cache rolled back", "error", err)
			c.notifier.Notify(ctx, Notice{
				Kind:    NoticeError,
				Message: "Error while updating comment: " + err.Error(),
			})
		} else {
			log.Debug("edit confirmed")
		}

		// Success or not, the next read reconciles with the server.
		c.cache.Invalidate(c.key)

		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()

		p.finish(err)
	}()

	return p
}

// SubmitNewComment posts a comment by author. Blank text is ignored. The
// comment shows up after the next read; nothing is inserted locally.
// Callers hide the composer from anonymous users; the server rejects
// unauthenticated creates on its own.
func (c *Coordinator) SubmitNewComment(ctx context.Context, text string, author Author) error {
	if comment.IsBlank(text) {
		return nil
	}

	created, err := c.api.AddComment(ctx, comment.Draft{
		PlaceID:  c.placeID,
		UserID:   author.UserID,
		Nickname: author.Nickname,
		Avatar:   author.Avatar,
		Text:     text,
	})
	if err != nil {
		return fmt.Errorf("adding comment: %w", err)
	}

	c.cache.Invalidate(c.key)
	c.log.Debug("comment added", "comment_id", created.ID)
	c.notifier.Notify(ctx, Notice{Kind: NoticeInfo, Message: "Comment added."})
	return nil
}

// DeleteComment removes a comment. The list updates on the next read.
func (c *Coordinator) DeleteComment(ctx context.Context, commentID int64) error {
	if err := c.api.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	c.cache.Invalidate(c.key)
	c.log.Debug("comment deleted", "comment_id", commentID)
	c.notifier.Notify(ctx, Notice{Kind: NoticeInfo, Message: "Comment deleted."})
	return nil
}

// Wait blocks until every submitted edit has resolved.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// View renders the thread for the caller from comments.
func (c *Coordinator) View(comments []comment.Comment) View {
	c.mu.Lock()
	ac, edit := c.auth, c.edit
	c.mu.Unlock()
	return Render(c.placeID, comments, ac, edit)
}
