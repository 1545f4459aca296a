package thread

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/evcraddock/place-notes/internal/auth"
	"github.com/evcraddock/place-notes/internal/cache"
	"github.com/evcraddock/place-notes/internal/comment"
)

// fakeAPI records calls. UpdateComment blocks on gate, or on gates[id],
// when set, and fails with updateErr or failures[id].
type fakeAPI struct {
	mu        sync.Mutex
	comments  []comment.Comment
	updates   []string
	drafts    []comment.Draft
	deleted   []int64
	listCalls int

	gate      chan struct{}
	gates     map[int64]chan struct{}
	updateErr error
	failures  map[int64]error
	addErr    error
	deleteErr error
	profile   *auth.User
}

var errServer = errors.New("server error: Internal Server Error")

func (f *fakeAPI) ListComments(ctx context.Context, placeID int64) ([]comment.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return slices.Clone(f.comments), nil
}

func (f *fakeAPI) AddComment(ctx context.Context, d comment.Draft) (*comment.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, d)
	if f.addErr != nil {
		return nil, f.addErr
	}
	c := comment.Comment{ID: int64(100 + len(f.drafts)), PlaceID: d.PlaceID, UserID: d.UserID, Text: d.Text}
	f.comments = append(f.comments, c)
	return &c, nil
}

func (f *fakeAPI) UpdateComment(ctx context.Context, id int64, text string) (*comment.Comment, error) {
	if f.gate != nil {
		<-f.gate
	}
	if g, ok := f.gates[id]; ok {
		<-g
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, text)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if err := f.failures[id]; err != nil {
		return nil, err
	}
	f.comments = comment.ReplaceText(f.comments, id, text)
	return &comment.Comment{ID: id, Text: text}, nil
}

func (f *fakeAPI) DeleteComment(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) GetUserProfile(ctx context.Context, token string) (*auth.User, error) {
	if f.profile == nil {
		return nil, errServer
	}
	return f.profile, nil
}

func (f *fakeAPI) requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates) + len(f.drafts) + len(f.deleted)
}

// fakeCache is a map-backed CommentCache that logs every operation.
type fakeCache struct {
	mu      sync.Mutex
	lists   map[cache.Key][]comment.Comment
	stale   map[cache.Key]bool
	ops     []string
	onWrite func(key cache.Key, comments []comment.Comment)
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		lists: make(map[cache.Key][]comment.Comment),
		stale: make(map[cache.Key]bool),
	}
}

func (f *fakeCache) Read(key cache.Key) ([]comment.Comment, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "read")
	v, ok := f.lists[key]
	return v, ok
}

func (f *fakeCache) Write(key cache.Key, comments []comment.Comment) {
	f.mu.Lock()
	f.ops = append(f.ops, "write")
	f.lists[key] = comments
	f.stale[key] = false
	hook := f.onWrite
	f.mu.Unlock()
	if hook != nil {
		hook(key, comments)
	}
}

func (f *fakeCache) CancelPending(key cache.Key) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "cancel")
}

func (f *fakeCache) Invalidate(key cache.Key) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "invalidate")
	f.stale[key] = true
}

func (f *fakeCache) get(key cache.Key) []comment.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists[key]
}

func (f *fakeCache) isStale(key cache.Key) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stale[key]
}

func (f *fakeCache) opLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.ops)
}

// recorder collects notices.
type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) Notify(ctx context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) all() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.notices)
}
