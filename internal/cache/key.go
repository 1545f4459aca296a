// Package cache holds client-side copies of remote lists keyed by resource
// and parent, with the cancel and invalidate hooks optimistic writers need.
package cache

import "fmt"

// ResourceComments names comment lists.
const ResourceComments = "comments"

// Key identifies a cached list. Keys compare by value.
type Key struct {
	Resource string
	ParentID int64
}

// CommentsKey is the key of the comment list for a place.
func CommentsKey(placeID int64) Key {
	return Key{Resource: ResourceComments, ParentID: placeID}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.Resource, k.ParentID)
}
