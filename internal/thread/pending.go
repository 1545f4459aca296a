package thread

import "context"

// Pending is the outcome of an edit whose remote update may still be running.
type Pending struct {
	done    chan struct{}
	err     error
	skipped bool
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// skippedPending is returned when there was nothing to send.
func skippedPending() *Pending {
	p := &Pending{done: make(chan struct{}), skipped: true}
	close(p.done)
	return p
}

func (p *Pending) finish(err error) {
	p.err = err
	close(p.done)
}

// Done is closed once the remote update has resolved and the cache has
// been reconciled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Skipped reports whether no request was sent (blank text or no active edit).
func (p *Pending) Skipped() bool {
	return p.skipped
}

// Wait blocks until the edit resolves or ctx ends, and returns the
// remote error if the update failed.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
