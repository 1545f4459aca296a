package thread

import (
	"context"
	"log/slog"
)

// NoticeKind tells a notifier how to present a notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
)

func (k NoticeKind) String() string {
	if k == NoticeError {
		return "error"
	}
	return "info"
}

// Notice is a user-facing message about a finished operation.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// logNotifier is the default: notices only go to the log.
type logNotifier struct {
	log *slog.Logger
}

func (l logNotifier) Notify(ctx context.Context, n Notice) {
	level := slog.LevelInfo
	if n.Kind == NoticeError {
		level = slog.LevelWarn
	}
	l.log.Log(ctx, level, n.Message, "notice", n.Kind.String())
}
