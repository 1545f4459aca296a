// Package cli defines the cobra command tree for place-notes.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evcraddock/place-notes/internal/client"
	"github.com/evcraddock/place-notes/internal/db"
	"github.com/evcraddock/place-notes/internal/logging"
	"github.com/evcraddock/place-notes/internal/thread"
)

var (
	flagFormat  string
	flagDB      string
	flagVerbose bool
)

var _ thread.API = (*client.Client)(nil)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pn",
		Short:         "Leave notes on places",
		Long:          "A tool to keep comment threads on places. Add places, comment on them, and edit or delete your own comments through the place-notes server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.place-notes/places.db)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug output to stderr")

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users in the local database",
	}
	userCmd.AddCommand(newUserAddCmd())

	root.AddCommand(
		newAddCmd(),
		newListCmd(),
		newShowCmd(),
		newRemoveCmd(),
		newCommentCmd(),
		newCommentsCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newWhoamiCmd(),
		userCmd,
		newServeCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag or default path.
func openDB() (*sql.DB, error) {
	path := flagDB
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the place-notes API.
func newAPIClient() *client.Client {
	return resolveConfig().Client()
}

// newThread builds a coordinator for a place's comments. With an API key
// configured, the caller's profile is loaded so ownership can be checked.
func newThread(ctx context.Context, cmd *cobra.Command, placeID int64) (*thread.Coordinator, error) {
	cfg := resolveConfig()
	api := cfg.Client()
	store, err := thread.NewCache(api, cfg.CommentCacheSize)
	if err != nil {
		return nil, err
	}

	co := thread.New(placeID, api, store, cfg.AuthContext(),
		thread.WithNotifier(cliNotifier(cmd.OutOrStdout(), cmd.ErrOrStderr())),
		thread.WithLogger(cliLogger()),
	)
	if cfg.LoggedIn() {
		if _, err := co.RefreshProfile(ctx); err != nil {
			return nil, err
		}
	}
	return co, nil
}

// cliNotifier prints notices. Info notices are dropped in JSON mode so
// stdout stays parseable.
func cliNotifier(out, errOut io.Writer) thread.Notifier {
	return thread.NotifierFunc(func(_ context.Context, n thread.Notice) {
		if n.Kind == thread.NoticeError {
			fmt.Fprintln(errOut, n.Message)
			return
		}
		if !isJSON() {
			fmt.Fprintln(out, n.Message)
		}
	})
}

func cliLogger() *slog.Logger {
	if flagVerbose {
		return logging.New(os.Stderr, true)
	}
	return logging.Discard()
}

// parseID parses a positive numeric ID argument.
func parseID(what, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", what, arg)
	}
	return id, nil
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
