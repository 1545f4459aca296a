package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/place-notes/internal/client"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and auth status",
		Long:  "Tests the connection to the server and checks if the stored API key is valid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runStatus(ctx context.Context, out io.Writer) error {
	cfg := resolveConfig()
	apiKey := cfg.APIKey

	fmt.Fprintf(out, "Server:  %s\n", cfg.ServerURL)

	if apiKey == "" {
		fmt.Fprintln(out, "API Key: not configured")
		fmt.Fprintln(out, "\nRun 'pn login' to authenticate.")
		return nil
	}

	prefix := apiKey
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	fmt.Fprintf(out, "API Key: %s…\n", prefix)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	u, err := cfg.Client().GetUserProfile(ctx, "")

	var (
		nerr *client.NetworkError
		serr *client.ServerError
	)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Status:  ✓ connected and authenticated as %s\n", u.Nickname)
	case errors.As(err, &nerr):
		fmt.Fprintf(out, "Status:  ✗ cannot reach server (%v)\n", nerr.Err)
	case errors.As(err, &serr) && serr.StatusCode == http.StatusUnauthorized:
		fmt.Fprintln(out, "Status:  ✗ invalid API key")
		fmt.Fprintln(out, "\nRun 'pn login' to re-authenticate.")
	case errors.As(err, &serr):
		fmt.Fprintf(out, "Status:  ✗ unexpected response (%d)\n", serr.StatusCode)
	default:
		fmt.Fprintf(out, "Status:  ✗ %v\n", err)
	}

	return nil
}
