package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/evcraddock/place-notes/internal/auth"
	"github.com/evcraddock/place-notes/internal/logging"
	"github.com/evcraddock/place-notes/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the place-notes HTTP API. Settings come from PN_* environment variables, optionally loaded from a .env file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.ErrOrStderr(), port, envFile)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")

	return cmd
}

func runServe(errOut io.Writer, port int, envFile string) error {
	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	cfg := auth.ConfigFromEnv()
	logging.Setup(cfg.DevMode)

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := bootstrapAdmin(database, cfg.AdminEmail, errOut); err != nil {
		return err
	}

	return web.NewServer(database, cfg).ListenAndServe(port)
}

// loadEnvFile loads path into the environment. A missing file is fine;
// variables already set win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// bootstrapAdmin registers the admin user on first start and prints its
// key once to keyOut. The key stays out of the log. An existing admin is
// left alone.
func bootstrapAdmin(database *sql.DB, email string, keyOut io.Writer) error {
	if email == "" {
		return nil
	}

	users := auth.NewUserStore(database)
	_, err := users.GetByEmail(email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, auth.ErrUserNotFound) {
		return fmt.Errorf("looking up admin: %w", err)
	}

	u, err := users.Add(email, "", "")
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	rawKey, _, err := auth.NewAPIKeyStore(database).Create("bootstrap", u.ID)
	if err != nil {
		return fmt.Errorf("creating admin key: %w", err)
	}

	slog.Info("admin user created", "email", u.Email, "user_id", u.ID)
	fmt.Fprintf(keyOut, "Admin API key for %s (not shown again): %s\n", u.Email, rawKey)
	return nil
}
