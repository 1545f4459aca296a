package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/place-notes/internal/auth"
)

func newLoginCmd() *cobra.Command {
	var server, key string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key",
		Long:  "Stores an API key for CLI access. Get one from your server admin or with 'pn user add'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, server, key)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server URL (default: from config or http://localhost:8080)")
	cmd.Flags().StringVar(&key, "key", "", "API key (prompted for when omitted)")

	return cmd
}

func runLogin(cmd *cobra.Command, serverFlag, key string) error {
	out := cmd.OutOrStdout()

	if key == "" {
		fmt.Fprint(out, "Paste your API key: ")
		var err error
		key, err = readKey(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	key = strings.TrimSpace(key)
	if err := validateAPIKey(key); err != nil {
		return err
	}

	// Load existing config to preserve other fields
	cfg, err := loadConfig()
	if err != nil {
		cfg = Config{}
	}

	cfg.APIKey = key
	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}

	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "✓ API key saved. You're logged in!")
	return nil
}

func readKey(in io.Reader) (string, error) {
	key, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return key, nil
}

// validateAPIKey checks that the key is non-empty and has the expected prefix.
func validateAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("no API key provided")
	}
	if !strings.HasPrefix(key, auth.KeyPrefix) {
		return fmt.Errorf("invalid API key format (should start with %s)", auth.KeyPrefix)
	}
	return nil
}
