package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a place",
		Long:  "Add a place by name, optionally with a street address.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, strings.Join(args, " "), address)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "street address of the place")

	return cmd
}

func runAdd(cmd *cobra.Command, name, address string) error {
	p, err := newAPIClient().AddPlace(cmd.Context(), name, address)
	if err != nil {
		return fmt.Errorf("adding place: %w", err)
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, p)
	}

	fmt.Fprintln(out, "Place added.")
	printPlaceSummary(out, p)
	return nil
}
