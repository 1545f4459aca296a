package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/evcraddock/place-notes/internal/comment"
	"github.com/evcraddock/place-notes/internal/place"
	"github.com/evcraddock/place-notes/internal/thread"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPlaceSummary prints a single place in text format.
func printPlaceSummary(w io.Writer, p *place.Place) {
	fmt.Fprintf(w, "Place #%d\n", p.ID)
	fmt.Fprintf(w, "  Name:     %s\n", p.Name)
	if p.Address != "" {
		fmt.Fprintf(w, "  Address:  %s\n", p.Address)
	}
	fmt.Fprintf(w, "  Added:    %s\n", formatTime(p.CreatedAt))
}

// printPlaceTable prints a list of places as a formatted table.
func printPlaceTable(out io.Writer, places []*place.Place) error {
	if len(places) == 0 {
		fmt.Fprintln(out, "No places found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tADDRESS\tADDED"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t-------\t-----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, p := range places {
		address := p.Address
		if address == "" {
			address = "-"
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			p.ID, truncate(p.Name, 30), truncate(address, 40), p.CreatedAt.Format("2006-01-02")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(out, "\nTotal: %d places\n", len(places))
	return nil
}

// printThread prints a rendered comment thread. Comments the caller may
// change are marked with "*".
func printThread(w io.Writer, v thread.View) {
	if len(v.Items) == 0 {
		fmt.Fprintln(w, "No comments.")
	}

	for _, it := range v.Items {
		mark := " "
		if it.CanEdit {
			mark = "*"
		}
		fmt.Fprintf(w, "%s [%s] #%d (%s)\n    %s\n\n",
			mark, formatTime(it.Comment.CreatedAt), it.Comment.ID, author(it.Comment), it.Comment.Text)
	}

	if !v.ShowComposer {
		fmt.Fprintln(w, "Log in with 'pn login' to comment.")
	}
}

// printCommentSingle prints a single comment in text format.
func printCommentSingle(w io.Writer, verb string, c *comment.Comment) {
	fmt.Fprintf(w, "Comment #%d %s.\n  %s\n", c.ID, verb, c.Text)
}

func author(c comment.Comment) string {
	if c.Nickname == "" {
		return "anonymous"
	}
	return c.Nickname
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return strings.TrimSpace(s[:maxLen-3]) + "..."
}
