package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/snappaste/snappaste/internal/message"
	"github.com/snappaste/snappaste/internal/record"
)

func newHistoryCmd() *cobra.Command {
	var (
		query     string
		limit     int
		offset    int
		favorites bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or search clipboard history",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runHistory(query, limit, offset, favorites)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&query, "query", "q", "", "substring to search for")
	f.IntVarP(&limit, "limit", "n", 50, "maximum entries to print")
	f.IntVar(&offset, "offset", 0, "entries to skip")
	f.BoolVar(&favorites, "favorites", false, "only favorite entries")

	return cmd
}

func runHistory(query string, limit, offset int, favorites bool) error {
	resp, err := requestDaemon(&message.Message{
		Type:      message.TypeHistory,
		Query:     query,
		Limit:     limit,
		Offset:    offset,
		Favorites: favorites,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	defer w.Flush()
	for _, r := range resp.Records {
		flags := ""
		if r.IsPinned {
			flags += "P"
		}
		if r.IsFavorite {
			flags += "F"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.ContentType, flags,
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.SourceApp,
			preview(&r),
		)
	}
	return nil
}

// preview returns a single-line display form of a record's content.
func preview(r *record.Record) string {
	s := r.Content
	const max = 72
	out := make([]rune, 0, max)
	for _, ch := range s {
		if ch == '\n' || ch == '\r' || ch == '\t' {
			ch = ' '
		}
		out = append(out, ch)
		if len(out) == max {
			return string(out) + "…"
		}
	}
	return string(out)
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a history record",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runIDCommand(message.TypeDelete, args[0], false)
		},
	}
}

func newFavoriteCmd() *cobra.Command {
	var unset bool
	cmd := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Mark a record as favorite (exempt from retention pruning)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runIDCommand(message.TypeFavorite, args[0], !unset)
		},
	}
	cmd.Flags().BoolVar(&unset, "unset", false, "remove the favorite flag")
	return cmd
}

func newPinCmd() *cobra.Command {
	var unset bool
	cmd := &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin a record to the top of the history list",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runIDCommand(message.TypePin, args[0], !unset)
		},
	}
	cmd.Flags().BoolVar(&unset, "unset", false, "remove the pin")
	return cmd
}

func newClearCmd() *cobra.Command {
	var favorites bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all non-favorite records (--favorites deletes favorites instead)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := requestDaemon(&message.Message{Type: message.TypeClear, Favorites: favorites})
			return err
		},
	}
	cmd.Flags().BoolVar(&favorites, "favorites", false, "delete favorite records instead of the regular history")
	return cmd
}

func runIDCommand(t message.Type, arg string, flag bool) error {
	var id int64
	if _, err := fmt.Sscanf(arg, "%d", &id); err != nil {
		return fmt.Errorf("record id must be a number: %q", arg)
	}
	_, err := requestDaemon(&message.Message{Type: t, ID: id, Flag: flag})
	return err
}
