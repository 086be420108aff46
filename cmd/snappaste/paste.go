package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/snappaste/snappaste/internal/message"
)

func newPasteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paste <id>",
		Short: "Paste a stored record into the focused window",
		Long: `Asks the daemon to write the record back to the OS clipboard, restore
focus to the window that was focused when the request arrived, and inject
the platform paste shortcut.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error { return runPaste(args[0]) },
	}
	return cmd
}

func runPaste(arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("record id must be a number: %q", arg)
	}

	_, err = requestDaemon(&message.Message{
		Type: message.TypePaste,
		ID:   id,
	})
	return err
}
