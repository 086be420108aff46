package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/snappaste/snappaste/internal/message"
)

func newCopyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy stdin to the clipboard, bypassing history (like pbcopy)",
		Long: `Reads stdin and writes it to the OS clipboard through the daemon.

The write bypasses history capture: the daemon's monitor treats it as its
own write and records nothing.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error { return runCopy() },
	}
	return cmd
}

func runCopy() error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	_, err = requestDaemon(&message.Message{
		Type: message.TypeCopy,
		Text: string(data),
	})
	return err
}
