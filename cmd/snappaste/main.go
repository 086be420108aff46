// snappaste: clipboard history with paste-back automation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snappaste/snappaste/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "snappaste",
		Short: "Clipboard history with paste-back automation",
		Long: `snappaste watches the system clipboard, keeps a deduplicated history of
text and image entries in SQLite, and can re-inject a stored entry into
whatever application previously had input focus.

Run "snappaste serve" in the background. Use copy/paste/history/status as
CLI tools against the running daemon.

Config file search order (first found wins):
  /etc/snappaste/snappaste.toml
  $HOME/.config/snappaste/snappaste.toml
  path supplied via --config

All flags can be set via SNAPPASTE_<FLAG> env vars or config-file keys.
See "snappaste serve --help" for the full flag reference.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newCopyCmd(),
		newPasteCmd(),
		newHistoryCmd(),
		newDeleteCmd(),
		newFavoriteCmd(),
		newPinCmd(),
		newClearCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("snappaste %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if interactive {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(format, level)
}
