package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/snappaste/snappaste/internal/clip"
	"github.com/snappaste/snappaste/internal/focus"
	"github.com/snappaste/snappaste/internal/ipc"
	"github.com/snappaste/snappaste/internal/message"
	"github.com/snappaste/snappaste/internal/monitor"
	"github.com/snappaste/snappaste/internal/record"
	"github.com/snappaste/snappaste/internal/store"
	"github.com/snappaste/snappaste/internal/ui"
	"github.com/snappaste/snappaste/internal/wire"
)

func newServeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the clipboard history daemon",
		Long: `Starts the snappaste daemon: watches the clipboard, persists history to
SQLite, and serves paste/copy/history requests on a local IPC socket.

Config file search order:
  /etc/snappaste/snappaste.toml
  $HOME/.config/snappaste/snappaste.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → SNAPPASTE_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runServe(v) },
	}

	f := cmd.Flags()
	f.String("data-dir", defaultDataDir(), "directory holding the history database")
	f.Bool("no-images", false, "disable image capture (text/link history only)")
	f.Duration("poll-interval", 500*time.Millisecond, "polling fallback interval")
	f.Duration("image-interval", 1200*time.Millisecond, "minimum interval between image records")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runServe(v *viper.Viper) error {
	setupLogging(v)

	dataDir := v.GetString("data-dir")
	st, err := store.Open(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	backend := clip.New()
	defer backend.Close()

	cfg := monitor.DefaultConfig()
	cfg.CaptureImages = !v.GetBool("no-images")
	cfg.PollInterval = v.GetDuration("poll-interval")
	cfg.MinImageInterval = v.GetDuration("image-interval")

	frontend := &ui.LogFrontend{}
	mon := monitor.New(backend, st, frontend, focus.New(), cfg)

	slog.Info("snappaste daemon starting",
		"version", Version,
		"data_dir", dataDir,
		"backend", backend.Name(),
		"images", cfg.CaptureImages,
	)

	mon.Start()
	defer mon.Stop()

	ln, err := ipc.Listen()
	if err != nil {
		return fmt.Errorf("ipc listen: %w", err)
	}
	defer ln.Close()
	slog.Info("IPC socket listening", "path", ipc.SocketPath())

	go serveIPC(ln, mon, st)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	slog.Info("shutting down", "signal", s)
	return nil
}

func serveIPC(ln net.Listener, mon *monitor.Monitor, st *store.Store) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go handleIPCConn(conn, mon, st)
	}
}

func handleIPCConn(conn net.Conn, mon *monitor.Monitor, st *store.Store) {
	defer conn.Close()
	wc := wire.New(conn)

	msg, err := wc.ReadMsg()
	if err != nil {
		return
	}

	resp := dispatch(msg, mon, st)
	if err := wc.WriteMsg(resp); err != nil {
		slog.Debug("ipc reply failed", "err", err)
	}
}

func dispatch(msg *message.Message, mon *monitor.Monitor, st *store.Store) *message.Message {
	switch msg.Type {
	case message.TypeCopy:
		if err := mon.SetClipboardText(msg.Text); err != nil {
			return message.Err(err)
		}
		slog.Debug("ipc: clipboard set", "bytes", len(msg.Text))
		return message.OK()

	case message.TypePaste:
		// The requester's window is the paste target; snapshot it before
		// anything steals focus.
		mon.CaptureTargetWindow()
		if err := mon.PasteRecordContent(msg.ID); err != nil {
			return message.Err(err)
		}
		return message.OK()

	case message.TypeHistory:
		recs, err := queryHistory(st, msg)
		if err != nil {
			return message.Err(err)
		}
		out := make([]record.Record, len(recs))
		for i, r := range recs {
			out[i] = *r
		}
		return &message.Message{Type: message.TypeRecords, Records: out}

	case message.TypeDelete:
		if err := st.DeleteRecord(msg.ID); err != nil {
			return message.Err(err)
		}
		return message.OK()

	case message.TypeFavorite:
		if err := st.SetFavorite(msg.ID, msg.Flag); err != nil {
			return message.Err(err)
		}
		return message.OK()

	case message.TypePin:
		if err := st.SetPinned(msg.ID, msg.Flag); err != nil {
			return message.Err(err)
		}
		return message.OK()

	case message.TypeClear:
		var err error
		if msg.Favorites {
			err = st.ClearFavorites()
		} else {
			err = st.ClearNonFavorites()
		}
		if err != nil {
			return message.Err(err)
		}
		return message.OK()

	case message.TypeStatus:
		n, err := st.Count()
		if err != nil {
			return message.Err(err)
		}
		return &message.Message{Type: message.TypeOK, Status: &message.StatusInfo{
			Version:  Version,
			Backend:  mon.BackendName(),
			Strategy: mon.Strategy(),
			Records:  n,
		}}

	default:
		return &message.Message{Type: message.TypeError, Error: fmt.Sprintf("unknown request type %q", msg.Type)}
	}
}

func queryHistory(st *store.Store, msg *message.Message) ([]*record.Record, error) {
	limit := msg.Limit
	if limit <= 0 {
		limit = 50
	}

	switch {
	case msg.Favorites && msg.Query != "":
		return st.SearchFavorites(msg.Query, limit)
	case msg.Favorites:
		return st.Favorites(limit, msg.Offset)
	case msg.Query != "":
		return st.Search(msg.Query, limit)
	default:
		return st.History(limit, msg.Offset)
	}
}
