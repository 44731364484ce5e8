// notetab: a terminal note editor that keeps the whole note in a URL fragment.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"notetab/internal/config"
	"notetab/internal/fragment"
	"notetab/internal/history"
	"notetab/internal/logging"
	"notetab/internal/tui"
)

const Version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globals are the persistent flags shared by every command.
type globals struct {
	configPath string
	session    string
}

func (g *globals) load() (*config.Config, error) {
	return config.Load(g.configPath)
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	var (
		editor    string
		noSession bool
		exportDir string
		noColor   bool
	)
	root := &cobra.Command{
		Use:   "notetab [link]",
		Short: "Edit a note that lives in a URL fragment",
		Long: `notetab edits a note (type, title, body) whose only storage is the
fragment of a link. Saving records a history entry; the link can be copied,
shared and opened again with "notetab <link>".`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		Version:      Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if editor != "" {
				cfg.Editor = editor
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			level, err := config.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			log, closeLog, err := logging.Setup(cfg.LogFile, level, Version)
			if err != nil {
				return err
			}
			defer closeLog()
			slog.SetDefault(log)

			link := ""
			if len(args) == 1 {
				link = args[0]
			}
			sess, err := openHistory(cmd.Context(), cfg, g.session, noSession, link)
			if err != nil {
				return err
			}
			defer sess.close()
			log.Info("starting", "session", sess.id, "editor", cfg.Editor)

			return tui.Run(tui.Options{
				Config:    cfg,
				History:   sess.hist,
				Logger:    log,
				Link:      sess.open,
				ExportDir: exportDir,
				NoColor:   noColor,
			})
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().StringVar(&g.session, "session", "", "session id to resume (default: latest)")
	root.Flags().StringVar(&editor, "editor", "", "body editor: plain or markup (overrides config)")
	root.Flags().BoolVar(&noSession, "no-session", false, "keep history in memory only")
	root.Flags().StringVar(&exportDir, "export-dir", ".", "directory for ctrl+e exports")
	root.Flags().BoolVar(&noColor, "no-color", false, "disable colored chips")

	root.AddCommand(
		exportCmd(g),
		importCmd(g),
		linkCmd(g),
		recoverCmd(g),
		configCmd(g),
		versionCmd(),
	)
	return root
}

// session is an opened history plus what the page should do with it.
type session struct {
	hist  history.History
	id    string
	open  string // link to open on top of the current entry
	close func() error
}

// openHistory picks the history for a run. A link starts a new session at
// that link unless a session is named, in which case the link is opened on
// top of it. Without either the latest session is resumed.
func openHistory(ctx context.Context, cfg *config.Config, id string, noSession bool, link string) (*session, error) {
	start := cfg.LinkBase
	if link != "" {
		hash, err := fragment.FromURL(link)
		if err != nil {
			return nil, err
		}
		start = cfg.LinkBase + hash
	}
	if noSession {
		return &session{hist: history.NewMemory(start), close: func() error { return nil }}, nil
	}

	store, err := history.Open(ctx, cfg.SessionDB)
	if err != nil {
		return nil, err
	}
	var (
		p    *history.Persistent
		open string
	)
	switch {
	case id != "":
		p, err = history.Resume(ctx, store, id)
		open = link
	case link != "":
		p, err = history.Start(ctx, store, start)
	default:
		p, err = history.Resume(ctx, store, "")
		if errors.Is(err, history.ErrNotFound) {
			p, err = history.Start(ctx, store, start)
		}
	}
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open session: %w", err)
	}
	return &session{hist: p, id: p.SessionID(), open: open, close: store.Close}, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "notetab %s\n", Version)
		},
	}
}
