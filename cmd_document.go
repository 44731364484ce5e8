package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"notetab/internal/config"
	"notetab/internal/document"
	"notetab/internal/fragment"
	"notetab/internal/history"
	"notetab/internal/httpx"
)

// currentHash is the fragment of a session's current entry, including edits
// not yet saved. A malformed state reads as an empty note.
func currentHash(ctx context.Context, cfg *config.Config, id string) (string, error) {
	store, err := history.Open(ctx, cfg.SessionDB)
	if err != nil {
		return "", err
	}
	defer store.Close()
	p, err := history.Resume(ctx, store, id)
	if err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	st := p.State()
	if st == nil {
		return fragment.FromURL(p.URL())
	}
	hash, err := fragment.Decode(st.Hash, "")
	if err != nil {
		slog.Warn("discarding malformed history state", "session", p.SessionID(), "err", err)
		return "#", nil
	}
	return hash, nil
}

// resolveHash is the fragment of link, or of the current session entry when
// link is empty.
func resolveHash(ctx context.Context, cfg *config.Config, id, link string) (string, error) {
	if link == "" {
		return currentHash(ctx, cfg, id)
	}
	return fragment.FromURL(link)
}

// documentOf parses hash, defaulting the type, and returns the title
// placeholder for it.
func documentOf(cfg *config.Config, hash string) (document.Document, string) {
	d := fragment.Parse(hash).Document()
	if d.Type == "" {
		d.Type = cfg.DefaultType
	}
	return d, document.Placeholder(cfg.TitlePlaceholder, d.Type)
}

func exportCmd(g *globals) *cobra.Command {
	var (
		output string
		dir    string
	)
	cmd := &cobra.Command{
		Use:   "export [link]",
		Short: "Write a note as plain text",
		Long: `Writes the note in link (or the current note of the session) as text:
the title underlined with "=", a blank line and the body. Without -o or --dir
the text goes to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			hash, err := resolveHash(cmd.Context(), cfg, g.session, firstArg(args))
			if err != nil {
				return err
			}
			d, placeholder := documentOf(cfg, hash)
			text := document.Export(d, placeholder)
			switch {
			case dir != "":
				output = filepath.Join(dir, document.Filename(d, placeholder))
			case output == "":
				_, err := io.WriteString(cmd.OutOrStdout(), text)
				return err
			}
			if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "wrote", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file")
	cmd.Flags().StringVar(&dir, "dir", "", "write <title>.<type> into this directory")
	return cmd
}

func importCmd(g *globals) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import <file|url|->",
		Short: "Turn an exported text file into a link",
		Long: `Reads an exported note from a file, an http(s) URL or stdin ("-") and
prints its link. A name shaped like "Title.note.txt" sets the type to "note.txt".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			src := args[0]
			var data []byte
			switch {
			case src == "-":
				data, err = io.ReadAll(cmd.InOrStdin())
			case httpx.IsURL(src):
				var fetched string
				fetched, data, err = httpx.GetText(cmd.Context(), src)
				if name == "" {
					name = fetched
				}
			default:
				data, err = os.ReadFile(src)
				if name == "" {
					name = filepath.Base(src)
				}
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", src, err)
			}
			im := document.Import(name, string(data))
			if im.Type == "" {
				im.Type = cfg.DefaultType
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.LinkBase+fragment.Serialize(im.Document))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "file name used to infer the type")
	return cmd
}

func linkCmd(g *globals) *cobra.Command {
	var typ, title, body string
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print the link of the current note, or build one",
		Long: `Without flags prints the link of the session's current note, including
unsaved edits. With --type, --title or --body builds a new link instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("type") || f.Changed("title") || f.Changed("body") {
				if typ == "" {
					typ = cfg.DefaultType
				}
				d := document.Document{Type: typ, Title: title, Body: body}
				fmt.Fprintln(cmd.OutOrStdout(), cfg.LinkBase+fragment.Serialize(d))
				return nil
			}
			hash, err := currentHash(cmd.Context(), cfg, g.session)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.LinkBase+hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "document type (default from config)")
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&body, "body", "", "body")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
