package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"notetab/internal/fragment"
)

// recoverFragments scans files for state envelopes and returns the distinct
// fragments in order of appearance. Missing files are skipped.
func recoverFragments(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range paths {
		blob, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		for _, hash := range fragment.Scan(blob, "") {
			if !seen[hash] {
				seen[hash] = true
				out = append(out, hash)
			}
		}
	}
	return out, nil
}

func recoverCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "recover [file...]",
		Short: "Find notes in a session database or any other file",
		Long: `Scans files for saved note states and prints one link per distinct note.
Without arguments the session database and its write-ahead log are scanned,
which also finds notes from deleted or damaged sessions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			paths := args
			if len(paths) == 0 {
				paths = []string{cfg.SessionDB, cfg.SessionDB + "-wal"}
			}
			found, err := recoverFragments(paths)
			if err != nil {
				return err
			}
			if len(found) == 0 {
				return errors.New("no notes found")
			}
			for _, hash := range found {
				fmt.Fprintln(cmd.OutOrStdout(), cfg.LinkBase+hash)
			}
			return nil
		},
	}
}
