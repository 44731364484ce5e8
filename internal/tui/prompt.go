package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"notetab/internal/httpx"
)

// importPrompt collects the path of a file to import.
type importPrompt struct {
	inputBuf string
	suggest  []string
	msg      string
}

// promptResult is what a key did to the prompt.
type promptResult int

const (
	promptEditing promptResult = iota
	promptDone
	promptCancelled
)

func (p *importPrompt) reset() {
	p.inputBuf = ""
	p.suggest = nil
	p.msg = ""
}

// check resolves the typed path or URL and reports a missing file in p.msg.
func (p *importPrompt) check() (string, bool) {
	if strings.TrimSpace(p.inputBuf) == "" {
		p.msg = "! enter a path"
		return "", false
	}
	if httpx.IsURL(p.inputBuf) {
		return strings.TrimSpace(p.inputBuf), true
	}
	path := expandPath(p.inputBuf)
	fi, err := os.Stat(path)
	if err != nil {
		p.msg = fmt.Sprintf("! not found: %s", path)
		return "", false
	}
	if fi.IsDir() {
		p.msg = fmt.Sprintf("! is a directory: %s", path)
		return "", false
	}
	return path, true
}

func (p *importPrompt) computeSuggestions() {
	// Provide simple directory-based suggestions for current input buffer
	in := p.inputBuf
	if strings.TrimSpace(in) == "" || httpx.IsURL(in) {
		p.suggest = nil
		return
	}
	expanded := expandPath(in)
	dir := expanded
	base := ""
	if fi, err := os.Stat(expanded); err != nil || !fi.IsDir() {
		dir = filepath.Dir(expanded)
		base = filepath.Base(expanded)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		p.suggest = nil
		return
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if base == "" || strings.Contains(strings.ToLower(name), strings.ToLower(base)) {
			cand := filepath.Join(dir, name)
			// Present with ~/ when within home
			if h, _ := os.UserHomeDir(); h != "" && strings.HasPrefix(cand, h+string(filepath.Separator)) {
				cand = "~" + strings.TrimPrefix(cand, h)
			}
			out = append(out, cand)
		}
		if len(out) >= 8 {
			break
		}
	}
	p.suggest = out
}

func expandPath(p string) string {
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, "~/") {
		if h, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(h, p[2:])
		}
	}
	p = os.ExpandEnv(p)
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}

// Update edits the buffer. On promptDone the resolved path is returned.
func (p *importPrompt) Update(msg tea.KeyMsg) (string, promptResult) {
	switch strings.ToLower(msg.String()) {
	case "enter":
		if path, ok := p.check(); ok {
			return path, promptDone
		}
		return "", promptEditing
	case "tab":
		if len(p.suggest) > 0 {
			p.inputBuf = p.suggest[0]
			p.computeSuggestions()
		}
		return "", promptEditing
	case "esc", "ctrl+c":
		p.reset()
		return "", promptCancelled
	}
	if msg.Type == tea.KeyBackspace || msg.Type == tea.KeyCtrlH {
		if r := []rune(p.inputBuf); len(r) > 0 {
			p.inputBuf = string(r[:len(r)-1])
		}
	} else if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		p.inputBuf += string(msg.Runes)
	}
	p.msg = ""
	p.computeSuggestions()
	return "", promptEditing
}

func (p *importPrompt) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Import file") + "\n\n")
	if p.msg != "" {
		b.WriteString(errStyle.Render(p.msg) + "\n")
	}
	b.WriteString("Path or URL: " + p.inputBuf + "\n")
	for _, s := range p.suggest {
		b.WriteString(faintStyle.Render("  • ") + s + "\n")
	}
	b.WriteString("\nenter: import   tab: autocomplete   esc: cancel\n")
	return b.String()
}
