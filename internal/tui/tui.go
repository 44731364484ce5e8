package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"notetab/internal/autoresize"
	"notetab/internal/config"
	"notetab/internal/controller"
	"notetab/internal/document"
	"notetab/internal/events"
	"notetab/internal/history"
	"notetab/internal/httpx"
	"notetab/internal/textinput"
	"notetab/internal/textinput/markup"
	"notetab/internal/tui/state"
	"notetab/internal/tui/util"
	"notetab/internal/tui/views/entries"
	"notetab/internal/tui/widgets/diff"
	"notetab/internal/tui/widgets/editor"
	"notetab/internal/tui/widgets/helpoverlay"
	"notetab/internal/tui/widgets/statusbar"
	"notetab/internal/tui/widgets/tagchips"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
)

// Options configure the page.
type Options struct {
	Config  *config.Config
	History history.History
	Logger  *slog.Logger
	// Link is opened on top of the loaded entry when non-empty.
	Link string
	// ExportDir receives exported files. Defaults to the working directory.
	ExportDir string
	// Clipboard writes the share link. Defaults to the system clipboard.
	Clipboard func(string) error
	NoColor   bool
}

// Run shows the editor and blocks until the user quits.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// ===== Model =====

// windowTitle is the terminal title. Changes are sent on the next Update.
type windowTitle struct {
	title   string
	changed bool
}

func (w *windowTitle) Title() string { return w.title }

func (w *windowTitle) SetTitle(t string) {
	if t != w.title {
		w.title = t
		w.changed = true
	}
}

func (w *windowTitle) cmd() tea.Cmd {
	if !w.changed {
		return nil
	}
	w.changed = false
	return tea.SetWindowTitle(w.title)
}

type (
	adapterMsg  struct{ adapter textinput.Adapter }
	copiedMsg   struct{ err error }
	exportedMsg struct {
		path string
		err  error
	}
	importedMsg struct {
		name, contents string
		err            error
	}
)

// Model is the note page: a title field over a body host, with the
// controller keeping history in step.
type Model struct {
	cfg  *config.Config
	log  *slog.Logger
	hist history.History
	ctrl *controller.Controller

	host        *textinput.Host
	title       *titleField
	titleResize *autoresize.Resizer
	window      events.Emitter
	win         windowTitle
	sched       *tickScheduler
	prompt      importPrompt

	ui        state.UIState
	link      string
	savedText string
	loaded    bool
	initCmd   tea.Cmd

	exportDir string
	clip      func(string) error
	noColor   bool
	quitting  bool
}

// New loads the current history entry into a fresh page.
func New(opts Options) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	hist := opts.History
	if hist == nil {
		hist = history.NewMemory(cfg.LinkBase)
	}
	m := &Model{
		cfg:       cfg,
		log:       log,
		hist:      hist,
		sched:     newTickScheduler(),
		title:     newTitleField(),
		exportDir: opts.ExportDir,
		clip:      opts.Clipboard,
		noColor:   util.NoColor(opts.NoColor),
	}
	if m.exportDir == "" {
		m.exportDir = "."
	}
	if m.clip == nil {
		m.clip = clipboard.WriteAll
	}
	m.host = textinput.NewHost(textinput.HostOptions{
		Rows:         strconv.Itoa(cfg.Rows),
		Flex:         cfg.Flex,
		Slack:        cfg.Slack,
		Window:       &m.window,
		Scheduler:    m.sched,
		PollInterval: cfg.PollInterval,
	})
	m.ctrl = controller.New(controller.Services{
		History:       hist,
		Window:        &m.win,
		Title:         m.title,
		Body:          m.host,
		Link:          m.setLink,
		Recompute:     m.recompute,
		DefaultType:   cfg.DefaultType,
		TitleTemplate: cfg.TitlePlaceholder,
		LinkBase:      cfg.LinkBase,
		Logger:        log,
	})
	m.title.Events().On(events.Input, func() { m.input(false) })
	m.host.Events().On(events.Input, func() { m.input(m.host.Composing()) })

	if err := m.ctrl.Load(); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	m.titleResize = autoresize.Width(m.title, &m.window, autoresize.Options{
		Slack:        cfg.Slack,
		Scheduler:    m.sched,
		PollInterval: cfg.PollInterval,
	})
	m.host.Connect()
	if opts.Link != "" {
		if err := m.ctrl.Open(opts.Link); err != nil {
			m.Close()
			return nil, fmt.Errorf("open link: %w", err)
		}
	}

	m.ui = state.UIState{
		Editor:    m.host.Adapter().Kind(),
		Highlight: cfg.Highlight,
		MinBody:   40,
	}
	m.initCmd = m.title.Focus()
	m.sync()
	return m, nil
}

// Close stops the resizers of both fields.
func (m *Model) Close() {
	if m.titleResize != nil {
		m.titleResize.Close()
	}
	m.host.Close()
}

func (m *Model) Controller() *controller.Controller { return m.ctrl }
func (m *Model) Host() *textinput.Host              { return m.host }
func (m *Model) State() state.UIState               { return m.ui }
func (m *Model) Link() string                       { return m.link }

func (m *Model) setLink(hash string) { m.link = m.cfg.LinkBase + hash }

func (m *Model) recompute() {
	autoresize.Recompute(m.title)
	autoresize.Recompute(m.host.Adapter())
}

func (m *Model) input(composing bool) {
	if err := m.ctrl.Input(composing); err != nil {
		m.fail("update", err)
	}
}

func (m *Model) fail(op string, err error) {
	m.log.Error(op+" failed", "err", err)
	m.ui = state.Notify(m.ui, "! %s: %v", op, err)
}

// sync copies controller and history state into the UI state. The saved
// export is refreshed whenever the document is saved.
func (m *Model) sync() {
	if m.ctrl.Saved() {
		m.savedText = document.Export(m.ctrl.Document(), m.ctrl.Placeholder())
	}
	m.ui = state.SetHistory(m.ui, m.ctrl.Saved(), len(m.hist.Entries()), m.hist.Index())
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.initCmd}
	if m.cfg.Editor == config.EditorMarkup {
		cmds = append(cmds, m.loadMarkup())
	}
	cmds = append(cmds, m.sched.drain()...)
	cmds = append(cmds, m.win.cmd())
	return tea.Batch(cmds...)
}

// Update handles all page interactions.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tickMsg:
		cmds = append(cmds, m.sched.fire(msg.id))
	case adapterMsg:
		cmds = append(cmds, m.install(msg.adapter))
	case copiedMsg:
		if msg.err != nil {
			m.fail("copy link", msg.err)
		} else {
			m.ui = state.Notify(m.ui, "Link copied")
		}
	case exportedMsg:
		if msg.err != nil {
			m.fail("export", msg.err)
		} else {
			m.log.Info("exported", "path", msg.path)
			m.ui = state.Notify(m.ui, "Exported %s", msg.path)
		}
	case importedMsg:
		m.imported(msg)
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	default:
		cmds = append(cmds, m.title.Update(msg), m.host.Update(msg))
	}
	cmds = append(cmds, m.sched.drain()...)
	cmds = append(cmds, m.win.cmd())
	m.sync()
	return m, tea.Batch(cmds...)
}

// resize lays the page out for the window. The first size is the window's
// load event.
func (m *Model) resize(width, height int) {
	m.ui = state.Resize(m.ui, width, height)
	m.host.SetWidth(width)
	m.title.SetLimit(width - 8)
	m.window.Dispatch(events.Resize)
	if !m.loaded {
		m.loaded = true
		m.window.Dispatch(events.Load)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := strings.ToLower(msg.String())

	if m.ui.Overlay == state.ImportOverlay {
		path, res := m.prompt.Update(msg)
		switch res {
		case promptDone:
			m.ui = state.CloseOverlay(m.ui)
			return readSource(path)
		case promptCancelled:
			m.ui = state.CloseOverlay(m.ui)
		}
		return nil
	}

	switch k {
	case "ctrl+c", "ctrl+q":
		m.quitting = true
		return tea.Quit
	case "f1":
		m.ui = state.ToggleOverlay(m.ui, state.HelpOverlay)
		return nil
	case "ctrl+d":
		m.ui = state.ToggleOverlay(m.ui, state.DiffOverlay)
		return nil
	case "f2":
		m.ui = state.ToggleOverlay(m.ui, state.HistoryOverlay)
		return nil
	case "esc":
		if m.ui.Overlay != state.NoOverlay {
			m.ui = state.CloseOverlay(m.ui)
			return nil
		}
	}
	navKey := k == "alt+left" || k == "alt+right"
	if m.ui.Overlay != state.NoOverlay && !(m.ui.Overlay == state.HistoryOverlay && navKey) {
		return nil
	}

	switch k {
	case "shift+tab":
		return m.cycleFocus()
	case "tab":
		if m.ui.Focus == state.TitleFocus {
			return m.cycleFocus()
		}
	case "ctrl+s", "ctrl+j":
		m.save()
		return nil
	case "enter":
		if m.ui.Focus == state.TitleFocus {
			m.save()
			return nil
		}
	case "ctrl+l":
		return m.copyLink()
	case "ctrl+e":
		return m.export()
	case "ctrl+o":
		m.prompt.reset()
		m.ui.Overlay = state.ImportOverlay
		return nil
	case "alt+left":
		m.navigate(m.ctrl.Back)
		return nil
	case "alt+right":
		m.navigate(m.ctrl.Forward)
		return nil
	case "ctrl+t":
		return m.swapEditor()
	case "ctrl+g":
		if a, ok := m.host.Adapter().(*markup.Adapter); ok {
			a.SetHighlighting(!a.Highlighting())
			m.ui = state.ToggleHighlight(m.ui)
		}
		return nil
	case "ctrl+n":
		if err := m.ctrl.NewDocument(); err != nil {
			m.fail("new note", err)
		} else {
			m.ui = state.Notify(m.ui, "New note")
		}
		return nil
	}

	if m.ui.Focus == state.TitleFocus {
		return m.title.Update(msg)
	}
	return m.host.Update(msg)
}

func (m *Model) cycleFocus() tea.Cmd {
	m.ui = state.CycleFocus(m.ui)
	if m.ui.Focus == state.TitleFocus {
		m.host.Blur()
		return m.title.Focus()
	}
	m.title.Blur()
	return m.host.Focus()
}

func (m *Model) save() {
	if err := m.ctrl.Save(); err != nil {
		m.fail("save", err)
		return
	}
	m.ui = state.Notify(m.ui, "Saved")
}

func (m *Model) navigate(step func() (bool, error)) {
	moved, err := step()
	if err != nil {
		m.fail("navigate", err)
		return
	}
	if !moved {
		m.ui = state.Notify(m.ui, "No more history")
	}
}

// loadMarkup builds the rich adapter off the event loop.
func (m *Model) loadMarkup() tea.Cmd {
	m.ui.Loading = true
	highlight := m.cfg.Highlight
	return func() tea.Msg {
		return adapterMsg{adapter: markup.New(markup.Options{Highlight: highlight})}
	}
}

func (m *Model) swapEditor() tea.Cmd {
	if m.ui.Loading {
		return nil
	}
	if m.host.Adapter().Kind() == "markup" {
		return m.install(textinput.NewPlain())
	}
	return m.loadMarkup()
}

func (m *Model) install(a textinput.Adapter) tea.Cmd {
	cmd := m.host.SetAdapter(a)
	hl := m.ui.Highlight
	if ma, ok := a.(*markup.Adapter); ok {
		hl = ma.Highlighting()
	}
	m.ui = state.SetEditor(m.ui, a.Kind(), hl)
	m.log.Info("editor swapped", "kind", a.Kind())
	return cmd
}

func (m *Model) copyLink() tea.Cmd {
	link, clip := m.link, m.clip
	return func() tea.Msg { return copiedMsg{err: clip(link)} }
}

func (m *Model) export() tea.Cmd {
	name, contents := m.ctrl.Export()
	path := filepath.Join(m.exportDir, name)
	return func() tea.Msg {
		err := os.WriteFile(path, []byte(contents), 0o644)
		return exportedMsg{path: path, err: err}
	}
}

// readSource loads a local file or downloads an http(s) URL.
func readSource(src string) tea.Cmd {
	return func() tea.Msg {
		if httpx.IsURL(src) {
			name, b, err := httpx.GetText(context.Background(), src)
			return importedMsg{name: name, contents: string(b), err: err}
		}
		b, err := os.ReadFile(src)
		return importedMsg{name: filepath.Base(src), contents: string(b), err: err}
	}
}

func (m *Model) imported(msg importedMsg) {
	if msg.err != nil {
		m.fail("import", msg.err)
		return
	}
	err := m.ctrl.Import(msg.name, msg.contents)
	switch {
	case errors.Is(err, controller.ErrEmptyImport):
		m.ui = state.Notify(m.ui, "Nothing to import")
	case err != nil:
		m.fail("import", err)
	default:
		m.log.Info("imported", "name", msg.name)
		m.ui = state.Notify(m.ui, "Imported %s", msg.name)
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("notetab") + "  " + faintStyle.Render(m.link) + "\n\n")
	switch m.ui.Overlay {
	case state.HelpOverlay:
		b.WriteString(helpoverlay.NewHelpOverlay().View(m.ui))
	case state.DiffOverlay:
		current := document.Export(m.ctrl.Document(), m.ctrl.Placeholder())
		b.WriteString(diff.NewDiffView().View(m.ui, m.savedText, current))
	case state.ImportOverlay:
		b.WriteString(m.prompt.View())
	case state.HistoryOverlay:
		b.WriteString(entries.Render(m.hist.Entries(), m.hist.Index(), m.ui.Width))
	default:
		b.WriteString(editor.NewEditor().View(m.ui, m.title.View(), m.host.View()))
	}
	b.WriteString("\n" + statusbar.NewStatusBar().View(m.ui))
	if !m.ui.Narrow() {
		if chips := tagchips.View(util.ComputeTags(m.ctrl.Document(), m.ui), m.noColor); chips != "" {
			b.WriteString("\n" + chips)
		}
	}
	return b.String()
}
