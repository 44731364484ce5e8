package diff

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	dmp "github.com/sergi/go-diff/diffmatchpatch"

	"notetab/internal/tui/state"
)

var (
	delLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
	addLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
	delChar = delLine.Underline(true)
	addChar = addLine.Underline(true)
	faint   = lipgloss.NewStyle().Faint(true)
	header  = lipgloss.NewStyle().Bold(true)
)

// SideBySideMin is the narrowest window that gets two columns.
const SideBySideMin = 100

type DiffView struct{}

func NewDiffView() DiffView { return DiffView{} }

// View compares the last saved export with the current one. Windows at least
// SideBySideMin wide get two columns; narrower ones a unified listing.
func (DiffView) View(s state.UIState, saved, current string) string {
	if saved == current {
		return "No unsaved changes\n"
	}
	if s.Width >= SideBySideMin {
		return sideBySide(saved, current, (s.Width-5)/2)
	}
	return unified(saved, current)
}

// pairs aligns two texts line by line. Unequal line counts pad the shorter
// side with empty lines.
func pairs(before, after string) [][2]string {
	b := strings.Split(before, "\n")
	a := strings.Split(after, "\n")
	n := max(len(b), len(a))
	out := make([][2]string, n)
	for i := range out {
		if i < len(b) {
			out[i][0] = b[i]
		}
		if i < len(a) {
			out[i][1] = a[i]
		}
	}
	return out
}

func lineDiff(bl, al string) []dmp.Diff {
	d := dmp.New()
	diffs := d.DiffMain(bl, al, false)
	return d.DiffCleanupSemantic(diffs)
}

func unified(before, after string) string {
	var sb strings.Builder
	sb.WriteString(header.Render("SAVED → CURRENT") + "\n")
	for _, p := range pairs(before, after) {
		bl, al := p[0], p[1]
		if bl == al {
			if strings.TrimSpace(bl) == "" {
				continue
			}
			sb.WriteString("  " + faint.Render(bl) + "\n")
			continue
		}
		diffs := lineDiff(bl, al)
		sb.WriteString(delLine.Render("- "))
		for _, df := range diffs {
			switch df.Type {
			case dmp.DiffDelete:
				sb.WriteString(delChar.Render(df.Text))
			case dmp.DiffEqual:
				sb.WriteString(delLine.Render(df.Text))
			}
		}
		sb.WriteString("\n")
		sb.WriteString(addLine.Render("+ "))
		for _, df := range diffs {
			switch df.Type {
			case dmp.DiffInsert:
				sb.WriteString(addChar.Render(df.Text))
			case dmp.DiffEqual:
				sb.WriteString(addLine.Render(df.Text))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func sideBySide(before, after string, width int) string {
	const sep = "  |  "
	var sb strings.Builder
	sb.WriteString(pad(header.Render("SAVED"), width) + sep + header.Render("CURRENT") + "\n")
	for _, p := range pairs(before, after) {
		bl, al := p[0], p[1]
		if bl == al {
			sb.WriteString(pad(faint.Render(bl), width) + sep + faint.Render(al) + "\n")
			continue
		}
		var lbuf, rbuf strings.Builder
		for _, df := range lineDiff(bl, al) {
			switch df.Type {
			case dmp.DiffDelete:
				lbuf.WriteString(delChar.Render(df.Text))
			case dmp.DiffInsert:
				rbuf.WriteString(addChar.Render(df.Text))
			case dmp.DiffEqual:
				lbuf.WriteString(delLine.Render(df.Text))
				rbuf.WriteString(addLine.Render(df.Text))
			}
		}
		left := pad(delLine.Render("- ")+lbuf.String(), width)
		sb.WriteString(left + sep + addLine.Render("+ ") + rbuf.String() + "\n")
	}
	return sb.String()
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
