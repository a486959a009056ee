package tui

import (
	"fmt"
	"strings"

	"wallfetch/pkg/ui"
)

// View renders the run status, the current download and the event log
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wallfetch"))
	b.WriteString("\n\n")

	s := m.session
	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n\n",
		labelStyle.Render("Downloaded"), valueStyle.Render(fmt.Sprintf("%d/%d", s.Accepted, s.Target)),
		labelStyle.Render("Attempts"), valueStyle.Render(fmt.Sprint(s.Attempts)),
		labelStyle.Render("Duplicates"), valueStyle.Render(fmt.Sprint(s.Duplicates)),
		labelStyle.Render("Failures"), valueStyle.Render(fmt.Sprint(s.Failures)),
	))

	switch {
	case m.finished:
		b.WriteString(dimStyle.Render("Done"))
	case m.stopping:
		b.WriteString(dimStyle.Render("Stopping..."))
	case m.downloading:
		b.WriteString(m.spinner.View() + " ")
		b.WriteString(m.bar.ViewAs(m.percent()))
		b.WriteString(" " + m.byteCount())
	default:
		b.WriteString(dimStyle.Render("Waiting for the next download"))
	}
	b.WriteString("\n\n")

	for _, l := range m.logs {
		b.WriteString(levelStyle(l.Level).Render(l.Message))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("q: stop"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) byteCount() string {
	if m.total > 0 {
		return dimStyle.Render(ui.FormatBytes(m.read) + " / " + ui.FormatBytes(m.total))
	}
	return dimStyle.Render(ui.FormatBytes(m.read))
}
