package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9ece6a"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f7768e"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
)

func printPass(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", passStyle.Render("PASS"), fmt.Sprintf(format, args...))
}

func printFail(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", failStyle.Render("FAIL"), fmt.Sprintf(format, args...))
}

func printField(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "%s %v\n", labelStyle.Render(fmt.Sprintf("%-16s", label+":")), value)
}

func printNotices(w io.Writer, notices []string) {
	for _, n := range notices {
		fmt.Fprintln(w, noticeStyle.Render(n))
	}
}
