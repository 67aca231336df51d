// Package cliui provides reusable terminal UI helpers (styles, banners,
// confirmation prompts, step indicators) for turnexec commands.
package cliui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	SuccessMark  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
	StepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	KeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	ValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	NameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Step runs fn and reports it with a ✓ or ✗ checkmark and elapsed time.
// On a terminal an animated spinner is shown while fn runs.
func Step(w io.Writer, msg string, fn func() error) error {
	done := make(chan struct{})
	finished := make(chan struct{})
	var mu sync.Mutex

	if IsTerminal(w) {
		go func() {
			defer close(finished)
			frame := 0
			ticker := time.NewTicker(80 * time.Millisecond)
			defer ticker.Stop()

			for {
				mu.Lock()
				fmt.Fprintf(w, "\r  %s %s",
					spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]),
					msg,
				)
				mu.Unlock()

				select {
				case <-done:
					return
				case <-ticker.C:
					frame++
				}
			}
		}()
	} else {
		close(finished)
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	close(done)
	<-finished

	mu.Lock()
	fmt.Fprintf(w, "\r  %s %s %s\n",
		Mark(err),
		msg,
		StepStyle.Render(fmt.Sprintf("(%s)", FormatDuration(elapsed))),
	)
	mu.Unlock()

	return err
}

// Mark returns a ✓ for nil errors or ✗ for non-nil errors.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration formats a duration for display (e.g. "12ms" or "3.2s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// Row is one labelled line of a Banner.
type Row struct {
	Key   string
	Value string
}

// Banner prints a titled block of aligned key/value rows.
func Banner(w io.Writer, title string, rows []Row) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Key))
	}

	rule := DimStyle.Render(strings.Repeat("=", 60))
	fmt.Fprintf(w, "%s\n  %s\n%s\n", rule, NameStyle.Render(title), rule)
	for _, r := range rows {
		fmt.Fprintf(w, "  %s  %s\n",
			KeyStyle.Render(fmt.Sprintf("%-*s", width+1, r.Key+":")),
			ValueStyle.Render(r.Value),
		)
	}
	fmt.Fprintln(w, rule)
}
