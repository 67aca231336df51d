package cliui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Affirmative reports whether answer accepts a confirmation prompt.
// Only "yes" and "y" are accepted, case-insensitively. The line terminator
// is dropped but any other whitespace makes the answer a refusal.
func Affirmative(answer string) bool {
	switch strings.ToLower(strings.TrimRight(answer, "\r\n")) {
	case "yes", "y":
		return true
	default:
		return false
	}
}

// Confirm writes prompt to out and waits for one line from in.
// It returns false when the answer is not affirmative, when in reaches EOF,
// or when ctx is cancelled before an answer arrives.
func Confirm(ctx context.Context, in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)

	type answer struct {
		line string
		err  error
	}
	answers := make(chan answer, 1)

	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		answers <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(out)
		return false, nil
	case a := <-answers:
		if a.err != nil && !errors.Is(a.err, io.EOF) {
			return false, fmt.Errorf("reading confirmation: %w", a.err)
		}
		if errors.Is(a.err, io.EOF) && a.line == "" {
			fmt.Fprintln(out)
			return false, nil
		}
		return Affirmative(a.line), nil
	}
}
