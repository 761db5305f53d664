package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Differ renders the difference between the current and the new content of a file
type Differ interface {
	ShowDiff(current, updated, label string) error
}

// UnifiedDiffer prints a coloured unified diff
type UnifiedDiffer struct {
	Out     io.Writer
	Context int
}

// NewUnifiedDiffer creates a UnifiedDiffer with three lines of context
func NewUnifiedDiffer(out io.Writer) *UnifiedDiffer {
	return &UnifiedDiffer{Out: out, Context: 3}
}

func (d *UnifiedDiffer) ShowDiff(current, updated, label string) error {
	text, err := UnifiedDiff(current, updated, label, d.Context)
	if err != nil {
		return err
	}

	if text == "" {
		_, err = fmt.Fprintln(d.Out, hintStyle.Render("No changes in "+label))
		return err
	}

	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		b.WriteString(styleDiffLine(strings.TrimSuffix(line, "\n")))
		b.WriteString("\n")
	}

	_, err = io.WriteString(d.Out, b.String())
	return err
}

// UnifiedDiff returns the plain unified diff between current and updated
func UnifiedDiff(current, updated, label string, context int) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(current),
		B:        difflib.SplitLines(updated),
		FromFile: label + " (current)",
		ToFile:   label + " (new)",
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to compute diff for %s: %w", label, err)
	}
	return text, nil
}

func styleDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return headerStyle.Render(line)
	case strings.HasPrefix(line, "@@"):
		return hunkStyle.Render(line)
	case strings.HasPrefix(line, "+"):
		return addedStyle.Render(line)
	case strings.HasPrefix(line, "-"):
		return removedStyle.Render(line)
	}
	return line
}
