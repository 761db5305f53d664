package marker

import (
	"path"
	"strings"
)

const (
	versionLabel = "Config version:"
	managedLabel = "auto-managed"
)

// CommentSyntax describes how a single-line comment is written for a file type
type CommentSyntax struct {
	Prefix string
	Suffix string
}

var defaultSyntax = CommentSyntax{Prefix: "# "}

// commentSyntaxByExt maps lower-case file extensions to their comment syntax.
// Anything not listed here uses defaultSyntax.
var commentSyntaxByExt = map[string]CommentSyntax{
	".ini":   {Prefix: "; "},
	".cfg":   {Prefix: "; "},
	".json":  {Prefix: "// "},
	".jsonc": {Prefix: "// "},
	".json5": {Prefix: "// "},
	".css":   {Prefix: "/* ", Suffix: " */"},
	".scss":  {Prefix: "/* ", Suffix: " */"},
	".md":    {Prefix: "<!-- ", Suffix: " -->"},
	".html":  {Prefix: "<!-- ", Suffix: " -->"},
	".xml":   {Prefix: "<!-- ", Suffix: " -->"},
}

// SyntaxFor returns the comment syntax used for the given file name
func SyntaxFor(name string) CommentSyntax {
	if syntax, ok := commentSyntaxByExt[strings.ToLower(path.Ext(name))]; ok {
		return syntax
	}
	return defaultSyntax
}

// Format returns the marker line for the given file name and version
func Format(name, version string) string {
	syntax := SyntaxFor(name)
	return syntax.Prefix + versionLabel + " " + version + " (" + managedLabel + ")" + syntax.Suffix
}

// IsMarker reports whether the line is a version marker line
func IsMarker(line string) bool {
	return strings.Contains(line, versionLabel) && strings.Contains(line, managedLabel)
}

// Extract returns the version recorded by the first marker line of content.
// The second return value is false when content has no marker.
func Extract(content string) (string, bool) {
	for _, line := range splitLines(content) {
		if !IsMarker(line) {
			continue
		}
		return parseVersion(line), true
	}
	return "", false
}

func parseVersion(line string) string {
	_, rest, _ := strings.Cut(line, versionLabel)
	if idx := strings.LastIndex(rest, "("+managedLabel); idx >= 0 {
		rest = rest[:idx]
	} else if idx := strings.LastIndex(rest, managedLabel); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}

// Stamp writes the version marker into content.
// An existing marker line is replaced in place and any further marker lines are dropped,
// otherwise the marker and a blank line are prepended.
func Stamp(name, content, version string) string {
	line := Format(name, version)
	lines := splitLines(content)

	stamped := make([]string, 0, len(lines)+2)
	replaced := false
	for _, l := range lines {
		if !IsMarker(l) {
			stamped = append(stamped, l)
			continue
		}
		if !replaced {
			stamped = append(stamped, line+lineEnding(l))
			replaced = true
		}
	}

	if !replaced {
		eol := ""
		if len(lines) > 0 {
			eol = lineEnding(lines[0])
		}
		stamped = append([]string{line + eol, eol}, stamped...)
	}

	return joinLines(stamped, strings.HasSuffix(content, "\n") || content == "")
}

// Strip returns the lines of content without marker lines
func Strip(content string) []string {
	lines := splitLines(content)
	result := make([]string, 0, len(lines))
	for _, l := range lines {
		if !IsMarker(l) {
			result = append(result, l)
		}
	}
	return result
}

// EqualIgnoringVersion compares two contents line by line with marker lines removed
func EqualIgnoringVersion(a, b string) bool {
	left, right := Strip(a), Strip(b)
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}

// splitLines splits content on '\n' without producing an extra empty line for
// a trailing newline. Carriage returns are kept so CRLF files round-trip.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// lineEnding returns the carriage return left on a line split from CRLF content
func lineEnding(line string) string {
	if strings.HasSuffix(line, "\r") {
		return "\r"
	}
	return ""
}

func joinLines(lines []string, trailingNewline bool) string {
	joined := strings.Join(lines, "\n")
	if trailingNewline {
		joined += "\n"
	}
	return joined
}
