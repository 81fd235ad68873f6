package split

import (
	"fmt"
	"regexp"
	"strings"
)

// directoryPlaceholder in descriptions and comments is replaced with
// the formatted directory list of each group.
const directoryPlaceholder = "$directory"

// uploadedByLine is appended to every split description, above any
// git footers, so the resulting changes are identifiable.
const uploadedByLine = "This CL was uploaded by cl-split."

var bugPattern = regexp.MustCompile(`(?m)^Bug:\s*(?:[a-zA-Z]+:)?[0-9]+`)

// footerPattern matches one "Key-Name: value" trailer line.
var footerPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*:`)

// FormatDirectories renders a directory list for branch-name and
// description use: a single directory prints bare, multiple print as
// a bracketed list.
func FormatDirectories(directories []string) string {
	if len(directories) == 1 {
		return directories[0]
	}
	return fmt.Sprintf("[%s]", strings.Join(directories, ", "))
}

// FormatDescriptionOrComment substitutes every directory placeholder
// in txt with the formatted directory list.
func FormatDescriptionOrComment(txt string, directories []string) string {
	return strings.ReplaceAll(txt, directoryPlaceholder, FormatDirectories(directories))
}

// HasBugLink reports whether the description carries a "Bug: 123" or
// "Bug: project:123" line. The leading token is case-sensitive.
func HasBugLink(description string) bool {
	return bugPattern.MatchString(description)
}

// AddUploadedByLine inserts the splitter attribution line into
// description, before the footer block when one exists, otherwise at
// the end.
func AddUploadedByLine(description string) string {
	body, footers := splitFooters(description)
	if len(body) > 0 && strings.TrimSpace(body[len(body)-1]) != "" {
		body = append(body, "")
	}
	body = append(body, uploadedByLine)
	if len(footers) > 0 {
		body = append(body, "")
		body = append(body, footers...)
	}
	return strings.Join(body, "\n")
}

// splitFooters separates a description into its message lines and its
// trailing footer paragraph. The footer paragraph is the last
// blank-line-delimited block, and only counts when every line in it is
// a "Key: value" trailer.
func splitFooters(description string) (body, footers []string) {
	lines := strings.Split(strings.TrimRight(description, "\n"), "\n")
	start := len(lines)
	for start > 0 && strings.TrimSpace(lines[start-1]) != "" {
		start--
	}
	if start == 0 || start == len(lines) {
		return lines, nil
	}
	block := lines[start:]
	for _, line := range block {
		if !footerPattern.MatchString(line) {
			return lines, nil
		}
	}
	// Drop the blank separator; the caller re-adds it.
	body = lines[:start-1]
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}
	return body, block
}
