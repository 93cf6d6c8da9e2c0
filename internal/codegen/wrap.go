package codegen

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText breaks every paragraph of text into lines no wider than limit
// display columns. Words longer than limit stay on a line of their own.
// A limit below 1 disables wrapping.
func wrapText(text string, limit int) string {
	if limit < 1 {
		return text
	}
	paragraphs := strings.Split(text, "\n")
	for i, p := range paragraphs {
		paragraphs[i] = wrapParagraph(p, limit)
	}
	return strings.Join(paragraphs, "\n")
}

func wrapParagraph(p string, limit int) string {
	words := strings.Fields(p)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line, width := words[0], runewidth.StringWidth(words[0])
	for _, w := range words[1:] {
		ww := runewidth.StringWidth(w)
		if width+1+ww > limit {
			lines = append(lines, line)
			line, width = w, ww
			continue
		}
		line += " " + w
		width += 1 + ww
	}
	return strings.Join(append(lines, line), "\n")
}

// prefixLines puts prefix in front of every line of text. A trailing
// newline does not start a new line.
func prefixLines(text, prefix string) string {
	body, trailing := strings.CutSuffix(text, "\n")
	out := prefix + strings.ReplaceAll(body, "\n", "\n"+prefix)
	if trailing {
		out += "\n"
	}
	return out
}

// indentLines prefixes every non-empty line of text with indent.
func indentLines(text, indent string) string {
	var sb strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if line != "" && line != "\n" {
			sb.WriteString(indent)
		}
		sb.WriteString(line)
	}
	return sb.String()
}
