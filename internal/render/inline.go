// Package render converts model replies into HTML fragments for the chat UI.
package render

import (
	"regexp"
	"strings"
)

// Renderer turns reply text into an HTML fragment.
type Renderer interface {
	Render(text string) string
}

// stage is one pass of the inline pipeline. Each stage sees the output of the
// previous one, so later stages may encounter tags inserted earlier.
type stage func(string) string

var (
	boldStarRe  = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldUnderRe = regexp.MustCompile(`__(.*?)__`)
	bulletRe    = regexp.MustCompile(`(?m)^[ \t]*[*+-][ \t]+(.+)$`)
	numberedRe  = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+(.+)$`)
	h3Re        = regexp.MustCompile(`(?m)^### (.+)$`)
	h2Re        = regexp.MustCompile(`(?m)^## (.+)$`)
	h1Re        = regexp.MustCompile(`(?m)^# (.+)$`)
	codeRe      = regexp.MustCompile("`([^`]+)`")
	listRunRe   = regexp.MustCompile(`<li>.*?</li>(?:\s*<br>\s*<li>.*?</li>)*`)
	listBreakRe = regexp.MustCompile(`</li>\s*<br>\s*<li>`)
)

// inlineStages is the fixed rule order: emphasis, list items, headers, code,
// line breaks and finally list wrapping. CRLF is folded to LF first.
var inlineStages = []stage{
	normalizeNewlines,
	replaceStage(boldStarRe, "<strong>$1</strong>"),
	replaceStage(boldUnderRe, "<strong>$1</strong>"),
	italic('*'),
	italic('_'),
	replaceStage(bulletRe, "<li>$1</li>"),
	replaceStage(numberedRe, "<li>$1</li>"),
	replaceStage(h3Re, "<h3>$1</h3>"),
	replaceStage(h2Re, "<h2>$1</h2>"),
	replaceStage(h1Re, "<h1>$1</h1>"),
	replaceStage(codeRe, "<code>$1</code>"),
	lineBreaks,
	wrapLists,
}

// Inline is the lightweight markup renderer used for chat replies.
type Inline struct{}

// Render implements Renderer.
func (Inline) Render(text string) string {
	return Render(text)
}

// Render converts bold, italic, list, header, inline code and newline markup
// in text to HTML. It never fails: unmatched delimiters are left as literal
// characters. The input is not HTML-escaped.
func Render(text string) string {
	if text == "" {
		return ""
	}
	for _, s := range inlineStages {
		text = s(text)
	}
	return text
}

func replaceStage(re *regexp.Regexp, repl string) stage {
	return func(s string) string {
		return re.ReplaceAllString(s, repl)
	}
}

// italic wraps single-delimiter spans in <em>. A delimiter only opens a span
// when the character before it is not the same delimiter, and the span only
// closes on the next delimiter on the same line when that one is not followed
// by another delimiter. A '*' used as a bullet marker never opens a span.
func italic(delim byte) stage {
	return func(s string) string {
		if strings.IndexByte(s, delim) < 0 {
			return s
		}

		var b strings.Builder
		b.Grow(len(s) + 16)

		// indent is true while only spaces and tabs have been seen on the line.
		indent := true
		for i := 0; i < len(s); {
			c := s[i]
			if c != delim || (i > 0 && s[i-1] == delim) || (indent && isBulletMarker(s, i)) {
				b.WriteByte(c)
				indent = c == '\n' || (indent && isHorizontalSpace(c))
				i++
				continue
			}

			indent = false
			end := closingDelim(s, i+1, delim)
			if end < 0 {
				b.WriteByte(c)
				i++
				continue
			}

			b.WriteString("<em>")
			b.WriteString(s[i+1 : end])
			b.WriteString("</em>")
			i = end + 1
		}
		return b.String()
	}
}

// closingDelim returns the index of the delimiter closing a span whose body
// starts at from, or -1 when the span is empty, crosses a line or the closing
// delimiter is doubled.
func closingDelim(s string, from int, delim byte) int {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '\n':
			return -1
		case delim:
			if j == from {
				return -1
			}
			if j+1 < len(s) && s[j+1] == delim {
				return -1
			}
			return j
		}
	}
	return -1
}

// isBulletMarker reports whether the '*' at i, preceded on its line only by
// indentation, is followed by a space or tab.
func isBulletMarker(s string, i int) bool {
	return s[i] == '*' && i+1 < len(s) && isHorizontalSpace(s[i+1])
}

func isHorizontalSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func lineBreaks(s string) string {
	return strings.ReplaceAll(s, "\n", "<br>")
}

// wrapLists puts each run of adjacent list items into one <ul>. Runs may be
// separated by <br> markers only; those markers are dropped inside the run.
func wrapLists(s string) string {
	if !strings.Contains(s, "<li>") {
		return s
	}
	return listRunRe.ReplaceAllStringFunc(s, func(run string) string {
		return "<ul>" + listBreakRe.ReplaceAllString(run, "</li><li>") + "</ul>"
	})
}
