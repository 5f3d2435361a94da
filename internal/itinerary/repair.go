package itinerary

import (
	"regexp"
	"strings"
)

// Defaults appended when a truncated response loses its tail.
var (
	DefaultTips = []string{
		"Research local customs and etiquette",
		"Book major attractions in advance",
		"Try local cuisine and specialties",
	}
	DefaultTotalCost = "Contact for detailed pricing"
)

var (
	fenceOpenRe = regexp.MustCompile("```(?:json|JSON)?[ \t]*\r?\n?")
	daysKeyRe   = regexp.MustCompile(`"days"\s*:\s*\[`)
)

func stripFences(text string) string {
	return strings.TrimSpace(fenceOpenRe.ReplaceAllString(text, ""))
}

// jsonScanner walks JSON text tracking string literals and nesting.
type jsonScanner struct {
	inString bool
	escaped  bool
	stack    []byte
}

// step consumes one byte and reports whether it was structural, i.e.
// outside any string literal.
func (s *jsonScanner) step(c byte) bool {
	if s.inString {
		switch {
		case s.escaped:
			s.escaped = false
		case c == '\\':
			s.escaped = true
		case c == '"':
			s.inString = false
		}
		return false
	}
	switch c {
	case '"':
		s.inString = true
	case '{', '[':
		s.stack = append(s.stack, c)
	case '}', ']':
		if len(s.stack) > 0 {
			s.stack = s.stack[:len(s.stack)-1]
		}
	}
	return true
}

func (s *jsonScanner) depth() int {
	return len(s.stack)
}

// matchingBrace returns the index of the brace closing the object that
// opens at text[start], or -1 if the object never closes.
func matchingBrace(text string, start int) int {
	var sc jsonScanner
	for i := start; i < len(text); i++ {
		c := text[i]
		if sc.step(c) && c == '}' && sc.depth() == 0 {
			return i
		}
	}
	return -1
}

// extractObject returns the first brace-delimited object in text. An
// object that never closes is returned up to the end of text.
func extractObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	if end := matchingBrace(text, start); end >= 0 {
		return text[start : end+1], true
	}
	return text[start:], true
}

// repairTruncated rebuilds a response cut off mid-stream. Everything after
// the last complete day object is discarded and the days array, tips and
// total cost are closed with defaults. When the days array itself was
// complete only the tail after it is replaced. It returns the rebuilt text
// and the number of bytes thrown away.
func repairTruncated(text string) (string, int, error) {
	loc := daysKeyRe.FindStringIndex(text)
	if loc == nil {
		return "", 0, ErrNoDaysArray
	}
	open := loc[1] - 1

	var sc jsonScanner
	lastDayEnd, arrayEnd := -1, -1
	for i := open + 1; i < len(text); i++ {
		c := text[i]
		depthBefore := sc.depth()
		if !sc.step(c) {
			continue
		}
		if c == ']' && depthBefore == 0 {
			arrayEnd = i
			break
		}
		if c == '}' && depthBefore == 1 {
			lastDayEnd = i
		}
	}

	var b strings.Builder
	switch {
	case arrayEnd >= 0:
		b.WriteString(text[:arrayEnd+1])
	case lastDayEnd >= 0:
		b.WriteString(text[:lastDayEnd+1])
		b.WriteByte(']')
	default:
		return "", 0, ErrNoCompleteDay
	}
	kept := b.Len()
	if arrayEnd < 0 {
		kept--
	}
	b.WriteString(`,"tips":[`)
	for i, tip := range DefaultTips {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`"` + tip + `"`)
	}
	b.WriteString(`],"totalEstimatedCost":"` + DefaultTotalCost + `"}`)

	return b.String(), len(text) - kept, nil
}

// closeOpenStructures appends whatever closers text is missing: a quote
// for an unterminated string, then brackets and braces in nesting order.
// A dangling comma or colon before the closers is dealt with first.
func closeOpenStructures(text string) string {
	var sc jsonScanner
	for i := 0; i < len(text); i++ {
		sc.step(text[i])
	}

	var b strings.Builder
	if sc.inString {
		b.WriteString(text)
		if sc.escaped {
			b.WriteByte('\\')
		}
		b.WriteByte('"')
	} else {
		trimmed := strings.TrimRight(text, " \t\r\n")
		trimmed = strings.TrimRight(trimmed, ",")
		b.WriteString(trimmed)
		if strings.HasSuffix(trimmed, ":") {
			b.WriteString("null")
		}
	}

	for i := len(sc.stack) - 1; i >= 0; i-- {
		if sc.stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}
