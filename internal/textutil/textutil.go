// Package textutil holds the string helpers used to turn intake form answers
// into proposal fields.
package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)

	digitRun = regexp.MustCompile(`\d+`)
)

// Capitalize upper-cases the first letter of every space-separated word and
// lower-cases the rest. Runs of spaces are preserved.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + lower.String(w[size:])
	}
	return strings.Join(words, " ")
}

// Label is a "main: sub" answer split at its first colon.
type Label struct {
	Main string
	Sub  string
}

// SplitLabel splits s at the first colon and trims both halves. Without a
// colon the whole trimmed string is Main.
func SplitLabel(s string) Label {
	if s == "" {
		return Label{}
	}
	main, sub, found := strings.Cut(s, ":")
	if !found {
		return Label{Main: strings.TrimSpace(s)}
	}
	return Label{
		Main: strings.TrimSpace(main),
		Sub:  strings.TrimSpace(sub),
	}
}

// JoinOxford renders items as an English list: "A", "A and B", "A, B, and C".
// With oxford false the last separator is " and " instead of ", and ".
func JoinOxford(items []string, oxford bool) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}

	sep := ", and "
	if !oxford {
		sep = " and "
	}
	last := len(items) - 1
	return strings.Join(items[:last], ", ") + sep + items[last]
}

// FirstNumber returns the first run of ASCII digits in s as an int, or 0 when
// there is none or it does not fit.
func FirstNumber(s string) int {
	m := digitRun.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
