// Package textnorm holds the text normalisation and whole-word matching rules shared by
// the taxonomy, skill extraction and chat packages.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// allowedPunct lists the punctuation kept by Normalize. Skills such as "c++", "c#",
// "node.js" and "ci/cd" depend on it.
const allowedPunct = "+#./-"

// Label lowercases and trims a taxonomy label without touching punctuation.
func Label(s string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFC.String(s)))
}

// Normalize lowercases s, replaces every rune that is not a letter, digit, space or one of
// the allowed punctuation marks with a space and collapses runs of whitespace.
func Normalize(s string) string {
	s = strings.ToLower(norm.NFC.String(s))

	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(allowedPunct, r):
			b.WriteRune(r)
			space = false
		default:
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// Join normalises every text and joins them into one haystack. A newline separates the
// texts so a match never spans two of them.
func Join(texts []string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		if n := Normalize(t); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "\n")
}

// IsWordRune reports whether r belongs to a word for boundary matching.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// CountWord counts the occurrences of word in haystack that are not part of a longer
// word: "go" is found in "go och python" but not in "golang" or "algorithm". A boundary is
// only required on an edge of word that is itself a word rune, so "c++" and ".net" match
// where the neighbouring punctuation would otherwise block them.
func CountWord(haystack, word string) int {
	if word == "" || len(word) > len(haystack) {
		return 0
	}

	first, _ := utf8.DecodeRuneInString(word)
	last, _ := utf8.DecodeLastRuneInString(word)
	checkBefore := IsWordRune(first)
	checkAfter := IsWordRune(last)

	count := 0
	start := 0
	for start <= len(haystack)-len(word) {
		idx := strings.Index(haystack[start:], word)
		if idx < 0 {
			break
		}
		pos := start + idx
		end := pos + len(word)

		ok := true
		if checkBefore && pos > 0 {
			prev, _ := utf8.DecodeLastRuneInString(haystack[:pos])
			ok = !IsWordRune(prev)
		}
		if ok && checkAfter && end < len(haystack) {
			next, _ := utf8.DecodeRuneInString(haystack[end:])
			ok = !IsWordRune(next)
		}

		if ok {
			count++
			start = end
			continue
		}

		_, size := utf8.DecodeRuneInString(haystack[pos:])
		start = pos + size
	}

	return count
}

// ContainsWord reports whether word occurs in haystack as a whole word.
func ContainsWord(haystack, word string) bool {
	return CountWord(haystack, word) > 0
}

// ContainsAny reports whether any of the phrases occurs in haystack as a substring.
func ContainsAny(haystack string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(haystack, p) {
			return true
		}
	}
	return false
}
