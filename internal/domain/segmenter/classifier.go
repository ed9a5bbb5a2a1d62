// Package segmenter splits per-page policy text into titled clauses.
// Pure business logic: no I/O, no shared state, safe for concurrent use.
package segmenter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxTitleRunes = 120
	maxTitleWords = 8
)

// JunkKeywords marks boilerplate lines: regulatory identifiers, office
// addresses, web and mail markers, confidentiality banners.
var JunkKeywords = []string{
	"uin:", "irda", "regn. no.", "reg. no.", "cin:", "gstin",
	"subject matter of solicitation", "trade logo", "corporate office",
	"registered office", "toll-free", "website:", "e-mail", ".com", ".in",
	"confidential", "internal use",
}

var (
	listMarkerPattern = regexp.MustCompile(`^\s*(\d{1,2}\.|[A-Z]\.|\([a-z]\)|\([ivx]+\)|•)\s+`)
	pageNumberPattern = regexp.MustCompile(`^(page\s*\d+|\d+\s*of\s*\d+)$`)
)

// IsTitle reports whether line looks like a section heading.
func IsTitle(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" || utf8.RuneCountInString(s) > maxTitleRunes {
		return false
	}
	if strings.HasSuffix(s, ".") {
		return false
	}
	if listMarkerPattern.MatchString(s) {
		return true
	}
	if len(strings.Fields(s)) < maxTitleWords {
		return isUpper(s) || isTitleCase(s)
	}
	return false
}

// IsJunk reports whether line is boilerplate that carries no policy content.
func IsJunk(line string) bool {
	s := strings.ToLower(strings.TrimSpace(line))
	if s == "" {
		return true
	}
	for _, kw := range JunkKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return pageNumberPattern.MatchString(s)
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// isUpper: at least one cased rune and none of them lower case.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if isCased(r) {
			cased = true
		}
	}
	return cased
}

// isTitleCase: upper case runes only start a cased run, lower case runes only
// continue one, and there is at least one cased rune.
func isTitleCase(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}
