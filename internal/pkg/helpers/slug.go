package helpers

import (
	"strconv"
	"strings"
	"unicode"
)

// DefaultSlug is used when a title has no usable characters
const DefaultSlug = "project"

// Slugify derives the URL slug of a project title: lowercased letters and digits of any
// script, with every other run of characters collapsed to a single hyphen. Non-ASCII
// slugs are percent-encoded by clients and matched decoded by the router.
func Slugify(title string) string {
	var b strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
		case unicode.IsMark(r) && b.Len() > 0 && !pendingHyphen:
			// vowel signs and accents stay attached to their base letter
		default:
			pendingHyphen = true
			continue
		}
		if pendingHyphen && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingHyphen = false
		b.WriteRune(r)
	}

	if b.Len() == 0 {
		return DefaultSlug
	}
	return b.String()
}

// SlugCandidate returns the n-th slug to try for base: base itself for n <= 1,
// then base-2, base-3 and so on.
func SlugCandidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
