package core

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Destination path sanitization. Two modes share the same shape: apply the
// user's literal replacements, normalize whitespace, strip characters the
// mode disallows, trim. Both character classes admit '/' so directory
// separators inside a rendered path survive intact.

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// sceneStripRe keeps dots, ASCII word characters and separators only.
	sceneStripRe = regexp.MustCompile(`[^.\w/]`)
	// plainStripRe keeps space, word characters (any script), digits and a
	// small set of filename-safe punctuation.
	plainStripRe = regexp.MustCompile(`[^ \p{L}\p{N}_?!.,()\[\]\-/]`)
)

// Sanitize normalizes a rendered destination path. Replacements are literal
// substring substitutions applied first, in sorted-key order so the result
// is deterministic. Scene mode then produces the dotted, ASCII, lower-case
// style used by release groups; plain mode keeps spaces and a wider
// punctuation set. Both modes are idempotent.
func Sanitize(text string, sceneMode bool, replacements map[string]string) string {
	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		text = strings.ReplaceAll(text, k, replacements[k])
	}

	if sceneMode {
		text = foldASCII(text)
		text = whitespaceRe.ReplaceAllString(text, ".")
		text = sceneStripRe.ReplaceAllString(text, "")
		text = strings.ToLower(text)
	} else {
		text = whitespaceRe.ReplaceAllString(text, " ")
		text = plainStripRe.ReplaceAllString(text, "")
		// stripping can butt two spaces together; collapse once more so the
		// function is idempotent
		text = whitespaceRe.ReplaceAllString(text, " ")
	}
	return strings.TrimSpace(text)
}

// foldASCII decomposes the string (canonical decomposition) and drops
// combining marks and any remaining non-ASCII runes, so "Amélie" becomes
// "Amelie" rather than "Amlie".
func foldASCII(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
