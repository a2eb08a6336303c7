package core

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Template mini-language: literal text interleaved with substitution tokens
// of the form {field[modifier][:width]}. The bracket modifier is parsed and
// reserved; the width spec (1-2 digits) zero-pads numeric fields. An absent
// field renders as the empty string, and a cleanup pass then removes the
// punctuation that was only there to frame it.

const (
	// DefaultMovieFormat renders e.g. "The Matrix (1999)".
	DefaultMovieFormat = "{name} ({year})"
	// DefaultEpisodeFormat renders e.g. "Lost - 01x02 - Pilot".
	DefaultEpisodeFormat = "{series} - {season:02}x{episode:02} - {title}"
)

// titleCasedFields are always title-cased after substitution, whatever
// casing the stored value carries.
var titleCasedFields = map[string]bool{
	"name":     true,
	"series":   true,
	"synopsis": true,
	"title":    true,
}

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenField
)

// token is one node of the parsed template: either literal text or a field
// reference with its optional width spec.
type token struct {
	kind     tokenKind
	text     string // literal text, or raw source for malformed references
	field    string
	modifier string // reserved bracket modifier, kept but unused
	width    int    // zero-pad width, 0 when absent
}

// fieldRe mirrors the token grammar: word field name, optional [..] bracket
// modifier, optional :NN width spec.
var fieldRe = regexp.MustCompile(`^\{(\w+)(\[[\w:]+\])?(?::(\d{1,2}))?\}`)

// tokenize splits a format string into literal and field tokens. Anything
// that opens a brace without matching the token grammar stays literal text.
func tokenize(format string) []token {
	var tokens []token
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, token{kind: tokenLiteral, text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(format); {
		if format[i] != '{' {
			literal.WriteByte(format[i])
			i++
			continue
		}
		m := fieldRe.FindStringSubmatch(format[i:])
		if m == nil {
			literal.WriteByte(format[i])
			i++
			continue
		}
		flush()
		width := 0
		if m[3] != "" {
			fmt.Sscanf(m[3], "%d", &width)
		}
		tokens = append(tokens, token{
			kind:     tokenField,
			field:    m[1],
			modifier: m[2],
			width:    width,
		})
		i += len(m[0])
	}
	flush()
	return tokens
}

// Format renders metadata through a format string. An empty format selects
// the variant's default. The function is pure: it reads only the record's
// flattened mapping and keeps no state between calls.
func Format(m *Metadata, format string) string {
	if format == "" {
		switch m.Media() {
		case MediaTypeEpisode:
			format = DefaultEpisodeFormat
		default:
			format = DefaultMovieFormat
		}
	}

	flat := m.AsMap()
	var b strings.Builder
	for _, tok := range tokenize(format) {
		if tok.kind == tokenLiteral {
			b.WriteString(tok.text)
			continue
		}
		b.WriteString(renderField(tok, flat))
	}
	return FixPadding(b.String())
}

func renderField(tok token, flat map[string]any) string {
	value, ok := flat[tok.field]
	if !ok {
		return ""
	}
	var rendered string
	switch v := value.(type) {
	case int:
		if tok.width > 0 {
			rendered = fmt.Sprintf("%0*d", tok.width, v)
		} else {
			rendered = fmt.Sprintf("%d", v)
		}
	case string:
		rendered = v
	default:
		rendered = fmt.Sprintf("%v", v)
	}
	if titleCasedFields[tok.field] {
		rendered = TitleCase(rendered)
	}
	return rendered
}

var (
	emptyBracketsRe  = regexp.MustCompile(`\(\s*\)|\[\s*\]|\{\s*\}`)
	doubledDashRe    = regexp.MustCompile(`-\s*-`)
	edgeSeparatorRe  = regexp.MustCompile(`^\s*[-–—:]+\s*|\s*[-–—:]+\s*$`)
	whitespaceRunsRe = regexp.MustCompile(`\s+`)
)

// FixPadding removes the punctuation scaffolding left behind by empty
// substitutions: empty bracket pairs, doubled dash separators, dangling
// leading/trailing separators, and collapsed whitespace runs. The rule is
// applied to a fixpoint so the pass is idempotent by construction.
func FixPadding(s string) string {
	for {
		before := s
		s = emptyBracketsRe.ReplaceAllString(s, "")
		s = doubledDashRe.ReplaceAllString(s, "-")
		s = edgeSeparatorRe.ReplaceAllString(s, "")
		s = strings.TrimSpace(whitespaceRunsRe.ReplaceAllString(s, " "))
		if s == before {
			return s
		}
	}
}

var titleCaser = cases.Title(language.English)

// TitleCase lower-cases the input and re-caps each word, matching how
// catalog titles are conventionally written. Mixed-case artifacts from
// release names ("the.MATRIX") come out uniform.
func TitleCase(s string) string {
	if s == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(s))
}
