package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		input   string
		want    MediaType
		wantErr bool
	}{
		{input: "movie", want: MediaTypeMovie},
		{input: " Movie ", want: MediaTypeMovie},
		{input: "episode", want: MediaTypeEpisode},
		{input: "television", want: MediaTypeEpisode},
		{input: "tv", want: MediaTypeEpisode},
		{input: "podcast", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMediaType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMediaType) {
					t.Errorf("ParseMediaType(%q) error = %v, want ErrUnknownMediaType", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseMediaType(%q) = (%v, %v), want (%v, nil)", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestSetterNormalization(t *testing.T) {
	m := NewMovie()
	m.SetContainer("MKV")
	m.SetGroup("sparks")
	m.SetQuality("1080p BluRay X265")
	m.SetSynopsis("a hacker learns the truth")
	m.SetName("the MATRIX")

	if got := m.Container(); got != ".mkv" {
		t.Errorf("Container() = %q, want %q", got, ".mkv")
	}
	if got := m.Group(); got != "SPARKS" {
		t.Errorf("Group() = %q, want %q", got, "SPARKS")
	}
	if got := m.Quality(); got != "1080p bluray x265" {
		t.Errorf("Quality() = %q, want %q", got, "1080p bluray x265")
	}
	if got := m.Synopsis(); got != "A hacker learns the truth" {
		t.Errorf("Synopsis() = %q, want %q", got, "A hacker learns the truth")
	}
	if got := m.Name(); got != "The Matrix" {
		t.Errorf("Name() = %q, want %q", got, "The Matrix")
	}
}

func TestSetNameReplacesPathSeparators(t *testing.T) {
	m := NewMovie()
	m.SetName("face/off")
	if got := m.Name(); got != "Face-Off" {
		t.Errorf("Name() = %q, want %q", got, "Face-Off")
	}
}

func TestNumericCoercion(t *testing.T) {
	m := NewMovie()
	m.SetYear("1999")
	if got := m.Year(); got != 1999 {
		t.Errorf("Year() = %d, want 1999", got)
	}

	// A bad token is discarded, leaving the field as it was.
	m.SetYear("not a year")
	if got := m.Year(); got != 1999 {
		t.Errorf("Year() after bad input = %d, want 1999", got)
	}

	e := NewEpisode()
	e.SetSeason("01")
	e.SetEpisode([]int{4, 2, 3})
	if got := e.Season(); got != 1 {
		t.Errorf("Season() = %d, want 1", got)
	}
	if got := e.Episode(); got != 2 {
		t.Errorf("Episode() = %d, want 2 (lowest of the list)", got)
	}
}

func TestSetDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "iso", input: "2019-03-28", want: "2019-03-28"},
		{name: "dotted", input: "2019.03.28", want: "2019-03-28"},
		{name: "us_slash", input: "03/28/2019", want: "2019-03-28"},
		{name: "written", input: "Mar 28, 2019", want: "2019-03-28"},
		{name: "passthrough", input: "sometime in spring", want: "sometime in spring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEpisode()
			e.SetDate(tt.input)
			if got := e.Date(); got != tt.want {
				t.Errorf("SetDate(%q): Date() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestVariantFieldsAreGuarded(t *testing.T) {
	m := NewMovie()
	m.SetSeries("Lost")
	m.SetSeason(1)
	m.SetEpisode(2)
	if m.Series() != "" || m.Season() != 0 || m.Episode() != 0 {
		t.Errorf("movie record accepted episode fields: series=%q season=%d episode=%d",
			m.Series(), m.Season(), m.Episode())
	}

	e := NewEpisode()
	e.SetName("The Matrix")
	e.SetYear(1999)
	if e.Name() != "" || e.Year() != 0 {
		t.Errorf("episode record accepted movie fields: name=%q year=%d", e.Name(), e.Year())
	}
}

func TestSubtitleExtension(t *testing.T) {
	m := NewMovie()
	m.SetContainer(".srt")
	m.SetLanguage("EN")

	if !m.IsSubtitle() {
		t.Error("IsSubtitle() = false, want true")
	}
	if got := m.Extension(); got != ".en.srt" {
		t.Errorf("Extension() = %q, want %q", got, ".en.srt")
	}

	video := NewMovie()
	video.SetContainer("mkv")
	if video.IsSubtitle() {
		t.Error("IsSubtitle() = true for .mkv, want false")
	}
	if got := video.Extension(); got != ".mkv" {
		t.Errorf("Extension() = %q, want %q", got, ".mkv")
	}
}

func TestAsMapOmitsAbsentFields(t *testing.T) {
	e := NewEpisode()
	e.SetSeries("example show")
	e.SetSeason(1)
	e.SetEpisode(2)
	e.SetContainer("mkv")

	want := map[string]any{
		"media":     "episode",
		"container": ".mkv",
		"extension": ".mkv",
		"series":    "Example Show",
		"season":    1,
		"episode":   2,
	}
	if diff := cmp.Diff(want, e.AsMap()); diff != "" {
		t.Errorf("AsMap() mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateOverlay(t *testing.T) {
	a := NewMovie()
	a.SetName("Foo")

	b := NewMovie()
	b.SetYear(1999)

	a.Update(b)
	if a.Name() != "Foo" || a.Year() != 1999 {
		t.Errorf("Update kept absent fields wrong: name=%q year=%d, want Foo/1999", a.Name(), a.Year())
	}

	c := NewMovie()
	c.SetName("Bar")
	a.Update(c)
	if a.Name() != "Bar" {
		t.Errorf("Update: incoming present field must win, name = %q, want Bar", a.Name())
	}
	if a.Year() != 1999 {
		t.Errorf("Update: absent incoming year clobbered value, year = %d, want 1999", a.Year())
	}
}

func TestUpdateIgnoresOtherVariant(t *testing.T) {
	m := NewMovie()
	m.SetName("Foo")

	e := NewEpisode()
	e.SetSeries("Bar")
	e.SetQuality("1080p")

	m.Update(e)
	if m.Name() != "Foo" {
		t.Errorf("Update across variants changed name to %q", m.Name())
	}
	// Common fields still transfer.
	if m.Quality() != "1080p" {
		t.Errorf("Update across variants dropped common field, quality = %q", m.Quality())
	}
}

func TestParseMovie(t *testing.T) {
	raw := map[string]any{
		"type":          "movie",
		"title":         "the matrix",
		"year":          "1999",
		"screen_size":   "1080p",
		"source":        "BluRay",
		"video_codec":   "x265",
		"release_group": "sparks",
		"container":     ".mkv",
	}

	m, err := Parse(raw, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if m.Media() != MediaTypeMovie {
		t.Errorf("Media() = %v, want movie", m.Media())
	}
	if m.Name() != "The Matrix" || m.Year() != 1999 {
		t.Errorf("Parse() = %q (%d), want The Matrix (1999)", m.Name(), m.Year())
	}
	if got := m.Quality(); got != "1080p bluray x265" {
		t.Errorf("Quality() = %q, want tokens joined in canonical order", got)
	}
	if m.Group() != "SPARKS" {
		t.Errorf("Group() = %q, want SPARKS", m.Group())
	}
}

func TestParseEpisode(t *testing.T) {
	raw := map[string]any{
		"type":              "episode",
		"title":             "example show",
		"alternative_title": "us",
		"season":            1,
		"episode":           []int{5, 2},
		"episode_title":     "pilot",
		"container":         "mkv",
	}

	m, err := Parse(raw, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if m.Series() != "Example Show Us" {
		t.Errorf("Series() = %q, want alternative title appended", m.Series())
	}
	if m.Season() != 1 || m.Episode() != 2 {
		t.Errorf("season/episode = %d/%d, want 1/2", m.Season(), m.Episode())
	}
	if m.Title() != "Pilot" {
		t.Errorf("Title() = %q, want Pilot", m.Title())
	}
}

func TestParseHintOverridesTag(t *testing.T) {
	m, err := Parse(map[string]any{"title": "whatever"}, MediaTypeMovie)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if m.Media() != MediaTypeMovie {
		t.Errorf("Media() = %v, want movie from hint", m.Media())
	}
}

func TestParseUnknownTag(t *testing.T) {
	_, err := Parse(map[string]any{"type": "mixtape"}, "")
	if !errors.Is(err, ErrUnknownMediaType) {
		t.Errorf("Parse() error = %v, want ErrUnknownMediaType", err)
	}
}
