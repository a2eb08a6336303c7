package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// MediaType classifies a metadata record as either a movie or a television
// episode. The tag is fixed at construction time and decides which variant
// fields are live.
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeEpisode MediaType = "episode"
)

// ErrUnknownMediaType is returned by Parse when the raw attribute mapping
// carries a media tag that is neither movie nor episode.
var ErrUnknownMediaType = errors.New("unknown media type")

// ParseMediaType maps loose user or guesser spellings onto a MediaType.
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return MediaTypeMovie, nil
	case "episode", "television", "tv":
		return MediaTypeEpisode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMediaType, s)
	}
}

// quality token keys recognized in the guesser's raw attribute mapping, in
// the order they are joined into the quality field.
var qualityKeys = []string{
	"audio_codec",
	"audio_profile",
	"screen_size",
	"source",
	"video_codec",
	"video_profile",
}

// subtitleSuffix marks a container as a subtitle file for the derived
// extension field.
const subtitleSuffix = ".srt"

// Metadata stores normalized media metadata for a single file. All writes go
// through setters so every field holds its canonical form: container keeps a
// leading dot, group is upper-cased, quality lower-cased, synopsis
// capitalized, names title-cased with path separators replaced. The variant
// fields for the inactive media type are never populated.
type Metadata struct {
	media     MediaType
	container string
	group     string
	language  string
	quality   string
	synopsis  string

	movie   movieFields
	episode episodeFields
}

type movieFields struct {
	name   string
	year   int
	idIMDB string
	idTMDB string
}

type episodeFields struct {
	series   string
	season   int
	episode  int
	date     string
	title    string
	idTVDB   string
	idTVMaze string
}

// NewMovie returns an empty movie-variant record.
func NewMovie() *Metadata {
	return &Metadata{media: MediaTypeMovie}
}

// NewEpisode returns an empty episode-variant record.
func NewEpisode() *Metadata {
	return &Metadata{media: MediaTypeEpisode}
}

// Media returns the variant tag. It never changes after construction.
func (m *Metadata) Media() MediaType { return m.media }

func (m *Metadata) Container() string { return m.container }
func (m *Metadata) Group() string     { return m.group }
func (m *Metadata) Language() string  { return m.language }
func (m *Metadata) Quality() string   { return m.quality }
func (m *Metadata) Synopsis() string  { return m.synopsis }

// SetContainer stores the file extension, adding the leading dot when the
// caller omitted it.
func (m *Metadata) SetContainer(container string) {
	container = strings.TrimSpace(container)
	if container == "" {
		return
	}
	if !strings.HasPrefix(container, ".") {
		container = "." + container
	}
	m.container = strings.ToLower(container)
}

// SetGroup stores the release group upper-cased.
func (m *Metadata) SetGroup(group string) {
	if group = strings.TrimSpace(group); group != "" {
		m.group = strings.ToUpper(group)
	}
}

// SetLanguage stores a subtitle language code.
func (m *Metadata) SetLanguage(lang string) {
	if lang = strings.TrimSpace(lang); lang != "" {
		m.language = strings.ToLower(lang)
	}
}

// SetQuality stores the descriptive quality tokens lower-cased.
func (m *Metadata) SetQuality(quality string) {
	if quality = strings.TrimSpace(quality); quality != "" {
		m.quality = strings.ToLower(quality)
	}
}

// SetSynopsis stores free text with the first rune capitalized.
func (m *Metadata) SetSynopsis(synopsis string) {
	if synopsis = strings.TrimSpace(synopsis); synopsis != "" {
		m.synopsis = capitalize(synopsis)
	}
}

// Movie variant accessors. Setters are no-ops on the episode variant so a
// record can never hold fields from the wrong variant.

func (m *Metadata) Name() string { return m.movie.name }

func (m *Metadata) SetName(name string) {
	if m.media != MediaTypeMovie {
		return
	}
	if name = replaceSlashes(name); name != "" {
		m.movie.name = TitleCase(name)
	}
}

func (m *Metadata) Year() int { return m.movie.year }

// SetYear coerces value to a calendar year. Values that do not parse as an
// integer are discarded, leaving the field absent.
func (m *Metadata) SetYear(value any) {
	if m.media != MediaTypeMovie {
		return
	}
	year, err := cast.ToIntE(value)
	if err != nil || year <= 0 {
		return
	}
	m.movie.year = year
}

func (m *Metadata) IDIMDB() string { return m.movie.idIMDB }
func (m *Metadata) SetIDIMDB(id string) {
	if m.media == MediaTypeMovie {
		m.movie.idIMDB = strings.TrimSpace(id)
	}
}

func (m *Metadata) IDTMDB() string { return m.movie.idTMDB }
func (m *Metadata) SetIDTMDB(id string) {
	if m.media == MediaTypeMovie {
		m.movie.idTMDB = strings.TrimSpace(id)
	}
}

// Episode variant accessors.

func (m *Metadata) Series() string { return m.episode.series }

func (m *Metadata) SetSeries(series string) {
	if m.media != MediaTypeEpisode {
		return
	}
	if series = replaceSlashes(series); series != "" {
		m.episode.series = TitleCase(series)
	}
}

func (m *Metadata) Season() int { return m.episode.season }

// SetSeason coerces value to an integer season number, discarding values
// that do not parse.
func (m *Metadata) SetSeason(value any) {
	if m.media != MediaTypeEpisode {
		return
	}
	season, err := cast.ToIntE(value)
	if err != nil || season <= 0 {
		return
	}
	m.episode.season = season
}

func (m *Metadata) Episode() int { return m.episode.episode }

// SetEpisode coerces value to an integer episode number. A list of episode
// numbers (multi-episode files) collapses to the lowest entry.
func (m *Metadata) SetEpisode(value any) {
	if m.media != MediaTypeEpisode {
		return
	}
	if list, ok := value.([]int); ok {
		lowest := 0
		for _, n := range list {
			if n <= 0 {
				continue
			}
			if lowest == 0 || n < lowest {
				lowest = n
			}
		}
		if lowest > 0 {
			m.episode.episode = lowest
		}
		return
	}
	episode, err := cast.ToIntE(value)
	if err != nil || episode <= 0 {
		return
	}
	m.episode.episode = episode
}

func (m *Metadata) Date() string { return m.episode.date }

// SetDate stores an air date. Date-like strings are normalized to
// YYYY-MM-DD; anything else passes through verbatim.
func (m *Metadata) SetDate(value any) {
	if m.media != MediaTypeEpisode {
		return
	}
	if t, ok := value.(time.Time); ok {
		m.episode.date = t.Format("2006-01-02")
		return
	}
	raw := strings.TrimSpace(cast.ToString(value))
	if raw == "" {
		return
	}
	for _, layout := range []string{"2006-01-02", "2006.01.02", "01/02/2006", "Jan 2, 2006", "2 Jan 2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			m.episode.date = t.Format("2006-01-02")
			return
		}
	}
	m.episode.date = raw
}

func (m *Metadata) Title() string { return m.episode.title }

func (m *Metadata) SetTitle(title string) {
	if m.media != MediaTypeEpisode {
		return
	}
	if title = replaceSlashes(title); title != "" {
		m.episode.title = TitleCase(title)
	}
}

func (m *Metadata) IDTVDB() string { return m.episode.idTVDB }
func (m *Metadata) SetIDTVDB(id string) {
	if m.media == MediaTypeEpisode {
		m.episode.idTVDB = strings.TrimSpace(id)
	}
}

func (m *Metadata) IDTVMaze() string { return m.episode.idTVMaze }
func (m *Metadata) SetIDTVMaze(id string) {
	if m.media == MediaTypeEpisode {
		m.episode.idTVMaze = strings.TrimSpace(id)
	}
}

// IsSubtitle reports whether the container marks a subtitle file.
func (m *Metadata) IsSubtitle() bool {
	return strings.HasSuffix(m.container, subtitleSuffix)
}

// Extension derives the final file extension: subtitle containers with a
// known language gain the language code ("movie.en.srt" style), everything
// else keeps the container as-is.
func (m *Metadata) Extension() string {
	if m.IsSubtitle() && m.language != "" {
		return "." + m.language + m.container
	}
	return m.container
}

// AsMap flattens the record for template rendering. Absent fields are
// omitted so the formatter substitutes the empty string for them. Numeric
// fields stay typed so width specs can zero-pad them.
func (m *Metadata) AsMap() map[string]any {
	out := map[string]any{}
	put := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	put("media", string(m.media))
	put("container", m.container)
	put("group", m.group)
	put("language", m.language)
	put("quality", m.quality)
	put("synopsis", m.synopsis)
	put("extension", m.Extension())

	switch m.media {
	case MediaTypeMovie:
		put("name", m.movie.name)
		put("id_imdb", m.movie.idIMDB)
		put("id_tmdb", m.movie.idTMDB)
		if m.movie.year > 0 {
			out["year"] = m.movie.year
		}
	case MediaTypeEpisode:
		put("series", m.episode.series)
		put("title", m.episode.title)
		put("date", m.episode.date)
		put("id_tvdb", m.episode.idTVDB)
		put("id_tvmaze", m.episode.idTVMaze)
		if m.episode.season > 0 {
			out["season"] = m.episode.season
		}
		if m.episode.episode > 0 {
			out["episode"] = m.episode.episode
		}
	}
	return out
}

// Update overlays other onto m: every field present on other replaces the
// current value, absent fields leave m untouched. The media tag itself never
// changes, and variant fields only transfer between records of the same
// variant. Values arrive already normalized because other was built through
// the same setters.
func (m *Metadata) Update(other *Metadata) {
	if other == nil {
		return
	}
	if other.container != "" {
		m.container = other.container
	}
	if other.group != "" {
		m.group = other.group
	}
	if other.language != "" {
		m.language = other.language
	}
	if other.quality != "" {
		m.quality = other.quality
	}
	if other.synopsis != "" {
		m.synopsis = other.synopsis
	}
	if m.media != other.media {
		return
	}
	switch m.media {
	case MediaTypeMovie:
		if other.movie.name != "" {
			m.movie.name = other.movie.name
		}
		if other.movie.year > 0 {
			m.movie.year = other.movie.year
		}
		if other.movie.idIMDB != "" {
			m.movie.idIMDB = other.movie.idIMDB
		}
		if other.movie.idTMDB != "" {
			m.movie.idTMDB = other.movie.idTMDB
		}
	case MediaTypeEpisode:
		if other.episode.series != "" {
			m.episode.series = other.episode.series
		}
		if other.episode.season > 0 {
			m.episode.season = other.episode.season
		}
		if other.episode.episode > 0 {
			m.episode.episode = other.episode.episode
		}
		if other.episode.date != "" {
			m.episode.date = other.episode.date
		}
		if other.episode.title != "" {
			m.episode.title = other.episode.title
		}
		if other.episode.idTVDB != "" {
			m.episode.idTVDB = other.episode.idTVDB
		}
		if other.episode.idTVMaze != "" {
			m.episode.idTVMaze = other.episode.idTVMaze
		}
	}
}

// Parse builds the concrete variant from a guesser attribute mapping. The
// media tag comes from hint when provided, otherwise from the mapping's
// "type" key; anything else is a construction error. Unparseable numeric or
// date values are discarded rather than propagated, which keeps one bad
// token from sinking the whole record.
func Parse(raw map[string]any, hint MediaType) (*Metadata, error) {
	media := hint
	if media == "" {
		tag, _ := raw["type"].(string)
		parsed, err := ParseMediaType(tag)
		if err != nil {
			return nil, err
		}
		media = parsed
	}

	var m *Metadata
	switch media {
	case MediaTypeMovie:
		m = NewMovie()
		m.SetName(cast.ToString(raw["title"]))
		if v, ok := raw["year"]; ok {
			m.SetYear(v)
		}
	case MediaTypeEpisode:
		m = NewEpisode()
		series := cast.ToString(raw["title"])
		if alt := cast.ToString(raw["alternative_title"]); alt != "" && series != "" {
			series = series + " " + alt
		}
		m.SetSeries(series)
		if v, ok := raw["season"]; ok {
			m.SetSeason(v)
		}
		if v, ok := raw["episode"]; ok {
			m.SetEpisode(v)
		}
		if v, ok := raw["date"]; ok {
			m.SetDate(v)
		}
		if v, ok := raw["episode_title"]; ok {
			m.SetTitle(cast.ToString(v))
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMediaType, media)
	}

	tokens := make([]string, 0, len(qualityKeys))
	for _, key := range qualityKeys {
		if v := cast.ToString(raw[key]); v != "" {
			tokens = append(tokens, v)
		}
	}
	if len(tokens) > 0 {
		m.SetQuality(strings.Join(tokens, " "))
	}
	m.SetGroup(cast.ToString(raw["release_group"]))
	m.SetLanguage(cast.ToString(raw["subtitle_language"]))
	m.SetContainer(cast.ToString(raw["container"]))

	return m, nil
}

// String renders the record with its variant's default template, which is
// how candidate hits are presented in the selection list.
func (m *Metadata) String() string {
	return Format(m, "")
}

// SortedKeys returns the flattened field names in stable order, used by
// verbose per-field output.
func (m *Metadata) SortedKeys() []string {
	flat := m.AsMap()
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// capitalize upper-cases the first rune and lower-cases the remainder.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	head := strings.ToUpper(string(runes[0]))
	if len(runes) == 1 {
		return head
	}
	return head + strings.ToLower(string(runes[1:]))
}

// replaceSlashes swaps path separator characters for a safe token so a
// title can never split a rendered path segment.
func replaceSlashes(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	return strings.TrimSpace(s)
}
