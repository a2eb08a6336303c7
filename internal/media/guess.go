package media

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Guess inspects a file path and returns a raw attribute mapping describing
// what the name appears to contain. Values are loosely typed on purpose; the
// metadata layer owns coercion and normalization, so a bad token here is
// discarded there rather than failing the file.
//
// The mapping uses the keys the metadata factory understands: "type",
// "title", "year", "season", "episode", "episode_title", "date", the quality
// token keys, "release_group", "subtitle_language" and "container".
func Guess(path string) map[string]any {
	raw := map[string]any{}
	stem := filepath.Base(path)

	// Peel the extension, and for subtitles any language code before it.
	if m := subtitleRe.FindStringIndex(stem); m != nil {
		raw["container"] = stem[m[0]:]
		stem = stem[:m[0]]
		if lm := langRe.FindStringSubmatch(stem); lm != nil {
			raw["subtitle_language"] = lm[1]
			stem = stem[:len(stem)-len(lm[0])]
		}
	} else if ext := filepath.Ext(stem); ext != "" && !strings.ContainsAny(ext, " ") {
		raw["container"] = ext
		stem = stem[:len(stem)-len(ext)]
	}

	// The title ends where structural tokens begin. Track the earliest such
	// boundary while extracting.
	titleEnd := len(stem)
	claim := func(start int) {
		if start >= 0 && start < titleEnd {
			titleEnd = start
		}
	}

	episodeTitleStart := -1
	isEpisode := false

	if m := dateRe.FindStringSubmatchIndex(stem); m != nil {
		raw["date"] = fmt.Sprintf("%s-%s-%s",
			stem[m[2]:m[3]], stem[m[4]:m[5]], stem[m[6]:m[7]])
		claim(m[0])
		episodeTitleStart = m[1]
		isEpisode = true
	} else if m := multiEpisodeRe.FindStringSubmatchIndex(stem); m != nil {
		// Multi-episode names chain further episode tokens: S01E01E02,
		// S01E01-E02. The factory collapses the list to its lowest entry.
		raw["season"], _ = strconv.Atoi(stem[m[2]:m[3]])
		first, _ := strconv.Atoi(stem[m[4]:m[5]])
		episodes := []int{first}
		for _, digits := range numberRunRe.FindAllString(stem[m[6]:m[7]], -1) {
			n, _ := strconv.Atoi(digits)
			episodes = append(episodes, n)
		}
		raw["episode"] = episodes
		claim(m[0])
		episodeTitleStart = m[1]
		isEpisode = true
	} else if m := seasonEpisodeRe.FindStringSubmatchIndex(stem); m != nil {
		raw["season"], _ = strconv.Atoi(stem[m[2]:m[3]])
		raw["episode"], _ = strconv.Atoi(stem[m[4]:m[5]])
		claim(m[0])
		episodeTitleStart = m[1]
		isEpisode = true
	} else if m := dottedSeasonEpisodeRe.FindStringSubmatchIndex(stem); m != nil {
		season, _ := strconv.Atoi(stem[m[2]:m[3]])
		episode, _ := strconv.Atoi(stem[m[4]:m[5]])
		if season > 0 && episode > 0 {
			raw["season"] = season
			raw["episode"] = episode
			claim(m[0])
			episodeTitleStart = m[5]
			isEpisode = true
		}
	}

	// Quality tokens and the year are searched across the whole stem; a year
	// inside an airdate has already been consumed above.
	qualityStart := len(stem)
	for key, re := range map[string]*regexp.Regexp{
		"screen_size": screenSizeRe,
		"source":      sourceRe,
		"video_codec": videoCodecRe,
		"audio_codec": audioCodecRe,
	} {
		if m := re.FindStringSubmatchIndex(stem); m != nil {
			raw[key] = stem[m[2]:m[3]]
			claim(m[0])
			if m[0] < qualityStart {
				qualityStart = m[0]
			}
		}
	}

	if !isEpisode {
		if m := yearRe.FindStringSubmatchIndex(stem[:titleEnd]); m != nil {
			raw["year"], _ = strconv.Atoi(stem[m[2]:m[3]])
			claim(m[0])
		}
	}

	if m := groupRe.FindStringSubmatchIndex(stem); m != nil {
		group := stem[m[2]:m[3]]
		// A trailing codec token is not a release group, and neither is the
		// tail of an episode chain like S01E01-E02.
		if m[0] >= episodeTitleStart &&
			!videoCodecRe.MatchString(group) && !audioCodecRe.MatchString(group) &&
			!screenSizeRe.MatchString(group) && !sourceRe.MatchString(group) {
			raw["release_group"] = group
			if m[0] < qualityStart {
				qualityStart = m[0]
			}
		}
	}

	raw["title"] = cleanToken(stem[:titleEnd])

	if isEpisode {
		raw["type"] = "episode"
		if episodeTitleStart >= 0 && episodeTitleStart < qualityStart {
			if title := cleanToken(stem[episodeTitleStart:qualityStart]); title != "" {
				raw["episode_title"] = title
			}
		}
	} else {
		raw["type"] = "movie"
	}

	return raw
}

var separatorRunRe = regexp.MustCompile(`[\s._]+`)

// cleanToken turns a slice of a release name into readable words: separators
// become spaces, leftover tags and dangling punctuation go away.
func cleanToken(s string) string {
	s = separatorRunRe.ReplaceAllString(s, " ")
	s = junkTagsRe.ReplaceAllString(s, "")
	s = separatorRunRe.ReplaceAllString(s, " ")
	return strings.Trim(s, " -()[]")
}
