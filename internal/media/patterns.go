package media

import "regexp"

// Filename token patterns.
//
// This file consolidates the regular expressions used to recognize community
// naming conventions in release names. Matching is kept deliberately
// tolerant: the guesser accepts several spellings of the same fact (S01E02,
// 1x02, dotted 1.02) and later stages normalize whatever it extracts.
var (
	// seasonEpisodeRe matches combined season/episode forms: S01E02, 1x02, s1e2.
	seasonEpisodeRe = regexp.MustCompile(`(?i)\b[sx]?(\d{1,2})[ex](\d{1,3})\b`)

	// dottedSeasonEpisodeRe matches compact dotted forms: 1.04, 01.4, 10.12.
	// The season is capped at two digits so a leading year like 2024.05 is
	// never mistaken for one.
	dottedSeasonEpisodeRe = regexp.MustCompile(`(?:^|[\s._-])(\d{1,2})[._](\d{1,2})(?:[^0-9]|$)`)

	// multiEpisodeRe matches chained multi-episode forms: S01E01E02,
	// S01E01-E02. The chain is captured whole and its numbers parsed out.
	multiEpisodeRe = regexp.MustCompile(`(?i)\b[sx]?(\d{1,2})[ex](\d{1,3})((?:[-._ ]?e\d{1,3})+)\b`)

	// numberRunRe pulls the digit runs out of a captured episode chain.
	numberRunRe = regexp.MustCompile(`\d{1,3}`)

	// dateRe matches an airdate embedded in a filename: 2019.03.28, 2019-03-28.
	dateRe = regexp.MustCompile(`\b((?:19|20)\d{2})[.\-_]([01]\d)[.\-_]([0-3]\d)\b`)

	// yearRe extracts a release year; the century prefix keeps episode
	// numbers from matching.
	yearRe = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)

	// videoRe matches video file extensions used to include media files.
	videoRe = regexp.MustCompile(`(?i)\.(mp4|mkv|avi|mov|wmv|flv|webm|mpeg|mpg|m4v|3gp|vob|ts|mts|m2ts|rmvb|divx)$`)

	// subtitleRe matches subtitle file extensions.
	subtitleRe = regexp.MustCompile(`(?i)\.(srt|sub|idx|ass|ssa|smi|vtt|sbv|stl|sup|ttml)$`)

	// langRe matches a trailing language code before a subtitle extension:
	// .en, .eng, .en-US.
	langRe = regexp.MustCompile(`\.([a-zA-Z]{2,3}(?:[-_][a-zA-Z]{2,4})?)$`)

	// groupRe captures a trailing release group token: "-SPARKS".
	groupRe = regexp.MustCompile(`-([A-Za-z0-9]+)\s*$`)

	// screenSizeRe, sourceRe, videoCodecRe and audioCodecRe each capture one
	// class of quality token; their matches are stripped from the stem before
	// the title is read.
	screenSizeRe = regexp.MustCompile(`(?i)\b(480p|576p|720p|1080p|1080i|2160p|4k|uhd)\b`)
	sourceRe     = regexp.MustCompile(`(?i)\b(blu-?ray|bdrip|brrip|web-?dl|webrip|hdtv|dvdrip|dvd|hdrip|cam|telesync)\b`)
	videoCodecRe = regexp.MustCompile(`(?i)\b(x264|x265|h\.?264|h\.?265|hevc|avc|xvid|divx|av1)\b`)
	audioCodecRe = regexp.MustCompile(`(?i)\b(aac|ac3|eac3|dd5\.?1|dts(?:-hd)?|truehd|flac|mp3|opus)\b`)

	// junkTagsRe removes remaining release chatter that is neither title nor
	// quality: edition markers, repack flags, channel layouts.
	junkTagsRe = regexp.MustCompile(`(?i)\b(proper|repack|internal|limited|unrated|extended|remastered|complete|multi|dual|subbed|dubbed|retail|hdr10?|10bit|8bit|5\.1|7\.1)\b`)
)

// IsVideo reports whether filename has a recognized video extension.
func IsVideo(filename string) bool {
	return videoRe.MatchString(filename)
}

// IsSubtitle reports whether filename has a recognized subtitle extension.
func IsSubtitle(filename string) bool {
	return subtitleRe.MatchString(filename)
}
