package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "media-mover [targets...]",
	Short: "A tool for organizing media files",
	Long: `media-mover renames and relocates media files into a clean, consistent layout.
It parses release names into structured metadata, enriches that metadata from an
online catalog (TMDB, TVDB, or OMDb), and renders the destination path from your
configured templates.

Runs are interactive by default: each file presents its candidate matches for
selection. Batch mode takes the best match without asking.`,
	Args:    cobra.ArbitraryArgs,
	RunE:    runProcessCommand,
	Version: version,

	SilenceUsage: true,
}

// version is stamped by the release build.
var version = "dev"

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var (
	batchMode     bool
	sceneMode     bool
	recurseMode   bool
	verboseMode   bool
	dryRunMode    bool
	probeMode     bool
	blacklist     []string
	extensionMask []string
	maxHits       int
	mediaOverride string
	idOverride    string

	movieAPI           string
	movieDestination   string
	movieTemplate      string
	episodeAPI         string
	episodeDestination string
	episodeTemplate    string
	replacements       []string

	configLoadPath string
	configSavePath string
)

func init() {
	flags := rootCmd.Flags()
	flags.BoolVarP(&batchMode, "batch", "b", false, "Process automatically without interactive prompts")
	flags.BoolVarP(&sceneMode, "scene", "s", false, "Use dot-separated lowercase scene naming")
	flags.BoolVarP(&recurseMode, "recurse", "r", false, "Search for files in directories recursively")
	flags.BoolVarP(&verboseMode, "verbose", "v", false, "Verbose output")
	flags.BoolVar(&dryRunMode, "dry-run", false, "Show what would happen without moving anything")
	flags.BoolVar(&probeMode, "probe", false, "Read quality facts from the media streams with ffprobe")
	flags.StringSliceVar(&blacklist, "blacklist", nil, "Skip files whose name matches these regular expressions")
	flags.StringSliceVar(&extensionMask, "extension-mask", nil, "Only process files with these extensions")
	flags.IntVar(&maxHits, "max-hits", 0, "Maximum number of search candidates to present")
	flags.StringVar(&mediaOverride, "media", "", "Force the media type (movie or episode)")
	flags.StringVar(&idOverride, "id", "", "Catalog id to look up instead of searching by name")
	flags.StringVar(&movieAPI, "movie-api", "", "Movie lookup API (tmdb or omdb)")
	flags.StringVar(&movieDestination, "movie-destination", "", "Destination directory template for movies")
	flags.StringVar(&movieTemplate, "movie-template", "", "Filename template for movies")
	flags.StringVar(&episodeAPI, "episode-api", "", "Episode lookup API (tvdb)")
	flags.StringVar(&episodeDestination, "episode-destination", "", "Destination directory template for episodes")
	flags.StringVar(&episodeTemplate, "episode-template", "", "Filename template for episodes")
	flags.StringSliceVar(&replacements, "replacements", nil, "Literal text replacements, as old=new pairs")
	flags.StringVar(&configLoadPath, "config-load", "", "Load settings from this file instead of the defaults")
	flags.StringVar(&configSavePath, "config-save", "", "Write the effective settings to this file and exit")
}
