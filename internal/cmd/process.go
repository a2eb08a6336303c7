package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Digital-Shane/media-mover/internal/config"
	"github.com/Digital-Shane/media-mover/internal/core"
	"github.com/Digital-Shane/media-mover/internal/log"
	"github.com/Digital-Shane/media-mover/internal/media"
	"github.com/Digital-Shane/media-mover/internal/provider/ffprobe"
	"github.com/Digital-Shane/media-mover/internal/provider/search"
	"github.com/Digital-Shane/media-mover/internal/tui"
	"github.com/Digital-Shane/media-mover/internal/tui/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func runProcessCommand(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(configLoadPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, settings)

	if configSavePath != "" {
		return settings.Save(configSavePath)
	}

	level := slog.LevelInfo
	if settings.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var hint core.MediaType
	if mediaOverride != "" {
		hint, err = core.ParseMediaType(mediaOverride)
		if err != nil {
			return err
		}
	}

	skips, err := compileBlacklist(settings.Blacklist)
	if err != nil {
		return err
	}

	log.Initialize(settings.EnableLogging && !settings.DryRun, settings.LogRetentionDays)
	if err := log.StartSession("process", args); err != nil {
		logger.Warn("session journal unavailable", "error", err)
	}
	defer log.EndSession()

	interactive := isatty.IsTerminal(os.Stdout.Fd())
	var chooser tui.Chooser = tui.InteractiveChooser{}
	if settings.Batch || !interactive {
		chooser = tui.BatchChooser{}
	}
	var themeOpts []theme.Option
	if !interactive {
		themeOpts = append(themeOpts, theme.WithColors(theme.Monochrome()))
	}

	proc := &processor{
		settings: settings,
		hint:     hint,
		id:       idOverride,
		chooser:  chooser,
		searcher: search.New(search.Config{
			MovieAPI:      settings.MovieAPI,
			MovieAPIKey:   settings.MovieAPIKey,
			EpisodeAPI:    settings.EpisodeAPI,
			EpisodeAPIKey: settings.EpisodeAPIKey,
		}),
		relocator: &core.Relocator{DryRun: settings.DryRun},
		logger:    logger,
		theme:     theme.New(themeOpts...),
		blacklist: skips,
	}
	if settings.Probe {
		proc.prober = ffprobe.New()
	}

	targets := args
	if len(targets) == 0 {
		targets = []string{"."}
	}
	return proc.run(cmd.Context(), targets)
}

// applyFlagOverrides lays explicitly set flags over the loaded settings.
func applyFlagOverrides(cmd *cobra.Command, settings *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("batch") {
		settings.Batch = batchMode
	}
	if flags.Changed("scene") {
		settings.Scene = sceneMode
	}
	if flags.Changed("recurse") {
		settings.Recurse = recurseMode
	}
	if flags.Changed("verbose") {
		settings.Verbose = verboseMode
	}
	if flags.Changed("dry-run") {
		settings.DryRun = dryRunMode
	}
	if flags.Changed("probe") {
		settings.Probe = probeMode
	}
	if flags.Changed("blacklist") {
		settings.Blacklist = blacklist
	}
	if flags.Changed("extension-mask") {
		settings.ExtensionMask = extensionMask
	}
	if flags.Changed("max-hits") {
		settings.MaxHits = maxHits
	}
	if flags.Changed("movie-api") {
		settings.MovieAPI = movieAPI
	}
	if flags.Changed("movie-destination") {
		settings.MovieDestination = movieDestination
	}
	if flags.Changed("movie-template") {
		settings.MovieTemplate = movieTemplate
	}
	if flags.Changed("episode-api") {
		settings.EpisodeAPI = episodeAPI
	}
	if flags.Changed("episode-destination") {
		settings.EpisodeDestination = episodeDestination
	}
	if flags.Changed("episode-template") {
		settings.EpisodeTemplate = episodeTemplate
	}
	if flags.Changed("replacements") {
		if settings.Replacements == nil {
			settings.Replacements = map[string]string{}
		}
		for _, pair := range replacements {
			if from, to, ok := strings.Cut(pair, "="); ok {
				settings.Replacements[from] = to
			}
		}
	}
}

// compileBlacklist compiles the configured skip patterns. Matching is always
// case-insensitive.
func compileBlacklist(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid blacklist pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// processor carries the state of one run through the pipeline. Files are
// processed strictly one at a time; interactive selection sits between
// search and relocation, so there is nothing to parallelize.
type processor struct {
	settings  *config.Settings
	hint      core.MediaType
	id        string
	chooser   tui.Chooser
	searcher  *search.Searcher
	prober    *ffprobe.Prober
	relocator *core.Relocator
	logger    *slog.Logger
	theme     *theme.Theme
	blacklist []*regexp.Regexp

	found    int
	detected int
	moved    int
}

type fileOutcome int

const (
	outcomeMoved fileOutcome = iota
	outcomeSkipped
	outcomeFailed
	outcomeAborted
)

func (p *processor) run(ctx context.Context, targets []string) error {
	files, err := media.Crawl(targets, p.settings.Recurse, p.settings.ExtensionMask)
	if err != nil {
		return err
	}
	p.found = len(files)

	if p.settings.DryRun {
		fmt.Println(p.theme.Help.Render("dry run: nothing will be moved"))
	}

	for _, path := range files {
		outcome := p.processFile(ctx, path)
		if outcome == outcomeAborted {
			fmt.Println(p.theme.Failure.Render("aborted"))
			break
		}
	}

	p.printSummary()
	return nil
}

// processFile walks one file through guess, search, selection and
// relocation. Every failure is per-file: report it and move on.
func (p *processor) processFile(ctx context.Context, path string) fileOutcome {
	name := filepath.Base(path)
	for _, re := range p.blacklist {
		if re.MatchString(stem(name)) {
			p.logger.Debug("blacklisted", "file", name, "pattern", re.String())
			return outcomeSkipped
		}
	}
	if !media.IsVideo(name) && !media.IsSubtitle(name) {
		p.logger.Debug("not a media file", "file", name)
		return outcomeSkipped
	}

	fmt.Println(p.theme.Title.Render("Processing " + name))

	raw := media.Guess(path)
	m, err := core.Parse(raw, p.hint)
	if err != nil {
		p.report(outcomeFailed, name, err.Error())
		return outcomeFailed
	}
	p.logger.Debug("guessed", "file", name, "fields", fmt.Sprintf("%v", raw))

	// Probing only fills quality in when the name said nothing; tokens the
	// release name carries are kept as guessed.
	if p.prober != nil && m.Quality() == "" {
		if quality, err := p.prober.Quality(ctx, path); err != nil {
			p.logger.Debug("probe failed", "file", name, "error", err)
		} else if quality != "" {
			m.SetQuality(quality)
		}
	}

	hits, err := p.searcher.Lookup(ctx, m, p.id, p.settings.MaxHits)
	if err != nil {
		p.report(outcomeFailed, name, "search failed: "+err.Error())
		return outcomeFailed
	}
	if len(hits) == 0 {
		p.report(outcomeSkipped, name, "no matches found")
		return outcomeSkipped
	}
	p.detected++

	selection, err := p.chooser.Choose(name, hits)
	if err != nil {
		p.report(outcomeFailed, name, "selection failed: "+err.Error())
		return outcomeFailed
	}
	switch selection.Choice {
	case tui.ChoiceAbort:
		return outcomeAborted
	case tui.ChoiceSkip:
		p.report(outcomeSkipped, name, "skipped")
		return outcomeSkipped
	case tui.ChoiceHit:
		m.Update(hits[selection.Index])
	default:
		m.Update(hits[0])
	}

	if p.settings.Verbose {
		fmt.Print(p.fieldDump(m))
	}

	dest := p.destination(m, path)
	if err := p.relocator.Relocate(path, dest); err != nil {
		p.report(outcomeFailed, name, err.Error())
		return outcomeFailed
	}
	p.moved++
	p.report(outcomeMoved, name, "moved to "+dest)
	return outcomeMoved
}

// destination renders and sanitizes the target path for a finalized record.
// Without a destination-directory template the file stays in its source
// directory under the new name.
func (p *processor) destination(m *core.Metadata, srcPath string) string {
	var dirTemplate, fileTemplate string
	switch m.Media() {
	case core.MediaTypeEpisode:
		dirTemplate = p.settings.EpisodeDestination
		fileTemplate = p.settings.EpisodeTemplate
	default:
		dirTemplate = p.settings.MovieDestination
		fileTemplate = p.settings.MovieTemplate
	}

	rendered := core.Format(m, fileTemplate) + m.Extension()
	if dirTemplate != "" {
		rendered = filepath.Join(core.Format(m, dirTemplate), rendered)
	}
	rendered = core.Sanitize(rendered, p.settings.Scene, p.settings.Replacements)

	if dirTemplate == "" {
		return filepath.Join(filepath.Dir(srcPath), rendered)
	}
	return rendered
}

// fieldDump lists the finalized record one field per line, shown in verbose
// runs before the move.
func (p *processor) fieldDump(m *core.Metadata) string {
	flat := m.AsMap()
	var b strings.Builder
	for _, key := range m.SortedKeys() {
		b.WriteString(p.theme.Help.Render(fmt.Sprintf("  %s: %v", key, flat[key])))
		b.WriteString("\n")
	}
	return b.String()
}

func (p *processor) report(outcome fileOutcome, name, detail string) {
	switch outcome {
	case outcomeMoved:
		fmt.Println("  " + p.theme.Done.Render(detail))
	case outcomeSkipped:
		fmt.Println("  " + p.theme.Help.Render(detail))
	case outcomeFailed:
		fmt.Println("  " + p.theme.Failure.Render(detail))
	}
}

func (p *processor) printSummary() {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendRow(table.Row{"Files found", p.found})
	tw.AppendRow(table.Row{"Matches detected", p.detected})
	tw.AppendRow(table.Row{"Files relocated", p.moved})
	fmt.Println(tw.Render())
	footer := lipgloss.NewStyle().Bold(true).Foreground(p.theme.Colors().Primary)
	fmt.Println(footer.Render(fmt.Sprintf("%d of %d files relocated", p.moved, p.detected)))
}

// stem strips the extension from a file name for blacklist matching.
func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
