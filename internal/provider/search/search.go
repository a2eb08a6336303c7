package search

import (
	"context"
	"fmt"
	"time"

	"github.com/Digital-Shane/media-mover/internal/core"
	"github.com/Digital-Shane/media-mover/internal/provider"
	"github.com/Digital-Shane/media-mover/internal/provider/omdb"
	"github.com/Digital-Shane/media-mover/internal/provider/tmdb"
	"github.com/Digital-Shane/media-mover/internal/provider/tvdb"
	"github.com/patrickmn/go-cache"
)

// API identifiers accepted in configuration.
const (
	APITMDB = "tmdb"
	APIOMDB = "omdb"
	APITVDB = "tvdb"
)

// Config selects and authenticates the catalog behind each media type. The
// injected Provider fields take precedence over API construction and exist
// for tests.
type Config struct {
	MovieAPI      string
	MovieAPIKey   string
	EpisodeAPI    string
	EpisodeAPIKey string

	MovieProvider   provider.Provider
	EpisodeProvider provider.Provider
}

// Searcher fronts the catalog providers for a single run. One client is
// built lazily per media type and memoized for the rest of the run; query
// results are cached so repeated lookups for the same record cost nothing.
//
// The run is strictly sequential, so neither map needs locking.
type Searcher struct {
	cfg     Config
	clients map[core.MediaType]provider.Provider
	cache   *cache.Cache
}

func New(cfg Config) *Searcher {
	return &Searcher{
		cfg:     cfg,
		clients: make(map[core.MediaType]provider.Provider),
		cache:   cache.New(30*time.Minute, 10*time.Minute),
	}
}

// Lookup searches the catalog for records matching m and returns up to
// maxHits candidates. A provider "not found" yields an empty slice, not an
// error; anything else is a real failure.
func (s *Searcher) Lookup(ctx context.Context, m *core.Metadata, id string, maxHits int) ([]*core.Metadata, error) {
	client, err := s.clientFor(m.Media())
	if err != nil {
		return nil, err
	}

	query := queryFor(m, id)
	cacheKey := fmt.Sprintf("%s|%s|%d|%d|%d|%s|%d",
		client.Name(), query.Name, query.Year, query.Season, query.Episode, query.ID, maxHits)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]*core.Metadata), nil
	}

	hits := make([]*core.Metadata, 0, maxHits)
	for hit, err := range client.Search(ctx, query) {
		if err != nil {
			if provider.IsNotFound(err) {
				break
			}
			return nil, err
		}
		hits = append(hits, hit)
		if maxHits > 0 && len(hits) >= maxHits {
			break
		}
	}

	s.cache.Set(cacheKey, hits, cache.DefaultExpiration)
	return hits, nil
}

// clientFor returns the memoized provider for media, constructing it on
// first use.
func (s *Searcher) clientFor(media core.MediaType) (provider.Provider, error) {
	if client, ok := s.clients[media]; ok {
		return client, nil
	}

	client, err := s.buildClient(media)
	if err != nil {
		return nil, err
	}
	s.clients[media] = client
	return client, nil
}

func (s *Searcher) buildClient(media core.MediaType) (provider.Provider, error) {
	switch media {
	case core.MediaTypeMovie:
		if s.cfg.MovieProvider != nil {
			return s.cfg.MovieProvider, nil
		}
		switch s.cfg.MovieAPI {
		case "", APITMDB:
			return tmdb.New(s.cfg.MovieAPIKey), nil
		case APIOMDB:
			return omdb.New(s.cfg.MovieAPIKey), nil
		default:
			return nil, fmt.Errorf("unknown movie api %q", s.cfg.MovieAPI)
		}
	case core.MediaTypeEpisode:
		if s.cfg.EpisodeProvider != nil {
			return s.cfg.EpisodeProvider, nil
		}
		switch s.cfg.EpisodeAPI {
		case "", APITVDB:
			return tvdb.New(s.cfg.EpisodeAPIKey)
		default:
			return nil, fmt.Errorf("unknown episode api %q", s.cfg.EpisodeAPI)
		}
	default:
		return nil, fmt.Errorf("no provider for media type %q", media)
	}
}

// queryFor projects the facts a provider can search on out of a guessed
// record.
func queryFor(m *core.Metadata, id string) provider.Query {
	query := provider.Query{ID: id}
	switch m.Media() {
	case core.MediaTypeEpisode:
		query.Name = m.Series()
		query.Season = m.Season()
		query.Episode = m.Episode()
	default:
		query.Name = m.Name()
		query.Year = m.Year()
	}
	return query
}
