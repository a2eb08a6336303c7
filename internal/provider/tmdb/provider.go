package tmdb

import (
	"context"
	"iter"
	"strconv"
	"strings"

	"github.com/Digital-Shane/media-mover/internal/core"
	"github.com/Digital-Shane/media-mover/internal/provider"
	tmdb "github.com/ryanbradynd05/go-tmdb"
)

const providerName = "tmdb"

// TMDBClient captures the go-tmdb methods used by this provider (matches
// *tmdb.TMDb exactly).
type TMDBClient interface {
	SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
	GetMovieInfo(id int, options map[string]string) (*tmdb.Movie, error)
}

// Provider looks up movies on The Movie Database.
type Provider struct {
	client TMDBClient
}

// New creates a TMDB provider with the given API key.
func New(apiKey string) *Provider {
	return &Provider{
		client: tmdb.Init(tmdb.Config{APIKey: apiKey}),
	}
}

// NewWithClient is the test seam: it injects a fake client.
func NewWithClient(client TMDBClient) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string {
	return providerName
}

// Search yields movie candidates for the query, paging through TMDB results
// lazily. An explicit id short-circuits the name search.
func (p *Provider) Search(ctx context.Context, query provider.Query) iter.Seq2[*core.Metadata, error] {
	return func(yield func(*core.Metadata, error) bool) {
		if query.ID != "" {
			p.searchByID(ctx, query.ID, yield)
			return
		}

		if strings.TrimSpace(query.Name) == "" {
			yield(nil, &provider.ProviderError{
				Provider: providerName,
				Code:     provider.CodeInvalidRequest,
				Message:  "movie search requires a title or a TMDB id",
			})
			return
		}

		options := map[string]string{}
		if query.Year > 0 {
			options["year"] = strconv.Itoa(query.Year)
		}

		page := 1
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			options["page"] = strconv.Itoa(page)
			results, err := p.client.SearchMovie(query.Name, options)
			if err != nil {
				yield(nil, mapError(err))
				return
			}
			if results == nil || len(results.Results) == 0 {
				if page == 1 {
					yield(nil, notFound("no results found for movie: "+query.Name))
				}
				return
			}

			for _, hit := range results.Results {
				if !yield(shortToMetadata(hit), nil) {
					return
				}
			}

			if page >= results.TotalPages {
				return
			}
			page++
		}
	}
}

func (p *Provider) searchByID(ctx context.Context, id string, yield func(*core.Metadata, error) bool) {
	movieID, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		yield(nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeInvalidRequest,
			Message:  "TMDB id must be numeric: " + id,
		})
		return
	}
	if err := ctx.Err(); err != nil {
		yield(nil, err)
		return
	}

	movie, err := p.client.GetMovieInfo(movieID, nil)
	if err != nil {
		yield(nil, mapError(err))
		return
	}
	if movie == nil {
		yield(nil, notFound("movie not found: "+id))
		return
	}

	m := core.NewMovie()
	m.SetName(movie.Title)
	m.SetYear(releaseYear(movie.ReleaseDate))
	m.SetSynopsis(movie.Overview)
	m.SetIDTMDB(strconv.Itoa(movie.ID))
	m.SetIDIMDB(movie.ImdbID)
	yield(m, nil)
}

func shortToMetadata(hit tmdb.MovieShort) *core.Metadata {
	m := core.NewMovie()
	m.SetName(hit.Title)
	m.SetYear(releaseYear(hit.ReleaseDate))
	m.SetSynopsis(hit.Overview)
	m.SetIDTMDB(strconv.Itoa(hit.ID))
	return m
}

// releaseYear pulls the year out of TMDB's "2006-01-02" release date.
func releaseYear(releaseDate string) string {
	if len(releaseDate) < 4 {
		return ""
	}
	return releaseDate[:4]
}

func notFound(message string) error {
	return &provider.ProviderError{
		Provider: providerName,
		Code:     provider.CodeNotFound,
		Message:  message,
	}
}

// mapError maps TMDB errors to provider errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "401") || strings.Contains(errStr, "unauthorized"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "TMDB authentication failed: " + err.Error(),
		}
	case strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    "TMDB rate limit exceeded",
			Retry:      true,
			RetryAfter: 10,
		}
	case strings.Contains(errStr, "503") || strings.Contains(errStr, "unavailable"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeUnavailable,
			Message:    "TMDB service unavailable",
			Retry:      true,
			RetryAfter: 30,
		}
	}

	return &provider.ProviderError{
		Provider: providerName,
		Code:     provider.CodeUnknown,
		Message:  "TMDB error: " + err.Error(),
	}
}
