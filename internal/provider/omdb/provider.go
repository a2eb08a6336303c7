package omdb

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/media-mover/internal/core"
	"github.com/Digital-Shane/media-mover/internal/provider"
	"github.com/Digital-Shane/omdb"
)

const providerName = "omdb"

// OMDBClient captures the omdb client methods used by this provider.
type OMDBClient interface {
	SearchByTitle(query omdb.QueryData) (any, error)
	SearchByImdbID(query omdb.QueryData) (any, error)
}

// Provider looks up movies on the Open Movie Database. OMDb title search
// returns a single best match rather than a ranked list, so Search yields at
// most one candidate.
type Provider struct {
	client OMDBClient
}

// New creates an OMDb provider with the given API key.
func New(apiKey string) *Provider {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	return &Provider{client: omdb.NewClient(apiKey, httpClient)}
}

// NewWithClient is the test seam: it injects a fake client.
func NewWithClient(client OMDBClient) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) Search(ctx context.Context, query provider.Query) iter.Seq2[*core.Metadata, error] {
	return func(yield func(*core.Metadata, error) bool) {
		if query.ID == "" && strings.TrimSpace(query.Name) == "" {
			yield(nil, &provider.ProviderError{
				Provider: providerName,
				Code:     provider.CodeInvalidRequest,
				Message:  "movie search requires a title or an IMDb id",
			})
			return
		}
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}

		var result any
		var err error
		if query.ID != "" {
			result, err = p.client.SearchByImdbID(omdb.QueryData{ImdbID: strings.TrimSpace(query.ID)})
		} else {
			data := omdb.QueryData{
				Title:      query.Name,
				SearchType: "movie",
				Plot:       "full",
			}
			if query.Year > 0 {
				data.Year = strconv.Itoa(query.Year)
			}
			result, err = p.client.SearchByTitle(data)
		}
		if err != nil {
			yield(nil, mapError(err))
			return
		}

		switch movie := result.(type) {
		case omdb.MovieResult:
			yield(movieToMetadata(movie), nil)
		case *omdb.MovieResult:
			yield(movieToMetadata(*movie), nil)
		default:
			yield(nil, &provider.ProviderError{
				Provider: providerName,
				Code:     provider.CodeNotFound,
				Message:  "movie not found: " + query.Name,
			})
		}
	}
}

func movieToMetadata(result omdb.MovieResult) *core.Metadata {
	m := core.NewMovie()
	m.SetName(result.Title)
	m.SetYear(omdb.FirstYear(result.Year))
	m.SetSynopsis(result.Plot)
	m.SetIDIMDB(result.ImdbID)
	return m
}

// mapError maps OMDb errors to provider errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "invalid api key"), strings.Contains(lower, "missing omdb api key"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "OMDb authentication failed: " + msg,
		}
	case strings.Contains(lower, "not found"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  msg,
		}
	case strings.Contains(lower, "limit reached"), strings.Contains(lower, "too many requests"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    msg,
			Retry:      true,
			RetryAfter: 5,
		}
	default:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnknown,
			Message:  msg,
		}
	}
}
