package tvdb

import (
	"context"
	"iter"
	"strconv"
	"strings"

	"github.com/Digital-Shane/media-mover/internal/core"
	"github.com/Digital-Shane/media-mover/internal/provider"
	tvdbapi "github.com/dashotv/tvdb"
	"github.com/dashotv/tvdb/openapi/models/operations"
	"github.com/dashotv/tvdb/openapi/models/shared"
)

const providerName = "tvdb"

// TVDBClient captures the dashotv client methods used by this provider.
type TVDBClient interface {
	GetSearchResults(request operations.GetSearchResultsRequest) (*tvdbapi.GetSearchResultsResponse, error)
	GetSeriesEpisodes(request operations.GetSeriesEpisodesRequest) (*tvdbapi.GetSeriesEpisodesResponse, error)
}

// Provider looks up television episodes on TheTVDB.
type Provider struct {
	client TVDBClient
}

// New creates a TVDB provider, authenticating with the given API key.
func New(apiKey string) (*Provider, error) {
	client, err := tvdbapi.Login(apiKey)
	if err != nil {
		return nil, mapError(err)
	}
	return &Provider{client: client}, nil
}

// NewWithClient is the test seam: it injects a fake client.
func NewWithClient(client TVDBClient) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string {
	return providerName
}

// Search yields one episode candidate per matching series. The series list
// comes from a single search call; the episode record for each candidate is
// only fetched when the consumer actually pulls that item.
func (p *Provider) Search(ctx context.Context, query provider.Query) iter.Seq2[*core.Metadata, error] {
	return func(yield func(*core.Metadata, error) bool) {
		if query.Season <= 0 || query.Episode <= 0 {
			yield(nil, &provider.ProviderError{
				Provider: providerName,
				Code:     provider.CodeInvalidRequest,
				Message:  "episode search requires season and episode numbers",
			})
			return
		}

		records, err := p.seriesCandidates(ctx, query)
		if err != nil {
			yield(nil, err)
			return
		}

		yielded := false
		for _, record := range records {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			m, err := p.fetchEpisode(record, query.Season, query.Episode)
			if err != nil {
				if provider.IsNotFound(err) {
					continue
				}
				yield(nil, err)
				return
			}
			yielded = true
			if !yield(m, nil) {
				return
			}
		}

		if !yielded {
			yield(nil, notFound("no episode found for: "+query.Name))
		}
	}
}

type seriesRecord struct {
	id   int64
	name string
}

func (p *Provider) seriesCandidates(ctx context.Context, query provider.Query) ([]seriesRecord, error) {
	// An explicit id skips the search round-trip entirely.
	if query.ID != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(query.ID), 10, 64)
		if err != nil {
			return nil, &provider.ProviderError{
				Provider: providerName,
				Code:     provider.CodeInvalidRequest,
				Message:  "TVDB id must be numeric: " + query.ID,
			}
		}
		return []seriesRecord{{id: id, name: query.Name}}, nil
	}

	name := strings.TrimSpace(query.Name)
	if name == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeInvalidRequest,
			Message:  "episode search requires a series name or a TVDB id",
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := operations.GetSearchResultsRequest{Query: &name}
	typeSeries := "series"
	req.Type = &typeSeries
	if query.Year > 0 {
		year := float64(query.Year)
		req.Year = &year
	}

	resp, err := p.client.GetSearchResults(req)
	if err != nil {
		return nil, mapError(err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, notFound("no results found for show: " + name)
	}

	records := make([]seriesRecord, 0, len(resp.Data))
	for _, candidate := range resp.Data {
		record := toSeriesRecord(candidate)
		if record.id == 0 {
			continue
		}
		if !strings.EqualFold(pointerToString(candidate.Type), "series") {
			continue
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil, notFound("series not found: " + name)
	}
	return records, nil
}

func (p *Provider) fetchEpisode(record seriesRecord, season, episode int) (*core.Metadata, error) {
	seasonNum := int64(season)
	episodeNum := int64(episode)
	resp, err := p.client.GetSeriesEpisodes(operations.GetSeriesEpisodesRequest{
		ID:            float64(record.id),
		SeasonType:    "official",
		Season:        &seasonNum,
		EpisodeNumber: &episodeNum,
		Page:          0,
	})
	if err != nil {
		return nil, mapError(err)
	}
	if resp == nil || resp.Data == nil || len(resp.Data.Episodes) == 0 {
		return nil, notFound("episode not found")
	}

	var hit *shared.EpisodeBaseRecord
	for i := range resp.Data.Episodes {
		e := resp.Data.Episodes[i]
		if e.Number != nil && int(*e.Number) == episode {
			hit = &e
			break
		}
	}
	if hit == nil {
		hit = &resp.Data.Episodes[0]
	}

	series := record.name
	if resp.Data.Series != nil && pointerToString(resp.Data.Series.Name) != "" {
		series = pointerToString(resp.Data.Series.Name)
	}

	m := core.NewEpisode()
	m.SetSeries(series)
	m.SetSeason(season)
	m.SetEpisode(episode)
	m.SetTitle(pointerToString(hit.Name))
	m.SetSynopsis(pointerToString(hit.Overview))
	m.SetIDTVDB(strconv.FormatInt(record.id, 10))
	return m, nil
}

func toSeriesRecord(result shared.SearchResult) seriesRecord {
	id, _ := strconv.ParseInt(pointerToString(result.TvdbID), 10, 64)
	if id == 0 {
		id, _ = strconv.ParseInt(pointerToString(result.ID), 10, 64)
	}

	name := pointerToString(result.Name)
	if name == "" {
		name = pointerToString(result.Title)
	}
	return seriesRecord{id: id, name: name}
}

func pointerToString(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func notFound(message string) error {
	return &provider.ProviderError{
		Provider: providerName,
		Code:     provider.CodeNotFound,
		Message:  message,
	}
}

// mapError maps TVDB errors to provider errors.
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
			Message:  "TVDB authentication failed: " + err.Error(),
		}
	case strings.Contains(errStr, "404") || strings.Contains(errStr, "not found"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  "TVDB: " + err.Error(),
		}
	case strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    "TVDB rate limit exceeded",
			Retry:      true,
			RetryAfter: 10,
		}
	}

	return &provider.ProviderError{
		Provider: providerName,
		Code:     provider.CodeUnknown,
		Message:  "TVDB error: " + err.Error(),
	}
}
