package tvdb

import (
	"context"
	"errors"
	"testing"

	"github.com/Digital-Shane/media-mover/internal/core"
	"github.com/Digital-Shane/media-mover/internal/provider"
	tvdbapi "github.com/dashotv/tvdb"
	"github.com/dashotv/tvdb/openapi/models/operations"
	"github.com/dashotv/tvdb/openapi/models/shared"
)

type mockTVDBClient struct {
	getSearchResultsFunc  func(request operations.GetSearchResultsRequest) (*tvdbapi.GetSearchResultsResponse, error)
	getSeriesEpisodesFunc func(request operations.GetSeriesEpisodesRequest) (*tvdbapi.GetSeriesEpisodesResponse, error)
}

func (m *mockTVDBClient) GetSearchResults(request operations.GetSearchResultsRequest) (*tvdbapi.GetSearchResultsResponse, error) {
	if m.getSearchResultsFunc != nil {
		return m.getSearchResultsFunc(request)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTVDBClient) GetSeriesEpisodes(request operations.GetSeriesEpisodesRequest) (*tvdbapi.GetSeriesEpisodesResponse, error) {
	if m.getSeriesEpisodesFunc != nil {
		return m.getSeriesEpisodesFunc(request)
	}
	return nil, errors.New("not implemented")
}

func strPtr(s string) *string { return &s }

func firstError(p *Provider, query provider.Query) ([]*core.Metadata, error) {
	var hits []*core.Metadata
	for hit, err := range p.Search(context.Background(), query) {
		if err != nil {
			return hits, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func TestSearchRequiresSeasonAndEpisode(t *testing.T) {
	tests := []struct {
		name  string
		query provider.Query
	}{
		{name: "no_season", query: provider.Query{Name: "Example Show", Episode: 2}},
		{name: "no_episode", query: provider.Query{Name: "Example Show", Season: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewWithClient(&mockTVDBClient{})
			_, err := firstError(p, tt.query)

			var perr *provider.ProviderError
			if !errors.As(err, &perr) || perr.Code != provider.CodeInvalidRequest {
				t.Errorf("Search() error = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

func TestSearchFetchesOnlySeriesCandidates(t *testing.T) {
	var fetchedIDs []float64
	client := &mockTVDBClient{
		getSearchResultsFunc: func(request operations.GetSearchResultsRequest) (*tvdbapi.GetSearchResultsResponse, error) {
			return &tvdbapi.GetSearchResultsResponse{
				Data: []shared.SearchResult{
					{TvdbID: strPtr("10"), Name: strPtr("Example Movie"), Type: strPtr("movie")},
					{TvdbID: strPtr("20"), Name: strPtr("Example Show"), Type: strPtr("series")},
					{Name: strPtr("No ID"), Type: strPtr("series")},
				},
			}, nil
		},
		getSeriesEpisodesFunc: func(request operations.GetSeriesEpisodesRequest) (*tvdbapi.GetSeriesEpisodesResponse, error) {
			fetchedIDs = append(fetchedIDs, request.ID)
			return nil, errors.New("404 not found")
		},
	}

	p := NewWithClient(client)
	_, err := firstError(p, provider.Query{Name: "Example", Season: 1, Episode: 2})

	// Every surviving candidate came back empty, so the search as a whole
	// reports not found.
	if !provider.IsNotFound(err) {
		t.Errorf("Search() error = %v, want NOT_FOUND", err)
	}
	if len(fetchedIDs) != 1 || fetchedIDs[0] != 20 {
		t.Errorf("episode fetches = %v, want [20]", fetchedIDs)
	}
}

func TestSearchByIDSkipsSeriesSearch(t *testing.T) {
	client := &mockTVDBClient{
		getSearchResultsFunc: func(request operations.GetSearchResultsRequest) (*tvdbapi.GetSearchResultsResponse, error) {
			t.Fatal("GetSearchResults called despite explicit id")
			return nil, nil
		},
		getSeriesEpisodesFunc: func(request operations.GetSeriesEpisodesRequest) (*tvdbapi.GetSeriesEpisodesResponse, error) {
			if request.ID != 42 {
				t.Errorf("GetSeriesEpisodes id = %v, want 42", request.ID)
			}
			return nil, errors.New("connection reset")
		},
	}

	p := NewWithClient(client)
	_, err := firstError(p, provider.Query{ID: "42", Season: 1, Episode: 2})

	var perr *provider.ProviderError
	if !errors.As(err, &perr) || perr.Code != provider.CodeUnknown {
		t.Errorf("Search() error = %v, want UNKNOWN passthrough", err)
	}
}

func TestSearchRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		query provider.Query
	}{
		{name: "empty_name", query: provider.Query{Season: 1, Episode: 2}},
		{name: "non_numeric_id", query: provider.Query{ID: "abc", Season: 1, Episode: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewWithClient(&mockTVDBClient{})
			_, err := firstError(p, tt.query)

			var perr *provider.ProviderError
			if !errors.As(err, &perr) || perr.Code != provider.CodeInvalidRequest {
				t.Errorf("Search() error = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

func TestSearchNoSeriesResults(t *testing.T) {
	client := &mockTVDBClient{
		getSearchResultsFunc: func(request operations.GetSearchResultsRequest) (*tvdbapi.GetSearchResultsResponse, error) {
			return &tvdbapi.GetSearchResultsResponse{}, nil
		},
	}

	p := NewWithClient(client)
	_, err := firstError(p, provider.Query{Name: "No Such Show", Season: 1, Episode: 1})
	if !provider.IsNotFound(err) {
		t.Errorf("Search() error = %v, want NOT_FOUND", err)
	}
}

func TestToSeriesRecordFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		result   shared.SearchResult
		wantID   int64
		wantName string
	}{
		{
			name:     "tvdb_id_and_name",
			result:   shared.SearchResult{TvdbID: strPtr("12"), Name: strPtr("Example Show")},
			wantID:   12,
			wantName: "Example Show",
		},
		{
			name:     "falls_back_to_id_and_title",
			result:   shared.SearchResult{ID: strPtr("34"), Title: strPtr("Other Show")},
			wantID:   34,
			wantName: "Other Show",
		},
		{
			name:   "missing_everything",
			result: shared.SearchResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toSeriesRecord(tt.result)
			if got.id != tt.wantID || got.name != tt.wantName {
				t.Errorf("toSeriesRecord() = {%d %q}, want {%d %q}", got.id, got.name, tt.wantID, tt.wantName)
			}
		})
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "auth", err: errors.New("401 Unauthorized"), wantCode: provider.CodeAuthFailed},
		{name: "not_found", err: errors.New("404 not found"), wantCode: provider.CodeNotFound},
		{name: "rate_limited", err: errors.New("429 rate limit"), wantCode: provider.CodeRateLimited},
		{name: "unknown", err: errors.New("connection reset"), wantCode: provider.CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var perr *provider.ProviderError
			if !errors.As(mapError(tt.err), &perr) {
				t.Fatalf("mapError(%v) is not a ProviderError", tt.err)
			}
			if perr.Code != tt.wantCode {
				t.Errorf("mapError(%v) code = %q, want %q", tt.err, perr.Code, tt.wantCode)
			}
		})
	}
}
