package search

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/Digital-Shane/media-mover/internal/core"
	"github.com/Digital-Shane/media-mover/internal/provider"
)

// fakeProvider scripts search results and records how it was called.
type fakeProvider struct {
	name      string
	hits      []*core.Metadata
	err       error
	calls     int
	lastQuery provider.Query
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, query provider.Query) iter.Seq2[*core.Metadata, error] {
	f.calls++
	f.lastQuery = query
	return func(yield func(*core.Metadata, error) bool) {
		if f.err != nil {
			yield(nil, f.err)
			return
		}
		for _, hit := range f.hits {
			if !yield(hit, nil) {
				return
			}
		}
	}
}

func movieHits(n int) []*core.Metadata {
	hits := make([]*core.Metadata, 0, n)
	for i := 0; i < n; i++ {
		m := core.NewMovie()
		m.SetName("Candidate")
		m.SetYear(1999 + i)
		hits = append(hits, m)
	}
	return hits
}

func guessedMovie() *core.Metadata {
	m := core.NewMovie()
	m.SetName("The Matrix")
	m.SetYear(1999)
	return m
}

func TestLookupBoundsHits(t *testing.T) {
	fake := &fakeProvider{name: "fake", hits: movieHits(10)}
	s := New(Config{MovieProvider: fake})

	hits, err := s.Lookup(context.Background(), guessedMovie(), "", 3)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(hits) != 3 {
		t.Errorf("Lookup() returned %d hits, want 3", len(hits))
	}
}

func TestLookupProjectsMovieQuery(t *testing.T) {
	fake := &fakeProvider{name: "fake", hits: movieHits(1)}
	s := New(Config{MovieProvider: fake})

	if _, err := s.Lookup(context.Background(), guessedMovie(), "603", 5); err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	want := provider.Query{Name: "The Matrix", Year: 1999, ID: "603"}
	if fake.lastQuery != want {
		t.Errorf("Lookup() query = %+v, want %+v", fake.lastQuery, want)
	}
}

func TestLookupProjectsEpisodeQuery(t *testing.T) {
	fake := &fakeProvider{name: "fake"}
	s := New(Config{EpisodeProvider: fake})

	m := core.NewEpisode()
	m.SetSeries("Example Show")
	m.SetSeason(1)
	m.SetEpisode(2)
	if _, err := s.Lookup(context.Background(), m, "", 5); err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	want := provider.Query{Name: "Example Show", Season: 1, Episode: 2}
	if fake.lastQuery != want {
		t.Errorf("Lookup() query = %+v, want %+v", fake.lastQuery, want)
	}
}

func TestLookupCachesResults(t *testing.T) {
	fake := &fakeProvider{name: "fake", hits: movieHits(2)}
	s := New(Config{MovieProvider: fake})

	for i := 0; i < 3; i++ {
		hits, err := s.Lookup(context.Background(), guessedMovie(), "", 5)
		if err != nil {
			t.Fatalf("Lookup() #%d error = %v", i, err)
		}
		if len(hits) != 2 {
			t.Errorf("Lookup() #%d returned %d hits, want 2", i, len(hits))
		}
	}

	if fake.calls != 1 {
		t.Errorf("provider searched %d times for identical lookups, want 1", fake.calls)
	}
}

func TestLookupNotFoundIsEmpty(t *testing.T) {
	fake := &fakeProvider{name: "fake", err: &provider.ProviderError{
		Provider: "fake",
		Code:     provider.CodeNotFound,
		Message:  "no results",
	}}
	s := New(Config{MovieProvider: fake})

	hits, err := s.Lookup(context.Background(), guessedMovie(), "", 5)
	if err != nil {
		t.Fatalf("Lookup() error = %v, want nil for not found", err)
	}
	if len(hits) != 0 {
		t.Errorf("Lookup() returned %d hits, want 0", len(hits))
	}
}

func TestLookupPropagatesFailures(t *testing.T) {
	fake := &fakeProvider{name: "fake", err: &provider.ProviderError{
		Provider: "fake",
		Code:     provider.CodeAuthFailed,
		Message:  "bad key",
	}}
	s := New(Config{MovieProvider: fake})

	_, err := s.Lookup(context.Background(), guessedMovie(), "", 5)

	var perr *provider.ProviderError
	if !errors.As(err, &perr) || perr.Code != provider.CodeAuthFailed {
		t.Errorf("Lookup() error = %v, want AUTH_FAILED", err)
	}
}

func TestBuildClientRejectsUnknownAPIs(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		media *core.Metadata
	}{
		{name: "unknown_movie_api", cfg: Config{MovieAPI: "imdb"}, media: core.NewMovie()},
		{name: "unknown_episode_api", cfg: Config{EpisodeAPI: "tvmaze"}, media: core.NewEpisode()},
		{name: "unrecognized_media", cfg: Config{}, media: &core.Metadata{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.cfg)
			if _, err := s.Lookup(context.Background(), tt.media, "", 5); err == nil {
				t.Error("Lookup() error = nil, want configuration error")
			}
		})
	}
}
