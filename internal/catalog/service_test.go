package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/venusplay/internal/constants"
	apperrors "github.com/amaumene/venusplay/internal/errors"
	"github.com/amaumene/venusplay/internal/upstream"
	"github.com/amaumene/venusplay/pkg/logger"
)

type fakeSource struct {
	mu       sync.Mutex
	payloads map[string]string
	failures map[string]error
	calls    []string
	ttls     map[string]time.Duration
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		payloads: map[string]string{},
		failures: map[string]error{},
		ttls:     map[string]time.Duration{},
	}
}

func (f *fakeSource) with(req upstream.Request, payload string) *fakeSource {
	f.payloads[req.CacheKey()] = payload
	return f
}

func (f *fakeSource) failing(req upstream.Request, err error) *fakeSource {
	f.failures[req.CacheKey()] = err
	return f
}

func (f *fakeSource) Get(ctx context.Context, req upstream.Request, ttl time.Duration) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := req.CacheKey()
	f.calls = append(f.calls, key)
	f.ttls[key] = ttl

	if err, ok := f.failures[key]; ok {
		return nil, err
	}
	if payload, ok := f.payloads[key]; ok {
		return json.RawMessage(payload), nil
	}
	return json.RawMessage(`[]`), nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestService(src upstream.Source) *Service {
	return NewService(src, Config{PageSize: 2, DeriveYear: true}, logger.Discard())
}

const (
	moviesPayload = `[
		{"stream_id": 1, "name": "Zodiac (2007)", "genre": "Crime", "stream_icon": "/z.jpg"},
		{"stream_id": 2, "name": "Alien", "genre": "Horror, Sci-Fi"},
		{"stream_id": 3, "name": "Heat", "genre": "Crime / Drama"}
	]`
	seriesPayload = `[
		{"series_id": 10, "name": "Bosch", "genre": "Drama", "cover": "/b.jpg"}
	]`
)

func TestServiceMoviesPaginates(t *testing.T) {
	src := newFakeSource().with(upstream.ListMovies(), moviesPayload)
	svc := newTestService(src)

	page, err := svc.Movies(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.PerPage)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Heat", page.Data[0].Title)
	assert.Equal(t, constants.ListingCacheTTL, src.ttls[upstream.ListMovies().CacheKey()])
}

func TestServiceRejectsBadPageBeforeFetching(t *testing.T) {
	src := newFakeSource()
	svc := newTestService(src)
	ctx := context.Background()

	_, err := svc.Movies(ctx, 0)
	assert.True(t, apperrors.IsClientError(err))
	_, err = svc.Series(ctx, -3)
	assert.True(t, apperrors.IsClientError(err))
	_, err = svc.Unified(ctx, 0)
	assert.True(t, apperrors.IsClientError(err))
	_, err = svc.Interleaved(ctx, 0)
	assert.True(t, apperrors.IsClientError(err))

	assert.Equal(t, 0, src.callCount())
}

func TestServiceRejectsMissingIDs(t *testing.T) {
	src := newFakeSource()
	svc := newTestService(src)
	ctx := context.Background()

	_, err := svc.MovieDetail(ctx, " ")
	assert.True(t, apperrors.IsClientError(err))
	_, err = svc.SeriesDetail(ctx, "")
	assert.True(t, apperrors.IsClientError(err))
	_, err = svc.Seasons(ctx, "")
	assert.True(t, apperrors.IsClientError(err))
	_, err = svc.Episodes(ctx, "7", "")
	assert.True(t, apperrors.IsClientError(err))
	_, err = svc.Episode(ctx, "7", "")
	assert.True(t, apperrors.IsClientError(err))

	assert.Equal(t, 0, src.callCount())
}

func TestServiceUnifiedSortsByTitle(t *testing.T) {
	src := newFakeSource().
		with(upstream.ListMovies(), `[{"stream_id": 1, "name": "B"}]`).
		with(upstream.ListSeries(), `[{"series_id": 2, "name": "A"}]`)
	svc := newTestService(src)

	page, err := svc.Unified(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "A", page.Data[0].Title)
	assert.Equal(t, constants.KindSeries, page.Data[0].Kind)
	assert.Equal(t, "B", page.Data[1].Title)
}

func TestServiceInterleaved(t *testing.T) {
	src := newFakeSource().
		with(upstream.ListMovies(), moviesPayload).
		with(upstream.ListSeries(), seriesPayload)
	svc := NewService(src, Config{PageSize: 10}, logger.Discard())

	page, err := svc.Interleaved(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Data, 4)
	assert.Equal(t, "Zodiac", page.Data[0].Title)
	assert.Equal(t, "Bosch", page.Data[1].Title)
	assert.Equal(t, "Alien", page.Data[2].Title)
	assert.Equal(t, "Heat", page.Data[3].Title)
}

func TestServiceJoinFailsWhenEitherSideFails(t *testing.T) {
	src := newFakeSource().
		with(upstream.ListMovies(), moviesPayload).
		failing(upstream.ListSeries(), apperrors.NewUpstreamError("get_series: status 502", nil))
	svc := newTestService(src)

	_, err := svc.Unified(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamError(err))

	_, err = svc.Genres(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamError(err))
}

func TestServiceRejectsMalformedListing(t *testing.T) {
	src := newFakeSource().with(upstream.ListMovies(), `{"user_info": {"auth": 0}}`)
	svc := newTestService(src)

	_, err := svc.Movies(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamError(err))
}

func TestServiceGenres(t *testing.T) {
	src := newFakeSource().
		with(upstream.ListMovies(), moviesPayload).
		with(upstream.ListSeries(), seriesPayload)
	svc := newTestService(src)

	genres, err := svc.Genres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Crime", "Drama", "Horror"}, genres.Genres)
	assert.Equal(t, constants.AggregateCacheTTL, src.ttls[upstream.ListSeries().CacheKey()])
}

func TestServiceMovieDetail(t *testing.T) {
	src := newFakeSource().with(upstream.MovieInfo("42"),
		`{"info": {"name": "Dune (2021)", "release_date": "2021-10-22"}, "movie_data": {"stream_id": 42}}`)
	svc := newTestService(src)

	item, err := svc.MovieDetail(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Dune", item.Title)
	assert.Equal(t, "2021", item.Year)
	assert.Equal(t, constants.DetailCacheTTL, src.ttls[upstream.MovieInfo("42").CacheKey()])

	_, err = svc.MovieDetail(context.Background(), "404")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestServiceSeriesDetailNotFound(t *testing.T) {
	svc := newTestService(newFakeSource())

	_, err := svc.SeriesDetail(context.Background(), "99")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Seasons(context.Background(), "99")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestServiceSeriesOperations(t *testing.T) {
	src := newFakeSource().with(upstream.SeriesInfo("7"), darkPayload)
	svc := newTestService(src)
	ctx := context.Background()

	seasons, err := svc.Seasons(ctx, "7")
	require.NoError(t, err)
	assert.Len(t, seasons, 3)

	episodes, err := svc.Episodes(ctx, "7", " S01 ")
	require.NoError(t, err)
	assert.Len(t, episodes, 3)

	all, err := svc.AllEpisodes(ctx, "7")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	ep, err := svc.Episode(ctx, "7", "201")
	require.NoError(t, err)
	assert.Equal(t, "Dark - S02E01 - Beginnings and Endings", ep.Title)

	detail, err := svc.SeriesDetail(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "Dark", detail.Title)
}

func TestServiceSeriesWithoutSeasons(t *testing.T) {
	src := newFakeSource().with(upstream.SeriesInfo("8"), `{"info": {"name": "Pilot only"}, "episodes": []}`)
	svc := newTestService(src)

	seasons, err := svc.Seasons(context.Background(), "8")
	require.NoError(t, err)
	assert.NotNil(t, seasons)
	assert.Empty(t, seasons)
}

func TestServiceCategories(t *testing.T) {
	src := newFakeSource().
		with(upstream.MovieCategories(), `[{"category_id": "1", "category_name": "Filmes"}]`).
		with(upstream.SeriesCategories(), `[{"category_id": "2", "category_name": "Séries"}]`)
	svc := newTestService(src)
	ctx := context.Background()

	raw, err := svc.Categories(ctx, "")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"category_id": "1", "category_name": "Filmes"}]`, string(raw))

	raw, err = svc.Categories(ctx, "Séries")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"category_id": "2", "category_name": "Séries"}]`, string(raw))

	_, err = svc.Categories(ctx, "music")
	require.Error(t, err)
	assert.True(t, apperrors.IsClientError(err))
}
