package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"

	"github.com/amaumene/venusplay/internal/constants"
	apperrors "github.com/amaumene/venusplay/internal/errors"
	"github.com/amaumene/venusplay/internal/models"
	"github.com/amaumene/venusplay/internal/upstream"
	"github.com/amaumene/venusplay/pkg/logger"
)

// Config holds the catalog tunables.
type Config struct {
	PageSize     int
	ListingTTL   time.Duration
	DetailTTL    time.Duration
	AggregateTTL time.Duration
	DeriveYear   bool
}

// Service answers every downstream catalog operation.
type Service struct {
	source     upstream.Source
	cfg        Config
	normalizer Normalizer
	logger     logger.Logger
}

func NewService(source upstream.Source, cfg Config, log logger.Logger) *Service {
	if cfg.PageSize < 1 {
		cfg.PageSize = constants.DefaultPageSize
	}
	if cfg.ListingTTL <= 0 {
		cfg.ListingTTL = constants.ListingCacheTTL
	}
	if cfg.DetailTTL <= 0 {
		cfg.DetailTTL = constants.DetailCacheTTL
	}
	if cfg.AggregateTTL <= 0 {
		cfg.AggregateTTL = constants.AggregateCacheTTL
	}

	return &Service{
		source:     source,
		cfg:        cfg,
		normalizer: Normalizer{DeriveYear: cfg.DeriveYear},
		logger:     log,
	}
}

// Movies returns one page of the movie listing.
func (s *Service) Movies(ctx context.Context, page int) (models.Page[models.CatalogItem], error) {
	if err := ValidatePage(page); err != nil {
		return models.Page[models.CatalogItem]{}, err
	}

	records, err := s.list(ctx, upstream.ListMovies(), s.cfg.ListingTTL)
	if err != nil {
		return models.Page[models.CatalogItem]{}, err
	}

	return Paginate(s.movies(records), page, s.cfg.PageSize)
}

// Series returns one page of the series listing.
func (s *Service) Series(ctx context.Context, page int) (models.Page[models.CatalogItem], error) {
	if err := ValidatePage(page); err != nil {
		return models.Page[models.CatalogItem]{}, err
	}

	records, err := s.list(ctx, upstream.ListSeries(), s.cfg.ListingTTL)
	if err != nil {
		return models.Page[models.CatalogItem]{}, err
	}

	return Paginate(s.series(records), page, s.cfg.PageSize)
}

// MovieDetail returns a single movie by its vod id.
func (s *Service) MovieDetail(ctx context.Context, id string) (models.CatalogItem, error) {
	if err := requireParam("id", id); err != nil {
		return models.CatalogItem{}, err
	}

	payload, err := s.object(ctx, upstream.MovieInfo(id), s.cfg.DetailTTL)
	if err != nil {
		return models.CatalogItem{}, err
	}
	if payload.Object("info").IsEmpty() && payload.Object("movie_data").IsEmpty() {
		return models.CatalogItem{}, apperrors.NewNotFoundError("movie", id)
	}

	return s.normalizer.MovieInfo(id, payload), nil
}

// SeriesDetail returns a single series by its series id.
func (s *Service) SeriesDetail(ctx context.Context, id string) (models.CatalogItem, error) {
	if err := requireParam("id", id); err != nil {
		return models.CatalogItem{}, err
	}

	payload, err := s.object(ctx, upstream.SeriesInfo(id), s.cfg.DetailTTL)
	if err != nil {
		return models.CatalogItem{}, err
	}
	if payload.Object("info").IsEmpty() {
		return models.CatalogItem{}, apperrors.NewNotFoundError("series", id)
	}

	return s.normalizer.SeriesInfo(id, payload), nil
}

// Seasons lists the seasons of a series in ascending order.
func (s *Service) Seasons(ctx context.Context, seriesID string) ([]models.Season, error) {
	series, err := s.parsedSeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	return series.Seasons(), nil
}

// Episodes lists one season of a series.
func (s *Service) Episodes(ctx context.Context, seriesID, season string) ([]models.Episode, error) {
	if err := requireParam("id", seriesID); err != nil {
		return nil, err
	}
	if err := requireParam("temporada", season); err != nil {
		return nil, err
	}

	series, err := s.parsedSeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	return series.Episodes(strings.TrimSpace(season))
}

// AllEpisodes lists every episode of a series across seasons.
func (s *Service) AllEpisodes(ctx context.Context, seriesID string) ([]models.Episode, error) {
	series, err := s.parsedSeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	return series.AllEpisodes(), nil
}

// Episode returns a single episode of a series.
func (s *Service) Episode(ctx context.Context, seriesID, episodeID string) (models.Episode, error) {
	if err := requireParam("id", seriesID); err != nil {
		return models.Episode{}, err
	}
	if err := requireParam("episode", episodeID); err != nil {
		return models.Episode{}, err
	}

	series, err := s.parsedSeries(ctx, seriesID)
	if err != nil {
		return models.Episode{}, err
	}
	return series.Episode(strings.TrimSpace(episodeID))
}

// Categories passes the provider's category list through untouched.
// kind selects movie (default) or series categories.
func (s *Service) Categories(ctx context.Context, kind string) (json.RawMessage, error) {
	var req upstream.Request
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "filmes", "filme", "movies", "movie":
		req = upstream.MovieCategories()
	case "series", "séries", "serie", "série":
		req = upstream.SeriesCategories()
	default:
		return nil, apperrors.NewClientError(fmt.Sprintf("unknown category kind: %s", kind))
	}

	return s.source.Get(ctx, req, s.cfg.AggregateTTL)
}

// Unified returns one page of movies and series merged and sorted by title.
func (s *Service) Unified(ctx context.Context, page int) (models.Page[models.CatalogItem], error) {
	if err := ValidatePage(page); err != nil {
		return models.Page[models.CatalogItem]{}, err
	}

	movies, series, err := s.both(ctx, s.cfg.ListingTTL)
	if err != nil {
		return models.Page[models.CatalogItem]{}, err
	}

	merged := MergeSorted(s.movies(movies), s.series(series))
	return Paginate(merged, page, s.cfg.PageSize)
}

// Interleaved returns one page of movies and series alternated.
func (s *Service) Interleaved(ctx context.Context, page int) (models.Page[models.CatalogItem], error) {
	if err := ValidatePage(page); err != nil {
		return models.Page[models.CatalogItem]{}, err
	}

	movies, series, err := s.both(ctx, s.cfg.ListingTTL)
	if err != nil {
		return models.Page[models.CatalogItem]{}, err
	}

	mixed := Interleave(s.movies(movies), s.series(series))
	return Paginate(mixed, page, s.cfg.PageSize)
}

// Genres returns the sorted distinct primary genres of movies and series.
func (s *Service) Genres(ctx context.Context) (models.GenresResponse, error) {
	movies, series, err := s.both(ctx, s.cfg.AggregateTTL)
	if err != nil {
		return models.GenresResponse{}, err
	}

	return models.GenresResponse{Genres: DistinctGenres(movies, series)}, nil
}

func (s *Service) movies(records []models.Record) []models.CatalogItem {
	return lo.Map(records, func(r models.Record, _ int) models.CatalogItem {
		return s.normalizer.Movie(r)
	})
}

func (s *Service) series(records []models.Record) []models.CatalogItem {
	return lo.Map(records, func(r models.Record, _ int) models.CatalogItem {
		return s.normalizer.Series(r)
	})
}

func (s *Service) parsedSeries(ctx context.Context, seriesID string) (Series, error) {
	if err := requireParam("id", seriesID); err != nil {
		return Series{}, err
	}

	payload, err := s.object(ctx, upstream.SeriesInfo(seriesID), s.cfg.DetailTTL)
	if err != nil {
		return Series{}, err
	}

	series := ParseSeries(seriesID, payload)
	if !series.Exists() {
		return Series{}, apperrors.NewNotFoundError("series", seriesID)
	}
	return series, nil
}

// both fetches the movie and series listings concurrently. Either failure
// fails the whole call.
func (s *Service) both(ctx context.Context, ttl time.Duration) (movies, series []models.Record, err error) {
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	p.Go(func(ctx context.Context) error {
		var err error
		movies, err = s.list(ctx, upstream.ListMovies(), ttl)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		series, err = s.list(ctx, upstream.ListSeries(), ttl)
		return err
	})

	if err := p.Wait(); err != nil {
		return nil, nil, err
	}

	s.logger.Debugf("[Catalog] joined %d movies and %d series", len(movies), len(series))
	return movies, series, nil
}

func (s *Service) list(ctx context.Context, req upstream.Request, ttl time.Duration) ([]models.Record, error) {
	raw, err := s.source.Get(ctx, req, ttl)
	if err != nil {
		return nil, err
	}

	records, err := models.DecodeList(raw)
	if err != nil {
		s.logger.Errorf("[Catalog] failed to decode %s: %v", req.Action, err)
		return nil, apperrors.NewUpstreamError(fmt.Sprintf("%s: %v", req.Action, err), err)
	}
	return records, nil
}

func (s *Service) object(ctx context.Context, req upstream.Request, ttl time.Duration) (models.Record, error) {
	raw, err := s.source.Get(ctx, req, ttl)
	if err != nil {
		return nil, err
	}

	record, err := models.DecodeObject(raw)
	if err != nil {
		s.logger.Errorf("[Catalog] failed to decode %s: %v", req.Action, err)
		return nil, apperrors.NewUpstreamError(fmt.Sprintf("%s: %v", req.Action, err), err)
	}
	return record, nil
}

func requireParam(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewMissingParamError(name)
	}
	return nil
}
