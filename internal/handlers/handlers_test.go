package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/amaumene/venusplay/internal/errors"
	"github.com/amaumene/venusplay/internal/models"
	"github.com/amaumene/venusplay/pkg/logger"
)

type fakeCatalog struct {
	lastPage    int
	lastID      string
	lastSeason  string
	lastEpisode string
	lastKind    string
	err         error
}

func (f *fakeCatalog) page(page int) (models.Page[models.CatalogItem], error) {
	f.lastPage = page
	if f.err != nil {
		return models.Page[models.CatalogItem]{}, f.err
	}
	return models.Page[models.CatalogItem]{
		Data:    []models.CatalogItem{{ID: "1", Title: "Dune"}},
		Page:    page,
		PerPage: 27,
		Total:   1,
	}, nil
}

func (f *fakeCatalog) Movies(_ context.Context, page int) (models.Page[models.CatalogItem], error) {
	return f.page(page)
}

func (f *fakeCatalog) Series(_ context.Context, page int) (models.Page[models.CatalogItem], error) {
	return f.page(page)
}

func (f *fakeCatalog) Unified(_ context.Context, page int) (models.Page[models.CatalogItem], error) {
	return f.page(page)
}

func (f *fakeCatalog) Interleaved(_ context.Context, page int) (models.Page[models.CatalogItem], error) {
	return f.page(page)
}

func (f *fakeCatalog) MovieDetail(_ context.Context, id string) (models.CatalogItem, error) {
	f.lastID = id
	if id == "" {
		return models.CatalogItem{}, apperrors.NewMissingParamError("id")
	}
	return models.CatalogItem{ID: models.ID(id), Title: "Dune"}, f.err
}

func (f *fakeCatalog) SeriesDetail(_ context.Context, id string) (models.CatalogItem, error) {
	f.lastID = id
	return models.CatalogItem{ID: models.ID(id), Title: "Dark"}, f.err
}

func (f *fakeCatalog) Seasons(_ context.Context, seriesID string) ([]models.Season, error) {
	f.lastID = seriesID
	return []models.Season{{SeriesID: models.ID(seriesID), Number: 1, Title: "Temporada 1"}}, f.err
}

func (f *fakeCatalog) Episodes(_ context.Context, seriesID, season string) ([]models.Episode, error) {
	f.lastID, f.lastSeason = seriesID, season
	return []models.Episode{{ID: "101", Number: 1, Season: 1}}, f.err
}

func (f *fakeCatalog) AllEpisodes(_ context.Context, seriesID string) ([]models.Episode, error) {
	f.lastID = seriesID
	return []models.Episode{}, f.err
}

func (f *fakeCatalog) Episode(_ context.Context, seriesID, episodeID string) (models.Episode, error) {
	f.lastID, f.lastEpisode = seriesID, episodeID
	return models.Episode{ID: models.ID(episodeID)}, f.err
}

func (f *fakeCatalog) Categories(_ context.Context, kind string) (json.RawMessage, error) {
	f.lastKind = kind
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`[{"category_id":"1","category_name":"Ação"}]`), nil
}

func (f *fakeCatalog) Genres(_ context.Context) (models.GenresResponse, error) {
	return models.GenresResponse{Genres: []string{"Action", "Drama"}}, f.err
}

func setupRouter(svc CatalogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(svc, logger.Discard()).RegisterRoutes(r)
	return r
}

func get(t *testing.T, r *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListingRoutes(t *testing.T) {
	for _, path := range []string{
		"/api/Venus/Filmes",
		"/api/Venus/" + url.PathEscape("Séries"),
		"/api/Venus/Series",
		"/api/VenusPlay",
		"/api/VenusPlay/Todos",
	} {
		t.Run(path, func(t *testing.T) {
			svc := &fakeCatalog{}
			w := get(t, setupRouter(svc), path+"?page=3")

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, 3, svc.lastPage)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, float64(3), body["page"])
			assert.Equal(t, float64(27), body["per_page"])
			assert.Contains(t, body, "data")
			assert.Contains(t, body, "total")
		})
	}
}

func TestListingDefaultsToFirstPage(t *testing.T) {
	svc := &fakeCatalog{}
	w := get(t, setupRouter(svc), "/api/Venus/Filmes")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.lastPage)
}

func TestListingRejectsInvalidPage(t *testing.T) {
	for _, page := range []string{"0", "-1", "abc"} {
		svc := &fakeCatalog{}
		w := get(t, setupRouter(svc), "/api/Venus/Filmes?page="+page)

		assert.Equal(t, http.StatusBadRequest, w.Code, page)
		assert.Equal(t, 0, svc.lastPage, page)
		assert.JSONEq(t, `{"error": "page must be a positive integer"}`, w.Body.String())
	}
}

func TestDetailMissingID(t *testing.T) {
	w := get(t, setupRouter(&fakeCatalog{}), "/api/Info/Venus/Filmes")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "missing required parameter: id"}`, w.Body.String())
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
		message  string
	}{
		{"not found", apperrors.NewNotFoundError("series", "9"), http.StatusNotFound, "series not found: 9"},
		{"upstream", apperrors.NewUpstreamError("get_series_info: status 503", context.DeadlineExceeded), http.StatusBadGateway, "get_series_info: status 503"},
		{"unknown", context.Canceled, http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, setupRouter(&fakeCatalog{err: tt.err}), "/api/Info/Venus/Series?id=9")

			assert.Equal(t, tt.expected, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

func TestSeriesRoutesForwardParams(t *testing.T) {
	svc := &fakeCatalog{}
	r := setupRouter(svc)

	w := get(t, r, "/api/Venus/Temporadas?id=7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", svc.lastID)

	w = get(t, r, "/api/Venus/"+url.PathEscape("Episódio")+"?id=7&temporada=S01")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "S01", svc.lastSeason)

	w = get(t, r, "/api/Venus/Episodio/101?id=7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "101", svc.lastEpisode)
	assert.Equal(t, "7", svc.lastID)

	w = get(t, r, "/api/Venus/TodosEpisodios?id=8")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "8", svc.lastID)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCategoriesPassThrough(t *testing.T) {
	svc := &fakeCatalog{}
	w := get(t, setupRouter(svc), "/api/Venus/Categorias?tipo=series")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "series", svc.lastKind)
	assert.Equal(t, `[{"category_id":"1","category_name":"Ação"}]`, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestGenresAndHealth(t *testing.T) {
	r := setupRouter(&fakeCatalog{})

	w := get(t, r, "/api/Venus/Generos")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"generos": ["Action", "Drama"]}`, w.Body.String())

	w = get(t, r, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
