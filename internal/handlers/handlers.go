// Package handlers implements the HTTP surface of the catalog proxy.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/venusplay/internal/constants"
	"github.com/amaumene/venusplay/internal/models"
	"github.com/amaumene/venusplay/pkg/logger"
)

// CatalogService is the set of operations the routes expose.
type CatalogService interface {
	Movies(ctx context.Context, page int) (models.Page[models.CatalogItem], error)
	Series(ctx context.Context, page int) (models.Page[models.CatalogItem], error)
	MovieDetail(ctx context.Context, id string) (models.CatalogItem, error)
	SeriesDetail(ctx context.Context, id string) (models.CatalogItem, error)
	Seasons(ctx context.Context, seriesID string) ([]models.Season, error)
	Episodes(ctx context.Context, seriesID, season string) ([]models.Episode, error)
	AllEpisodes(ctx context.Context, seriesID string) ([]models.Episode, error)
	Episode(ctx context.Context, seriesID, episodeID string) (models.Episode, error)
	Categories(ctx context.Context, kind string) (json.RawMessage, error)
	Unified(ctx context.Context, page int) (models.Page[models.CatalogItem], error)
	Interleaved(ctx context.Context, page int) (models.Page[models.CatalogItem], error)
	Genres(ctx context.Context) (models.GenresResponse, error)
}

// Handler handles HTTP requests for the catalog.
type Handler struct {
	catalog CatalogService
	logger  logger.Logger
}

// New creates a new Handler backed by catalog.
func New(catalog CatalogService, log logger.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  log,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.handleHealth)

	// Listings
	r.GET("/api/Venus/Filmes", h.handleMovies)
	r.GET("/api/Venus/Séries", h.handleSeries)
	r.GET("/api/Venus/Series", h.handleSeries) // Alias without the accent

	// Details
	r.GET("/api/Info/Venus/Filmes", h.handleMovieDetail)
	r.GET("/api/Info/Venus/Séries", h.handleSeriesDetail)
	r.GET("/api/Info/Venus/Series", h.handleSeriesDetail)

	// Seasons and episodes
	r.GET("/api/Venus/Temporadas", h.handleSeasons)
	r.GET("/api/Venus/Episódio", h.handleEpisodes)
	r.GET("/api/Venus/Episodio", h.handleEpisodes)
	r.GET("/api/Venus/Episódio/:episode", h.handleEpisode)
	r.GET("/api/Venus/Episodio/:episode", h.handleEpisode)
	r.GET("/api/Venus/TodosEpisodios", h.handleAllEpisodes)

	// Aggregates
	r.GET("/api/Venus/Categorias", h.handleCategories)
	r.GET("/api/Venus/Generos", h.handleGenres)
	r.GET("/api/VenusPlay", h.handleUnified)
	r.GET("/api/VenusPlay/Todos", h.handleInterleaved)
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": constants.ServiceName,
		"version": constants.ServiceVersion,
	})
}
