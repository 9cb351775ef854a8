package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) handleMovies(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		h.respondError(c, "movies", err)
		return
	}

	result, err := h.catalog.Movies(c.Request.Context(), page)
	respond(h, c, "movies", result, err)
}

func (h *Handler) handleSeries(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		h.respondError(c, "series", err)
		return
	}

	result, err := h.catalog.Series(c.Request.Context(), page)
	respond(h, c, "series", result, err)
}

func (h *Handler) handleMovieDetail(c *gin.Context) {
	item, err := h.catalog.MovieDetail(c.Request.Context(), c.Query("id"))
	respond(h, c, "movie detail", item, err)
}

func (h *Handler) handleSeriesDetail(c *gin.Context) {
	item, err := h.catalog.SeriesDetail(c.Request.Context(), c.Query("id"))
	respond(h, c, "series detail", item, err)
}

func (h *Handler) handleUnified(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		h.respondError(c, "unified", err)
		return
	}

	result, err := h.catalog.Unified(c.Request.Context(), page)
	respond(h, c, "unified", result, err)
}

func (h *Handler) handleInterleaved(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		h.respondError(c, "interleaved", err)
		return
	}

	result, err := h.catalog.Interleaved(c.Request.Context(), page)
	respond(h, c, "interleaved", result, err)
}

func (h *Handler) handleGenres(c *gin.Context) {
	genres, err := h.catalog.Genres(c.Request.Context())
	respond(h, c, "genres", genres, err)
}

// Categories are relayed byte for byte.
func (h *Handler) handleCategories(c *gin.Context) {
	raw, err := h.catalog.Categories(c.Request.Context(), c.Query("tipo"))
	if err != nil {
		h.respondError(c, "categories", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
