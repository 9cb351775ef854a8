package handlers

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) handleSeasons(c *gin.Context) {
	seasons, err := h.catalog.Seasons(c.Request.Context(), c.Query("id"))
	respond(h, c, "seasons", seasons, err)
}

func (h *Handler) handleEpisodes(c *gin.Context) {
	episodes, err := h.catalog.Episodes(c.Request.Context(), c.Query("id"), c.Query("temporada"))
	respond(h, c, "episodes", episodes, err)
}

func (h *Handler) handleAllEpisodes(c *gin.Context) {
	episodes, err := h.catalog.AllEpisodes(c.Request.Context(), c.Query("id"))
	respond(h, c, "all episodes", episodes, err)
}

func (h *Handler) handleEpisode(c *gin.Context) {
	episode, err := h.catalog.Episode(c.Request.Context(), c.Query("id"), c.Param("episode"))
	respond(h, c, "episode", episode, err)
}
