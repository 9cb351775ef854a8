package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/amaumene/venusplay/internal/errors"
)

// pageParam reads the 1-indexed page query parameter. Absent means page 1.
func pageParam(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("page"))
	if raw == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, apperrors.NewClientError("page must be a positive integer")
	}
	return page, nil
}

// respondError maps err onto its status code and a public message.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Errorf("[Handler] %s failed: %v", op, err)
	} else {
		h.logger.Debugf("[Handler] %s rejected: %v", op, err)
	}
	c.JSON(status, gin.H{"error": apperrors.PublicMessage(err)})
}

// respond writes data as JSON or the mapped error.
func respond[T any](h *Handler, c *gin.Context, op string, data T, err error) {
	if err != nil {
		h.respondError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
