package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// respondError maps engine errors onto status codes. Data access failures
// are reported as 503 so callers can retry.
func respondError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	var dae *domain.DataAccessError
	if errors.As(err, &dae) {
		status = http.StatusServiceUnavailable
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads a non-negative integer query parameter, falling back to def
// when it is missing or malformed.
func queryInt(c *gin.Context, name string, def int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
