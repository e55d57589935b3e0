// backend-go/internal/api/handlers/stats_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/fenwickretail/invpipe/internal/service"
)

type StatsHandler struct {
	stats *service.StatsService
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// History answers C13's historical-delta comparison inputs: the last N
// ImportStats rows for a source, newest first.
func (h *StatsHandler) History(c *gin.Context) {
	sourceID := c.Param("id")
	limit, _ := strconv.Atoi(c.Query("limit"))

	history, err := h.stats.History(c.Request.Context(), sourceID, limit)
	if err != nil {
		log.Error().Err(err).Str("source_id", sourceID).Msg("failed to load stats history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}
