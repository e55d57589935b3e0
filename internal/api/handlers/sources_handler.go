// backend-go/internal/api/handlers/sources_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/service"
)

type SourcesHandler struct {
	sources *service.SourceService
}

func NewSourcesHandler(sources *service.SourceService) *SourcesHandler {
	return &SourcesHandler{sources: sources}
}

func (h *SourcesHandler) List(c *gin.Context) {
	srcs, err := h.sources.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list sources")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sources"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": srcs})
}

func (h *SourcesHandler) Get(c *gin.Context) {
	src, err := h.sources.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "source not found"})
		return
	}
	c.JSON(http.StatusOK, src)
}

func (h *SourcesHandler) Create(c *gin.Context) {
	var src domain.Source
	if err := c.ShouldBindJSON(&src); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source payload"})
		return
	}
	created, err := h.sources.Create(c.Request.Context(), src)
	if err != nil {
		log.Error().Err(err).Msg("failed to create source")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create source"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *SourcesHandler) Update(c *gin.Context) {
	var src domain.Source
	if err := c.ShouldBindJSON(&src); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source payload"})
		return
	}
	src.ID = c.Param("id")
	updated, err := h.sources.Update(c.Request.Context(), src)
	if err != nil {
		log.Error().Err(err).Msg("failed to update source")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update source"})
		return
	}
	c.JSON(http.StatusOK, updated)
}
