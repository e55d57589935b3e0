// backend-go/internal/api/handlers/import_handler.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/fenwickretail/invpipe/internal/importstate"
	"github.com/fenwickretail/invpipe/internal/pipelineerr"
	"github.com/fenwickretail/invpipe/internal/service"
)

type ImportHandler struct {
	imports *service.ImportService
}

func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// UploadAndImport handles the manual-upload acquisition channel: one or
// more files submitted against a source id run the full pipeline
// immediately (§4.11 "Manual upload").
func (h *ImportHandler) UploadAndImport(c *gin.Context) {
	sourceID := c.Param("id")
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}
	uploaded := form.File["files"]
	if len(uploaded) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	files := make(map[string][]byte, len(uploaded))
	for _, fh := range uploaded {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open " + fh.Filename})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read " + fh.Filename})
			return
		}
		files[fh.Filename] = data
	}

	result, err := h.imports.TriggerManualUpload(c.Request.Context(), sourceID, files)
	writeRunResult(c, result, err)
}

// StageFile parks one uploaded file for a later multi-file combine.
func (h *ImportHandler) StageFile(c *gin.Context) {
	sourceID := c.Param("id")
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	staged, err := h.imports.StageManualFile(c.Request.Context(), sourceID, fh.Filename, data)
	if err != nil {
		log.Error().Err(err).Str("source_id", sourceID).Msg("failed to stage file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stage file"})
		return
	}
	c.JSON(http.StatusCreated, staged)
}

// StagedFiles lists files currently staged for a source (recovered
// feature beyond spec.md's distillation, grounded on other_examples'
// inventory_import_handler.go preview pattern).
func (h *ImportHandler) StagedFiles(c *gin.Context) {
	sourceID := c.Param("id")
	files, err := h.imports.StagedFiles(c.Request.Context(), sourceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list staged files"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"staged_files": files})
}

// Combine triggers the staged-file combine acquisition channel.
func (h *ImportHandler) Combine(c *gin.Context) {
	sourceID := c.Param("id")
	result, err := h.imports.Combine(c.Request.Context(), sourceID)
	writeRunResult(c, result, err)
}

// TriggerURLFetch runs the URL-fetch acquisition channel on demand,
// independent of its cron schedule.
func (h *ImportHandler) TriggerURLFetch(c *gin.Context) {
	sourceID := c.Param("id")
	result, err := h.imports.TriggerURLFetch(c.Request.Context(), sourceID)
	writeRunResult(c, result, err)
}

// TriggerEmailPoll runs one IMAP poll on demand.
func (h *ImportHandler) TriggerEmailPoll(c *gin.Context) {
	sourceID := c.Param("id")
	result, err := h.imports.PollEmail(c.Request.Context(), sourceID)
	if err != nil {
		writeRunResult(c, nil, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"polled": true, "matched": false})
		return
	}
	writeRunResult(c, *result, nil)
}

// writeRunResult maps a pipeline.Result + error pair onto an HTTP
// response per the error taxonomy (§7): safety blocks and pre-import
// validation failures are 409/422, everything else unexpected is 500,
// and a nil error with Success=true is 200.
func writeRunResult(c *gin.Context, result interface{ }, err error) {
	if err != nil {
		var safetyErr *pipelineerr.SafetyBlockError
		if errors.As(err, &safetyErr) {
			c.JSON(http.StatusConflict, gin.H{
				"error":          safetyErr.Error(),
				"existing_count": safetyErr.ExistingCount,
				"new_count":      safetyErr.NewCount,
				"drop_percent":   safetyErr.DropPercent,
			})
			return
		}
		var valErr *pipelineerr.ValidationPreImportError
		if errors.As(err, &valErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": valErr.Error()})
			return
		}
		if errors.Is(err, importstate.ErrBusy) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("import run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
