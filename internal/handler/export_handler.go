package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kantah-go/arsip-vital-api/internal/dto"
	"github.com/kantah-go/arsip-vital-api/internal/models"
	"github.com/kantah-go/arsip-vital-api/internal/service"
	appErrors "github.com/kantah-go/arsip-vital-api/pkg/errors"
	"github.com/kantah-go/arsip-vital-api/pkg/response"
)

// ExportHandler renders listings into downloadable files.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

func exportRequestFromQuery(c *gin.Context) dto.ExportRequest {
	req := dto.ExportRequest{
		Query:  strings.TrimSpace(c.Query("q")),
		Format: c.DefaultQuery("format", service.FormatCSV),
	}
	if cols := strings.TrimSpace(c.Query("columns")); cols != "" {
		req.Columns = strings.Split(cols, ",")
	}
	return req
}

// Documents godoc
// @Summary Export one document table
// @Tags Exports
// @Produce json
// @Param kind path string true "buku-tanah, surat-ukur or warkah"
// @Param format query string false "csv, docx or pdf"
// @Param columns query string false "Comma-separated column subset"
// @Success 200 {object} response.Envelope
// @Router /exports/{kind} [get]
func (h *ExportHandler) Documents(c *gin.Context) {
	kind, ok := kindFromSlug(c.Param("kind"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown document kind"))
		return
	}
	resp, err := h.exports.ExportDocuments(c.Request.Context(), kind, exportRequestFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// ArchiveIndex godoc
// @Summary Export the archive index joined with its documents
// @Tags Exports
// @Produce json
// @Param format query string false "csv, docx or pdf"
// @Success 200 {object} response.Envelope
// @Router /exports/daftar-arsip [get]
func (h *ExportHandler) ArchiveIndex(c *gin.Context) {
	resp, err := h.exports.ExportArchiveIndex(c.Request.Context(), exportRequestFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Download godoc
// @Summary Download a rendered export by signed token
// @Tags Exports
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	data, filename, contentType, err := h.exports.Download(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func kindFromSlug(slug string) (models.DocumentKind, bool) {
	switch slug {
	case models.KindBukuTanah.Slug():
		return models.KindBukuTanah, true
	case models.KindSuratUkur.Slug():
		return models.KindSuratUkur, true
	case models.KindWarkah.Slug():
		return models.KindWarkah, true
	}
	return "", false
}
