package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kantah-go/arsip-vital-api/internal/dto"
	"github.com/kantah-go/arsip-vital-api/internal/service"
	appErrors "github.com/kantah-go/arsip-vital-api/pkg/errors"
	"github.com/kantah-go/arsip-vital-api/pkg/response"
)

// ArchiveEntryHandler exposes the archive index endpoints.
type ArchiveEntryHandler struct {
	entries *service.ArchiveEntryService
}

// NewArchiveEntryHandler constructs the handler.
func NewArchiveEntryHandler(entries *service.ArchiveEntryService) *ArchiveEntryHandler {
	return &ArchiveEntryHandler{entries: entries}
}

func listRequestFromQuery(c *gin.Context) dto.ArchiveEntryListRequest {
	var req dto.ArchiveEntryListRequest
	req.Query = strings.TrimSpace(c.Query("q"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		req.PageSize = size
	}
	return req
}

// List godoc
// @Summary List archive index entries
// @Tags ArchiveIndex
// @Produce json
// @Param q query string false "Numeric id/nomor_urut or text search"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /daftar-arsip [get]
func (h *ArchiveEntryHandler) List(c *gin.Context) {
	entries, pagination, err := h.entries.List(c.Request.Context(), listRequestFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// ListDetails godoc
// @Summary List entries joined with their referenced documents
// @Tags ArchiveIndex
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /daftar-arsip/detail [get]
func (h *ArchiveEntryHandler) ListDetails(c *gin.Context) {
	details, err := h.entries.ListDetails(c.Request.Context(), listRequestFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// Get godoc
// @Summary Get one archive index entry
// @Tags ArchiveIndex
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /daftar-arsip/{id} [get]
func (h *ArchiveEntryHandler) Get(c *gin.Context) {
	id, err := service.ParseEntryID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	entry, err := h.entries.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Detail godoc
// @Summary Get one entry joined with its referenced documents
// @Tags ArchiveIndex
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /daftar-arsip/{id}/detail [get]
func (h *ArchiveEntryHandler) Detail(c *gin.Context) {
	id, err := service.ParseEntryID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.entries.Detail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Create archive index entry
// @Tags ArchiveIndex
// @Accept json
// @Produce json
// @Param payload body dto.ArchiveEntryPayload true "Entry payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /daftar-arsip [post]
func (h *ArchiveEntryHandler) Create(c *gin.Context) {
	var payload dto.ArchiveEntryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid archive entry payload"))
		return
	}
	entry, err := h.entries.Create(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update archive index entry
// @Tags ArchiveIndex
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param payload body dto.ArchiveEntryPayload true "Entry payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /daftar-arsip/{id} [put]
func (h *ArchiveEntryHandler) Update(c *gin.Context) {
	id, err := service.ParseEntryID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var payload dto.ArchiveEntryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid archive entry payload"))
		return
	}
	entry, err := h.entries.Update(c.Request.Context(), id, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete entry and every document it references
// @Tags ArchiveIndex
// @Param id path int true "Entry ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /daftar-arsip/{id} [delete]
func (h *ArchiveEntryHandler) Delete(c *gin.Context) {
	id, err := service.ParseEntryID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.entries.CascadeDelete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RefreshSnapshot godoc
// @Summary Recopy snapshot columns from the live referenced documents
// @Tags ArchiveIndex
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /daftar-arsip/{id}/refresh [post]
func (h *ArchiveEntryHandler) RefreshSnapshot(c *gin.Context) {
	id, err := service.ParseEntryID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	entry, err := h.entries.RefreshSnapshot(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}
