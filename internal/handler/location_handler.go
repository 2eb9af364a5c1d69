package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kantah-go/arsip-vital-api/internal/dto"
	"github.com/kantah-go/arsip-vital-api/internal/models"
	"github.com/kantah-go/arsip-vital-api/internal/service"
	appErrors "github.com/kantah-go/arsip-vital-api/pkg/errors"
	"github.com/kantah-go/arsip-vital-api/pkg/response"
)

// LocationHandler exposes storage slot endpoints.
type LocationHandler struct {
	locations *service.LocationService
}

// NewLocationHandler constructs the handler.
func NewLocationHandler(locations *service.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// List godoc
// @Summary List storage slots
// @Tags Locations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lokasi [get]
func (h *LocationHandler) List(c *gin.Context) {
	var filter models.LocationFilter
	filter.Query = strings.TrimSpace(c.Query("q"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "100")); err == nil {
		filter.PageSize = size
	}

	locations, pagination, err := h.locations.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, locations, pagination)
}

// Get godoc
// @Summary Get one storage slot
// @Tags Locations
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lokasi/{id} [get]
func (h *LocationHandler) Get(c *gin.Context) {
	id, err := service.ParseEntryID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	loc, err := h.locations.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loc, nil)
}

// Create godoc
// @Summary Create storage slot
// @Tags Locations
// @Accept json
// @Produce json
// @Param payload body dto.LocationPayload true "Location payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lokasi [post]
func (h *LocationHandler) Create(c *gin.Context) {
	var payload dto.LocationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid location payload"))
		return
	}
	loc, err := h.locations.Create(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, loc)
}

// Update godoc
// @Summary Update storage slot
// @Tags Locations
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Param payload body dto.LocationPayload true "Location payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lokasi/{id} [put]
func (h *LocationHandler) Update(c *gin.Context) {
	id, err := service.ParseEntryID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var payload dto.LocationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid location payload"))
		return
	}
	loc, err := h.locations.Update(c.Request.Context(), id, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loc, nil)
}

// Delete godoc
// @Summary Delete storage slot
// @Tags Locations
// @Param id path int true "Location ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lokasi/{id} [delete]
func (h *LocationHandler) Delete(c *gin.Context) {
	id, err := service.ParseEntryID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.locations.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
