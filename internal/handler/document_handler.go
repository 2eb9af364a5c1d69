package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kantah-go/arsip-vital-api/internal/dto"
	"github.com/kantah-go/arsip-vital-api/internal/models"
	"github.com/kantah-go/arsip-vital-api/internal/service"
	appErrors "github.com/kantah-go/arsip-vital-api/pkg/errors"
	"github.com/kantah-go/arsip-vital-api/pkg/response"
)

// maxUploadBytes caps one scanned document attachment.
const maxUploadBytes = 20 << 20

// UploadStore persists accepted multipart files.
type UploadStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
}

// DocumentHandler exposes endpoints for one document table. One instance is
// registered per kind under its own route group.
type DocumentHandler struct {
	documents *service.DocumentService
	uploads   *documentUploader
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(documents *service.DocumentService, store UploadStore) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		uploads:   &documentUploader{store: store, kind: documents.Kind()},
	}
}

// List godoc
// @Summary List documents
// @Tags Documents
// @Produce json
// @Param q query string false "Numeric id or text search"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
func (h *DocumentHandler) List(c *gin.Context) {
	var req dto.DocumentListRequest
	req.Query = strings.TrimSpace(c.Query("q"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		req.PageSize = size
	}

	docs, pagination, err := h.documents.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, pagination)
}

// Get godoc
// @Summary Get one document
// @Tags Documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
func (h *DocumentHandler) Get(c *gin.Context) {
	id, err := service.ParseEntryID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	doc, err := h.documents.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}

// Create godoc
// @Summary Create document with optional PDF attachments
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Envelope
func (h *DocumentHandler) Create(c *gin.Context) {
	var payload dto.DocumentPayload
	if err := c.ShouldBind(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid document payload"))
		return
	}
	uploads, err := h.uploads.accept(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	doc, err := h.documents.Create(c.Request.Context(), payload, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, doc)
}

// Update godoc
// @Summary Update document; new attachments replace the stored ones
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
func (h *DocumentHandler) Update(c *gin.Context) {
	id, err := service.ParseEntryID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var payload dto.DocumentPayload
	if err := c.ShouldBind(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid document payload"))
		return
	}
	uploads, err := h.uploads.accept(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	doc, err := h.documents.Update(c.Request.Context(), id, payload, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}

// Delete godoc
// @Summary Delete document
// @Tags Documents
// @Param id path int true "Document ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := service.ParseEntryID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.documents.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// QR godoc
// @Summary Serve the document QR image inline
// @Tags Documents
// @Produce png
// @Param id path int true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
func (h *DocumentHandler) QR(c *gin.Context) {
	id, err := service.ParseEntryID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	data, _, err := h.documents.QRPNG(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// QRDownload godoc
// @Summary Download the document QR image as an attachment
// @Tags Documents
// @Produce png
// @Param id path int true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
func (h *DocumentHandler) QRDownload(c *gin.Context) {
	id, err := service.ParseEntryID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	data, filename, err := h.documents.QRPNG(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "image/png", data)
}

// documentUploader validates and stores multipart attachments before the
// database write. Only PDF files are accepted.
type documentUploader struct {
	store UploadStore
	kind  models.DocumentKind
}

func (u *documentUploader) accept(c *gin.Context) ([]dto.UploadedFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// non-multipart requests carry no attachments
		return nil, nil
	}
	files := form.File["files"]
	if len(files) == 0 {
		return nil, nil
	}

	accepted := make([]dto.UploadedFile, 0, len(files))
	for _, fh := range files {
		if err := validateUpload(fh); err != nil {
			return nil, err
		}
		relPath, err := u.save(fh)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
		}
		accepted = append(accepted, dto.UploadedFile{
			OriginalName: fh.Filename,
			RelativePath: relPath,
			SizeBytes:    fh.Size,
			MimeType:     fh.Header.Get("Content-Type"),
		})
	}
	return accepted, nil
}

func (u *documentUploader) save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close() //nolint:errcheck

	name := fmt.Sprintf("%s/%s-%s-%s",
		u.kind.Table(),
		time.Now().Format("20060102"),
		uuid.NewString()[:8],
		sanitizeFilename(fh.Filename))
	return u.store.SaveStream(name, src)
}

func validateUpload(fh *multipart.FileHeader) error {
	if fh.Size > maxUploadBytes {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file %s exceeds the 20MB limit", fh.Filename))
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file %s is not a PDF", fh.Filename))
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/pdf" && ct != "application/octet-stream" {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file %s has unsupported content type %s", fh.Filename, ct))
	}
	return nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
