package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantah-go/arsip-vital-api/internal/models"
	"github.com/kantah-go/arsip-vital-api/internal/service"
	"github.com/kantah-go/arsip-vital-api/pkg/jobs"
)

type fakeDocumentRepo struct {
	docs   map[int64]models.Document
	nextID int64
}

func (f *fakeDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	if f.docs == nil {
		f.docs = make(map[int64]models.Document)
	}
	f.nextID++
	doc.ID = f.nextID
	f.docs[doc.ID] = *doc
	return nil
}

func (f *fakeDocumentRepo) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	if d, ok := f.docs[id]; ok {
		return &d, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDocumentRepo) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, int, error) {
	out := make([]models.Document, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	return out, len(out), nil
}

func (f *fakeDocumentRepo) Update(ctx context.Context, doc *models.Document) error {
	if _, ok := f.docs[doc.ID]; !ok {
		return sql.ErrNoRows
	}
	f.docs[doc.ID] = *doc
	return nil
}

func (f *fakeDocumentRepo) UpdateQRPath(ctx context.Context, id int64, qrPath string) error {
	d, ok := f.docs[id]
	if !ok {
		return sql.ErrNoRows
	}
	d.QRPath = &qrPath
	f.docs[id] = d
	return nil
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.docs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.docs, id)
	return nil
}

type memUploadStore struct {
	files map[string][]byte
}

func newMemUploadStore() *memUploadStore {
	return &memUploadStore{files: make(map[string][]byte)}
}

func (m *memUploadStore) Save(filename string, data []byte) (string, error) {
	m.files[filename] = data
	return filename, nil
}

func (m *memUploadStore) SaveStream(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return m.Save(filename, data)
}

func (m *memUploadStore) Exists(filename string) bool {
	_, ok := m.files[filename]
	return ok
}

func (m *memUploadStore) Read(filename string) ([]byte, error) {
	data, ok := m.files[filename]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return data, nil
}

func (m *memUploadStore) Delete(filename string) error {
	delete(m.files, filename)
	return nil
}

type fakeQR struct{}

func (fakeQR) GeneratePNG(kind string, id int64) ([]byte, error) {
	return []byte("png:" + kind), nil
}

type dropQueue struct{}

func (dropQueue) Enqueue(task jobs.Task) error { return nil }

func newDocumentRouter(repo *fakeDocumentRepo, store *memUploadStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewDocumentService(service.DocumentServiceParams{
		Kind:    models.KindBukuTanah,
		Repo:    repo,
		Storage: store,
		QR:      fakeQR{},
		Queue:   dropQueue{},
	})
	h := NewDocumentHandler(svc, store)

	r := gin.New()
	r.GET("/buku-tanah", h.List)
	r.GET("/buku-tanah/:id", h.Get)
	r.POST("/buku-tanah", h.Create)
	r.DELETE("/buku-tanah/:id", h.Delete)
	r.GET("/buku-tanah/:id/qr", h.QR)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName, contentType string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+fileName+`"`)
		if contentType != "" {
			hdr.Set("Content-Type", contentType)
		}
		part, err := writer.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestDocumentCreateWithPDFUpload(t *testing.T) {
	repo := &fakeDocumentRepo{}
	store := newMemUploadStore()
	router := newDocumentRouter(repo, store)

	body, contentType := multipartBody(t,
		map[string]string{"nomor_dokumen": "DI-208/2024/1", "jenis_hak": "HM", "tahun_terbit": "1998"},
		"files", "sertifikat.pdf", "application/pdf", []byte("%PDF-1.4 test"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/buku-tanah", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var doc models.Document
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	assert.Equal(t, int64(1), doc.ID)

	stored := repo.docs[1]
	files := stored.FileList()
	require.Len(t, files, 1)
	assert.True(t, strings.HasPrefix(files[0], "buku_tanah/"))
	assert.True(t, strings.HasSuffix(files[0], "-sertifikat.pdf"))
	assert.True(t, store.Exists(files[0]))
}

func TestDocumentCreateRejectsNonPDFUpload(t *testing.T) {
	router := newDocumentRouter(&fakeDocumentRepo{}, newMemUploadStore())

	body, contentType := multipartBody(t,
		map[string]string{"nomor_dokumen": "DI-208/2024/1"},
		"files", "foto.jpg", "image/jpeg", []byte("jpegdata"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/buku-tanah", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestDocumentCreateWithoutUploads(t *testing.T) {
	repo := &fakeDocumentRepo{}
	router := newDocumentRouter(repo, newMemUploadStore())

	body, contentType := multipartBody(t,
		map[string]string{"nomor_dokumen": "DI-208/2024/2", "media": "Kertas"},
		"", "", "", nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/buku-tanah", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	stored := repo.docs[1]
	assert.Empty(t, stored.FileList())
}

func TestDocumentCreateRejectsUnknownJenisHak(t *testing.T) {
	router := newDocumentRouter(&fakeDocumentRepo{}, newMemUploadStore())

	body, contentType := multipartBody(t,
		map[string]string{"jenis_hak": "SHM"}, "", "", "", nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/buku-tanah", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentQRServesImage(t *testing.T) {
	repo := &fakeDocumentRepo{docs: map[int64]models.Document{3: {ID: 3}}, nextID: 3}
	router := newDocumentRouter(repo, newMemUploadStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/buku-tanah/3/qr", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png:buku-tanah", rec.Body.String())
}

func TestDocumentDeleteMissing(t *testing.T) {
	router := newDocumentRouter(&fakeDocumentRepo{}, newMemUploadStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/buku-tanah/9", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
