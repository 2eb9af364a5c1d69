package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/kantah-go/arsip-vital-api/internal/models"
)

func newDocumentRepoMock(t *testing.T, kind models.DocumentKind) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewDocumentRepository(sqlx.NewDb(db, "sqlmock"), kind), mock, func() { db.Close() }
}

func documentRows(id int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "nomor_hak", "media", "created_at", "updated_at"}).
		AddRow(id, "HM-204", "Kertas", now, now)
}

func TestDocumentRepositoryCreateReturnsID(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t, models.KindWarkah)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO warkah")).
		WillReturnRows(sqlmock.NewRows([]string{"id_warkah"}).AddRow(int64(31)))

	nomorHak := "HM-204"
	doc := &models.Document{NomorHak: &nomorHak}
	require.NoError(t, repo.Create(context.Background(), doc))
	require.Equal(t, int64(31), doc.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryGetByIDAliasesPrimaryKey(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t, models.KindBukuTanah)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("id_buku_tanah AS id")).
		WithArgs(int64(42)).
		WillReturnRows(documentRows(42))

	doc, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), doc.ID)
	require.NotNil(t, doc.NomorHak)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryExists(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t, models.KindSuratUkur)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM surat_ukur WHERE id_surat_ukur = $1")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), 9)
	require.NoError(t, err)
	require.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM surat_ukur WHERE id_surat_ukur = $1")).
		WithArgs(int64(10)).
		WillReturnError(sql.ErrNoRows)

	exists, err = repo.Exists(context.Background(), 10)
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryListNumericQueryMatchesID(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t, models.KindWarkah)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM warkah")).
		WithArgs(int64(31)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("id_warkah AS id")).
		WithArgs(int64(31)).
		WillReturnRows(documentRows(31))

	docs, total, err := repo.List(context.Background(), models.DocumentFilter{Query: "31"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, docs, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryDeleteMissingRow(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t, models.KindWarkah)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM warkah WHERE id_warkah = $1")).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 404)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryUpdateQRPath(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t, models.KindBukuTanah)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE buku_tanah SET qr_path = $2")).
		WithArgs(int64(42), "uploads/qr/buku_tanah-42.png", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateQRPath(context.Background(), 42, "uploads/qr/buku_tanah-42.png"))
	require.NoError(t, mock.ExpectationsWereMet())
}
