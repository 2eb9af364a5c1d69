package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kantah-go/arsip-vital-api/internal/models"
)

const documentColumns = `nomor_dokumen, nomor_hak, jenis_hak, tahun_terbit, kode_klasifikasi, jenis_arsip_vital,
       uraian_informasi_arsip, media, jumlah, jangka_simpan_aktif, jangka_simpan_inaktif, jangka_simpan_keterangan,
       tingkat_perkembangan, lokasi_penyimpanan, no_boks_definitif, nomor_folder, metode_perlindungan,
       keterangan, files, qr_path, created_at, updated_at`

// DocumentRepository persists one of the three document tables. The tables
// share a column shape, so one repository is instantiated per kind.
type DocumentRepository struct {
	db   *sqlx.DB
	kind models.DocumentKind
}

// NewDocumentRepository constructs a repository bound to one document table.
func NewDocumentRepository(db *sqlx.DB, kind models.DocumentKind) *DocumentRepository {
	return &DocumentRepository{db: db, kind: kind}
}

// Kind returns the document kind the repository is bound to.
func (r *DocumentRepository) Kind() models.DocumentKind {
	return r.kind
}

func (r *DocumentRepository) selectColumns() string {
	return r.kind.IDColumn() + " AS id, " + documentColumns
}

// Create inserts a document row. The entry's timestamps are written as
// given; zero values default to now.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}
	query := fmt.Sprintf(`INSERT INTO %s
	(nomor_dokumen, nomor_hak, jenis_hak, tahun_terbit, kode_klasifikasi, jenis_arsip_vital,
	 uraian_informasi_arsip, media, jumlah, jangka_simpan_aktif, jangka_simpan_inaktif, jangka_simpan_keterangan,
	 tingkat_perkembangan, lokasi_penyimpanan, no_boks_definitif, nomor_folder, metode_perlindungan,
	 keterangan, files, qr_path, created_at, updated_at)
	VALUES (:nomor_dokumen, :nomor_hak, :jenis_hak, :tahun_terbit, :kode_klasifikasi, :jenis_arsip_vital,
	 :uraian_informasi_arsip, :media, :jumlah, :jangka_simpan_aktif, :jangka_simpan_inaktif, :jangka_simpan_keterangan,
	 :tingkat_perkembangan, :lokasi_penyimpanan, :no_boks_definitif, :nomor_folder, :metode_perlindungan,
	 :keterangan, :files, :qr_path, :created_at, :updated_at)
	RETURNING %s`, r.kind.Table(), r.kind.IDColumn())
	bound, args, err := r.db.BindNamed(query, doc)
	if err != nil {
		return fmt.Errorf("bind create %s: %w", r.kind, err)
	}
	if err := r.db.GetContext(ctx, &doc.ID, bound, args...); err != nil {
		return fmt.Errorf("create %s: %w", r.kind, err)
	}
	return nil
}

// GetByID retrieves one document row.
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, r.selectColumns(), r.kind.Table(), r.kind.IDColumn())
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Exists reports whether a row with the given id is present.
func (r *DocumentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1 LIMIT 1`, r.kind.Table(), r.kind.IDColumn())
	var one int
	if err := r.db.GetContext(ctx, &one, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check %s existence: %w", r.kind, err)
	}
	return true, nil
}

// List returns documents newest-first with the total count. A numeric query
// matches the id exactly, other queries match substrings of the searchable
// text columns.
func (r *DocumentRepository) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, int, error) {
	where := ""
	args := make([]interface{}, 0, 1)

	q := strings.TrimSpace(filter.Query)
	if q != "" {
		if n, err := strconv.ParseInt(q, 10, 64); err == nil && n > 0 {
			args = append(args, n)
			where = fmt.Sprintf(" WHERE %s = $%d", r.kind.IDColumn(), len(args))
		} else {
			args = append(args, "%"+q+"%")
			idx := len(args)
			where = fmt.Sprintf(" WHERE (nomor_hak ILIKE $%d OR nomor_dokumen ILIKE $%d OR kode_klasifikasi ILIKE $%d OR lokasi_penyimpanan ILIKE $%d OR no_boks_definitif ILIKE $%d)", idx, idx, idx, idx, idx)
		}
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM %s", r.kind.Table())+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.kind, err)
	}

	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 50
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s DESC LIMIT %d OFFSET %d`,
		r.selectColumns(), r.kind.Table(), where, r.kind.IDColumn(), pageSize, (page-1)*pageSize)

	var docs []models.Document
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.kind, err)
	}
	return docs, total, nil
}

// Update rewrites all writable columns of a document.
func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf(`UPDATE %s SET
	 nomor_dokumen = :nomor_dokumen, nomor_hak = :nomor_hak, jenis_hak = :jenis_hak, tahun_terbit = :tahun_terbit,
	 kode_klasifikasi = :kode_klasifikasi, jenis_arsip_vital = :jenis_arsip_vital,
	 uraian_informasi_arsip = :uraian_informasi_arsip, media = :media, jumlah = :jumlah,
	 jangka_simpan_aktif = :jangka_simpan_aktif, jangka_simpan_inaktif = :jangka_simpan_inaktif,
	 jangka_simpan_keterangan = :jangka_simpan_keterangan, tingkat_perkembangan = :tingkat_perkembangan,
	 lokasi_penyimpanan = :lokasi_penyimpanan, no_boks_definitif = :no_boks_definitif, nomor_folder = :nomor_folder,
	 metode_perlindungan = :metode_perlindungan, keterangan = :keterangan, files = :files, qr_path = :qr_path,
	 updated_at = :updated_at
	 WHERE %s = :id`, r.kind.Table(), r.kind.IDColumn())
	res, err := r.db.NamedExecContext(ctx, query, doc)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s update rows: %w", r.kind, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateQRPath stores the generated QR image path for a document.
func (r *DocumentRepository) UpdateQRPath(ctx context.Context, id int64, qrPath string) error {
	query := fmt.Sprintf(`UPDATE %s SET qr_path = $2, updated_at = $3 WHERE %s = $1`, r.kind.Table(), r.kind.IDColumn())
	res, err := r.db.ExecContext(ctx, query, id, qrPath, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update %s qr path: %w", r.kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s qr update rows: %w", r.kind, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a document row permanently.
func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, r.kind.Table(), r.kind.IDColumn())
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s delete rows: %w", r.kind, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
