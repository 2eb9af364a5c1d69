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

const entryColumns = `id, nomor_urut, kode_klasifikasi, jenis_arsip_vital, nomor_item_arsip_uraian, kurun_waktu_berkas,
       media_buku_tanah, media_surat_ukur, media_warkah,
       jumlah_buku_tanah, jumlah_surat_ukur, jumlah_warkah,
       jangka_simpan_aktif, jangka_simpan_inaktif, jangka_simpan_keterangan, tingkat_perkembangan,
       lokasi_simpan_bt_ruang_rak, lokasi_simpan_bt_no_boks, lokasi_simpan_bt_no_folder,
       lokasi_simpan_su_ruang_rak, lokasi_simpan_su_no_boks, lokasi_simpan_su_no_folder,
       lokasi_simpan_warkah_ruang_rak, lokasi_simpan_warkah_no_boks, lokasi_simpan_warkah_no_folder,
       metode_perlindungan_bt, metode_perlindungan_su, metode_perlindungan_warkah,
       keterangan, id_dokumen_bt, id_dokumen_su, id_dokumen_warkah, is_processed, processing_notes,
       created_at, updated_at`

// cascadeKindOrder fixes the document delete order inside the cascade so the
// statement sequence is deterministic.
var cascadeKindOrder = []models.DocumentKind{models.KindBukuTanah, models.KindSuratUkur, models.KindWarkah}

// ArchiveEntryRepository handles daftar_arsip_vital persistence, including
// the cascading delete across the three document tables.
type ArchiveEntryRepository struct {
	db *sqlx.DB
}

// NewArchiveEntryRepository constructs the repository.
func NewArchiveEntryRepository(db *sqlx.DB) *ArchiveEntryRepository {
	return &ArchiveEntryRepository{db: db}
}

// Create inserts a new index entry. Timestamps are taken from the entry when
// set, so callers control exactly what is written.
func (r *ArchiveEntryRepository) Create(ctx context.Context, entry *models.ArchiveEntry) error {
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}
	const query = `INSERT INTO daftar_arsip_vital
	(nomor_urut, kode_klasifikasi, jenis_arsip_vital, nomor_item_arsip_uraian, kurun_waktu_berkas,
	 media_buku_tanah, media_surat_ukur, media_warkah,
	 jumlah_buku_tanah, jumlah_surat_ukur, jumlah_warkah,
	 jangka_simpan_aktif, jangka_simpan_inaktif, jangka_simpan_keterangan, tingkat_perkembangan,
	 lokasi_simpan_bt_ruang_rak, lokasi_simpan_bt_no_boks, lokasi_simpan_bt_no_folder,
	 lokasi_simpan_su_ruang_rak, lokasi_simpan_su_no_boks, lokasi_simpan_su_no_folder,
	 lokasi_simpan_warkah_ruang_rak, lokasi_simpan_warkah_no_boks, lokasi_simpan_warkah_no_folder,
	 metode_perlindungan_bt, metode_perlindungan_su, metode_perlindungan_warkah,
	 keterangan, id_dokumen_bt, id_dokumen_su, id_dokumen_warkah, is_processed, processing_notes,
	 created_at, updated_at)
	VALUES (:nomor_urut, :kode_klasifikasi, :jenis_arsip_vital, :nomor_item_arsip_uraian, :kurun_waktu_berkas,
	 :media_buku_tanah, :media_surat_ukur, :media_warkah,
	 :jumlah_buku_tanah, :jumlah_surat_ukur, :jumlah_warkah,
	 :jangka_simpan_aktif, :jangka_simpan_inaktif, :jangka_simpan_keterangan, :tingkat_perkembangan,
	 :lokasi_simpan_bt_ruang_rak, :lokasi_simpan_bt_no_boks, :lokasi_simpan_bt_no_folder,
	 :lokasi_simpan_su_ruang_rak, :lokasi_simpan_su_no_boks, :lokasi_simpan_su_no_folder,
	 :lokasi_simpan_warkah_ruang_rak, :lokasi_simpan_warkah_no_boks, :lokasi_simpan_warkah_no_folder,
	 :metode_perlindungan_bt, :metode_perlindungan_su, :metode_perlindungan_warkah,
	 :keterangan, :id_dokumen_bt, :id_dokumen_su, :id_dokumen_warkah, :is_processed, :processing_notes,
	 :created_at, :updated_at)
	RETURNING id`
	bound, args, err := r.db.BindNamed(query, entry)
	if err != nil {
		return fmt.Errorf("bind create entry: %w", err)
	}
	if err := r.db.GetContext(ctx, &entry.ID, bound, args...); err != nil {
		return fmt.Errorf("create archive entry: %w", err)
	}
	return nil
}

// GetByID retrieves one index entry.
func (r *ArchiveEntryRepository) GetByID(ctx context.Context, id int64) (*models.ArchiveEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM daftar_arsip_vital WHERE id = $1`
	var entry models.ArchiveEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ExistsByNomorUrut checks sequence-number uniqueness, optionally excluding
// one entry id during updates.
func (r *ArchiveEntryRepository) ExistsByNomorUrut(ctx context.Context, nomorUrut int64, excludeID int64) (bool, error) {
	base := "SELECT 1 FROM daftar_arsip_vital WHERE nomor_urut = $1"
	args := []interface{}{nomorUrut}
	if excludeID > 0 {
		base += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, base+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check nomor_urut uniqueness: %w", err)
	}
	return true, nil
}

// List returns entries ordered by nomor_urut together with the total count.
// A numeric query matches id or nomor_urut exactly, any other query is
// matched as a substring over the searchable text columns.
func (r *ArchiveEntryRepository) List(ctx context.Context, filter models.ArchiveEntryFilter) ([]models.ArchiveEntry, int, error) {
	where := ""
	args := make([]interface{}, 0, 2)

	q := strings.TrimSpace(filter.Query)
	if q != "" {
		if n, err := strconv.ParseInt(q, 10, 64); err == nil && n > 0 {
			args = append(args, n)
			where = fmt.Sprintf(" WHERE (id = $%d OR nomor_urut = $%d)", len(args), len(args))
		} else {
			args = append(args, "%"+q+"%")
			idx := len(args)
			where = fmt.Sprintf(" WHERE (kode_klasifikasi ILIKE $%d OR nomor_item_arsip_uraian ILIKE $%d OR jenis_arsip_vital ILIKE $%d OR lokasi_simpan_bt_ruang_rak ILIKE $%d)", idx, idx, idx, idx)
		}
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM daftar_arsip_vital"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count archive entries: %w", err)
	}

	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 50
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	query := `SELECT ` + entryColumns + ` FROM daftar_arsip_vital` + where +
		fmt.Sprintf(" ORDER BY nomor_urut ASC LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)

	var entries []models.ArchiveEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list archive entries: %w", err)
	}
	return entries, total, nil
}

// Update rewrites all writable columns of an entry.
func (r *ArchiveEntryRepository) Update(ctx context.Context, entry *models.ArchiveEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE daftar_arsip_vital SET
	 nomor_urut = :nomor_urut, kode_klasifikasi = :kode_klasifikasi, jenis_arsip_vital = :jenis_arsip_vital,
	 nomor_item_arsip_uraian = :nomor_item_arsip_uraian, kurun_waktu_berkas = :kurun_waktu_berkas,
	 media_buku_tanah = :media_buku_tanah, media_surat_ukur = :media_surat_ukur, media_warkah = :media_warkah,
	 jumlah_buku_tanah = :jumlah_buku_tanah, jumlah_surat_ukur = :jumlah_surat_ukur, jumlah_warkah = :jumlah_warkah,
	 jangka_simpan_aktif = :jangka_simpan_aktif, jangka_simpan_inaktif = :jangka_simpan_inaktif,
	 jangka_simpan_keterangan = :jangka_simpan_keterangan, tingkat_perkembangan = :tingkat_perkembangan,
	 lokasi_simpan_bt_ruang_rak = :lokasi_simpan_bt_ruang_rak, lokasi_simpan_bt_no_boks = :lokasi_simpan_bt_no_boks,
	 lokasi_simpan_bt_no_folder = :lokasi_simpan_bt_no_folder,
	 lokasi_simpan_su_ruang_rak = :lokasi_simpan_su_ruang_rak, lokasi_simpan_su_no_boks = :lokasi_simpan_su_no_boks,
	 lokasi_simpan_su_no_folder = :lokasi_simpan_su_no_folder,
	 lokasi_simpan_warkah_ruang_rak = :lokasi_simpan_warkah_ruang_rak, lokasi_simpan_warkah_no_boks = :lokasi_simpan_warkah_no_boks,
	 lokasi_simpan_warkah_no_folder = :lokasi_simpan_warkah_no_folder,
	 metode_perlindungan_bt = :metode_perlindungan_bt, metode_perlindungan_su = :metode_perlindungan_su,
	 metode_perlindungan_warkah = :metode_perlindungan_warkah,
	 keterangan = :keterangan, id_dokumen_bt = :id_dokumen_bt, id_dokumen_su = :id_dokumen_su,
	 id_dokumen_warkah = :id_dokumen_warkah, is_processed = :is_processed, processing_notes = :processing_notes,
	 updated_at = :updated_at
	 WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return fmt.Errorf("update archive entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check entry update rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CascadeDelete removes the entry and every document row it references as
// one transaction. The index row is deleted first; the captured references
// decide which document tables are touched afterwards. Returns the captured
// references for the caller's bookkeeping. sql.ErrNoRows is returned when
// the entry does not exist and nothing is changed.
func (r *ArchiveEntryRepository) CascadeDelete(ctx context.Context, id int64) (map[models.DocumentKind]int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin cascade delete tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var entry models.ArchiveEntry
	if err = tx.GetContext(ctx, &entry, `SELECT `+entryColumns+` FROM daftar_arsip_vital WHERE id = $1`, id); err != nil {
		return nil, err
	}
	refs := entry.CapturedRefs()

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM daftar_arsip_vital WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete archive entry %d: %w", id, err)
	}
	var affected int64
	if affected, err = res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("check entry delete rows: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return nil, err
	}

	for _, kind := range cascadeKindOrder {
		refID, ok := refs[kind]
		if !ok {
			continue
		}
		stmt := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, kind.Table(), kind.IDColumn())
		if _, err = tx.ExecContext(ctx, stmt, refID); err != nil {
			return nil, fmt.Errorf("delete %s %d: %w", kind, refID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cascade delete: %w", err)
	}
	return refs, nil
}

// GetDetail assembles the denormalized view of one entry, left joining the
// three document tables so null or dangling references still yield a row.
func (r *ArchiveEntryRepository) GetDetail(ctx context.Context, id int64) (*models.ArchiveEntryDetail, error) {
	query := `SELECT ` + prefixColumns("e", entryColumns) + `,
	 bt.nomor_dokumen AS bt_nomor_dokumen, bt.nomor_hak AS bt_nomor_hak, bt.jenis_hak AS bt_jenis_hak,
	 bt.tahun_terbit AS bt_tahun_terbit, bt.media AS bt_media, bt.jumlah AS bt_jumlah,
	 bt.lokasi_penyimpanan AS bt_lokasi_penyimpanan, bt.no_boks_definitif AS bt_no_boks_definitif,
	 bt.nomor_folder AS bt_nomor_folder, bt.metode_perlindungan AS bt_metode_perlindungan,
	 su.nomor_dokumen AS su_nomor_dokumen, su.nomor_hak AS su_nomor_hak, su.jenis_hak AS su_jenis_hak,
	 su.tahun_terbit AS su_tahun_terbit, su.media AS su_media, su.jumlah AS su_jumlah,
	 su.lokasi_penyimpanan AS su_lokasi_penyimpanan, su.no_boks_definitif AS su_no_boks_definitif,
	 su.nomor_folder AS su_nomor_folder, su.metode_perlindungan AS su_metode_perlindungan,
	 w.nomor_dokumen AS warkah_nomor_dokumen, w.nomor_hak AS warkah_nomor_hak, w.jenis_hak AS warkah_jenis_hak,
	 w.tahun_terbit AS warkah_tahun_terbit, w.media AS warkah_media, w.jumlah AS warkah_jumlah,
	 w.lokasi_penyimpanan AS warkah_lokasi_penyimpanan, w.no_boks_definitif AS warkah_no_boks_definitif,
	 w.nomor_folder AS warkah_nomor_folder, w.metode_perlindungan AS warkah_metode_perlindungan,
	 w.uraian_informasi_arsip AS warkah_uraian_informasi_arsip
	 FROM daftar_arsip_vital e
	 LEFT JOIN buku_tanah bt ON bt.id_buku_tanah = e.id_dokumen_bt
	 LEFT JOIN surat_ukur su ON su.id_surat_ukur = e.id_dokumen_su
	 LEFT JOIN warkah w ON w.id_warkah = e.id_dokumen_warkah
	 WHERE e.id = $1`
	var detail models.ArchiveEntryDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListDetails returns the denormalized view for every entry matching the
// filter, for listing and export rendering.
func (r *ArchiveEntryRepository) ListDetails(ctx context.Context, filter models.ArchiveEntryFilter) ([]models.ArchiveEntryDetail, error) {
	where := ""
	args := make([]interface{}, 0, 1)
	q := strings.TrimSpace(filter.Query)
	if q != "" {
		if n, err := strconv.ParseInt(q, 10, 64); err == nil && n > 0 {
			args = append(args, n)
			where = fmt.Sprintf(" WHERE (e.id = $%d OR e.nomor_urut = $%d)", len(args), len(args))
		} else {
			args = append(args, "%"+q+"%")
			idx := len(args)
			where = fmt.Sprintf(" WHERE (e.kode_klasifikasi ILIKE $%d OR e.nomor_item_arsip_uraian ILIKE $%d OR e.jenis_arsip_vital ILIKE $%d)", idx, idx, idx)
		}
	}

	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 500
	}
	query := `SELECT ` + prefixColumns("e", entryColumns) + `,
	 bt.nomor_dokumen AS bt_nomor_dokumen, bt.nomor_hak AS bt_nomor_hak, bt.jenis_hak AS bt_jenis_hak,
	 bt.tahun_terbit AS bt_tahun_terbit, bt.media AS bt_media, bt.jumlah AS bt_jumlah,
	 bt.lokasi_penyimpanan AS bt_lokasi_penyimpanan, bt.no_boks_definitif AS bt_no_boks_definitif,
	 bt.nomor_folder AS bt_nomor_folder, bt.metode_perlindungan AS bt_metode_perlindungan,
	 su.nomor_dokumen AS su_nomor_dokumen, su.nomor_hak AS su_nomor_hak, su.jenis_hak AS su_jenis_hak,
	 su.tahun_terbit AS su_tahun_terbit, su.media AS su_media, su.jumlah AS su_jumlah,
	 su.lokasi_penyimpanan AS su_lokasi_penyimpanan, su.no_boks_definitif AS su_no_boks_definitif,
	 su.nomor_folder AS su_nomor_folder, su.metode_perlindungan AS su_metode_perlindungan,
	 w.nomor_dokumen AS warkah_nomor_dokumen, w.nomor_hak AS warkah_nomor_hak, w.jenis_hak AS warkah_jenis_hak,
	 w.tahun_terbit AS warkah_tahun_terbit, w.media AS warkah_media, w.jumlah AS warkah_jumlah,
	 w.lokasi_penyimpanan AS warkah_lokasi_penyimpanan, w.no_boks_definitif AS warkah_no_boks_definitif,
	 w.nomor_folder AS warkah_nomor_folder, w.metode_perlindungan AS warkah_metode_perlindungan,
	 w.uraian_informasi_arsip AS warkah_uraian_informasi_arsip
	 FROM daftar_arsip_vital e
	 LEFT JOIN buku_tanah bt ON bt.id_buku_tanah = e.id_dokumen_bt
	 LEFT JOIN surat_ukur su ON su.id_surat_ukur = e.id_dokumen_su
	 LEFT JOIN warkah w ON w.id_warkah = e.id_dokumen_warkah` + where +
		fmt.Sprintf(" ORDER BY e.nomor_urut ASC LIMIT %d", pageSize)

	var details []models.ArchiveEntryDetail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, fmt.Errorf("list archive entry details: %w", err)
	}
	return details, nil
}

// CountAll returns the number of index entries.
func (r *ArchiveEntryRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM daftar_arsip_vital`); err != nil {
		return 0, fmt.Errorf("count archive entries: %w", err)
	}
	return count, nil
}

// CountCreatedBetween counts entries created in [from, to).
func (r *ArchiveEntryRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	const query = `SELECT COUNT(*) FROM daftar_arsip_vital WHERE created_at >= $1 AND created_at < $2`
	if err := r.db.GetContext(ctx, &count, query, from, to); err != nil {
		return 0, fmt.Errorf("count entries in window: %w", err)
	}
	return count, nil
}

// CountPending counts entries considered pending under one of the historical
// status conventions. Unknown convention names are rejected so the caller
// can skip them.
func (r *ArchiveEntryRepository) CountPending(ctx context.Context, convention string) (int64, error) {
	var query string
	switch convention {
	case "is_processed":
		query = `SELECT COUNT(*) FROM daftar_arsip_vital WHERE is_processed = FALSE`
	case "processing_notes":
		query = `SELECT COUNT(*) FROM daftar_arsip_vital WHERE processing_notes ILIKE '%pending%'`
	case "status":
		query = `SELECT COUNT(*) FROM daftar_arsip_vital WHERE status = 'Pending'`
	default:
		return 0, fmt.Errorf("unknown pending convention %q", convention)
	}
	var count int64
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count pending via %s: %w", convention, err)
	}
	return count, nil
}

// prefixColumns qualifies each column of a comma-separated list with a table
// alias for use in join queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
