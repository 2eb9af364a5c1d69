package models

import "time"

// ArchiveEntry is one row of the daftar_arsip_vital index. The descriptive
// lokasi/media/jumlah columns are snapshots copied from the referenced
// documents at indexing time and may drift from the live rows.
type ArchiveEntry struct {
	ID              int64   `db:"id" json:"id"`
	NomorUrut       int64   `db:"nomor_urut" json:"nomor_urut"`
	KodeKlasifikasi *string `db:"kode_klasifikasi" json:"kode_klasifikasi,omitempty"`
	JenisArsipVital *string `db:"jenis_arsip_vital" json:"jenis_arsip_vital,omitempty"`
	NomorItemUraian *string `db:"nomor_item_arsip_uraian" json:"nomor_item_arsip_uraian,omitempty"`
	KurunWaktu      *string `db:"kurun_waktu_berkas" json:"kurun_waktu_berkas,omitempty"`

	MediaBukuTanah *string `db:"media_buku_tanah" json:"media_buku_tanah,omitempty"`
	MediaSuratUkur *string `db:"media_surat_ukur" json:"media_surat_ukur,omitempty"`
	MediaWarkah    *string `db:"media_warkah" json:"media_warkah,omitempty"`

	JumlahBukuTanah *string `db:"jumlah_buku_tanah" json:"jumlah_buku_tanah,omitempty"`
	JumlahSuratUkur *string `db:"jumlah_surat_ukur" json:"jumlah_surat_ukur,omitempty"`
	JumlahWarkah    *string `db:"jumlah_warkah" json:"jumlah_warkah,omitempty"`

	JangkaSimpanAktif   *string `db:"jangka_simpan_aktif" json:"jangka_simpan_aktif,omitempty"`
	JangkaSimpanInaktif *string `db:"jangka_simpan_inaktif" json:"jangka_simpan_inaktif,omitempty"`
	JangkaSimpanKet     *string `db:"jangka_simpan_keterangan" json:"jangka_simpan_keterangan,omitempty"`
	TingkatPerkembangan *string `db:"tingkat_perkembangan" json:"tingkat_perkembangan,omitempty"`

	LokasiBTRuangRak     *string `db:"lokasi_simpan_bt_ruang_rak" json:"lokasi_simpan_bt_ruang_rak,omitempty"`
	LokasiBTNoBoks       *string `db:"lokasi_simpan_bt_no_boks" json:"lokasi_simpan_bt_no_boks,omitempty"`
	LokasiBTNoFolder     *int64  `db:"lokasi_simpan_bt_no_folder" json:"lokasi_simpan_bt_no_folder,omitempty"`
	LokasiSURuangRak     *string `db:"lokasi_simpan_su_ruang_rak" json:"lokasi_simpan_su_ruang_rak,omitempty"`
	LokasiSUNoBoks       *string `db:"lokasi_simpan_su_no_boks" json:"lokasi_simpan_su_no_boks,omitempty"`
	LokasiSUNoFolder     *int64  `db:"lokasi_simpan_su_no_folder" json:"lokasi_simpan_su_no_folder,omitempty"`
	LokasiWarkahRuangRak *string `db:"lokasi_simpan_warkah_ruang_rak" json:"lokasi_simpan_warkah_ruang_rak,omitempty"`
	LokasiWarkahNoBoks   *string `db:"lokasi_simpan_warkah_no_boks" json:"lokasi_simpan_warkah_no_boks,omitempty"`
	LokasiWarkahNoFolder *int64  `db:"lokasi_simpan_warkah_no_folder" json:"lokasi_simpan_warkah_no_folder,omitempty"`

	MetodePerlindunganBT     *string `db:"metode_perlindungan_bt" json:"metode_perlindungan_bt,omitempty"`
	MetodePerlindunganSU     *string `db:"metode_perlindungan_su" json:"metode_perlindungan_su,omitempty"`
	MetodePerlindunganWarkah *string `db:"metode_perlindungan_warkah" json:"metode_perlindungan_warkah,omitempty"`

	Keterangan *string `db:"keterangan" json:"keterangan,omitempty"`

	// Soft references into the three document tables. Plain integers with
	// no guaranteed FK enforcement across schema revisions.
	BukuTanahRef *int64 `db:"id_dokumen_bt" json:"id_dokumen_bt,omitempty"`
	SuratUkurRef *int64 `db:"id_dokumen_su" json:"id_dokumen_su,omitempty"`
	WarkahRef    *int64 `db:"id_dokumen_warkah" json:"id_dokumen_warkah,omitempty"`

	IsProcessed     bool    `db:"is_processed" json:"is_processed"`
	ProcessingNotes *string `db:"processing_notes" json:"processing_notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ArchiveEntryFilter narrows archive index listing queries.
type ArchiveEntryFilter struct {
	Query    string
	Page     int
	PageSize int
}

// ArchiveEntryDetail is the denormalized read model: one index row left
// joined against the live state of its up-to-three referenced documents.
// Joined fields are nil when the reference is null or dangling.
type ArchiveEntryDetail struct {
	ArchiveEntry

	BTNomorDokumen       *string    `db:"bt_nomor_dokumen" json:"bt_nomor_dokumen,omitempty"`
	BTNomorHak           *string    `db:"bt_nomor_hak" json:"bt_nomor_hak,omitempty"`
	BTJenisHak           *string    `db:"bt_jenis_hak" json:"bt_jenis_hak,omitempty"`
	BTTahunTerbit        *time.Time `db:"bt_tahun_terbit" json:"bt_tahun_terbit,omitempty"`
	BTMedia              *string    `db:"bt_media" json:"bt_media,omitempty"`
	BTJumlah             *float64   `db:"bt_jumlah" json:"bt_jumlah,omitempty"`
	BTLokasiPenyimpanan  *string    `db:"bt_lokasi_penyimpanan" json:"bt_lokasi_penyimpanan,omitempty"`
	BTNoBoksDefinitif    *string    `db:"bt_no_boks_definitif" json:"bt_no_boks_definitif,omitempty"`
	BTNomorFolder        *int64     `db:"bt_nomor_folder" json:"bt_nomor_folder,omitempty"`
	BTMetodePerlindungan *string    `db:"bt_metode_perlindungan" json:"bt_metode_perlindungan,omitempty"`

	SUNomorDokumen       *string    `db:"su_nomor_dokumen" json:"su_nomor_dokumen,omitempty"`
	SUNomorHak           *string    `db:"su_nomor_hak" json:"su_nomor_hak,omitempty"`
	SUJenisHak           *string    `db:"su_jenis_hak" json:"su_jenis_hak,omitempty"`
	SUTahunTerbit        *time.Time `db:"su_tahun_terbit" json:"su_tahun_terbit,omitempty"`
	SUMedia              *string    `db:"su_media" json:"su_media,omitempty"`
	SUJumlah             *float64   `db:"su_jumlah" json:"su_jumlah,omitempty"`
	SULokasiPenyimpanan  *string    `db:"su_lokasi_penyimpanan" json:"su_lokasi_penyimpanan,omitempty"`
	SUNoBoksDefinitif    *string    `db:"su_no_boks_definitif" json:"su_no_boks_definitif,omitempty"`
	SUNomorFolder        *int64     `db:"su_nomor_folder" json:"su_nomor_folder,omitempty"`
	SUMetodePerlindungan *string    `db:"su_metode_perlindungan" json:"su_metode_perlindungan,omitempty"`

	WarkahNomorDokumen       *string    `db:"warkah_nomor_dokumen" json:"warkah_nomor_dokumen,omitempty"`
	WarkahNomorHak           *string    `db:"warkah_nomor_hak" json:"warkah_nomor_hak,omitempty"`
	WarkahJenisHak           *string    `db:"warkah_jenis_hak" json:"warkah_jenis_hak,omitempty"`
	WarkahTahunTerbit        *time.Time `db:"warkah_tahun_terbit" json:"warkah_tahun_terbit,omitempty"`
	WarkahMedia              *string    `db:"warkah_media" json:"warkah_media,omitempty"`
	WarkahJumlah             *float64   `db:"warkah_jumlah" json:"warkah_jumlah,omitempty"`
	WarkahLokasiPenyimpanan  *string    `db:"warkah_lokasi_penyimpanan" json:"warkah_lokasi_penyimpanan,omitempty"`
	WarkahNoBoksDefinitif    *string    `db:"warkah_no_boks_definitif" json:"warkah_no_boks_definitif,omitempty"`
	WarkahNomorFolder        *int64     `db:"warkah_nomor_folder" json:"warkah_nomor_folder,omitempty"`
	WarkahMetodePerlindungan *string    `db:"warkah_metode_perlindungan" json:"warkah_metode_perlindungan,omitempty"`
	WarkahUraianInformasi    *string    `db:"warkah_uraian_informasi_arsip" json:"warkah_uraian_informasi_arsip,omitempty"`
}

// CapturedRefs returns the soft references present on the entry, keyed by
// document kind. Nil references are omitted.
func (e *ArchiveEntry) CapturedRefs() map[DocumentKind]int64 {
	refs := make(map[DocumentKind]int64, 3)
	if e.BukuTanahRef != nil {
		refs[KindBukuTanah] = *e.BukuTanahRef
	}
	if e.SuratUkurRef != nil {
		refs[KindSuratUkur] = *e.SuratUkurRef
	}
	if e.WarkahRef != nil {
		refs[KindWarkah] = *e.WarkahRef
	}
	return refs
}
