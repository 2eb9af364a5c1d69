package dto

// ArchiveEntryPayload carries the writable fields of an archive index entry
// for both create and update. The nomor_urut is the business-unique ordering
// number; the three id_dokumen_* fields are optional soft references.
type ArchiveEntryPayload struct {
	NomorUrut       int64   `json:"nomor_urut" validate:"required,gt=0"`
	KodeKlasifikasi *string `json:"kode_klasifikasi"`
	JenisArsipVital *string `json:"jenis_arsip_vital"`
	NomorItemUraian *string `json:"nomor_item_arsip_uraian"`
	KurunWaktu      *string `json:"kurun_waktu_berkas"`

	MediaBukuTanah *string `json:"media_buku_tanah"`
	MediaSuratUkur *string `json:"media_surat_ukur"`
	MediaWarkah    *string `json:"media_warkah"`

	JumlahBukuTanah *string `json:"jumlah_buku_tanah"`
	JumlahSuratUkur *string `json:"jumlah_surat_ukur"`
	JumlahWarkah    *string `json:"jumlah_warkah"`

	JangkaSimpanAktif   *string `json:"jangka_simpan_aktif"`
	JangkaSimpanInaktif *string `json:"jangka_simpan_inaktif"`
	JangkaSimpanKet     *string `json:"jangka_simpan_keterangan"`
	TingkatPerkembangan *string `json:"tingkat_perkembangan"`

	LokasiBTRuangRak     *string `json:"lokasi_simpan_bt_ruang_rak"`
	LokasiBTNoBoks       *string `json:"lokasi_simpan_bt_no_boks"`
	LokasiBTNoFolder     *int64  `json:"lokasi_simpan_bt_no_folder"`
	LokasiSURuangRak     *string `json:"lokasi_simpan_su_ruang_rak"`
	LokasiSUNoBoks       *string `json:"lokasi_simpan_su_no_boks"`
	LokasiSUNoFolder     *int64  `json:"lokasi_simpan_su_no_folder"`
	LokasiWarkahRuangRak *string `json:"lokasi_simpan_warkah_ruang_rak"`
	LokasiWarkahNoBoks   *string `json:"lokasi_simpan_warkah_no_boks"`
	LokasiWarkahNoFolder *int64  `json:"lokasi_simpan_warkah_no_folder"`

	MetodePerlindunganBT     *string `json:"metode_perlindungan_bt"`
	MetodePerlindunganSU     *string `json:"metode_perlindungan_su"`
	MetodePerlindunganWarkah *string `json:"metode_perlindungan_warkah"`

	Keterangan *string `json:"keterangan"`

	BukuTanahRef *int64 `json:"id_dokumen_bt" validate:"omitempty,gt=0"`
	SuratUkurRef *int64 `json:"id_dokumen_su" validate:"omitempty,gt=0"`
	WarkahRef    *int64 `json:"id_dokumen_warkah" validate:"omitempty,gt=0"`

	IsProcessed     *bool   `json:"is_processed"`
	ProcessingNotes *string `json:"processing_notes"`
}

// ArchiveEntryListRequest captures query parameters for the index listing.
type ArchiveEntryListRequest struct {
	Query    string
	Page     int
	PageSize int
}
