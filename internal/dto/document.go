package dto

// DocumentPayload carries the writable fields of a document row. Multipart
// form fields map 1:1; tahun_terbit accepts dd-mm-yyyy, dd/mm/yyyy,
// yyyy-mm-dd and bare YYYY.
type DocumentPayload struct {
	NomorDokumen        *string `form:"nomor_dokumen" json:"nomor_dokumen"`
	NomorHak            *string `form:"nomor_hak" json:"nomor_hak"`
	JenisHak            *string `form:"jenis_hak" json:"jenis_hak"`
	TahunTerbit         *string `form:"tahun_terbit" json:"tahun_terbit"`
	KodeKlasifikasi     *string `form:"kode_klasifikasi" json:"kode_klasifikasi"`
	JenisArsipVital     *string `form:"jenis_arsip_vital" json:"jenis_arsip_vital"`
	UraianInformasi     *string `form:"uraian_informasi_arsip" json:"uraian_informasi_arsip"`
	Media               *string `form:"media" json:"media"`
	Jumlah              *string `form:"jumlah" json:"jumlah"`
	JangkaSimpanAktif   *string `form:"jangka_simpan_aktif" json:"jangka_simpan_aktif"`
	JangkaSimpanInaktif *string `form:"jangka_simpan_inaktif" json:"jangka_simpan_inaktif"`
	JangkaSimpanKet     *string `form:"jangka_simpan_keterangan" json:"jangka_simpan_keterangan"`
	TingkatPerkembangan *string `form:"tingkat_perkembangan" json:"tingkat_perkembangan"`
	LokasiPenyimpanan   *string `form:"lokasi_penyimpanan" json:"lokasi_penyimpanan"`
	NoBoksDefinitif     *string `form:"no_boks_definitif" json:"no_boks_definitif"`
	NomorFolder         *string `form:"nomor_folder" json:"nomor_folder"`
	MetodePerlindungan  *string `form:"metode_perlindungan" json:"metode_perlindungan"`
	Keterangan          *string `form:"keterangan" json:"keterangan"`
}

// DocumentListRequest captures query parameters for document listings.
type DocumentListRequest struct {
	Query    string
	Page     int
	PageSize int
}

// UploadedFile describes one attachment accepted by the upload boundary.
type UploadedFile struct {
	OriginalName string
	RelativePath string
	SizeBytes    int64
	MimeType     string
}
