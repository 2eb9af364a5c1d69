package models

import (
	"encoding/json"
	"time"
)

// DocumentKind selects one of the three archive document tables.
type DocumentKind string

const (
	KindBukuTanah DocumentKind = "buku_tanah"
	KindSuratUkur DocumentKind = "surat_ukur"
	KindWarkah    DocumentKind = "warkah"
)

// Valid reports whether the kind names a known document table.
func (k DocumentKind) Valid() bool {
	switch k {
	case KindBukuTanah, KindSuratUkur, KindWarkah:
		return true
	}
	return false
}

// Table returns the backing table name for the kind.
func (k DocumentKind) Table() string {
	return string(k)
}

// IDColumn returns the primary-key column of the kind's table.
func (k DocumentKind) IDColumn() string {
	switch k {
	case KindBukuTanah:
		return "id_buku_tanah"
	case KindSuratUkur:
		return "id_surat_ukur"
	default:
		return "id_warkah"
	}
}

// Slug returns the URL path segment used for the kind.
func (k DocumentKind) Slug() string {
	switch k {
	case KindBukuTanah:
		return "buku-tanah"
	case KindSuratUkur:
		return "surat-ukur"
	default:
		return "warkah"
	}
}

// Closed enum domains shared by all three document tables.
var (
	AllowedJenisHak            = []string{"HM", "HGB", "HP", "HGU", "Pengelolaan", "Lainnya"}
	AllowedMedia               = []string{"Kertas", "Digital", "Microfilm"}
	AllowedTingkatPerkembangan = []string{"Asli", "Copy", "Salinan"}
	AllowedMetodePerlindungan  = []string{"Vaulting", "Cloud", "Physical"}
)

func inSet(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// ValidJenisHak reports whether v is a known rights type.
func ValidJenisHak(v string) bool { return inSet(AllowedJenisHak, v) }

// ValidMedia reports whether v is a known media type.
func ValidMedia(v string) bool { return inSet(AllowedMedia, v) }

// ValidTingkatPerkembangan reports whether v is a known development level.
func ValidTingkatPerkembangan(v string) bool { return inSet(AllowedTingkatPerkembangan, v) }

// ValidMetodePerlindungan reports whether v is a known protection method.
func ValidMetodePerlindungan(v string) bool { return inSet(AllowedMetodePerlindungan, v) }

// Document is one row of a document table. The three tables share one column
// shape; only the primary-key column name differs and queries alias it to id.
type Document struct {
	ID                   int64      `db:"id" json:"id"`
	NomorDokumen         *string    `db:"nomor_dokumen" json:"nomor_dokumen,omitempty"`
	NomorHak             *string    `db:"nomor_hak" json:"nomor_hak,omitempty"`
	JenisHak             *string    `db:"jenis_hak" json:"jenis_hak,omitempty"`
	TahunTerbit          *time.Time `db:"tahun_terbit" json:"tahun_terbit,omitempty"`
	KodeKlasifikasi      *string    `db:"kode_klasifikasi" json:"kode_klasifikasi,omitempty"`
	JenisArsipVital      *string    `db:"jenis_arsip_vital" json:"jenis_arsip_vital,omitempty"`
	UraianInformasiArsip *string    `db:"uraian_informasi_arsip" json:"uraian_informasi_arsip,omitempty"`
	Media                *string    `db:"media" json:"media,omitempty"`
	Jumlah               *float64   `db:"jumlah" json:"jumlah,omitempty"`
	JangkaSimpanAktif    *string    `db:"jangka_simpan_aktif" json:"jangka_simpan_aktif,omitempty"`
	JangkaSimpanInaktif  *string    `db:"jangka_simpan_inaktif" json:"jangka_simpan_inaktif,omitempty"`
	JangkaSimpanKet      *string    `db:"jangka_simpan_keterangan" json:"jangka_simpan_keterangan,omitempty"`
	TingkatPerkembangan  *string    `db:"tingkat_perkembangan" json:"tingkat_perkembangan,omitempty"`
	LokasiPenyimpanan    *string    `db:"lokasi_penyimpanan" json:"lokasi_penyimpanan,omitempty"`
	NoBoksDefinitif      *string    `db:"no_boks_definitif" json:"no_boks_definitif,omitempty"`
	NomorFolder          *int64     `db:"nomor_folder" json:"nomor_folder,omitempty"`
	MetodePerlindungan   *string    `db:"metode_perlindungan" json:"metode_perlindungan,omitempty"`
	Keterangan           *string    `db:"keterangan" json:"keterangan,omitempty"`
	Files                *string    `db:"files" json:"-"`
	QRPath               *string    `db:"qr_path" json:"qr_path,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// FileList decodes the JSON-encoded relative paths of uploaded attachments.
// A null or malformed column yields an empty list.
func (d *Document) FileList() []string {
	if d.Files == nil || *d.Files == "" {
		return nil
	}
	var paths []string
	if err := json.Unmarshal([]byte(*d.Files), &paths); err != nil {
		return nil
	}
	return paths
}

// SetFileList encodes relative paths into the files column. An empty list
// stores NULL.
func (d *Document) SetFileList(paths []string) {
	if len(paths) == 0 {
		d.Files = nil
		return
	}
	raw, err := json.Marshal(paths)
	if err != nil {
		return
	}
	s := string(raw)
	d.Files = &s
}

// DocumentFilter narrows document listing queries. Query is matched as an
// exact id when it parses as a positive integer, otherwise as a substring
// over the searchable text columns.
type DocumentFilter struct {
	Query    string
	Page     int
	PageSize int
}
