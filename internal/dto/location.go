package dto

// LocationPayload carries the writable fields of a storage slot.
type LocationPayload struct {
	KodeLokasi string  `json:"kode_lokasi" validate:"required"`
	Ruangan    *string `json:"ruangan"`
	NoRak      *string `json:"no_rak"`
	LabelBaris *string `json:"label_baris"`
	NoPos      *string `json:"no_pos"`
	Kapasitas  int     `json:"kapasitas" validate:"gte=0"`
	Terpakai   int     `json:"terpakai" validate:"gte=0"`
	Notes      *string `json:"notes"`
}
