package models

// Location is one capacity-tracked physical storage slot.
type Location struct {
	ID         int64   `db:"id" json:"id"`
	KodeLokasi string  `db:"kode_lokasi" json:"kode_lokasi"`
	Ruangan    *string `db:"ruangan" json:"ruangan,omitempty"`
	NoRak      *string `db:"no_rak" json:"no_rak,omitempty"`
	LabelBaris *string `db:"label_baris" json:"label_baris,omitempty"`
	NoPos      *string `db:"no_pos" json:"no_pos,omitempty"`
	Kapasitas  int     `db:"kapasitas" json:"kapasitas"`
	Terpakai   int     `db:"terpakai" json:"terpakai"`
	Notes      *string `db:"notes" json:"notes,omitempty"`
}

// LocationFilter narrows location listing queries.
type LocationFilter struct {
	Query    string
	Page     int
	PageSize int
}
