package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kantah-go/arsip-vital-api/internal/models"
)

const locationColumns = `id, kode_lokasi, ruangan, no_rak, label_baris, no_pos, kapasitas, terpakai, notes`

// LocationRepository handles lokasi persistence.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository constructs the repository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Create inserts a storage slot.
func (r *LocationRepository) Create(ctx context.Context, loc *models.Location) error {
	const query = `INSERT INTO lokasi (kode_lokasi, ruangan, no_rak, label_baris, no_pos, kapasitas, terpakai, notes)
	VALUES (:kode_lokasi, :ruangan, :no_rak, :label_baris, :no_pos, :kapasitas, :terpakai, :notes)
	RETURNING id`
	bound, args, err := r.db.BindNamed(query, loc)
	if err != nil {
		return fmt.Errorf("bind create lokasi: %w", err)
	}
	if err := r.db.GetContext(ctx, &loc.ID, bound, args...); err != nil {
		return fmt.Errorf("create lokasi: %w", err)
	}
	return nil
}

// GetByID retrieves one storage slot.
func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	const query = `SELECT ` + locationColumns + ` FROM lokasi WHERE id = $1`
	var loc models.Location
	if err := r.db.GetContext(ctx, &loc, query, id); err != nil {
		return nil, err
	}
	return &loc, nil
}

// List returns slots ordered by kode_lokasi with the total count.
func (r *LocationRepository) List(ctx context.Context, filter models.LocationFilter) ([]models.Location, int, error) {
	where := ""
	args := make([]interface{}, 0, 1)
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		where = " WHERE (kode_lokasi ILIKE $1 OR ruangan ILIKE $1 OR no_rak ILIKE $1)"
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM lokasi"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count lokasi: %w", err)
	}

	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 100
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	query := `SELECT ` + locationColumns + ` FROM lokasi` + where +
		fmt.Sprintf(" ORDER BY kode_lokasi ASC LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)

	var locations []models.Location
	if err := r.db.SelectContext(ctx, &locations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lokasi: %w", err)
	}
	return locations, total, nil
}

// Update rewrites all writable columns of a slot.
func (r *LocationRepository) Update(ctx context.Context, loc *models.Location) error {
	const query = `UPDATE lokasi SET kode_lokasi = :kode_lokasi, ruangan = :ruangan, no_rak = :no_rak,
	 label_baris = :label_baris, no_pos = :no_pos, kapasitas = :kapasitas, terpakai = :terpakai, notes = :notes
	 WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, loc)
	if err != nil {
		return fmt.Errorf("update lokasi: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check lokasi update rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a slot permanently.
func (r *LocationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lokasi WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lokasi: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check lokasi delete rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
