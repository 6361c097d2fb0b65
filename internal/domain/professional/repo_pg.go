package professional

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const professionalCols = `id, clinic_id, name, specialty, email, phone, photo, resume,
	available, active, created_at, updated_at`

func scanProfessional(row pgx.Row) (*Professional, error) {
	var p Professional
	err := row.Scan(&p.ID, &p.ClinicID, &p.Name, &p.Specialty, &p.Email, &p.Phone, &p.Photo, &p.Resume,
		&p.Available, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Professional) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO professionals (clinic_id, name, specialty, email, phone, photo, resume, available, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at`,
		p.ClinicID, p.Name, p.Specialty, p.Email, p.Phone, p.Photo, p.Resume, p.Available, p.Active).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Professional, error) {
	return scanProfessional(r.pool.QueryRow(ctx,
		`SELECT `+professionalCols+` FROM professionals WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f ListFilter) ([]*Professional, error) {
	query := `SELECT ` + professionalCols + ` FROM professionals WHERE clinic_id = $1`
	args := []interface{}{f.ClinicID}
	if !f.IncludeInactive {
		query += ` AND active = TRUE`
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(` AND name ILIKE $%d`, len(args))
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Professional
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repoPG) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (*Professional, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	query := `UPDATE professionals SET updated_at = NOW()`
	args := []interface{}{id}
	for i, col := range cols {
		query += fmt.Sprintf(`, %s = $%d`, col, i+2)
		args = append(args, fields[col])
	}
	query += ` WHERE id = $1 RETURNING ` + professionalCols

	return scanProfessional(r.pool.QueryRow(ctx, query, args...))
}
