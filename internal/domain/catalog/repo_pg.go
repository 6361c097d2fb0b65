package catalog

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

const serviceCols = `id, clinic_id, name, duration, description, value, price, created_at, updated_at`

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	err := row.Scan(&s.ID, &s.ClinicID, &s.Name, &s.Duration, &s.Description,
		&s.Value, &s.Price, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &s, err
}

func (r *repoPG) Create(ctx context.Context, s *Service) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO services (clinic_id, name, duration, description, value, price)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`,
		s.ClinicID, s.Name, s.Duration, s.Description, s.Value, s.Price).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Service, error) {
	return scanService(r.pool.QueryRow(ctx, `SELECT `+serviceCols+` FROM services WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, clinicID *int64, search string) ([]*Service, error) {
	query := `SELECT ` + serviceCols + ` FROM services WHERE 1=1`
	var args []interface{}
	if clinicID != nil {
		args = append(args, *clinicID)
		query += fmt.Sprintf(` AND clinic_id = $%d`, len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(` AND name ILIKE $%d`, len(args))
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *repoPG) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (*Service, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	query := `UPDATE services SET updated_at = NOW()`
	args := []interface{}{id}
	for i, col := range cols {
		query += fmt.Sprintf(`, %s = $%d`, col, i+2)
		args = append(args, fields[col])
	}
	query += ` WHERE id = $1 RETURNING ` + serviceCols

	return scanService(r.pool.QueryRow(ctx, query, args...))
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
