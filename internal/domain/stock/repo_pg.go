package stock

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

const itemCols = `id, clinic_id, name, category, quantity, minquantity, unit, validity, created_at, updatedat`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.ClinicID, &it.Name, &it.Category, &it.Quantity,
		&it.MinQuantity, &it.Unit, &it.Validity, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &it, err
}

func (r *repoPG) Create(ctx context.Context, it *Item) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO stock (clinic_id, name, category, quantity, minquantity, unit, validity)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updatedat`,
		it.ClinicID, it.Name, it.Category, it.Quantity, it.MinQuantity, it.Unit, it.Validity).
		Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Item, error) {
	return scanItem(r.pool.QueryRow(ctx, `SELECT `+itemCols+` FROM stock WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f ListFilter) ([]*Item, error) {
	query := `SELECT ` + itemCols + ` FROM stock WHERE 1=1`
	var args []interface{}
	if f.ClinicID != nil {
		args = append(args, *f.ClinicID)
		query += fmt.Sprintf(` AND clinic_id = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(` AND name ILIKE $%d`, len(args))
	}
	if f.LowStock {
		query += ` AND quantity <= minquantity`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repoPG) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (*Item, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	query := `UPDATE stock SET updatedat = NOW()`
	args := []interface{}{id}
	for i, col := range cols {
		query += fmt.Sprintf(`, %s = $%d`, col, i+2)
		args = append(args, fields[col])
	}
	query += ` WHERE id = $1 RETURNING ` + itemCols

	return scanItem(r.pool.QueryRow(ctx, query, args...))
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM stock WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
