package appointment

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

const appointmentCols = `id, clinic_id, patientid, patientname, patientphone,
	professionalid, service, serviceid, date, time, endtime, status, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.ClinicID, &a.PatientID, &a.PatientName, &a.PatientPhone,
		&a.ProfessionalID, &a.Service, &a.ServiceID, &a.Date, &a.Time, &a.EndTime,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO appointments (clinic_id, patientid, patientname, patientphone,
			professionalid, service, serviceid, date, time, endtime, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at`,
		a.ClinicID, a.PatientID, a.PatientName, a.PatientPhone,
		a.ProfessionalID, a.Service, a.ServiceID, a.Date, a.Time, a.EndTime, a.Status).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f ListFilter) ([]*Appointment, error) {
	query := `SELECT ` + appointmentCols + ` FROM appointments WHERE clinic_id = $1`
	args := []interface{}{f.ClinicID}
	if f.Date != "" {
		args = append(args, f.Date)
		query += fmt.Sprintf(` AND date = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY date DESC, time DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (*Appointment, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	query := `UPDATE appointments SET updated_at = NOW()`
	args := []interface{}{id}
	for i, col := range cols {
		query += fmt.Sprintf(`, %s = $%d`, col, i+2)
		args = append(args, fields[col])
	}
	query += ` WHERE id = $1 RETURNING ` + appointmentCols

	return scanAppointment(r.pool.QueryRow(ctx, query, args...))
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
