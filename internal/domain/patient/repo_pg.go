package patient

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const patientCols = `id, clinic_id, name, email, phone, birthdate,
	address, city, state, zipcode, photo, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.ClinicID, &p.Name, &p.Email, &p.Phone, &p.Birthdate,
		&p.Address, &p.City, &p.State, &p.Zipcode, &p.Photo, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO patients (clinic_id, name, email, phone, birthdate, address, city, state, zipcode, photo)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at`,
		p.ClinicID, p.Name, p.Email, p.Phone, p.Birthdate, p.Address, p.City, p.State, p.Zipcode, p.Photo).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE lower(email) = lower($1) ORDER BY created_at DESC LIMIT 1`, email))
}

func (r *repoPG) List(ctx context.Context, clinicID *int64, search string) ([]*Patient, error) {
	query := `SELECT ` + patientCols + ` FROM patients WHERE 1=1`
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

	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repoPG) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (*Patient, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	query := `UPDATE patients SET updated_at = NOW()`
	args := []interface{}{id}
	for i, col := range cols {
		query += fmt.Sprintf(`, %s = $%d`, col, i+2)
		args = append(args, fields[col])
	}
	query += ` WHERE id = $1 RETURNING ` + patientCols

	p, err := scanPatient(r.pool.QueryRow(ctx, query, args...))
	if isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	return p, err
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// -- Procedures --

type procedureRepoPG struct{ pool *pgxpool.Pool }

func NewProcedureRepoPG(pool *pgxpool.Pool) ProcedureRepository { return &procedureRepoPG{pool: pool} }

const procedureCols = `id, patient_id, clinic_id, description, professional, value, date, created_at`

func scanProcedure(row pgx.Row) (*Procedure, error) {
	var p Procedure
	err := row.Scan(&p.ID, &p.PatientID, &p.ClinicID, &p.Description, &p.Professional,
		&p.Value, &p.Date, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *procedureRepoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Procedure, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+procedureCols+` FROM patient_procedures WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Procedure
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *procedureRepoPG) GetByID(ctx context.Context, id int64) (*Procedure, error) {
	return scanProcedure(r.pool.QueryRow(ctx,
		`SELECT `+procedureCols+` FROM patient_procedures WHERE id = $1`, id))
}

func (r *procedureRepoPG) Create(ctx context.Context, p *Procedure) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO patient_procedures (patient_id, clinic_id, description, professional, value, date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`,
		p.PatientID, p.ClinicID, p.Description, p.Professional, p.Value, p.Date).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *procedureRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patient_procedures WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *procedureRepoPG) DeleteByPatient(ctx context.Context, patientID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM patient_procedures WHERE patient_id = $1`, patientID)
	return err
}

func (r *procedureRepoPG) ListImages(ctx context.Context, procedureID int64) ([]*ProcedureImage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, procedure_id, filename, created_at
		FROM procedure_images WHERE procedure_id = $1 ORDER BY created_at ASC`, procedureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*ProcedureImage
	for rows.Next() {
		var img ProcedureImage
		if err := rows.Scan(&img.ID, &img.ProcedureID, &img.Filename, &img.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &img)
	}
	return items, rows.Err()
}

func (r *procedureRepoPG) AddImage(ctx context.Context, img *ProcedureImage) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO procedure_images (procedure_id, filename)
		VALUES ($1,$2) RETURNING id, created_at`,
		img.ProcedureID, img.Filename).
		Scan(&img.ID, &img.CreatedAt)
}

func (r *procedureRepoPG) DeleteImagesByProcedure(ctx context.Context, procedureID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM procedure_images WHERE procedure_id = $1`, procedureID)
	return err
}

// -- Patient images --

type imageRepoPG struct{ pool *pgxpool.Pool }

func NewImageRepoPG(pool *pgxpool.Pool) ImageRepository { return &imageRepoPG{pool: pool} }

const imageCols = `id, patient_id, filename, description, created_at`

func scanImage(row pgx.Row) (*Image, error) {
	var img Image
	err := row.Scan(&img.ID, &img.PatientID, &img.Filename, &img.Description, &img.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &img, err
}

func (r *imageRepoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Image, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+imageCols+` FROM patient_images WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, img)
	}
	return items, rows.Err()
}

func (r *imageRepoPG) GetByID(ctx context.Context, id int64) (*Image, error) {
	return scanImage(r.pool.QueryRow(ctx, `SELECT `+imageCols+` FROM patient_images WHERE id = $1`, id))
}

func (r *imageRepoPG) Create(ctx context.Context, img *Image) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO patient_images (patient_id, filename, description)
		VALUES ($1,$2,$3) RETURNING id, created_at`,
		img.PatientID, img.Filename, img.Description).
		Scan(&img.ID, &img.CreatedAt)
}

func (r *imageRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patient_images WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *imageRepoPG) DeleteByPatient(ctx context.Context, patientID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM patient_images WHERE patient_id = $1`, patientID)
	return err
}

// -- Anamnesis --

type anamneseRepoPG struct{ pool *pgxpool.Pool }

func NewAnamneseRepoPG(pool *pgxpool.Pool) AnamneseRepository { return &anamneseRepoPG{pool: pool} }

const anamneseCols = `id, patient_id, professional_id, anamnese, tcle_accepted, tcle_signed_at, created_at, updated_at`

func scanAnamnese(row pgx.Row) (*Anamnese, error) {
	var a Anamnese
	err := row.Scan(&a.ID, &a.PatientID, &a.ProfessionalID, &a.Anamnese,
		&a.TCLEAccepted, &a.TCLESignedAt, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *anamneseRepoPG) Create(ctx context.Context, a *Anamnese) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO anamneses (patient_id, professional_id, anamnese, tcle_accepted, tcle_signed_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at`,
		a.PatientID, a.ProfessionalID, a.Anamnese, a.TCLEAccepted, a.TCLESignedAt).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *anamneseRepoPG) LatestByPatient(ctx context.Context, patientID int64) (*Anamnese, error) {
	return scanAnamnese(r.pool.QueryRow(ctx,
		`SELECT `+anamneseCols+` FROM anamneses WHERE patient_id = $1 ORDER BY updated_at DESC LIMIT 1`, patientID))
}

func (r *anamneseRepoPG) HistoryByPatient(ctx context.Context, patientID int64) ([]*Anamnese, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+anamneseCols+` FROM anamneses WHERE patient_id = $1 ORDER BY updated_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Anamnese
	for rows.Next() {
		a, err := scanAnamnese(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *anamneseRepoPG) DeleteByPatient(ctx context.Context, patientID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM anamneses WHERE patient_id = $1`, patientID)
	return err
}
