package clinic

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

const clinicCols = `id, name, email, password, specialties, custom_specialties,
	featured, is_new, image, created_at, updated_at`

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Password, &c.Specialties, &c.CustomSpecialties,
		&c.Featured, &c.IsNew, &c.Image, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &c, err
}

func (r *repoPG) CreateWithSettings(ctx context.Context, c *Clinic, s *Settings) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin clinic registration: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO clinics (name, email, password, specialties, custom_specialties, featured, is_new, image)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`,
		c.Name, c.Email, c.Password, c.Specialties, c.CustomSpecialties, c.Featured, c.IsNew, c.Image).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert clinic: %w", err)
	}

	s.ClinicID = c.ID
	err = tx.QueryRow(ctx, `
		INSERT INTO clinic_settings (clinic_id, opening_hours, gallery_image_urls)
		VALUES ($1,$2,$3)
		RETURNING id, created_at, updated_at`,
		s.ClinicID, s.OpeningHours, s.GalleryImageURLs).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert clinic settings: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Clinic, error) {
	return scanClinic(r.pool.QueryRow(ctx, `SELECT `+clinicCols+` FROM clinics WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, search string) ([]*Clinic, error) {
	query := `SELECT ` + clinicCols + ` FROM clinics`
	var args []interface{}
	if search != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Clinic
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// -- Settings --

type settingsRepoPG struct{ pool *pgxpool.Pool }

func NewSettingsRepoPG(pool *pgxpool.Pool) SettingsRepository { return &settingsRepoPG{pool: pool} }

const settingsCols = `id, clinic_id, phone, description, website, name,
	street, number, neighborhood, city, state, cep,
	latitude_address, longitude_address, latitude_map, longitude_map,
	latitude, longitude, specialties, opening_hours,
	cover_image_url, gallery_image_urls, created_at, updated_at`

func scanSettings(row pgx.Row) (*Settings, error) {
	var s Settings
	err := row.Scan(&s.ID, &s.ClinicID, &s.Phone, &s.Description, &s.Website, &s.Name,
		&s.Street, &s.Number, &s.Neighborhood, &s.City, &s.State, &s.CEP,
		&s.LatitudeAddress, &s.LongitudeAddress, &s.LatitudeMap, &s.LongitudeMap,
		&s.Latitude, &s.Longitude, &s.Specialties, &s.OpeningHours,
		&s.CoverImageURL, &s.GalleryImageURLs, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &s, err
}

func (r *settingsRepoPG) GetByClinicID(ctx context.Context, clinicID int64) (*Settings, error) {
	return scanSettings(r.pool.QueryRow(ctx,
		`SELECT `+settingsCols+` FROM clinic_settings WHERE clinic_id = $1`, clinicID))
}

func (r *settingsRepoPG) UpdateFields(ctx context.Context, clinicID int64, fields map[string]interface{}) (*Settings, error) {
	if len(fields) == 0 {
		return r.GetByClinicID(ctx, clinicID)
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	query := `UPDATE clinic_settings SET updated_at = NOW()`
	args := []interface{}{clinicID}
	for i, col := range cols {
		query += fmt.Sprintf(`, %s = $%d`, col, i+2)
		args = append(args, fields[col])
	}
	query += ` WHERE clinic_id = $1 RETURNING ` + settingsCols

	return scanSettings(r.pool.QueryRow(ctx, query, args...))
}

// -- Reviews --

type reviewRepoPG struct{ pool *pgxpool.Pool }

func NewReviewRepoPG(pool *pgxpool.Pool) ReviewRepository { return &reviewRepoPG{pool: pool} }

func (r *reviewRepoPG) ListByClinic(ctx context.Context, clinicID int64) ([]*Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, clinic_id, author, rating, comment, created_at
		FROM reviews WHERE clinic_id = $1 ORDER BY created_at DESC`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ClinicID, &rv.Author, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &rv)
	}
	return items, rows.Err()
}

func (r *reviewRepoPG) Create(ctx context.Context, rv *Review) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO reviews (clinic_id, author, rating, comment)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		rv.ClinicID, rv.Author, rv.Rating, rv.Comment).
		Scan(&rv.ID, &rv.CreatedAt)
}
