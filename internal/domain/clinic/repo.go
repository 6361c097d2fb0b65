package clinic

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("clinic not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type Repository interface {
	// CreateWithSettings inserts the clinic and its empty settings row in
	// one transaction; a clinic never exists without settings.
	CreateWithSettings(ctx context.Context, c *Clinic, s *Settings) error
	GetByID(ctx context.Context, id int64) (*Clinic, error)
	List(ctx context.Context, search string) ([]*Clinic, error)
}

type SettingsRepository interface {
	GetByClinicID(ctx context.Context, clinicID int64) (*Settings, error)
	// UpdateFields writes only the given columns and returns the updated
	// row. Column names are fixed by the service layer, never caller input.
	UpdateFields(ctx context.Context, clinicID int64, fields map[string]interface{}) (*Settings, error)
}

type ReviewRepository interface {
	ListByClinic(ctx context.Context, clinicID int64) ([]*Review, error)
	Create(ctx context.Context, r *Review) error
}
