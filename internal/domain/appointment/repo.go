package appointment

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("appointment not found")

type ListFilter struct {
	ClinicID int64
	Date     string
	Status   string
}

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	// List returns rows ordered date descending, time descending.
	List(ctx context.Context, f ListFilter) ([]*Appointment, error)
	// UpdateFields writes only the given columns and returns the updated
	// row. Column names are fixed by the service layer, never caller input.
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (*Appointment, error)
	Delete(ctx context.Context, id int64) error
}
