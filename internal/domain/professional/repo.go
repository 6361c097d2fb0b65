package professional

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("professional not found")

type ListFilter struct {
	ClinicID        int64
	Search          string
	IncludeInactive bool
}

type Repository interface {
	Create(ctx context.Context, p *Professional) error
	GetByID(ctx context.Context, id int64) (*Professional, error)
	List(ctx context.Context, f ListFilter) ([]*Professional, error)
	// UpdateFields writes only the given columns and returns the updated
	// row. Column names are fixed by the service layer, never caller input.
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (*Professional, error)
}
