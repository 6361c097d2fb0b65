package catalog

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("service not found")

type Repository interface {
	Create(ctx context.Context, s *Service) error
	GetByID(ctx context.Context, id int64) (*Service, error)
	List(ctx context.Context, clinicID *int64, search string) ([]*Service, error)
	// UpdateFields writes only the given columns and returns the updated
	// row. Column names are fixed by the service layer, never caller input.
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (*Service, error)
	Delete(ctx context.Context, id int64) error
}
