package stock

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("stock item not found")

type ListFilter struct {
	ClinicID *int64
	Search   string
	// LowStock keeps only items at or below their minimum quantity.
	LowStock bool
}

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context, f ListFilter) ([]*Item, error)
	// UpdateFields writes only the given columns and returns the updated
	// row. Column names are fixed by the service layer, never caller input.
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (*Item, error)
	Delete(ctx context.Context, id int64) error
}
