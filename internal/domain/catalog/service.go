package catalog

import (
	"context"
	"fmt"
	"strings"
)

type Catalog struct {
	repo Repository
}

func NewCatalog(repo Repository) *Catalog {
	return &Catalog{repo: repo}
}

type CreateInput struct {
	ClinicID    int64    `json:"clinic_id"`
	Name        string   `json:"name"`
	Duration    int      `json:"duration"`
	Description *string  `json:"description"`
	Value       *float64 `json:"value"`
	Price       *float64 `json:"price"`
}

func (c *Catalog) Create(ctx context.Context, in CreateInput) (*Service, error) {
	if in.ClinicID == 0 {
		return nil, fmt.Errorf("clinic_id is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if in.Duration <= 0 {
		return nil, fmt.Errorf("duration is required")
	}
	if in.Value == nil && in.Price == nil {
		return nil, fmt.Errorf("value or price is required")
	}

	value, price := syncAmount(in.Value, in.Price)
	s := &Service{
		ClinicID:    in.ClinicID,
		Name:        in.Name,
		Duration:    in.Duration,
		Description: in.Description,
		Value:       value,
		Price:       price,
	}
	if err := c.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Catalog) Get(ctx context.Context, id int64) (*Service, error) {
	return c.repo.GetByID(ctx, id)
}

func (c *Catalog) List(ctx context.Context, clinicID *int64, search string) ([]*Service, error) {
	return c.repo.List(ctx, clinicID, search)
}

type UpdateInput struct {
	Name        *string  `json:"name"`
	Duration    *int     `json:"duration"`
	Description *string  `json:"description"`
	Value       *float64 `json:"value"`
	Price       *float64 `json:"price"`
}

func (c *Catalog) Update(ctx context.Context, id int64, in UpdateInput) (*Service, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Duration != nil {
		if *in.Duration <= 0 {
			return nil, fmt.Errorf("duration must be positive")
		}
		fields["duration"] = *in.Duration
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Value != nil || in.Price != nil {
		value, price := syncAmount(in.Value, in.Price)
		fields["value"] = *value
		fields["price"] = *price
	}
	return c.repo.UpdateFields(ctx, id, fields)
}

func (c *Catalog) Delete(ctx context.Context, id int64) error {
	return c.repo.Delete(ctx, id)
}

// syncAmount mirrors whichever of value/price was supplied into the other,
// keeping the two legacy columns equal.
func syncAmount(value, price *float64) (*float64, *float64) {
	if value == nil {
		value = price
	}
	if price == nil {
		price = value
	}
	return value, price
}
