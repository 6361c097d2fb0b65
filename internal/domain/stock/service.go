package stock

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput accepts the minimum quantity under two historical spellings;
// the camelCase variant arrives as min_quantity after body conversion.
type CreateInput struct {
	ClinicID          int64    `json:"clinic_id"`
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	Quantity          *float64 `json:"quantity"`
	MinQuantity       *float64 `json:"min_quantity"`
	MinQuantityLegacy *float64 `json:"minquantity"`
	Unit              string   `json:"unit"`
	Validity          *string  `json:"validity"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Item, error) {
	minQuantity := firstFloat(in.MinQuantity, in.MinQuantityLegacy)
	switch {
	case in.ClinicID == 0:
		return nil, fmt.Errorf("clinic_id is required")
	case strings.TrimSpace(in.Name) == "":
		return nil, fmt.Errorf("name is required")
	case strings.TrimSpace(in.Category) == "":
		return nil, fmt.Errorf("category is required")
	case in.Quantity == nil:
		return nil, fmt.Errorf("quantity is required")
	case minQuantity == nil:
		return nil, fmt.Errorf("min quantity is required")
	case strings.TrimSpace(in.Unit) == "":
		return nil, fmt.Errorf("unit is required")
	}

	it := &Item{
		ClinicID:    in.ClinicID,
		Name:        in.Name,
		Category:    in.Category,
		Quantity:    *in.Quantity,
		MinQuantity: *minQuantity,
		Unit:        in.Unit,
		Validity:    in.Validity,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Item, error) {
	return s.repo.List(ctx, f)
}

type UpdateInput struct {
	Name              *string  `json:"name"`
	Category          *string  `json:"category"`
	Quantity          *float64 `json:"quantity"`
	MinQuantity       *float64 `json:"min_quantity"`
	MinQuantityLegacy *float64 `json:"minquantity"`
	Unit              *string  `json:"unit"`
	Validity          *string  `json:"validity"`
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*Item, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.Quantity != nil {
		fields["quantity"] = *in.Quantity
	}
	if mq := firstFloat(in.MinQuantity, in.MinQuantityLegacy); mq != nil {
		fields["minquantity"] = *mq
	}
	if in.Unit != nil {
		fields["unit"] = *in.Unit
	}
	if in.Validity != nil {
		fields["validity"] = *in.Validity
	}
	return s.repo.UpdateFields(ctx, id, fields)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
