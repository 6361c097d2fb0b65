package professional

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinicdesk/clinicdesk/internal/platform/uploads"
)

type Service struct {
	repo  Repository
	files uploads.Store
}

func NewService(repo Repository, files uploads.Store) *Service {
	return &Service{repo: repo, files: files}
}

type CreateInput struct {
	ClinicID  int64   `json:"clinic_id"`
	Name      string  `json:"name"`
	Specialty *string `json:"specialty"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Photo     *string `json:"photo"`
	Resume    *string `json:"resume"`
	Available *bool   `json:"available"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Professional, error) {
	if in.ClinicID == 0 {
		return nil, fmt.Errorf("clinic_id is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	photo, err := s.resolvePhoto(in.Photo)
	if err != nil {
		return nil, err
	}

	p := &Professional{
		ClinicID:  in.ClinicID,
		Name:      in.Name,
		Specialty: in.Specialty,
		Email:     in.Email,
		Phone:     in.Phone,
		Photo:     photo,
		Resume:    in.Resume,
		Available: true,
		Active:    true,
	}
	if in.Available != nil {
		p.Available = *in.Available
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Professional, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Professional, error) {
	if f.ClinicID == 0 {
		return nil, fmt.Errorf("clinic_id is required")
	}
	return s.repo.List(ctx, f)
}

type UpdateInput struct {
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Photo     *string `json:"photo"`
	Resume    *string `json:"resume"`
	Available *bool   `json:"available"`
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*Professional, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Specialty != nil {
		fields["specialty"] = *in.Specialty
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.Photo != nil {
		photo, err := s.resolvePhoto(in.Photo)
		if err != nil {
			return nil, err
		}
		fields["photo"] = *photo
	}
	if in.Resume != nil {
		fields["resume"] = *in.Resume
	}
	if in.Available != nil {
		fields["available"] = *in.Available
	}
	return s.repo.UpdateFields(ctx, id, fields)
}

// Deactivate is the delete operation: the row stays, active flips to false.
func (s *Service) Deactivate(ctx context.Context, id int64) (*Professional, error) {
	return s.repo.UpdateFields(ctx, id, map[string]interface{}{"active": false})
}

func (s *Service) Reactivate(ctx context.Context, id int64) (*Professional, error) {
	return s.repo.UpdateFields(ctx, id, map[string]interface{}{"active": true})
}

func (s *Service) resolvePhoto(photo *string) (*string, error) {
	if photo == nil {
		return nil, nil
	}
	if uploads.IsDataURL(*photo) {
		name, err := s.files.SaveDataURL("photo", *photo)
		if err != nil {
			return nil, err
		}
		return &name, nil
	}
	return photo, nil
}
