package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Service struct {
	repo Repository
	loc  *time.Location
}

// NewService takes the clinic timezone used to derive UTC instants from
// stored wall-clock values.
func NewService(repo Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc}
}

func (s *Service) Create(ctx context.Context, clinicID int64, in Input) (map[string]interface{}, error) {
	switch {
	case in.PatientName == nil || strings.TrimSpace(*in.PatientName) == "":
		return nil, fmt.Errorf("patient name is required")
	case in.Service == nil || strings.TrimSpace(*in.Service) == "":
		return nil, fmt.Errorf("service is required")
	case in.Date == nil || *in.Date == "":
		return nil, fmt.Errorf("date is required")
	case in.Time == nil || *in.Time == "":
		return nil, fmt.Errorf("time is required")
	case in.EndTime == nil || *in.EndTime == "":
		return nil, fmt.Errorf("end time is required")
	case in.Status == nil || *in.Status == "":
		return nil, fmt.Errorf("status is required")
	case in.ProfessionalID == nil:
		return nil, fmt.Errorf("professional id is required")
	}
	if !validStatus(*in.Status) {
		return nil, fmt.Errorf("invalid status %q", *in.Status)
	}

	a := &Appointment{
		ClinicID:       clinicID,
		PatientID:      in.PatientID,
		PatientName:    *in.PatientName,
		PatientPhone:   in.PatientPhone,
		ProfessionalID: *in.ProfessionalID,
		Service:        *in.Service,
		ServiceID:      in.ServiceID,
		Date:           *in.Date,
		Time:           *in.Time,
		EndTime:        *in.EndTime,
		Status:         *in.Status,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.Enrich(a), nil
}

func (s *Service) Get(ctx context.Context, clinicID, id int64) (map[string]interface{}, error) {
	a, err := s.scoped(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	return s.Enrich(a), nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]map[string]interface{}, error) {
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, a := range items {
		out = append(out, s.Enrich(a))
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, clinicID, id int64, in Input) (map[string]interface{}, error) {
	if _, err := s.scoped(ctx, clinicID, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.PatientID != nil {
		fields["patientid"] = *in.PatientID
	}
	if in.PatientName != nil {
		fields["patientname"] = *in.PatientName
	}
	if in.PatientPhone != nil {
		fields["patientphone"] = *in.PatientPhone
	}
	if in.ProfessionalID != nil {
		fields["professionalid"] = *in.ProfessionalID
	}
	if in.Service != nil {
		fields["service"] = *in.Service
	}
	if in.ServiceID != nil {
		fields["serviceid"] = *in.ServiceID
	}
	if in.Date != nil {
		fields["date"] = *in.Date
	}
	if in.Time != nil {
		fields["time"] = *in.Time
	}
	if in.EndTime != nil {
		fields["endtime"] = *in.EndTime
	}
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return nil, fmt.Errorf("invalid status %q", *in.Status)
		}
		fields["status"] = *in.Status
	}

	a, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return s.Enrich(a), nil
}

func (s *Service) Delete(ctx context.Context, clinicID, id int64) error {
	if _, err := s.scoped(ctx, clinicID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// scoped loads the row and hides it when it belongs to another clinic.
func (s *Service) scoped(ctx context.Context, clinicID, id int64) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ClinicID != clinicID {
		return nil, ErrNotFound
	}
	return a, nil
}
