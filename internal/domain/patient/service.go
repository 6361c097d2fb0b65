package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/platform/uploads"
)

type Service struct {
	patients   Repository
	procedures ProcedureRepository
	images     ImageRepository
	anamneses  AnamneseRepository
	files      uploads.Store
	logger     zerolog.Logger
}

func NewService(patients Repository, procedures ProcedureRepository, images ImageRepository,
	anamneses AnamneseRepository, files uploads.Store, logger zerolog.Logger) *Service {
	return &Service{
		patients:   patients,
		procedures: procedures,
		images:     images,
		anamneses:  anamneses,
		files:      files,
		logger:     logger,
	}
}

type CreateInput struct {
	ClinicID  *int64  `json:"clinic_id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Birthdate *string `json:"birthdate"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Zipcode   *string `json:"zipcode"`
	Photo     *string `json:"photo"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Patient, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, fmt.Errorf("email is required")
	}

	photo, err := s.resolvePhoto(in.Photo)
	if err != nil {
		return nil, err
	}

	p := &Patient{
		ClinicID:  in.ClinicID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Birthdate: in.Birthdate,
		Address:   in.Address,
		City:      in.City,
		State:     in.State,
		Zipcode:   in.Zipcode,
		Photo:     photo,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) Profile(ctx context.Context, email string) (*Patient, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("email is required")
	}
	return s.patients.GetByEmail(ctx, email)
}

func (s *Service) List(ctx context.Context, clinicID *int64, search string) ([]*Patient, error) {
	return s.patients.List(ctx, clinicID, search)
}

type UpdateInput struct {
	ClinicID  *int64  `json:"clinic_id"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Birthdate *string `json:"birthdate"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Zipcode   *string `json:"zipcode"`
	Photo     *string `json:"photo"`
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*Patient, error) {
	fields := map[string]interface{}{}
	if in.ClinicID != nil {
		fields["clinic_id"] = *in.ClinicID
	}
	putString(fields, "name", in.Name)
	putString(fields, "email", in.Email)
	putString(fields, "phone", in.Phone)
	putString(fields, "birthdate", in.Birthdate)
	putString(fields, "address", in.Address)
	putString(fields, "city", in.City)
	putString(fields, "state", in.State)
	putString(fields, "zipcode", in.Zipcode)
	if in.Photo != nil {
		photo, err := s.resolvePhoto(in.Photo)
		if err != nil {
			return nil, err
		}
		fields["photo"] = *photo
	}
	return s.patients.UpdateFields(ctx, id, fields)
}

// Delete removes the patient and all dependents: procedures with their
// images, standalone images, and anamnesis history. Upload files are
// removed best-effort; a missing file never fails the delete.
func (s *Service) Delete(ctx context.Context, id int64) error {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return err
	}

	procs, err := s.procedures.ListByPatient(ctx, id)
	if err != nil {
		return err
	}
	for _, proc := range procs {
		if err := s.deleteProcedureImages(ctx, proc.ID); err != nil {
			return err
		}
	}
	if err := s.procedures.DeleteByPatient(ctx, id); err != nil {
		return err
	}

	imgs, err := s.images.ListByPatient(ctx, id)
	if err != nil {
		return err
	}
	for _, img := range imgs {
		s.removeFile(img.Filename)
	}
	if err := s.images.DeleteByPatient(ctx, id); err != nil {
		return err
	}

	if err := s.anamneses.DeleteByPatient(ctx, id); err != nil {
		return err
	}

	if p.Photo != nil && *p.Photo != "" {
		s.removeFile(*p.Photo)
	}
	return s.patients.Delete(ctx, id)
}

// -- Procedures --

type ProcedureInput struct {
	ClinicID     *int64   `json:"clinic_id"`
	Description  string   `json:"description"`
	Professional *string  `json:"professional"`
	Value        *float64 `json:"value"`
	Date         *string  `json:"date"`
}

func (s *Service) AddProcedure(ctx context.Context, patientID int64, in ProcedureInput) (*Procedure, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("description is required")
	}
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	p := &Procedure{
		PatientID:    patientID,
		ClinicID:     in.ClinicID,
		Description:  in.Description,
		Professional: in.Professional,
		Value:        in.Value,
		Date:         in.Date,
	}
	if err := s.procedures.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListProcedures(ctx context.Context, patientID int64) ([]*Procedure, error) {
	return s.procedures.ListByPatient(ctx, patientID)
}

// DeleteProcedure removes the procedure after clearing its image rows and
// best-effort deleting the underlying files.
func (s *Service) DeleteProcedure(ctx context.Context, patientID, procedureID int64) error {
	proc, err := s.procedures.GetByID(ctx, procedureID)
	if err != nil {
		return err
	}
	if proc.PatientID != patientID {
		return ErrNotFound
	}
	if err := s.deleteProcedureImages(ctx, procedureID); err != nil {
		return err
	}
	return s.procedures.Delete(ctx, procedureID)
}

func (s *Service) ListProcedureImages(ctx context.Context, procedureID int64) ([]*ProcedureImage, error) {
	return s.procedures.ListImages(ctx, procedureID)
}

func (s *Service) AddProcedureImage(ctx context.Context, patientID, procedureID int64, filename string) (*ProcedureImage, error) {
	proc, err := s.procedures.GetByID(ctx, procedureID)
	if err != nil {
		return nil, err
	}
	if proc.PatientID != patientID {
		return nil, ErrNotFound
	}
	img := &ProcedureImage{ProcedureID: procedureID, Filename: filename}
	if err := s.procedures.AddImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *Service) deleteProcedureImages(ctx context.Context, procedureID int64) error {
	imgs, err := s.procedures.ListImages(ctx, procedureID)
	if err != nil {
		return err
	}
	for _, img := range imgs {
		s.removeFile(img.Filename)
	}
	return s.procedures.DeleteImagesByProcedure(ctx, procedureID)
}

// -- Anamnesis --

type AnamneseInput struct {
	ProfessionalID *int64  `json:"professional_id"`
	Anamnese       string  `json:"anamnese"`
	TCLEAccepted   bool    `json:"tcle_accepted"`
	TCLESignedAt   *string `json:"tcle_signed_at"`
}

// AddAnamnese appends a new history entry; earlier entries are never
// modified.
func (s *Service) AddAnamnese(ctx context.Context, patientID int64, in AnamneseInput) (*Anamnese, error) {
	if strings.TrimSpace(in.Anamnese) == "" {
		return nil, fmt.Errorf("anamnese is required")
	}
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	a := &Anamnese{
		PatientID:      patientID,
		ProfessionalID: in.ProfessionalID,
		Anamnese:       in.Anamnese,
		TCLEAccepted:   in.TCLEAccepted,
	}
	if in.TCLESignedAt != nil {
		t, err := parseTimestamp(*in.TCLESignedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid tcle_signed_at: %w", err)
		}
		a.TCLESignedAt = &t
	}
	if err := s.anamneses.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) LatestAnamnese(ctx context.Context, patientID int64) (*Anamnese, error) {
	return s.anamneses.LatestByPatient(ctx, patientID)
}

func (s *Service) AnamneseHistory(ctx context.Context, patientID int64) ([]*Anamnese, error) {
	return s.anamneses.HistoryByPatient(ctx, patientID)
}

// -- Images --

func (s *Service) ListImages(ctx context.Context, patientID int64) ([]*Image, error) {
	return s.images.ListByPatient(ctx, patientID)
}

func (s *Service) AddImage(ctx context.Context, patientID int64, filename string, description *string) (*Image, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	img := &Image{PatientID: patientID, Filename: filename, Description: description}
	if err := s.images.Create(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *Service) DeleteImage(ctx context.Context, patientID, imageID int64) error {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img.PatientID != patientID {
		return ErrNotFound
	}
	s.removeFile(img.Filename)
	return s.images.Delete(ctx, imageID)
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

func (s *Service) removeFile(name string) {
	if name == "" {
		return
	}
	if err := s.files.Remove(name); err != nil {
		s.logger.Warn().Err(err).Str("file", name).Msg("file removal failed")
	}
}

func parseTimestamp(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

func putString(fields map[string]interface{}, col string, v *string) {
	if v != nil {
		fields[col] = *v
	}
}
