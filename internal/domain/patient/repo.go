package patient

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("patient not found")
	ErrDuplicateEmail = errors.New("email already registered for this clinic")
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	GetByEmail(ctx context.Context, email string) (*Patient, error)
	List(ctx context.Context, clinicID *int64, search string) ([]*Patient, error)
	// UpdateFields writes only the given columns and returns the updated
	// row. Column names are fixed by the service layer, never caller input.
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (*Patient, error)
	Delete(ctx context.Context, id int64) error
}

type ProcedureRepository interface {
	ListByPatient(ctx context.Context, patientID int64) ([]*Procedure, error)
	GetByID(ctx context.Context, id int64) (*Procedure, error)
	Create(ctx context.Context, p *Procedure) error
	Delete(ctx context.Context, id int64) error
	DeleteByPatient(ctx context.Context, patientID int64) error

	ListImages(ctx context.Context, procedureID int64) ([]*ProcedureImage, error)
	AddImage(ctx context.Context, img *ProcedureImage) error
	DeleteImagesByProcedure(ctx context.Context, procedureID int64) error
}

type ImageRepository interface {
	ListByPatient(ctx context.Context, patientID int64) ([]*Image, error)
	GetByID(ctx context.Context, id int64) (*Image, error)
	Create(ctx context.Context, img *Image) error
	Delete(ctx context.Context, id int64) error
	DeleteByPatient(ctx context.Context, patientID int64) error
}

type AnamneseRepository interface {
	Create(ctx context.Context, a *Anamnese) error
	LatestByPatient(ctx context.Context, patientID int64) (*Anamnese, error)
	HistoryByPatient(ctx context.Context, patientID int64) ([]*Anamnese, error)
	DeleteByPatient(ctx context.Context, patientID int64) error
}
