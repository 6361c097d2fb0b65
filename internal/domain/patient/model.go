package patient

import "time"

// Patient maps to the patients table. ClinicID is nullable: patients created
// through the public booking flow start out unscoped and are claimed by a
// clinic later.
type Patient struct {
	ID        int64     `db:"id" json:"id"`
	ClinicID  *int64    `db:"clinic_id" json:"clinic_id,omitempty"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Birthdate *string   `db:"birthdate" json:"birthdate,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	City      *string   `db:"city" json:"city,omitempty"`
	State     *string   `db:"state" json:"state,omitempty"`
	Zipcode   *string   `db:"zipcode" json:"zipcode,omitempty"`
	Photo     *string   `db:"photo" json:"photo,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Procedure is a treatment record under a patient. Professional is a free
// text name, not a foreign key.
type Procedure struct {
	ID           int64     `db:"id" json:"id"`
	PatientID    int64     `db:"patient_id" json:"patient_id"`
	ClinicID     *int64    `db:"clinic_id" json:"clinic_id,omitempty"`
	Description  string    `db:"description" json:"description"`
	Professional *string   `db:"professional" json:"professional,omitempty"`
	Value        *float64  `db:"value" json:"value,omitempty"`
	Date         *string   `db:"date" json:"date,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ProcedureImage is an uploaded photo attached to a procedure. Rows and the
// underlying files are removed together with the procedure.
type ProcedureImage struct {
	ID          int64     `db:"id" json:"id"`
	ProcedureID int64     `db:"procedure_id" json:"procedure_id"`
	Filename    string    `db:"filename" json:"filename"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Image is a standalone patient photo not tied to any procedure.
type Image struct {
	ID          int64     `db:"id" json:"id"`
	PatientID   int64     `db:"patient_id" json:"patient_id"`
	Filename    string    `db:"filename" json:"filename"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Anamnese is an append-only clinical history entry. The newest row by
// updated_at is the current one; older rows are kept as history.
type Anamnese struct {
	ID             int64      `db:"id" json:"id"`
	PatientID      int64      `db:"patient_id" json:"patient_id"`
	ProfessionalID *int64     `db:"professional_id" json:"professional_id,omitempty"`
	Anamnese       string     `db:"anamnese" json:"anamnese"`
	TCLEAccepted   bool       `db:"tcle_accepted" json:"tcle_accepted"`
	TCLESignedAt   *time.Time `db:"tcle_signed_at" json:"tcle_signed_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}
