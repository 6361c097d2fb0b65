package appointment

import "time"

// Appointment maps to the appointments table. The lowercase-no-separator
// columns (patientid, patientname, endtime, ...) are the canonical storage
// names inherited from earlier schema generations; alias resolution at the
// handler boundary funnels every accepted spelling into them.
//
// Date and Time hold local clinic wall-clock values. UTC instants are
// derived at read time, never persisted.
type Appointment struct {
	ID             int64     `db:"id" json:"id"`
	ClinicID       int64     `db:"clinic_id" json:"clinic_id"`
	PatientID      *int64    `db:"patientid" json:"patientid,omitempty"`
	PatientName    string    `db:"patientname" json:"patientname"`
	PatientPhone   *string   `db:"patientphone" json:"patientphone,omitempty"`
	ProfessionalID int64     `db:"professionalid" json:"professionalid"`
	Service        string    `db:"service" json:"service"`
	ServiceID      *int64    `db:"serviceid" json:"serviceid,omitempty"`
	Date           string    `db:"date" json:"date"`
	Time           string    `db:"time" json:"time"`
	EndTime        string    `db:"endtime" json:"endtime"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

func validStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
