package professional

import "time"

// Professional maps to the professionals table. Rows are never hard-deleted:
// Active is the soft-delete flag, Available is the operator-controlled
// booking toggle.
type Professional struct {
	ID        int64     `db:"id" json:"id"`
	ClinicID  int64     `db:"clinic_id" json:"clinic_id"`
	Name      string    `db:"name" json:"name"`
	Specialty *string   `db:"specialty" json:"specialty,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Photo     *string   `db:"photo" json:"photo,omitempty"`
	Resume    *string   `db:"resume" json:"resume,omitempty"`
	Available bool      `db:"available" json:"available"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
