package catalog

import "time"

// Service maps to the services table. Value and Price are the same amount
// under two historical column names; writes keep them in sync and reads
// return both.
type Service struct {
	ID          int64     `db:"id" json:"id"`
	ClinicID    int64     `db:"clinic_id" json:"clinic_id"`
	Name        string    `db:"name" json:"name"`
	Duration    int       `db:"duration" json:"duration"`
	Description *string   `db:"description" json:"description,omitempty"`
	Value       *float64  `db:"value" json:"value,omitempty"`
	Price       *float64  `db:"price" json:"price,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
