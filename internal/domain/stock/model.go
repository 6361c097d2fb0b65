package stock

import "time"

// Item maps to the stock table.
type Item struct {
	ID          int64     `db:"id" json:"id"`
	ClinicID    int64     `db:"clinic_id" json:"clinic_id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Quantity    float64   `db:"quantity" json:"quantity"`
	MinQuantity float64   `db:"minquantity" json:"min_quantity"`
	Unit        string    `db:"unit" json:"unit"`
	Validity    *string   `db:"validity" json:"validity,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updatedat" json:"updated_at"`
}
