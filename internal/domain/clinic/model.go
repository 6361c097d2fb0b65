package clinic

import "time"

// Clinic maps to the clinics table. Specialties are persisted as JSON
// text; the full view parses them into arrays.
type Clinic struct {
	ID                int64     `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Email             string    `db:"email" json:"email"`
	Password          string    `db:"password" json:"-"`
	Specialties       string    `db:"specialties" json:"specialties"`
	CustomSpecialties string    `db:"custom_specialties" json:"custom_specialties"`
	Featured          bool      `db:"featured" json:"featured"`
	IsNew             bool      `db:"is_new" json:"is_new"`
	Image             *string   `db:"image" json:"image,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Settings maps to the clinic_settings table, owned 1:1 by a clinic.
//
// Two independent coordinate pairs exist: latitude_address/longitude_address
// come from geocoding the typed address, latitude_map/longitude_map from
// manual pin placement. The legacy latitude/longitude pair predates both and
// is stored as text because historical rows hold free-form values.
type Settings struct {
	ID               int64     `db:"id" json:"id"`
	ClinicID         int64     `db:"clinic_id" json:"clinic_id"`
	Phone            *string   `db:"phone" json:"phone,omitempty"`
	Description      *string   `db:"description" json:"description,omitempty"`
	Website          *string   `db:"website" json:"website,omitempty"`
	Name             *string   `db:"name" json:"name,omitempty"`
	Street           *string   `db:"street" json:"street,omitempty"`
	Number           *string   `db:"number" json:"number,omitempty"`
	Neighborhood     *string   `db:"neighborhood" json:"neighborhood,omitempty"`
	City             *string   `db:"city" json:"city,omitempty"`
	State            *string   `db:"state" json:"state,omitempty"`
	CEP              *string   `db:"cep" json:"cep,omitempty"`
	LatitudeAddress  *float64  `db:"latitude_address" json:"latitude_address,omitempty"`
	LongitudeAddress *float64  `db:"longitude_address" json:"longitude_address,omitempty"`
	LatitudeMap      *float64  `db:"latitude_map" json:"latitude_map,omitempty"`
	LongitudeMap     *float64  `db:"longitude_map" json:"longitude_map,omitempty"`
	Latitude         *string   `db:"latitude" json:"latitude,omitempty"`
	Longitude        *string   `db:"longitude" json:"longitude,omitempty"`
	Specialties      *string   `db:"specialties" json:"specialties,omitempty"`
	OpeningHours     string    `db:"opening_hours" json:"opening_hours"`
	CoverImageURL    *string   `db:"cover_image_url" json:"cover_image_url,omitempty"`
	GalleryImageURLs string    `db:"gallery_image_urls" json:"gallery_image_urls"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Review maps to the reviews table.
type Review struct {
	ID        int64     `db:"id" json:"id"`
	ClinicID  int64     `db:"clinic_id" json:"clinic_id"`
	Author    *string   `db:"author" json:"author,omitempty"`
	Rating    float64   `db:"rating" json:"rating"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
