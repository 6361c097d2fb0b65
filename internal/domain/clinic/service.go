package clinic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/platform/geo"
	"github.com/clinicdesk/clinicdesk/internal/platform/uploads"
)

type Service struct {
	clinics  Repository
	settings SettingsRepository
	reviews  ReviewRepository
	geocoder geo.Geocoder
	images   uploads.Store
	logger   zerolog.Logger

	professionals ListFunc
	catalog       ListFunc
}

// SetProfileSources wires the professional and service lists into the
// aggregated profile. Called once during startup.
func (s *Service) SetProfileSources(professionals, catalog ListFunc) {
	s.professionals = professionals
	s.catalog = catalog
}

func NewService(clinics Repository, settings SettingsRepository, reviews ReviewRepository,
	geocoder geo.Geocoder, images uploads.Store, logger zerolog.Logger) *Service {
	return &Service{
		clinics:  clinics,
		settings: settings,
		reviews:  reviews,
		geocoder: geocoder,
		images:   images,
		logger:   logger,
	}
}

// RegisterInput is the clinic registration payload.
type RegisterInput struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Password          string   `json:"password"`
	Specialties       []string `json:"specialties"`
	CustomSpecialties []string `json:"custom_specialties"`
}

// Register creates the clinic and its settings row together.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Clinic, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, fmt.Errorf("email is required")
	}
	if in.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if len(in.Specialties) == 0 {
		return nil, fmt.Errorf("at least one specialty is required")
	}

	specialties, _ := json.Marshal(in.Specialties)
	custom := "[]"
	if len(in.CustomSpecialties) > 0 {
		raw, _ := json.Marshal(in.CustomSpecialties)
		custom = string(raw)
	}

	c := &Clinic{
		Name:              in.Name,
		Email:             in.Email,
		Password:          in.Password,
		Specialties:       string(specialties),
		CustomSpecialties: custom,
		IsNew:             true,
	}
	settings := &Settings{OpeningHours: "", GalleryImageURLs: "[]"}
	if err := s.clinics.CreateWithSettings(ctx, c, settings); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Clinic, error) {
	return s.clinics.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, search string) ([]*Clinic, error) {
	return s.clinics.List(ctx, search)
}

func (s *Service) GetSettings(ctx context.Context, clinicID int64) (*Settings, error) {
	return s.settings.GetByClinicID(ctx, clinicID)
}

// -- Sectioned settings updates --
//
// Each section writes only the columns it owns, so independently saving UI
// panels cannot clobber each other with stale state.

type BasicInfoInput struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
}

func (s *Service) UpdateBasicInfo(ctx context.Context, clinicID int64, in BasicInfoInput) (*Settings, error) {
	fields := map[string]interface{}{}
	putString(fields, "name", in.Name)
	putString(fields, "phone", in.Phone)
	putString(fields, "description", in.Description)
	putString(fields, "website", in.Website)
	return s.settings.UpdateFields(ctx, clinicID, fields)
}

type AddressInput struct {
	Street           *string  `json:"street"`
	Number           *string  `json:"number"`
	Neighborhood     *string  `json:"neighborhood"`
	City             *string  `json:"city"`
	State            *string  `json:"state"`
	CEP              *string  `json:"cep"`
	LatitudeAddress  *float64 `json:"latitude_address"`
	LongitudeAddress *float64 `json:"longitude_address"`
}

// UpdateAddress saves the address section. When coordinates are not given
// but street, number, and city are, it attempts a best-effort geocode;
// failure leaves the coordinates null and still saves the address. Saving
// an address always clears the manual map pin, which must be re-confirmed
// against the new address.
func (s *Service) UpdateAddress(ctx context.Context, clinicID int64, in AddressInput) (*Settings, error) {
	fields := map[string]interface{}{}
	putString(fields, "street", in.Street)
	putString(fields, "number", in.Number)
	putString(fields, "neighborhood", in.Neighborhood)
	putString(fields, "city", in.City)
	putString(fields, "state", in.State)
	putString(fields, "cep", in.CEP)

	if in.LatitudeAddress != nil && in.LongitudeAddress != nil {
		fields["latitude_address"] = *in.LatitudeAddress
		fields["longitude_address"] = *in.LongitudeAddress
	} else if hasText(in.Street) && hasText(in.Number) && hasText(in.City) {
		query := strings.Join([]string{*in.Street + " " + *in.Number, *in.City}, ", ")
		if pt, err := s.geocoder.Forward(ctx, query); err != nil {
			s.logger.Warn().Err(err).Int64("clinic_id", clinicID).Str("query", query).Msg("geocode failed")
		} else {
			fields["latitude_address"] = pt.Latitude
			fields["longitude_address"] = pt.Longitude
		}
	}

	fields["latitude_map"] = nil
	fields["longitude_map"] = nil
	return s.settings.UpdateFields(ctx, clinicID, fields)
}

// UpdateOpeningHours normalizes the section to a stored JSON string.
// Malformed input is coerced to an empty string rather than rejected.
func (s *Service) UpdateOpeningHours(ctx context.Context, clinicID int64, hours interface{}) (*Settings, error) {
	return s.settings.UpdateFields(ctx, clinicID, map[string]interface{}{
		"opening_hours": normalizeOpeningHours(hours),
	})
}

func normalizeOpeningHours(v interface{}) string {
	switch t := v.(type) {
	case map[string]interface{}:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	case string:
		var m map[string]interface{}
		if json.Unmarshal([]byte(t), &m) != nil {
			return ""
		}
		return t
	default:
		return ""
	}
}

func (s *Service) UpdateSpecialties(ctx context.Context, clinicID int64, specialties []string) (*Settings, error) {
	raw, _ := json.Marshal(specialties)
	return s.settings.UpdateFields(ctx, clinicID, map[string]interface{}{
		"specialties": string(raw),
	})
}

type ImagesInput struct {
	CoverImage    *string  `json:"cover_image"`
	GalleryImages []string `json:"gallery_images"`
}

// UpdateImages saves the images section. Values may be stored filenames or
// base64 data URLs; data URLs are decoded to files first.
func (s *Service) UpdateImages(ctx context.Context, clinicID int64, in ImagesInput) (*Settings, error) {
	fields := map[string]interface{}{}

	if in.CoverImage != nil {
		name, err := s.resolveImage("coverImage", *in.CoverImage)
		if err != nil {
			return nil, err
		}
		fields["cover_image_url"] = name
	}

	if in.GalleryImages != nil {
		names := make([]string, 0, len(in.GalleryImages))
		for _, img := range in.GalleryImages {
			name, err := s.resolveImage("galleryImages", img)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
		}
		raw, _ := json.Marshal(names)
		fields["gallery_image_urls"] = string(raw)
	}

	return s.settings.UpdateFields(ctx, clinicID, fields)
}

func (s *Service) resolveImage(field, value string) (string, error) {
	if uploads.IsDataURL(value) {
		return s.images.SaveDataURL(field, value)
	}
	return value, nil
}

type MapLocationInput struct {
	LatitudeMap  *float64 `json:"latitude_map"`
	LongitudeMap *float64 `json:"longitude_map"`
}

// UpdateMapLocation saves the manual pin. It never touches address fields
// or the geocoded coordinates.
func (s *Service) UpdateMapLocation(ctx context.Context, clinicID int64, in MapLocationInput) (*Settings, error) {
	if in.LatitudeMap == nil || in.LongitudeMap == nil {
		return nil, fmt.Errorf("latitude_map and longitude_map are required")
	}
	return s.settings.UpdateFields(ctx, clinicID, map[string]interface{}{
		"latitude_map":  *in.LatitudeMap,
		"longitude_map": *in.LongitudeMap,
	})
}

// -- Reviews --

func (s *Service) ListReviews(ctx context.Context, clinicID int64) ([]*Review, error) {
	return s.reviews.ListByClinic(ctx, clinicID)
}

func (s *Service) AddReview(ctx context.Context, r *Review) error {
	if r.Rating < 0 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	return s.reviews.Create(ctx, r)
}

func putString(fields map[string]interface{}, col string, v *string) {
	if v != nil {
		fields[col] = *v
	}
}

func hasText(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}
