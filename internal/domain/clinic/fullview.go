package clinic

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// FullView is the aggregated public profile of a clinic: registration data,
// settings, reviews, and availability merged into one response.
type FullView struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Phone             *string         `json:"phone"`
	Description       *string         `json:"description"`
	Website           *string         `json:"website"`
	Specialties       []string        `json:"specialties"`
	CustomSpecialties []string        `json:"custom_specialties"`
	Featured          bool            `json:"featured"`
	IsNew             bool            `json:"is_new"`
	Image             *string         `json:"image"`
	Address           Address         `json:"address"`
	FullAddress       string          `json:"full_address"`
	OpeningHours      json.RawMessage `json:"opening_hours"`
	CoverImage        *string         `json:"cover_image"`
	GalleryImages     []string        `json:"gallery_images"`
	Rating            *float64        `json:"rating"`
	ReviewCount       int             `json:"review_count"`
	Reviews           []*Review       `json:"reviews"`
	Professionals     interface{}     `json:"professionals"`
	Services          interface{}     `json:"services"`
	Availability      []DayAvailable  `json:"availability"`
}

// ListFunc feeds the aggregated profile from another domain without a
// package dependency. Wired at startup; nil sources yield empty arrays.
type ListFunc func(ctx context.Context, clinicID int64) (interface{}, error)

type Address struct {
	Street           *string  `json:"street"`
	Number           *string  `json:"number"`
	Neighborhood     *string  `json:"neighborhood"`
	City             *string  `json:"city"`
	State            *string  `json:"state"`
	CEP              *string  `json:"cep"`
	LatitudeAddress  *float64 `json:"latitude_address"`
	LongitudeAddress *float64 `json:"longitude_address"`
	LatitudeMap      *float64 `json:"latitude_map"`
	LongitudeMap     *float64 `json:"longitude_map"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

type DayAvailable struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

var defaultSlots = []string{"09:00", "10:00", "11:00", "14:00", "15:00"}

// FullProfile assembles the aggregated view. Settings are optional: a clinic
// registered but never configured still gets a complete response built from
// registration data alone.
func (s *Service) FullProfile(ctx context.Context, clinicID int64) (*FullView, error) {
	c, err := s.clinics.GetByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.GetByClinicID(ctx, clinicID)
	if err != nil && err != ErrNotFound {
		return nil, err
	}

	// reviews are optional; a failed lookup degrades to an empty list
	reviews, err := s.reviews.ListByClinic(ctx, clinicID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("clinic_id", clinicID).Msg("reviews lookup failed")
		reviews = nil
	}
	if reviews == nil {
		reviews = []*Review{}
	}

	view := &FullView{
		ID:                c.ID,
		Name:              c.Name,
		Email:             c.Email,
		Specialties:       parseStringArray(c.Specialties),
		CustomSpecialties: parseStringArray(c.CustomSpecialties),
		Featured:          c.Featured,
		IsNew:             c.IsNew,
		Image:             c.Image,
		OpeningHours:      json.RawMessage("null"),
		GalleryImages:     []string{},
		Reviews:           reviews,
		ReviewCount:       len(reviews),
		Professionals:     []interface{}{},
		Services:          []interface{}{},
		Availability:      buildAvailability(time.Now(), 7),
	}

	if s.professionals != nil {
		list, err := s.professionals(ctx, clinicID)
		if err != nil {
			return nil, err
		}
		view.Professionals = list
	}
	if s.catalog != nil {
		list, err := s.catalog(ctx, clinicID)
		if err != nil {
			return nil, err
		}
		view.Services = list
	}

	if settings != nil {
		if settings.Name != nil && strings.TrimSpace(*settings.Name) != "" {
			view.Name = *settings.Name
		}
		view.Phone = settings.Phone
		view.Description = settings.Description
		view.Website = settings.Website
		if settings.Specialties != nil && *settings.Specialties != "" {
			view.Specialties = parseStringArray(*settings.Specialties)
		}
		view.CoverImage = settings.CoverImageURL
		view.GalleryImages = parseStringArray(settings.GalleryImageURLs)

		if settings.OpeningHours != "" && json.Valid([]byte(settings.OpeningHours)) {
			view.OpeningHours = json.RawMessage(settings.OpeningHours)
		}

		view.Address = Address{
			Street:           settings.Street,
			Number:           settings.Number,
			Neighborhood:     settings.Neighborhood,
			City:             settings.City,
			State:            settings.State,
			CEP:              settings.CEP,
			LatitudeAddress:  settings.LatitudeAddress,
			LongitudeAddress: settings.LongitudeAddress,
			LatitudeMap:      settings.LatitudeMap,
			LongitudeMap:     settings.LongitudeMap,
			Latitude:         coerceCoord(settings.Latitude),
			Longitude:        coerceCoord(settings.Longitude),
		}
		view.FullAddress = joinAddress(settings)
	}

	if len(reviews) > 0 {
		sum := 0.0
		for _, r := range reviews {
			sum += r.Rating
		}
		avg := math.Round(sum/float64(len(reviews))*10) / 10
		view.Rating = &avg
	}

	return view, nil
}

// parseStringArray decodes a JSON text array column. Unparseable or empty
// values become an empty slice, never nil.
func parseStringArray(raw string) []string {
	var out []string
	if raw == "" || json.Unmarshal([]byte(raw), &out) != nil || out == nil {
		return []string{}
	}
	return out
}

// coerceCoord converts a legacy text coordinate to a number. Blank or
// non-numeric values map to null.
func coerceCoord(v *string) *float64 {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return nil
	}
	return &f
}

func joinAddress(st *Settings) string {
	parts := []string{}
	if st.Street != nil && *st.Street != "" {
		line := *st.Street
		if st.Number != nil && *st.Number != "" {
			line += " " + *st.Number
		}
		parts = append(parts, line)
	}
	for _, p := range []*string{st.Neighborhood, st.City, st.State, st.CEP} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, ", ")
}

// buildAvailability returns a placeholder week of open slots until real
// schedule management lands.
func buildAvailability(from time.Time, days int) []DayAvailable {
	out := make([]DayAvailable, 0, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i)
		out = append(out, DayAvailable{
			Date:  day.Format("2006-01-02"),
			Slots: append([]string(nil), defaultSlots...),
		})
	}
	return out
}
