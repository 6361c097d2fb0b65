package clinic

import (
	"context"
	"fmt"
	"testing"
	"time"
)

type failingReviewRepo struct{}

func (failingReviewRepo) ListByClinic(context.Context, int64) ([]*Review, error) {
	return nil, fmt.Errorf("reviews table missing")
}

func (failingReviewRepo) Create(context.Context, *Review) error {
	return fmt.Errorf("reviews table missing")
}

func TestFullProfileWithoutSettings(t *testing.T) {
	env := newTestService()
	c, err := env.svc.Register(context.Background(), RegisterInput{
		Name:        "Bare Clinic",
		Email:       "bare@example.com",
		Password:    "x",
		Specialties: []string{"General"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	delete(env.settings.byClinic, c.ID)

	view, err := env.svc.FullProfile(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("full profile: %v", err)
	}
	if view.Name != "Bare Clinic" {
		t.Fatalf("name = %q", view.Name)
	}
	if len(view.Specialties) != 1 || view.Specialties[0] != "General" {
		t.Fatalf("specialties = %v", view.Specialties)
	}
	if view.GalleryImages == nil || view.Reviews == nil {
		t.Fatal("arrays must be empty, not null")
	}
	if view.Rating != nil {
		t.Fatal("rating must be null with no reviews")
	}
}

func TestFullProfileSettingsNameWins(t *testing.T) {
	env := newTestService()
	c := env.seedClinic(t)
	display := "Bright Smile Dental Care"
	env.settings.byClinic[c.ID].Name = &display

	view, err := env.svc.FullProfile(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("full profile: %v", err)
	}
	if view.Name != display {
		t.Fatalf("name = %q, want settings override", view.Name)
	}
}

func TestFullProfileBlankSettingsNameFallsBack(t *testing.T) {
	env := newTestService()
	c := env.seedClinic(t)
	blank := "   "
	env.settings.byClinic[c.ID].Name = &blank

	view, err := env.svc.FullProfile(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("full profile: %v", err)
	}
	if view.Name != "Bright Smile" {
		t.Fatalf("name = %q, want registration fallback", view.Name)
	}
}

func TestFullProfileRatingAverage(t *testing.T) {
	env := newTestService()
	c := env.seedClinic(t)
	for _, r := range []float64{5, 4, 4} {
		if err := env.svc.AddReview(context.Background(), &Review{ClinicID: c.ID, Rating: r}); err != nil {
			t.Fatalf("add review: %v", err)
		}
	}
	view, err := env.svc.FullProfile(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("full profile: %v", err)
	}
	if view.Rating == nil || *view.Rating != 4.3 {
		t.Fatalf("rating = %v, want 4.3", view.Rating)
	}
	if view.ReviewCount != 3 {
		t.Fatalf("review count = %d", view.ReviewCount)
	}
}

func TestFullProfileCoordinateCoercion(t *testing.T) {
	env := newTestService()
	c := env.seedClinic(t)
	legacyLat, legacyLng := " -23.561 ", "not-a-number"
	env.settings.byClinic[c.ID].Latitude = &legacyLat
	env.settings.byClinic[c.ID].Longitude = &legacyLng

	view, err := env.svc.FullProfile(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("full profile: %v", err)
	}
	if view.Address.Latitude == nil || *view.Address.Latitude != -23.561 {
		t.Fatalf("legacy latitude = %v", view.Address.Latitude)
	}
	if view.Address.Longitude != nil {
		t.Fatal("non-numeric legacy longitude must be null")
	}
}

func TestFullProfileUnparseableArraysBecomeEmpty(t *testing.T) {
	env := newTestService()
	c := env.seedClinic(t)
	env.clinics.clinics[c.ID].Specialties = "{bad json"
	env.settings.byClinic[c.ID].GalleryImageURLs = "also bad"

	view, err := env.svc.FullProfile(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("full profile: %v", err)
	}
	if len(view.Specialties) != 0 || view.Specialties == nil {
		t.Fatalf("specialties = %v", view.Specialties)
	}
	if len(view.GalleryImages) != 0 || view.GalleryImages == nil {
		t.Fatalf("gallery = %v", view.GalleryImages)
	}
}

func TestFullProfileJoinedAddress(t *testing.T) {
	env := newTestService()
	c := env.seedClinic(t)
	st := env.settings.byClinic[c.ID]
	street, number, city, state := "Av. Paulista", "1000", "São Paulo", "SP"
	st.Street, st.Number, st.City, st.State = &street, &number, &city, &state

	view, err := env.svc.FullProfile(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("full profile: %v", err)
	}
	if view.FullAddress != "Av. Paulista 1000, São Paulo, SP" {
		t.Fatalf("full address = %q", view.FullAddress)
	}
}

func TestFullProfileIncludesWiredSources(t *testing.T) {
	env := newTestService()
	c := env.seedClinic(t)
	env.svc.SetProfileSources(
		func(_ context.Context, clinicID int64) (interface{}, error) {
			return []string{"Dr. Ana"}, nil
		},
		func(_ context.Context, clinicID int64) (interface{}, error) {
			return []string{"Cleaning"}, nil
		},
	)
	view, err := env.svc.FullProfile(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("full profile: %v", err)
	}
	if pros, ok := view.Professionals.([]string); !ok || len(pros) != 1 {
		t.Fatalf("professionals = %v", view.Professionals)
	}
	if svcs, ok := view.Services.([]string); !ok || len(svcs) != 1 {
		t.Fatalf("services = %v", view.Services)
	}
}

func TestFullProfileSwallowsReviewFailure(t *testing.T) {
	env := newTestService()
	c := env.seedClinic(t)
	env.svc.reviews = failingReviewRepo{}
	view, err := env.svc.FullProfile(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("review failure must not fail the profile: %v", err)
	}
	if len(view.Reviews) != 0 || view.ReviewCount != 0 || view.Rating != nil {
		t.Fatalf("view = %+v", view)
	}
}

func TestBuildAvailability(t *testing.T) {
	from := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	days := buildAvailability(from, 7)
	if len(days) != 7 {
		t.Fatalf("days = %d", len(days))
	}
	if days[0].Date != "2025-06-01" || days[6].Date != "2025-06-07" {
		t.Fatalf("range = %s..%s", days[0].Date, days[6].Date)
	}
	for _, d := range days {
		if len(d.Slots) != 5 {
			t.Fatalf("slots on %s = %v", d.Date, d.Slots)
		}
	}
}
