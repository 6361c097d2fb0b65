package clinic

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*echo.Echo, *testEnv) {
	env := newTestService()
	e := echo.New()
	NewHandler(env.svc).RegisterRoutes(e.Group(""))
	return e, env
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandlerRegisterClinic(t *testing.T) {
	e, _ := newTestHandler()
	rec := doJSON(e, http.MethodPost, "/clinics",
		`{"name":"Bright Smile","email":"a@b.c","password":"x","specialties":["Ortho"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got Clinic
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID == 0 || got.Name != "Bright Smile" {
		t.Fatalf("got %+v", got)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatal("password must never be serialized")
	}
}

func TestHandlerRegisterDuplicate(t *testing.T) {
	e, env := newTestHandler()
	env.seedClinic(t)
	rec := doJSON(e, http.MethodPost, "/clinics",
		`{"name":"Copy","email":"hello@brightsmile.example","password":"x","specialties":["s"]}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerRegisterValidationError(t *testing.T) {
	e, _ := newTestHandler()
	rec := doJSON(e, http.MethodPost, "/clinics", `{"email":"a@b.c"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerListClinicsEmpty(t *testing.T) {
	e, _ := newTestHandler()
	rec := doJSON(e, http.MethodGet, "/clinics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("body = %s, want empty array", rec.Body.String())
	}
}

func TestHandlerGetClinicNotFound(t *testing.T) {
	e, _ := newTestHandler()
	rec := doJSON(e, http.MethodGet, "/clinics/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerGetClinicBadID(t *testing.T) {
	e, _ := newTestHandler()
	rec := doJSON(e, http.MethodGet, "/clinics/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerFullProfile(t *testing.T) {
	e, env := newTestHandler()
	c := env.seedClinic(t)
	rec := doJSON(e, http.MethodGet, "/clinics/1/full", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["name"] != c.Name {
		t.Fatalf("name = %v", got["name"])
	}
	if avail, ok := got["availability"].([]interface{}); !ok || len(avail) != 7 {
		t.Fatalf("availability = %v", got["availability"])
	}
}

func TestHandlerPatchBasicInfo(t *testing.T) {
	e, env := newTestHandler()
	env.seedClinic(t)
	rec := doJSON(e, http.MethodPatch, "/clinic-settings/1/basic-info", `{"phone":"+55 11 1234"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "+55 11 1234") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestHandlerPatchOpeningHoursMalformed(t *testing.T) {
	e, env := newTestHandler()
	c := env.seedClinic(t)
	rec := doJSON(e, http.MethodPatch, "/clinic-settings/1/opening-hours", `{"opening_hours":"garbage"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if env.settings.byClinic[c.ID].OpeningHours != "" {
		t.Fatal("malformed opening hours must be stored as empty string")
	}
}

func TestHandlerPatchSettingsUnknownClinic(t *testing.T) {
	e, _ := newTestHandler()
	rec := doJSON(e, http.MethodPatch, "/clinic-settings/42/basic-info", `{"phone":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerReviews(t *testing.T) {
	e, env := newTestHandler()
	env.seedClinic(t)

	rec := doJSON(e, http.MethodPost, "/clinics/1/reviews", `{"author":"Ana","rating":4.5,"comment":"great"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodPost, "/clinics/1/reviews", `{"rating":9}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("out-of-range rating status = %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/clinics/1/reviews", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var reviews []*Review
	if err := json.Unmarshal(rec.Body.Bytes(), &reviews); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Rating != 4.5 {
		t.Fatalf("reviews = %+v", reviews)
	}
}
