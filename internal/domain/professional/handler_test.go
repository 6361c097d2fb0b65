package professional

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*echo.Echo, *Service) {
	svc, _ := newTestService()
	e := echo.New()
	NewHandler(svc).RegisterRoutes(e.Group(""))
	return e, svc
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

func TestHandlerListRequiresClinicID(t *testing.T) {
	e, _ := newTestHandler()
	rec := doJSON(e, http.MethodGet, "/professionals", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerCreateAndList(t *testing.T) {
	e, _ := newTestHandler()
	rec := doJSON(e, http.MethodPost, "/professionals", `{"clinic_id":1,"name":"Dr. Ana","specialty":"Ortho"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, "/professionals?clinicId=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var pros []*Professional
	if err := json.Unmarshal(rec.Body.Bytes(), &pros); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pros) != 1 || pros[0].Name != "Dr. Ana" {
		t.Fatalf("pros = %+v", pros)
	}
}

func TestHandlerSoftDeleteAndReactivate(t *testing.T) {
	e, _ := newTestHandler()
	doJSON(e, http.MethodPost, "/professionals", `{"clinic_id":1,"name":"Dr. Ana"}`)

	rec := doJSON(e, http.MethodDelete, "/professionals/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	var p Professional
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Active {
		t.Fatal("delete must return the row with active=false")
	}

	rec = doJSON(e, http.MethodGet, "/professionals/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get after delete status = %d, row must stay retrievable", rec.Code)
	}

	rec = doJSON(e, http.MethodPut, "/professionals/1/reactivate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reactivate status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !p.Active {
		t.Fatal("reactivate must set active=true")
	}
}

func TestHandlerNotFound(t *testing.T) {
	e, _ := newTestHandler()
	rec := doJSON(e, http.MethodGet, "/professionals/42", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = doJSON(e, http.MethodPut, "/professionals/42/reactivate", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
