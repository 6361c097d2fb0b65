package appointment

import (
	"context"
	"sort"
	"testing"
	"time"
)

type mockRepo struct {
	appointments map[int64]*Appointment
	nextID       int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{appointments: map[int64]*Appointment{}, nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = m.nextID
	m.nextID++
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.appointments[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) List(_ context.Context, f ListFilter) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range m.appointments {
		if a.ClinicID != f.ClinicID {
			continue
		}
		if f.Date != "" && a.Date != f.Date {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time > out[j].Time
	})
	return out, nil
}

func (m *mockRepo) UpdateFields(_ context.Context, id int64, fields map[string]interface{}) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	for col, v := range fields {
		switch col {
		case "patientid":
			n, _ := v.(int64)
			a.PatientID = &n
		case "patientname":
			a.PatientName, _ = v.(string)
		case "patientphone":
			s, _ := v.(string)
			a.PatientPhone = &s
		case "professionalid":
			a.ProfessionalID, _ = v.(int64)
		case "service":
			a.Service, _ = v.(string)
		case "serviceid":
			n, _ := v.(int64)
			a.ServiceID = &n
		case "date":
			a.Date, _ = v.(string)
		case "time":
			a.Time, _ = v.(string)
		case "endtime":
			a.EndTime, _ = v.(string)
		case "status":
			a.Status, _ = v.(string)
		}
	}
	a.UpdatedAt = time.Now()
	return a, nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.appointments[id]; !ok {
		return ErrNotFound
	}
	delete(m.appointments, id)
	return nil
}

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func newTestService(t *testing.T) (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, saoPaulo(t)), repo
}

func str(s string) *string { return &s }
func i64(n int64) *int64   { return &n }

func validInput() Input {
	return Input{
		PatientName:    str("Maria Souza"),
		ProfessionalID: i64(7),
		Service:        str("Limpeza"),
		Date:           str("2025-06-01"),
		Time:           str("09:00"),
		EndTime:        str("10:00"),
		Status:         str(StatusPending),
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	cases := []struct {
		name   string
		mutate func(in *Input)
	}{
		{"missing patient name", func(in *Input) { in.PatientName = nil }},
		{"missing service", func(in *Input) { in.Service = nil }},
		{"missing date", func(in *Input) { in.Date = nil }},
		{"missing time", func(in *Input) { in.Time = nil }},
		{"missing end time", func(in *Input) { in.EndTime = nil }},
		{"missing status", func(in *Input) { in.Status = nil }},
		{"missing professional", func(in *Input) { in.ProfessionalID = nil }},
		{"bad status", func(in *Input) { in.Status = str("rescheduled") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), 1, in); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateDerivesUTC(t *testing.T) {
	svc, _ := newTestService(t)
	got, err := svc.Create(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got["start_utc"] != "2025-06-01T12:00:00Z" {
		t.Fatalf("start_utc = %v", got["start_utc"])
	}
	if got["end_utc"] != "2025-06-01T13:00:00Z" {
		t.Fatalf("end_utc = %v", got["end_utc"])
	}
}

func TestEnrichMalformedTimeYieldsNull(t *testing.T) {
	svc, _ := newTestService(t)
	in := validInput()
	in.Time = str("25:99")
	got, err := svc.Create(context.Background(), 1, in)
	if err != nil {
		t.Fatalf("malformed time must not fail the write: %v", err)
	}
	if got["start_utc"] != nil {
		t.Fatalf("start_utc = %v, want nil", got["start_utc"])
	}
	if got["time"] != "25:99" {
		t.Fatalf("time = %v, row fields must be intact", got["time"])
	}
}

func TestEnrichEndTimeFallsBackToTime(t *testing.T) {
	svc, repo := newTestService(t)
	a := &Appointment{ClinicID: 1, PatientName: "Maria", ProfessionalID: 7,
		Service: "Limpeza", Date: "2025-06-01", Time: "09:00", Status: StatusPending}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got := svc.Enrich(a)
	if got["end_time"] != "09:00" || got["endtime"] != "09:00" {
		t.Fatalf("end_time = %v / endtime = %v", got["end_time"], got["endtime"])
	}
	if got["start_utc"] != got["end_utc"] {
		t.Fatal("zero-duration fallback must give equal instants")
	}
}

func TestEnrichEmitsBothCasings(t *testing.T) {
	svc, _ := newTestService(t)
	got, err := svc.Create(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	pairs := [][2]string{
		{"professional_id", "professionalid"},
		{"patient_name", "patientname"},
		{"end_time", "endtime"},
	}
	for _, pair := range pairs {
		a, aok := got[pair[0]]
		b, bok := got[pair[1]]
		if !aok || !bok || a != b {
			t.Fatalf("%s/%s = %v/%v", pair[0], pair[1], a, b)
		}
	}
}

func TestAliasResolution(t *testing.T) {
	bodies := []map[string]interface{}{
		{"professional_id": 7.0},
		{"professionalid": 7.0},
		{"professional_id": "7"},
	}
	for _, body := range bodies {
		in, err := resolveAliases(body)
		if err != nil {
			t.Fatalf("resolve %v: %v", body, err)
		}
		if in.ProfessionalID == nil || *in.ProfessionalID != 7 {
			t.Fatalf("resolve %v: professional id = %v", body, in.ProfessionalID)
		}
	}
}

func TestAliasPrecedence(t *testing.T) {
	in, err := resolveAliases(map[string]interface{}{
		"professional_id": 7.0,
		"professionalid":  9.0,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if *in.ProfessionalID != 7 {
		t.Fatalf("professional id = %d, want snake_case variant to win", *in.ProfessionalID)
	}
}

func TestAliasRejectsNonNumericID(t *testing.T) {
	if _, err := resolveAliases(map[string]interface{}{"professional_id": "seven"}); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestUpdateScopedToClinic(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Create(context.Background(), 1, validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(context.Background(), 2, 1, Input{Status: str(StatusConfirmed)}); err != ErrNotFound {
		t.Fatalf("cross-clinic update: got %v, want ErrNotFound", err)
	}
	got, err := svc.Update(context.Background(), 1, 1, Input{Status: str(StatusConfirmed)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got["status"] != StatusConfirmed {
		t.Fatalf("status = %v", got["status"])
	}
	if got["patient_name"] != "Maria Souza" {
		t.Fatal("omitted fields changed")
	}
}

func TestListOrderingAndFilters(t *testing.T) {
	svc, _ := newTestService(t)
	seed := func(date, clock, status string) {
		in := validInput()
		in.Date, in.Time, in.EndTime, in.Status = str(date), str(clock), str(clock), str(status)
		if _, err := svc.Create(context.Background(), 1, in); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	seed("2025-06-01", "09:00", StatusPending)
	seed("2025-06-02", "08:00", StatusConfirmed)
	seed("2025-06-02", "14:00", StatusPending)

	all, err := svc.List(context.Background(), ListFilter{ClinicID: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d", len(all))
	}
	if all[0]["time"] != "14:00" || all[1]["time"] != "08:00" || all[2]["time"] != "09:00" {
		t.Fatalf("order = %v, %v, %v", all[0]["time"], all[1]["time"], all[2]["time"])
	}

	pending, err := svc.List(context.Background(), ListFilter{ClinicID: 1, Date: "2025-06-02", Status: StatusPending})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(pending) != 1 || pending[0]["time"] != "14:00" {
		t.Fatalf("filtered = %+v", pending)
	}
}
