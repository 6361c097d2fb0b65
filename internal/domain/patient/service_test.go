package patient

import (
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type mockPatientRepo struct {
	patients map[int64]*Patient
	nextID   int64
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: map[int64]*Patient{}, nextID: 1}
}

func sameClinic(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	for _, existing := range m.patients {
		if strings.EqualFold(existing.Email, p.Email) && sameClinic(existing.ClinicID, p.ClinicID) {
			return ErrDuplicateEmail
		}
	}
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id int64) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockPatientRepo) GetByEmail(_ context.Context, email string) (*Patient, error) {
	for _, p := range m.patients {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockPatientRepo) List(_ context.Context, clinicID *int64, search string) ([]*Patient, error) {
	var out []*Patient
	for _, p := range m.patients {
		if clinicID != nil && (p.ClinicID == nil || *p.ClinicID != *clinicID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockPatientRepo) UpdateFields(_ context.Context, id int64, fields map[string]interface{}) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	for col, v := range fields {
		switch col {
		case "clinic_id":
			cid, _ := v.(int64)
			p.ClinicID = &cid
		case "name":
			p.Name, _ = v.(string)
		case "email":
			p.Email, _ = v.(string)
		case "phone":
			p.Phone = strPtr(v)
		case "birthdate":
			p.Birthdate = strPtr(v)
		case "address":
			p.Address = strPtr(v)
		case "city":
			p.City = strPtr(v)
		case "state":
			p.State = strPtr(v)
		case "zipcode":
			p.Zipcode = strPtr(v)
		case "photo":
			p.Photo = strPtr(v)
		}
	}
	p.UpdatedAt = time.Now()
	return p, nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.patients[id]; !ok {
		return ErrNotFound
	}
	delete(m.patients, id)
	return nil
}

func strPtr(v interface{}) *string {
	if v == nil {
		return nil
	}
	s, _ := v.(string)
	return &s
}

type mockProcedureRepo struct {
	procedures map[int64]*Procedure
	images     map[int64][]*ProcedureImage
	nextID     int64
}

func newMockProcedureRepo() *mockProcedureRepo {
	return &mockProcedureRepo{procedures: map[int64]*Procedure{}, images: map[int64][]*ProcedureImage{}, nextID: 1}
}

func (m *mockProcedureRepo) ListByPatient(_ context.Context, patientID int64) ([]*Procedure, error) {
	var out []*Procedure
	for _, p := range m.procedures {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProcedureRepo) GetByID(_ context.Context, id int64) (*Procedure, error) {
	p, ok := m.procedures[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockProcedureRepo) Create(_ context.Context, p *Procedure) error {
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	m.procedures[p.ID] = p
	return nil
}

func (m *mockProcedureRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.procedures[id]; !ok {
		return ErrNotFound
	}
	delete(m.procedures, id)
	return nil
}

func (m *mockProcedureRepo) DeleteByPatient(_ context.Context, patientID int64) error {
	for id, p := range m.procedures {
		if p.PatientID == patientID {
			delete(m.procedures, id)
		}
	}
	return nil
}

func (m *mockProcedureRepo) ListImages(_ context.Context, procedureID int64) ([]*ProcedureImage, error) {
	return m.images[procedureID], nil
}

func (m *mockProcedureRepo) AddImage(_ context.Context, img *ProcedureImage) error {
	img.ID = m.nextID
	m.nextID++
	m.images[img.ProcedureID] = append(m.images[img.ProcedureID], img)
	return nil
}

func (m *mockProcedureRepo) DeleteImagesByProcedure(_ context.Context, procedureID int64) error {
	delete(m.images, procedureID)
	return nil
}

type mockImageRepo struct {
	images map[int64]*Image
	nextID int64
}

func newMockImageRepo() *mockImageRepo {
	return &mockImageRepo{images: map[int64]*Image{}, nextID: 1}
}

func (m *mockImageRepo) ListByPatient(_ context.Context, patientID int64) ([]*Image, error) {
	var out []*Image
	for _, img := range m.images {
		if img.PatientID == patientID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (m *mockImageRepo) GetByID(_ context.Context, id int64) (*Image, error) {
	img, ok := m.images[id]
	if !ok {
		return nil, ErrNotFound
	}
	return img, nil
}

func (m *mockImageRepo) Create(_ context.Context, img *Image) error {
	img.ID = m.nextID
	m.nextID++
	m.images[img.ID] = img
	return nil
}

func (m *mockImageRepo) Delete(_ context.Context, id int64) error {
	delete(m.images, id)
	return nil
}

func (m *mockImageRepo) DeleteByPatient(_ context.Context, patientID int64) error {
	for id, img := range m.images {
		if img.PatientID == patientID {
			delete(m.images, id)
		}
	}
	return nil
}

type mockAnamneseRepo struct {
	entries []*Anamnese
	nextID  int64
}

func newMockAnamneseRepo() *mockAnamneseRepo {
	return &mockAnamneseRepo{nextID: 1}
}

func (m *mockAnamneseRepo) Create(_ context.Context, a *Anamnese) error {
	a.ID = m.nextID
	m.nextID++
	a.CreatedAt = time.Now().Add(time.Duration(a.ID) * time.Second)
	a.UpdatedAt = a.CreatedAt
	m.entries = append(m.entries, a)
	return nil
}

func (m *mockAnamneseRepo) LatestByPatient(_ context.Context, patientID int64) (*Anamnese, error) {
	var latest *Anamnese
	for _, a := range m.entries {
		if a.PatientID != patientID {
			continue
		}
		if latest == nil || a.UpdatedAt.After(latest.UpdatedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (m *mockAnamneseRepo) HistoryByPatient(_ context.Context, patientID int64) ([]*Anamnese, error) {
	var out []*Anamnese
	for _, a := range m.entries {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *mockAnamneseRepo) DeleteByPatient(_ context.Context, patientID int64) error {
	kept := m.entries[:0]
	for _, a := range m.entries {
		if a.PatientID != patientID {
			kept = append(kept, a)
		}
	}
	m.entries = kept
	return nil
}

type recordingStore struct {
	saved   []string
	removed []string
}

func (s *recordingStore) SaveMultipart(field string, _ *multipart.FileHeader) (string, error) {
	name := field + "-upload.jpg"
	s.saved = append(s.saved, name)
	return name, nil
}

func (s *recordingStore) SaveDataURL(field, _ string) (string, error) {
	name := field + "-data.png"
	s.saved = append(s.saved, name)
	return name, nil
}

func (s *recordingStore) Remove(name string) error {
	s.removed = append(s.removed, name)
	return nil
}

type testEnv struct {
	svc        *Service
	patients   *mockPatientRepo
	procedures *mockProcedureRepo
	images     *mockImageRepo
	anamneses  *mockAnamneseRepo
	files      *recordingStore
}

func newTestService() *testEnv {
	env := &testEnv{
		patients:   newMockPatientRepo(),
		procedures: newMockProcedureRepo(),
		images:     newMockImageRepo(),
		anamneses:  newMockAnamneseRepo(),
		files:      &recordingStore{},
	}
	env.svc = NewService(env.patients, env.procedures, env.images, env.anamneses, env.files, zerolog.Nop())
	return env
}

func (e *testEnv) seedPatient(t *testing.T, clinicID int64, email string) *Patient {
	t.Helper()
	p, err := e.svc.Create(context.Background(), CreateInput{
		ClinicID: &clinicID,
		Name:     "Maria Souza",
		Email:    email,
	})
	if err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return p
}

func TestCreateValidation(t *testing.T) {
	env := newTestService()
	if _, err := env.svc.Create(context.Background(), CreateInput{Email: "a@b.c"}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := env.svc.Create(context.Background(), CreateInput{Name: "Maria"}); err == nil {
		t.Fatal("expected error for missing email")
	}
}

func TestCreateDuplicatePerClinic(t *testing.T) {
	env := newTestService()
	env.seedPatient(t, 1, "maria@example.com")

	one := int64(1)
	_, err := env.svc.Create(context.Background(), CreateInput{ClinicID: &one, Name: "Other", Email: "maria@example.com"})
	if err != ErrDuplicateEmail {
		t.Fatalf("same clinic duplicate: got %v", err)
	}

	two := int64(2)
	if _, err := env.svc.Create(context.Background(), CreateInput{ClinicID: &two, Name: "Other", Email: "maria@example.com"}); err != nil {
		t.Fatalf("same email in another clinic must be allowed: %v", err)
	}
}

func TestCreateResolvesDataURLPhoto(t *testing.T) {
	env := newTestService()
	clinicID := int64(1)
	photo := "data:image/png;base64,aGVsbG8="
	p, err := env.svc.Create(context.Background(), CreateInput{
		ClinicID: &clinicID, Name: "Maria", Email: "m@example.com", Photo: &photo,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Photo == nil || *p.Photo != "photo-data.png" {
		t.Fatalf("photo = %v", p.Photo)
	}
}

func TestUpdatePartialLeavesOtherFields(t *testing.T) {
	env := newTestService()
	p := env.seedPatient(t, 1, "maria@example.com")
	phone := "+55 11 99999-0000"
	if _, err := env.svc.Update(context.Background(), p.ID, UpdateInput{Phone: &phone}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := env.patients.patients[p.ID]
	if got.Name != "Maria Souza" || got.Email != "maria@example.com" {
		t.Fatalf("omitted fields changed: %+v", got)
	}
	if got.Phone == nil || *got.Phone != phone {
		t.Fatal("phone not saved")
	}
}

func TestDeleteCascades(t *testing.T) {
	env := newTestService()
	p := env.seedPatient(t, 1, "maria@example.com")

	proc, err := env.svc.AddProcedure(context.Background(), p.ID, ProcedureInput{Description: "Cleaning"})
	if err != nil {
		t.Fatalf("add procedure: %v", err)
	}
	if _, err := env.svc.AddProcedureImage(context.Background(), p.ID, proc.ID, "proc-1.jpg"); err != nil {
		t.Fatalf("add procedure image: %v", err)
	}
	if _, err := env.svc.AddImage(context.Background(), p.ID, "portrait.jpg", nil); err != nil {
		t.Fatalf("add image: %v", err)
	}
	if _, err := env.svc.AddAnamnese(context.Background(), p.ID, AnamneseInput{Anamnese: "no allergies"}); err != nil {
		t.Fatalf("add anamnese: %v", err)
	}

	if err := env.svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(env.patients.patients) != 0 {
		t.Fatal("patient row not deleted")
	}
	if len(env.procedures.procedures) != 0 || len(env.procedures.images) != 0 {
		t.Fatal("procedures not cascaded")
	}
	if len(env.images.images) != 0 {
		t.Fatal("patient images not cascaded")
	}
	if len(env.anamneses.entries) != 0 {
		t.Fatal("anamnesis history not cascaded")
	}
	removed := strings.Join(env.files.removed, ",")
	if !strings.Contains(removed, "proc-1.jpg") || !strings.Contains(removed, "portrait.jpg") {
		t.Fatalf("files removed = %v", env.files.removed)
	}
}

func TestDeleteProcedureCascadesImages(t *testing.T) {
	env := newTestService()
	p := env.seedPatient(t, 1, "maria@example.com")
	proc, err := env.svc.AddProcedure(context.Background(), p.ID, ProcedureInput{Description: "Whitening"})
	if err != nil {
		t.Fatalf("add procedure: %v", err)
	}
	for _, name := range []string{"a.jpg", "b.jpg"} {
		if _, err := env.svc.AddProcedureImage(context.Background(), p.ID, proc.ID, name); err != nil {
			t.Fatalf("add image: %v", err)
		}
	}

	if err := env.svc.DeleteProcedure(context.Background(), p.ID, proc.ID); err != nil {
		t.Fatalf("delete procedure: %v", err)
	}
	if len(env.procedures.images[proc.ID]) != 0 {
		t.Fatal("image rows remain")
	}
	if len(env.files.removed) != 2 {
		t.Fatalf("removed files = %v", env.files.removed)
	}
}

func TestDeleteProcedureWrongPatient(t *testing.T) {
	env := newTestService()
	p := env.seedPatient(t, 1, "maria@example.com")
	proc, err := env.svc.AddProcedure(context.Background(), p.ID, ProcedureInput{Description: "X"})
	if err != nil {
		t.Fatalf("add procedure: %v", err)
	}
	if err := env.svc.DeleteProcedure(context.Background(), p.ID+1, proc.ID); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestAnamneseAppendOnlyLatest(t *testing.T) {
	env := newTestService()
	p := env.seedPatient(t, 1, "maria@example.com")

	if _, err := env.svc.AddAnamnese(context.Background(), p.ID, AnamneseInput{Anamnese: "first"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := env.svc.AddAnamnese(context.Background(), p.ID, AnamneseInput{Anamnese: "second"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	latest, err := env.svc.LatestAnamnese(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Anamnese != "second" {
		t.Fatalf("latest = %q", latest.Anamnese)
	}

	history, err := env.svc.AnamneseHistory(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].Anamnese != "second" {
		t.Fatalf("history = %+v", history)
	}
}

func TestProfileLookup(t *testing.T) {
	env := newTestService()
	p := env.seedPatient(t, 1, "maria@example.com")

	got, err := env.svc.Profile(context.Background(), "MARIA@example.com")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("got %d, want %d", got.ID, p.ID)
	}

	if _, err := env.svc.Profile(context.Background(), "missing@example.com"); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
