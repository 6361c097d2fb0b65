package appointment

import "time"

// Enrich turns a stored row into the response shape: endtime falls back to
// time, UTC instants are derived from the clinic timezone, and reconciled
// fields are duplicated under both naming generations so older frontends
// keep working.
func (s *Service) Enrich(a *Appointment) map[string]interface{} {
	endTime := a.EndTime
	if endTime == "" {
		endTime = a.Time
	}

	return map[string]interface{}{
		"id":              a.ID,
		"clinic_id":       a.ClinicID,
		"patient_id":      a.PatientID,
		"patientid":       a.PatientID,
		"patient_name":    a.PatientName,
		"patientname":     a.PatientName,
		"patient_phone":   a.PatientPhone,
		"patientphone":    a.PatientPhone,
		"professional_id": a.ProfessionalID,
		"professionalid":  a.ProfessionalID,
		"service":         a.Service,
		"service_id":      a.ServiceID,
		"serviceid":       a.ServiceID,
		"date":            a.Date,
		"time":            a.Time,
		"end_time":        endTime,
		"endtime":         endTime,
		"status":          a.Status,
		"start_utc":       utcInstant(a.Date, a.Time, s.loc),
		"end_utc":         utcInstant(a.Date, endTime, s.loc),
		"created_at":      a.CreatedAt,
		"updated_at":      a.UpdatedAt,
	}
}

var wallClockLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// utcInstant converts a local wall-clock date+time to an RFC3339 UTC string.
// Malformed values yield nil rather than an error; the row is still served.
func utcInstant(date, clock string, loc *time.Location) interface{} {
	if date == "" || clock == "" {
		return nil
	}
	for _, layout := range wallClockLayouts {
		t, err := time.ParseInLocation(layout, date+" "+clock, loc)
		if err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return nil
}
