package appointment

import (
	"fmt"
	"strconv"
)

// Input is the canonical appointment payload after alias resolution. Every
// field is a pointer so updates can carry any subset.
type Input struct {
	PatientID      *int64
	PatientName    *string
	PatientPhone   *string
	ProfessionalID *int64
	Service        *string
	ServiceID      *int64
	Date           *string
	Time           *string
	EndTime        *string
	Status         *string
}

// resolveAliases flattens the historical field spellings into the canonical
// schema. The body has already been snake_cased by the middleware, so each
// logical field has at most two surviving variants; the snake_case one wins.
func resolveAliases(body map[string]interface{}) (Input, error) {
	var in Input
	var err error

	if in.PatientID, err = pickInt64(body, "patient_id", "patientid"); err != nil {
		return in, err
	}
	in.PatientName = pickString(body, "patient_name", "patientname")
	in.PatientPhone = pickString(body, "patient_phone", "patientphone")
	if in.ProfessionalID, err = pickInt64(body, "professional_id", "professionalid"); err != nil {
		return in, err
	}
	in.Service = pickString(body, "service")
	if in.ServiceID, err = pickInt64(body, "service_id", "serviceid"); err != nil {
		return in, err
	}
	in.Date = pickString(body, "date")
	in.Time = pickString(body, "time")
	in.EndTime = pickString(body, "end_time", "endtime")
	in.Status = pickString(body, "status")
	return in, nil
}

func pickString(body map[string]interface{}, keys ...string) *string {
	for _, k := range keys {
		v, ok := body[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return &s
		}
	}
	return nil
}

func pickInt64(body map[string]interface{}, keys ...string) (*int64, error) {
	for _, k := range keys {
		v, ok := body[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			n := int64(t)
			return &n, nil
		case string:
			n, err := strconv.ParseInt(t, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s must be numeric", k)
			}
			return &n, nil
		default:
			return nil, fmt.Errorf("%s must be numeric", k)
		}
	}
	return nil, nil
}
