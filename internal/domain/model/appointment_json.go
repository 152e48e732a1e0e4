package model

import "encoding/json"

// MarshalJSON renders Date as YYYY-MM-DD and always emits user/counselor,
// falling back to bare ids when summaries were not loaded.
func (a Appointment) MarshalJSON() ([]byte, error) {
	type alias Appointment
	out := struct {
		alias
		Date string `json:"date"`
	}{alias: alias(a), Date: a.Date.Format(DateLayout)}
	if out.User == nil {
		out.User = &AccountSummary{ID: a.UserID}
	}
	if out.Counselor == nil {
		out.Counselor = &AccountSummary{ID: a.CounselorID}
	}
	return json.Marshal(out)
}
