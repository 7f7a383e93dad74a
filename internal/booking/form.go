// Package booking holds the slot-filling state machine for one appointment
// request: a fixed-order set of fields, filled one validated answer at a
// time, with a dialogue state that moves idle -> collecting -> complete.
package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/appointbot/appointbot/internal/validate"
)

// Field names a slot in the booking record.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldDate    Field = "appointment_date"
	FieldTime    Field = "appointment_time"
	FieldPurpose Field = "purpose"
)

// fieldOrder is the fixed collection order. The next-missing-field scan
// always walks this list from the top; it never skips ahead and never
// revisits a filled field.
var fieldOrder = []Field{FieldName, FieldEmail, FieldPhone, FieldDate, FieldTime, FieldPurpose}

// requiredFields excludes purpose, which is optional.
var requiredFields = fieldOrder[:5]

// PurposeNotSpecified is the sentinel stored when the user skips the
// optional purpose field.
const PurposeNotSpecified = "Not specified"

// purposeSkipWords mark an utterance as an explicit skip of the purpose
// field. Substring match, same as the intent keywords.
var purposeSkipWords = []string{"skip", "no", "none", "nothing"}

// State is the dialogue state of the booking flow.
type State string

const (
	StateIdle       State = "idle"
	StateCollecting State = "collecting"
	StateComplete   State = "complete"
)

// Record is the in-progress appointment data. A field is either unset ("")
// or holds a normalized, validated value; there is no partially-valid state.
type Record struct {
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	AppointmentDate string `json:"appointment_date,omitempty"`
	AppointmentTime string `json:"appointment_time,omitempty"`
	Purpose         string `json:"purpose,omitempty"`
}

// Form drives a single booking conversation. It is not safe for concurrent
// use; one form belongs to exactly one chat session.
type Form struct {
	record Record
	state  State
	region string           // phone parsing region
	now    func() time.Time // date resolution reference, injectable for tests
}

// NewForm creates an empty form in the idle state. An empty region falls
// back to the validator default; a nil clock uses time.Now.
func NewForm(region string, now func() time.Time) *Form {
	if now == nil {
		now = time.Now
	}
	return &Form{state: StateIdle, region: region, now: now}
}

// State returns the current dialogue state.
func (f *Form) State() State { return f.state }

// Record returns a copy of the collected data.
func (f *Form) Record() Record { return f.record }

// Begin moves the form into the collecting state.
func (f *Form) Begin() { f.state = StateCollecting }

// Complete marks the form as finished.
func (f *Form) Complete() { f.state = StateComplete }

// Reset clears all fields and returns the form to idle.
func (f *Form) Reset() {
	f.record = Record{}
	f.state = StateIdle
}

// IsComplete reports whether every required field is set. Purpose is
// optional and not consulted.
func (f *Form) IsComplete() bool {
	for _, field := range requiredFields {
		if f.value(field) == "" {
			return false
		}
	}
	return true
}

// NextMissingField returns the first unset field in the fixed order, or
// false when everything (purpose included) has been addressed.
func (f *Form) NextMissingField() (Field, bool) {
	for _, field := range fieldOrder {
		if f.value(field) == "" {
			return field, true
		}
	}
	return "", false
}

// AcceptAnswer validates raw input for the given field. On acceptance the
// normalized value is stored and a confirmation is returned; on rejection
// the field stays unset and the returned message carries the reason. The
// record is never mutated on rejection, so retries are idempotent.
func (f *Form) AcceptAnswer(field Field, raw string) (bool, string) {
	switch field {
	case FieldName:
		res := validate.Name(raw)
		if !res.OK {
			return false, res.Message()
		}
		f.record.Name = res.Value
		return true, fmt.Sprintf("Name set to: %s", res.Value)

	case FieldEmail:
		res := validate.Email(raw)
		if !res.OK {
			return false, res.Message()
		}
		f.record.Email = res.Value
		return true, fmt.Sprintf("Email set to: %s", res.Value)

	case FieldPhone:
		res := validate.Phone(raw, f.region)
		if !res.OK {
			return false, res.Message()
		}
		f.record.Phone = res.Value
		return true, fmt.Sprintf("Phone set to: %s", res.Value)

	case FieldDate:
		res := validate.ResolveDate(raw, f.now())
		if !res.OK {
			return false, res.Message()
		}
		f.record.AppointmentDate = res.Value
		return true, fmt.Sprintf("Appointment date set to: %s (%s)", res.Value, res.Display)

	case FieldTime:
		res := validate.ResolveTime(raw)
		if !res.OK {
			return false, res.Message()
		}
		f.record.AppointmentTime = res.Value
		return true, fmt.Sprintf("Appointment time set to: %s (%s)", res.Value, res.Display)

	case FieldPurpose:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || containsSkipWord(trimmed) {
			f.record.Purpose = PurposeNotSpecified
			return true, "No problem! Purpose skipped."
		}
		f.record.Purpose = trimmed
		return true, fmt.Sprintf("Purpose noted: %s", trimmed)
	}

	// An unknown field is a wiring defect, not a runtime condition.
	panic(fmt.Sprintf("booking: unknown field %q", field))
}

func containsSkipWord(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range purposeSkipWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func (f *Form) value(field Field) string {
	switch field {
	case FieldName:
		return f.record.Name
	case FieldEmail:
		return f.record.Email
	case FieldPhone:
		return f.record.Phone
	case FieldDate:
		return f.record.AppointmentDate
	case FieldTime:
		return f.record.AppointmentTime
	case FieldPurpose:
		return f.record.Purpose
	}
	panic(fmt.Sprintf("booking: unknown field %q", field))
}

// Fields returns the collected values keyed by field name, for status
// introspection. Unset fields are omitted.
func (f *Form) Fields() map[string]string {
	out := make(map[string]string, len(fieldOrder))
	for _, field := range fieldOrder {
		if v := f.value(field); v != "" {
			out[string(field)] = v
		}
	}
	return out
}
