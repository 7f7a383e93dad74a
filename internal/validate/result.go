package validate

import "fmt"

// Reason classifies why an input was rejected. Display text is derived from
// the reason, never hand-assembled at the rejection site, so the taxonomy
// stays independent of formatting.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonEmpty
	ReasonTooShort
	ReasonInvalidCharacters
	ReasonInvalidFormat
	ReasonParseError
	ReasonInvalidNumber
	ReasonUnparseable
)

// String returns the stable code for logs and tests.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonEmpty:
		return "empty"
	case ReasonTooShort:
		return "too_short"
	case ReasonInvalidCharacters:
		return "invalid_characters"
	case ReasonInvalidFormat:
		return "invalid_format"
	case ReasonParseError:
		return "parse_error"
	case ReasonInvalidNumber:
		return "invalid_number"
	case ReasonUnparseable:
		return "unparseable"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Result is the tagged outcome of every validator and resolver. Invalid user
// input is an expected outcome, not an error: rejections carry a Reason and
// are reported back to the user, never raised as faults.
type Result struct {
	OK      bool
	Value   string // normalized value, set when OK
	Display string // human explanation of the accepted value ("Tomorrow", "2:30 PM")
	Reason  Reason // set when rejected
	Detail  string // underlying cause or guidance, interpolated into Message
}

// Accept builds an accepted result.
func Accept(value, display string) Result {
	return Result{OK: true, Value: value, Display: display}
}

// Reject builds a rejected result.
func Reject(reason Reason, detail string) Result {
	return Result{Reason: reason, Detail: detail}
}

// Message renders the user-facing rejection text for the result's reason.
// Accepted results have no message.
func (r Result) Message() string {
	if r.OK {
		return ""
	}
	switch r.Reason {
	case ReasonEmpty:
		return "Please enter a value"
	case ReasonTooShort:
		return "Name must be at least 2 characters long"
	case ReasonInvalidCharacters:
		return "Name can only contain letters, spaces, hyphens, dots, and apostrophes"
	case ReasonInvalidFormat:
		return fmt.Sprintf("Invalid email address: %s", r.Detail)
	case ReasonParseError:
		return fmt.Sprintf("Phone validation error: %s", r.Detail)
	case ReasonInvalidNumber:
		return "Invalid phone number format"
	case ReasonUnparseable:
		return r.Detail
	default:
		return "Invalid input"
	}
}
