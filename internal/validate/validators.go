// Package validate turns free-text user answers into normalized booking
// field values. Every function returns a Result: accepted values are
// normalized, rejections carry a structured reason. Validators are pure and
// deterministic: no network lookups, no clock access beyond the reference
// time the caller passes in.
package validate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/badoux/checkmail"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used when the caller does not specify a region.
const DefaultPhoneRegion = "US"

var (
	nameRE = regexp.MustCompile(`^[a-zA-Z\s\-.']+$`)
	tldRE  = regexp.MustCompile(`^[a-zA-Z]{2,}$`)
)

// Name validates a person's name: at least 2 characters after trimming,
// letters/spaces/hyphens/dots/apostrophes only. Returns the title-cased name.
func Name(raw string) Result {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) < 2 {
		return Reject(ReasonTooShort, "")
	}
	if !nameRE.MatchString(name) {
		return Reject(ReasonInvalidCharacters, "")
	}
	titled := titleCase(name)
	return Accept(titled, titled)
}

// titleCase uppercases every letter that follows a non-letter and lowercases
// the rest, so "mary-jane o'brien" becomes "Mary-Jane O'Brien". Word-segment
// title casers treat the apostrophe as mid-word and would yield "O'brien".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

// Email validates an email address and returns the canonical form (trimmed,
// domain lowercased). Domain checks are structural only; deliverability
// lookups would make the validator non-deterministic.
func Email(raw string) Result {
	email := strings.TrimSpace(raw)
	if email == "" {
		return Reject(ReasonInvalidFormat, "address is empty")
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return Reject(ReasonInvalidFormat, err.Error())
	}

	at := strings.LastIndex(email, "@")
	local, domain := email[:at], strings.ToLower(email[at+1:])
	if reason, ok := checkDomain(domain); !ok {
		return Reject(ReasonInvalidFormat, reason)
	}
	return Accept(local+"@"+domain, local+"@"+domain)
}

// checkDomain applies the structural domain rules: dotted labels, no empty
// or hyphen-edged label, alphabetic TLD of at least two characters.
func checkDomain(domain string) (string, bool) {
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return "domain is missing a top-level domain", false
	}
	for _, label := range labels {
		if label == "" {
			return "domain contains an empty label", false
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return "domain label cannot start or end with a hyphen", false
		}
	}
	if !tldRE.MatchString(labels[len(labels)-1]) {
		return "top-level domain is not valid", false
	}
	return "", true
}

// Phone validates a phone number for the given region and returns it in
// international notation (e.g. "+1 555-123-4567"). An empty region falls
// back to DefaultPhoneRegion.
func Phone(raw, region string) Result {
	if region == "" {
		region = DefaultPhoneRegion
	}
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), region)
	if err != nil {
		return Reject(ReasonParseError, err.Error())
	}
	// Possibility (length/shape) rather than strict validity: strict checks
	// reject reserved ranges like 555 exchanges, which real callers dictate
	// and test fixtures rely on.
	if !phonenumbers.IsPossibleNumber(num) {
		return Reject(ReasonInvalidNumber, "")
	}
	formatted := phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
	return Accept(formatted, formatted)
}
