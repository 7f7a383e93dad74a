package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const isoDate = "2006-01-02"

const dateGuidance = "Could not parse date. Please try formats like 'next Monday', 'tomorrow', '2024-03-15', or 'March 15'"

// weekdayNames is ordered Monday-first to match the weekday arithmetic below.
var weekdayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var inDaysRE = regexp.MustCompile(`in (\d+) days?`)

// ordinalRE strips day-of-month suffixes ("15th" -> "15") before parsing.
var ordinalRE = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)

// monthDayLayouts cover absolute dates written without a year; the reference
// year is assumed.
var monthDayLayouts = []string{"January 2", "Jan 2", "2 January", "2 Jan"}

// ResolveDate parses a free-text date expression relative to ref and returns
// an ISO YYYY-MM-DD value. Rules are tried in order and the first match
// anywhere in the text wins:
//
//  1. today / tomorrow / yesterday
//  2. weekday names, with "next" meaning one full week past the coming
//     occurrence and a bare name meaning the nearest strictly-future one
//  3. "in N days"
//  4. absolute date parse, bumped to next year when it lands in the past
//
// The precedence is deliberate and observable; do not reorder.
func ResolveDate(raw string, ref time.Time) Result {
	text := strings.ToLower(strings.TrimSpace(raw))
	today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	switch {
	case strings.Contains(text, "today"):
		return Accept(today.Format(isoDate), "Today")
	case strings.Contains(text, "tomorrow"):
		return Accept(today.AddDate(0, 0, 1).Format(isoDate), "Tomorrow")
	case strings.Contains(text, "yesterday"):
		return Accept(today.AddDate(0, 0, -1).Format(isoDate), "Yesterday")
	}

	// Monday is 0 here, matching the names slice.
	currentWeekday := (int(today.Weekday()) + 6) % 7
	for target, day := range weekdayNames {
		if !strings.Contains(text, day) {
			continue
		}
		var daysAhead int
		if strings.Contains(text, "next") {
			// Skip the coming occurrence: always lands 7-13 days out.
			daysAhead = target - currentWeekday + 7
		} else {
			daysAhead = target - currentWeekday
			if daysAhead <= 0 {
				daysAhead += 7
			}
		}
		targetDate := today.AddDate(0, 0, daysAhead)
		label := "Next " + cases.Title(language.English).String(day)
		return Accept(targetDate.Format(isoDate), label)
	}

	if m := inDaysRE.FindStringSubmatch(text); m != nil {
		days, err := strconv.Atoi(m[1])
		if err == nil {
			targetDate := today.AddDate(0, 0, days)
			return Accept(targetDate.Format(isoDate), fmt.Sprintf("In %d days", days))
		}
	}

	if parsed, ok := parseAbsoluteDate(text, today); ok {
		if parsed.Before(today) {
			// Only future appointments are booked; assume next year's occurrence.
			parsed = time.Date(today.Year()+1, parsed.Month(), parsed.Day(), 0, 0, 0, 0, today.Location())
		}
		return Accept(parsed.Format(isoDate), "Parsed: "+parsed.Format("January 2, 2006"))
	}

	return Reject(ReasonUnparseable, dateGuidance)
}

// parseAbsoluteDate tries the whole text first, then falls back to scanning
// contiguous word windows so a date embedded in chatter ("how about March
// 15") still parses. dateparse needs cased month names, so the lowered text
// is title-cased before parsing.
func parseAbsoluteDate(text string, today time.Time) (time.Time, bool) {
	titled := cases.Title(language.English).String(ordinalRE.ReplaceAllString(text, "$1"))

	if t, ok := tryParseDate(titled, today); ok {
		return t, true
	}

	words := make([]string, 0, 8)
	for _, w := range strings.Fields(titled) {
		w = strings.Trim(w, ".,!?;:")
		// "of" joins day and month in phrases like "the 15th of March";
		// dropping it lets the window line up with a month-day layout.
		if w == "" || strings.EqualFold(w, "of") {
			continue
		}
		words = append(words, w)
	}
	for size := 3; size >= 2; size-- {
		for i := 0; i+size <= len(words); i++ {
			window := strings.Join(words[i:i+size], " ")
			if t, ok := tryParseDate(window, today); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func tryParseDate(candidate string, today time.Time) (time.Time, bool) {
	if t, err := dateparse.ParseAny(candidate); err == nil {
		year := t.Year()
		if year == 0 {
			year = today.Year()
		}
		return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, today.Location()), true
	}
	for _, layout := range monthDayLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return time.Date(today.Year(), t.Month(), t.Day(), 0, 0, 0, 0, today.Location()), true
		}
	}
	return time.Time{}, false
}
