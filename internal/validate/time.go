package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const timeGuidance = "Could not parse time. Please use formats like '2:30 PM', '14:30', '9am', or 'morning'"

var (
	twelveHourRE     = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)`)
	twentyFourHourRE = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	bareHourRE       = regexp.MustCompile(`\b(\d{1,2})\b`)
)

// fillerWords are stripped anywhere in the text before matching.
var fillerWords = []string{"at", "around", "about"}

// namedTimes maps time-of-day words to fixed defaults. Order matters for the
// substring matches: "afternoon" before "noon", "midnight" before "night".
var namedTimes = []struct {
	keyword string
	value   string
	display string
}{
	{"morning", "09:00", "9:00 AM"},
	{"afternoon", "14:00", "2:00 PM"},
	{"evening", "18:00", "6:00 PM"},
	{"midnight", "00:00", "12:00 AM"},
	{"night", "20:00", "8:00 PM"},
	{"noon", "12:00", "12:00 PM"},
	{"lunch", "12:30", "12:30 PM"},
	{"dinner", "19:00", "7:00 PM"},
}

// ResolveTime parses a free-text time expression into a 24-hour HH:MM value
// with a 12-hour display label. The rules are independent regex searches
// tried in sequence; the first pattern that matches anywhere in the text
// wins, which is observable behavior and must not be changed to longest
// match:
//
//  1. 12-hour clock ("2:30 pm", "9am", periods in am/pm tolerated)
//  2. 24-hour clock ("14:30")
//  3. bare hour with the business-hours guess: 1-8 means AM, 9-12 means PM
//  4. named times of day ("morning", "noon", ...)
func ResolveTime(raw string) Result {
	text := strings.ToLower(strings.TrimSpace(raw))
	for _, w := range fillerWords {
		text = strings.ReplaceAll(text, w, "")
	}
	text = strings.TrimSpace(text)

	if m := twelveHourRE.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		period := strings.ReplaceAll(m[3], ".", "")

		if period == "pm" && hour != 12 {
			hour += 12
		} else if period == "am" && hour == 12 {
			hour = 0
		}
		if hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59 {
			return Accept(fmt.Sprintf("%02d:%02d", hour, minute), displayTime(hour, minute))
		}
		// Out of range: fall through to the remaining rules.
	}

	if m := twentyFourHourRE.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59 {
			return Accept(fmt.Sprintf("%02d:%02d", hour, minute), displayTime(hour, minute))
		}
	}

	if m := bareHourRE.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		switch {
		case hour >= 9 && hour <= 12:
			// Business-hours guess: a bare 9-12 is taken as PM ("9" means 9 PM).
			actual := hour + 12
			if hour == 12 {
				actual = 12
			}
			return Accept(fmt.Sprintf("%02d:00", actual), fmt.Sprintf("%d:00 PM", hour))
		case hour >= 1 && hour <= 8:
			return Accept(fmt.Sprintf("%02d:00", hour), fmt.Sprintf("%d:00 AM", hour))
		case hour >= 13 && hour <= 23:
			return Accept(fmt.Sprintf("%02d:00", hour), fmt.Sprintf("%d:00 PM", hour-12))
		}
		// 0 and out-of-range hours fall through to the named times.
	}

	for _, nt := range namedTimes {
		if strings.Contains(text, nt.keyword) {
			return Accept(nt.value, nt.display)
		}
	}

	return Reject(ReasonUnparseable, timeGuidance)
}

// displayTime renders a 24-hour clock value as a 12-hour label.
func displayTime(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	displayHour := hour
	if displayHour > 12 {
		displayHour -= 12
	}
	if displayHour == 0 {
		displayHour = 12
	}
	return fmt.Sprintf("%d:%02d %s", displayHour, minute, period)
}
