// Package calendar interprets loose user-supplied dates and times, talks to a
// remote CalDAV store through the Session contract, and translates between
// iCalendar documents and navi's event types.
package calendar

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultEventDuration is the event length used when the caller gives no
// explicit end.
const DefaultEventDuration = 30 * time.Minute

var (
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe    = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
)

// ResolveDate interprets loose date text relative to now's local calendar day.
// It recognizes "today", "tomorrow" (case-insensitive) and YYYY-MM-DD; any
// other input falls back to today's date. Parsing never fails: a reminder with
// a sloppy date is better than no reminder at all.
func ResolveDate(dateText string, now time.Time) time.Time {
	text := strings.TrimSpace(dateText)
	switch strings.ToLower(text) {
	case "today":
		return startOfDay(now)
	case "tomorrow":
		return startOfDay(now.AddDate(0, 0, 1))
	}
	if isoDateRe.MatchString(text) {
		year, _ := strconv.Atoi(text[0:4])
		month, _ := strconv.Atoi(text[5:7])
		day, _ := strconv.Atoi(text[8:10])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	}
	return startOfDay(now)
}

// ResolveTime interprets time text of the form H[:MM][am|pm] and returns the
// 24-hour clock values. Absent or unparseable input defaults to 09:00. A bare
// hour with no suffix is taken literally: "3" means 03:00, not 3pm.
func ResolveTime(timeText string) (hour, minute int) {
	hour, minute = 9, 0
	m := timeRe.FindStringSubmatch(timeText)
	if m == nil {
		return hour, minute
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, minute
}

// ResolveSpan combines loose date and time text into a concrete start instant
// and an end instant DefaultEventDuration later.
func ResolveSpan(dateText, timeText string, now time.Time) (start, end time.Time) {
	day := ResolveDate(dateText, now)
	hour, minute := ResolveTime(timeText)
	start = time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
	return start, start.Add(DefaultEventDuration)
}

// FormatWireTime renders an instant in the basic UTC iCalendar form
// YYYYMMDDTHHMMSSZ, with no punctuation or fractional seconds.
func FormatWireTime(t time.Time) string {
	return t.UTC().Format("20060102T150405") + "Z"
}

// ParseWireTime parses the basic iCalendar form back into an instant. The
// trailing Z is optional, and trailing time components may be omitted (a bare
// date, or a date with only hours, or hours and minutes); missing components
// default to zero. The boolean is false on any structural mismatch, and
// callers are expected to skip such values rather than fail.
func ParseWireTime(s string) (time.Time, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	datePart, timePart, hasTime := strings.Cut(s, "T")
	if len(datePart) != 8 {
		return time.Time{}, false
	}
	if hasTime {
		switch len(timePart) {
		case 2, 4, 6:
		default:
			return time.Time{}, false
		}
	}
	timePart += "000000"[len(timePart):]
	t, err := time.Parse("20060102T150405", datePart+"T"+timePart)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
