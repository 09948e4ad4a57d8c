package calendar

import (
	"fmt"
	"strings"
	"time"
)

const (
	icalProdID       = "-//Navi//EN"
	untitledEvent    = "Untitled"
	defaultAlertMins = 15
)

// BuildEventDocument renders a complete VCALENDAR document for one event,
// including a display alarm firing alertMins minutes before the start.
// Title and notes must already be single-line; see sanitizeText.
func BuildEventDocument(uid string, draft EventDraft, alertMins int, stamp time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + icalProdID,
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTAMP:" + FormatWireTime(stamp),
		"DTSTART:" + FormatWireTime(draft.Start),
		"DTEND:" + FormatWireTime(draft.End),
		"SUMMARY:" + sanitizeText(draft.Title),
	}
	if notes := sanitizeText(draft.Notes); notes != "" {
		lines = append(lines, "DESCRIPTION:"+notes)
	}
	lines = append(lines,
		"BEGIN:VALARM",
		"ACTION:DISPLAY",
		"DESCRIPTION:Reminder",
		fmt.Sprintf("TRIGGER:-PT%dM", alertMins),
		"END:VALARM",
		"END:VEVENT",
		"END:VCALENDAR",
	)
	return strings.Join(lines, "\r\n")
}

// sanitizeText strips embedded newlines and carriage returns so a value can
// be emitted as a single iCalendar content line.
func sanitizeText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", "")
}

// ParseEvents extracts every VEVENT block embedded in one raw calendar-data
// blob. Extraction is defensive, per block: a missing SUMMARY becomes
// "Untitled", an unparseable DTSTART drops that event only, and a missing
// DTEND (or one not after the start) defaults to start plus the default
// duration. Parsing holds no state across blobs.
func ParseEvents(blob string) []Event {
	var events []Event
	var inEvent bool
	var title, startRaw, endRaw string

	for _, raw := range strings.Split(blob, "\n") {
		line := strings.TrimRight(raw, "\r")
		switch {
		case line == "BEGIN:VEVENT":
			inEvent = true
			title, startRaw, endRaw = "", "", ""
		case line == "END:VEVENT":
			if inEvent {
				if ev, ok := buildEvent(title, startRaw, endRaw); ok {
					events = append(events, ev)
				}
			}
			inEvent = false
		case inEvent:
			if v, ok := propValue(line, "SUMMARY"); ok {
				title = v
			} else if v, ok := propValue(line, "DTSTART"); ok {
				startRaw = v
			} else if v, ok := propValue(line, "DTEND"); ok {
				endRaw = v
			}
		}
	}
	return events
}

func buildEvent(title, startRaw, endRaw string) (Event, bool) {
	start, ok := ParseWireTime(startRaw)
	if !ok {
		return Event{}, false
	}
	if title == "" {
		title = untitledEvent
	}
	end, ok := ParseWireTime(endRaw)
	if !ok || !end.After(start) {
		end = start.Add(DefaultEventDuration)
	}
	return Event{Title: title, Start: start, End: end}, true
}

// propValue returns the value of an iCalendar content line when its property
// name matches, tolerating parameters between name and value
// (e.g. "DTSTART;TZID=Europe/Berlin:20250101T090000").
func propValue(line, name string) (string, bool) {
	if !strings.HasPrefix(line, name) || len(line) == len(name) {
		return "", false
	}
	rest := line[len(name):]
	switch rest[0] {
	case ':':
		return rest[1:], true
	case ';':
		if i := strings.IndexByte(rest, ':'); i >= 0 {
			return rest[i+1:], true
		}
	}
	return "", false
}
