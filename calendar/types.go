package calendar

import (
	"context"
	"time"
)

// CalendarRef identifies a remote calendar. DisplayName is left untyped
// because the remote store returns it in more than one shape: usually a plain
// string, sometimes a structured value carrying the text under a "#" key.
// Use DisplayName() to read it safely.
type CalendarRef struct {
	Name any
	Path string
}

// DisplayName extracts the calendar's display name, tolerating both shapes
// the remote store produces. Unrecognized shapes yield an empty name.
func (c CalendarRef) DisplayName() string {
	switch name := c.Name.(type) {
	case string:
		return name
	case map[string]any:
		if s, ok := name["#"].(string); ok {
			return s
		}
	}
	return ""
}

// CalendarObject is one stored object as returned by the remote store: an
// opaque iCalendar text blob that may embed multiple VEVENT blocks.
type CalendarObject struct {
	Data string
}

// Session is an authenticated connection to the remote calendar store.
type Session interface {
	// ListCalendars returns the calendars available to the account.
	ListCalendars(ctx context.Context) ([]CalendarRef, error)

	// ListObjects returns the objects of cal whose declared time range
	// intersects [start, end).
	ListObjects(ctx context.Context, cal CalendarRef, start, end time.Time) ([]CalendarObject, error)

	// CreateObject stores an iCalendar document under the given object name.
	CreateObject(ctx context.Context, cal CalendarRef, name, data string) error
}

// Connector opens a Session against a server with basic credentials. The
// gateway holds a Connector rather than a Session so every call gets a fresh
// connection and tests can substitute fakes.
type Connector func(ctx context.Context, serverURL, username, password string) (Session, error)

// EventDraft describes an event to create. Transient: built per tool call and
// consumed immediately by the gateway.
type EventDraft struct {
	Title              string
	Start              time.Time
	End                time.Time
	Notes              string
	CalendarHint       string
	AlertMinutesBefore int
}

// Event is a parsed remote event, immutable once extracted.
type Event struct {
	Title        string
	Start        time.Time
	End          time.Time
	CalendarName string
}
