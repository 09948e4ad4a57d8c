package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeSession implements Session with configurable function fields.
type fakeSession struct {
	ListCalendarsFunc func(ctx context.Context) ([]CalendarRef, error)
	ListObjectsFunc   func(ctx context.Context, cal CalendarRef, start, end time.Time) ([]CalendarObject, error)
	CreateObjectFunc  func(ctx context.Context, cal CalendarRef, name, data string) error
}

func (f *fakeSession) ListCalendars(ctx context.Context) ([]CalendarRef, error) {
	return f.ListCalendarsFunc(ctx)
}

func (f *fakeSession) ListObjects(ctx context.Context, cal CalendarRef, start, end time.Time) ([]CalendarObject, error) {
	return f.ListObjectsFunc(ctx, cal, start, end)
}

func (f *fakeSession) CreateObject(ctx context.Context, cal CalendarRef, name, data string) error {
	return f.CreateObjectFunc(ctx, cal, name, data)
}

func fakeConnector(sess Session) Connector {
	return func(ctx context.Context, serverURL, username, password string) (Session, error) {
		return sess, nil
	}
}

func configured() Config {
	return Config{AccountID: "user@example.com", AppPassword: "app-pass"}
}

func TestGatewayNotConfigured(t *testing.T) {
	g := NewGateway(Config{}, fakeConnector(nil), nil)

	if g.IsConfigured() {
		t.Error("gateway with no credentials should not be configured")
	}
	if err := g.CreateEvent(context.Background(), EventDraft{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("CreateEvent error = %v, want ErrNotConfigured", err)
	}
	if _, err := g.ListEvents(context.Background(), "today", 1); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("ListEvents error = %v, want ErrNotConfigured", err)
	}
}

func TestGatewayCreateEvent(t *testing.T) {
	var gotCal CalendarRef
	var gotName, gotData string

	sess := &fakeSession{
		ListCalendarsFunc: func(ctx context.Context) ([]CalendarRef, error) {
			return []CalendarRef{
				{Name: "Home", Path: "/cal/home/"},
				{Name: "Work", Path: "/cal/work/"},
			}, nil
		},
		CreateObjectFunc: func(ctx context.Context, cal CalendarRef, name, data string) error {
			gotCal, gotName, gotData = cal, name, data
			return nil
		},
	}

	g := NewGateway(configured(), fakeConnector(sess), nil)
	err := g.CreateEvent(context.Background(), EventDraft{
		Title:              "Dentist",
		Start:              time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		End:                time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		CalendarHint:       "work",
		AlertMinutesBefore: -5,
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if gotCal.Path != "/cal/work/" {
		t.Errorf("picked calendar %q, want the hinted one", gotCal.Path)
	}
	if !strings.HasPrefix(gotName, "navi-") || !strings.HasSuffix(gotName, ".ics") {
		t.Errorf("object name %q should be <uid>.ics", gotName)
	}
	// Negative alert minutes are clamped to zero.
	if !strings.Contains(gotData, "TRIGGER:-PT0M") {
		t.Errorf("document should clamp negative alert minutes:\n%s", gotData)
	}
	if !strings.Contains(gotData, "SUMMARY:Dentist") {
		t.Errorf("document missing summary:\n%s", gotData)
	}
}

func TestGatewayCreateEventNoCalendars(t *testing.T) {
	sess := &fakeSession{
		ListCalendarsFunc: func(ctx context.Context) ([]CalendarRef, error) {
			return nil, nil
		},
	}
	g := NewGateway(configured(), fakeConnector(sess), nil)

	err := g.CreateEvent(context.Background(), EventDraft{Title: "x"})
	if err == nil || !strings.Contains(err.Error(), "no calendars") {
		t.Errorf("expected no-calendars error, got %v", err)
	}
}

func TestGatewayListEventsSortedAcrossCalendars(t *testing.T) {
	blobFor := map[string]string{
		"/a/": "BEGIN:VEVENT\nSUMMARY:Later\nDTSTART:20250314T150000Z\nEND:VEVENT",
		"/b/": "BEGIN:VEVENT\nSUMMARY:Earlier\nDTSTART:20250314T080000Z\nEND:VEVENT",
	}
	sess := &fakeSession{
		ListCalendarsFunc: func(ctx context.Context) ([]CalendarRef, error) {
			return []CalendarRef{
				{Name: "A", Path: "/a/"},
				{Name: map[string]any{"#": "B"}, Path: "/b/"},
			}, nil
		},
		ListObjectsFunc: func(ctx context.Context, cal CalendarRef, start, end time.Time) ([]CalendarObject, error) {
			return []CalendarObject{{Data: blobFor[cal.Path]}}, nil
		},
	}

	g := NewGateway(configured(), fakeConnector(sess), nil)
	events, err := g.ListEvents(context.Background(), "2025-03-14", 1)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	if events[0].Title != "Earlier" || events[1].Title != "Later" {
		t.Errorf("events not sorted by start: %q then %q", events[0].Title, events[1].Title)
	}
	if events[0].CalendarName != "B" {
		t.Errorf("structured display name not resolved, got %q", events[0].CalendarName)
	}
	if events[1].CalendarName != "A" {
		t.Errorf("plain display name not resolved, got %q", events[1].CalendarName)
	}
}

func TestGatewayListEventsWindow(t *testing.T) {
	var gotStart, gotEnd time.Time
	sess := &fakeSession{
		ListCalendarsFunc: func(ctx context.Context) ([]CalendarRef, error) {
			return []CalendarRef{{Name: "A", Path: "/a/"}}, nil
		},
		ListObjectsFunc: func(ctx context.Context, cal CalendarRef, start, end time.Time) ([]CalendarObject, error) {
			gotStart, gotEnd = start, end
			return nil, nil
		},
	}

	g := NewGateway(configured(), fakeConnector(sess), nil)
	g.now = func() time.Time { return time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC) }

	// daysAhead below 1 is raised to 1.
	if _, err := g.ListEvents(context.Background(), "today", 0); err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}

	wantStart := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	if !gotStart.Equal(wantStart) {
		t.Errorf("window start = %v, want %v", gotStart, wantStart)
	}
	if !gotEnd.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Errorf("window end = %v, want one day after start", gotEnd)
	}
}

func TestPickCalendar(t *testing.T) {
	cals := []CalendarRef{
		{Name: "Family", Path: "/family/"},
		{Name: "Work Stuff", Path: "/work/"},
	}

	tests := []struct {
		name     string
		hint     string
		expected string
	}{
		{name: "exact match case-insensitive", hint: "family", expected: "/family/"},
		{name: "substring match", hint: "work", expected: "/work/"},
		{name: "no match falls back to first", hint: "school", expected: "/family/"},
		{name: "empty hint falls back to first", hint: "", expected: "/family/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickCalendar(cals, tt.hint); got.Path != tt.expected {
				t.Errorf("pickCalendar(%q) = %q, want %q", tt.hint, got.Path, tt.expected)
			}
		})
	}
}
