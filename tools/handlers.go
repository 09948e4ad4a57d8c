package tools

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/markramrattan/navi/calendar"
	"github.com/markramrattan/navi/reminders"
)

const notConfiguredText = "Apple Calendar is not connected. Add APPLE_ID and APPLE_APP_PASSWORD " +
	"to the environment to enable calendar access."

type handlers struct {
	gateway *calendar.Gateway
	store   *reminders.Store
	now     func() time.Time
}

func newHandlers(gateway *calendar.Gateway, store *reminders.Store) *handlers {
	return &handlers{gateway: gateway, store: store, now: time.Now}
}

// createReminder routes to the calendar when one is configured, otherwise
// appends to the in-memory reminder list. Every argument except the title has
// a defensive default: a malformed field falls back, it never fails the call.
func (h *handlers) createReminder(ctx context.Context, args map[string]any) (string, error) {
	title := strArg(args, "title", "Reminder")
	dateText := strArg(args, "date", "today")
	timeText := strArg(args, "time", "9am")
	notes := strArg(args, "notes", "")
	calendarHint := strArg(args, "calendar", "")
	alertMins := intArg(args, "alert_minutes_before", 15)

	if !h.gateway.IsConfigured() {
		h.store.Add(title, dateText, timeText, notes)
		return fmt.Sprintf("Saved a reminder: %q on %s at %s. "+
			"It lives in this session only — connect Apple Calendar (APPLE_ID and "+
			"APPLE_APP_PASSWORD) to have reminders reach your devices.",
			title, dateText, timeText), nil
	}

	start, end := calendar.ResolveSpan(dateText, timeText, h.now())
	err := h.gateway.CreateEvent(ctx, calendar.EventDraft{
		Title:              title,
		Start:              start,
		End:                end,
		Notes:              notes,
		CalendarHint:       calendarHint,
		AlertMinutesBefore: alertMins,
	})
	if err != nil {
		return "", err
	}

	text := fmt.Sprintf("Created %q on %s at %s with a notification %d minutes before.",
		title, dateText, timeText, alertMins)
	if calendarHint != "" {
		text += fmt.Sprintf(" It went into your %s calendar.", calendarHint)
	}
	return text, nil
}

// listReminders renders the session reminder list. This reflects only
// same-process state, never the real calendar.
func (h *handlers) listReminders(ctx context.Context, args map[string]any) (string, error) {
	recs := h.store.All()
	if len(recs) == 0 {
		return "There are no reminders yet in this session.", nil
	}

	var b strings.Builder
	b.WriteString("Reminders saved in this session:\n")
	for i, rec := range recs {
		fmt.Fprintf(&b, "%d. %s — %s at %s", i+1, rec.Title, rec.DateText, rec.TimeText)
		if rec.Notes != "" {
			fmt.Fprintf(&b, " (%s)", rec.Notes)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (h *handlers) todaySchedule(ctx context.Context, args map[string]any) (string, error) {
	return h.upcomingEvents(ctx, map[string]any{"dateStr": "today", "daysAhead": 1})
}

func (h *handlers) upcomingEvents(ctx context.Context, args map[string]any) (string, error) {
	dateText := strArg(args, "dateStr", "today")
	daysAhead := intArg(args, "daysAhead", 1)

	events, err := h.gateway.ListEvents(ctx, dateText, daysAhead)
	if errors.Is(err, calendar.ErrNotConfigured) {
		return notConfiguredText, nil
	}
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "No events found for that period.", nil
	}

	var b strings.Builder
	for i, ev := range events {
		fmt.Fprintf(&b, "%d. %s — %s to %s",
			i+1, ev.Title, ev.Start.Format("Mon Jan 2, 3:04 PM"), ev.End.Format("3:04 PM"))
		if ev.CalendarName != "" {
			fmt.Fprintf(&b, " (%s)", ev.CalendarName)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// strArg reads a string argument with a fallback for missing, empty or
// mistyped values.
func strArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// intArg reads a numeric argument, tolerating the float64 that JSON decoding
// produces and numbers the model sent as strings.
func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}
