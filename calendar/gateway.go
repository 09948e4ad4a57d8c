package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markramrattan/navi/logging"
)

// DefaultServerURL is the CalDAV endpoint for iCloud calendars.
const DefaultServerURL = "https://caldav.icloud.com"

// ErrNotConfigured signals missing calendar credentials. Callers treat it as
// a routing decision (fall back to the in-memory reminder list), not a fault.
var ErrNotConfigured = errors.New("calendar not configured: set APPLE_ID and APPLE_APP_PASSWORD")

// Config holds what the gateway needs to reach the remote store.
type Config struct {
	ServerURL   string
	AccountID   string // account identifier (Apple ID)
	AppPassword string // app-scoped credential
}

// Gateway performs create and list operations against the remote calendar
// store. It reconnects per call: calendars are never cached, trading a little
// latency for freshness and zero shared state.
type Gateway struct {
	cfg     Config
	connect Connector
	logger  *slog.Logger
	now     func() time.Time
}

// NewGateway creates a gateway using connect to open sessions. A nil logger
// falls back to slog's default.
func NewGateway(cfg Config, connect Connector, logger *slog.Logger) *Gateway {
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{cfg: cfg, connect: connect, logger: logger, now: time.Now}
}

// IsConfigured reports whether both the account identifier and the app
// credential are present. It never touches the network.
func (g *Gateway) IsConfigured() bool {
	return g.cfg.AccountID != "" && g.cfg.AppPassword != ""
}

// CreateEvent stores the draft as a new event on the remote store. The target
// calendar is picked by case-insensitive exact-or-substring match against the
// draft's hint, falling back to the first available calendar. All transport
// failures come back as wrapped errors, never panics.
func (g *Gateway) CreateEvent(ctx context.Context, draft EventDraft) error {
	if !g.IsConfigured() {
		return ErrNotConfigured
	}

	sess, err := g.connect(ctx, g.cfg.ServerURL, g.cfg.AccountID, g.cfg.AppPassword)
	if err != nil {
		return fmt.Errorf("connecting to calendar server: %w", err)
	}
	cals, err := sess.ListCalendars(ctx)
	if err != nil {
		return fmt.Errorf("fetching calendars: %w", err)
	}
	if len(cals) == 0 {
		return errors.New("no calendars found in account")
	}
	target := pickCalendar(cals, draft.CalendarHint)

	alertMins := draft.AlertMinutesBefore
	if alertMins < 0 {
		alertMins = 0
	}
	uid := g.newUID()
	doc := BuildEventDocument(uid, draft, alertMins, g.now())

	if err := sess.CreateObject(ctx, target, uid+".ics", doc); err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	g.logger.Debug("event created",
		logging.Operation("create_event"),
		slog.String("calendar", target.DisplayName()),
		slog.String("uid", uid))
	return nil
}

// ListEvents fetches every calendar's objects intersecting the window derived
// from dateText (same rules as ResolveDate, default today) and daysAhead
// (default 1), parses the embedded event blocks, tags each event with its
// source calendar's display name, and returns the aggregate sorted ascending
// by start instant.
func (g *Gateway) ListEvents(ctx context.Context, dateText string, daysAhead int) ([]Event, error) {
	if !g.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if daysAhead < 1 {
		daysAhead = 1
	}
	start := ResolveDate(dateText, g.now())
	end := start.AddDate(0, 0, daysAhead)

	sess, err := g.connect(ctx, g.cfg.ServerURL, g.cfg.AccountID, g.cfg.AppPassword)
	if err != nil {
		return nil, fmt.Errorf("connecting to calendar server: %w", err)
	}
	cals, err := sess.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching calendars: %w", err)
	}

	var events []Event
	for _, cal := range cals {
		objs, err := sess.ListObjects(ctx, cal, start, end)
		if err != nil {
			return nil, fmt.Errorf("fetching objects from %q: %w", cal.DisplayName(), err)
		}
		name := cal.DisplayName()
		for _, obj := range objs {
			for _, ev := range ParseEvents(obj.Data) {
				ev.CalendarName = name
				events = append(events, ev)
			}
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })

	g.logger.Debug("events listed",
		logging.Operation("list_events"),
		slog.Int("count", len(events)),
		slog.Time("window_start", start),
		slog.Time("window_end", end))
	return events, nil
}

func (g *Gateway) newUID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("navi-%d-%s@navi", g.now().UnixMilli(), suffix)
}

func pickCalendar(cals []CalendarRef, hint string) CalendarRef {
	if hint != "" {
		pref := strings.ToLower(hint)
		for _, c := range cals {
			name := strings.ToLower(c.DisplayName())
			if name == pref || strings.Contains(name, pref) {
				return c
			}
		}
	}
	return cals[0]
}
