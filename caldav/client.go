// Package caldav is a minimal CalDAV client covering what navi needs from a
// remote calendar store: discovery of the account's calendars, time-ranged
// fetches of raw iCalendar objects, and object creation. It implements the
// calendar.Session contract so the gateway never touches the wire directly.
package caldav

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markramrattan/navi/calendar"
)

const requestTimeout = 30 * time.Second

// Connect dials the CalDAV server with basic credentials and walks the
// discovery chain (current-user-principal, then calendar-home-set). The
// returned session is ready for calendar operations.
func Connect(ctx context.Context, serverURL, username, password string) (calendar.Session, error) {
	base, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar server URL: %w", err)
	}
	c := &client{
		http:     &http.Client{Timeout: requestTimeout},
		base:     base,
		username: username,
		password: password,
	}

	principal, err := c.findPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering principal: %w", err)
	}
	home, err := c.findHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("discovering calendar home set: %w", err)
	}
	c.homeSet = home
	return c, nil
}

type client struct {
	http     *http.Client
	base     *url.URL
	username string
	password string
	homeSet  string
}

// ListCalendars implements calendar.Session.
func (c *client) ListCalendars(ctx context.Context) ([]calendar.CalendarRef, error) {
	const body = `<?xml version="1.0" encoding="utf-8"?>
<d:propfind xmlns:d="DAV:">
  <d:prop><d:displayname/><d:resourcetype/></d:prop>
</d:propfind>`

	ms, err := c.request(ctx, "PROPFIND", c.homeSet, "1", body)
	if err != nil {
		return nil, err
	}

	var cals []calendar.CalendarRef
	for _, resp := range ms.Responses {
		prop, ok := resp.okProp()
		if !ok || prop.ResourceType.Calendar == nil {
			continue
		}
		cals = append(cals, calendar.CalendarRef{
			Name: prop.DisplayName,
			Path: resp.Href,
		})
	}
	return cals, nil
}

// ListObjects implements calendar.Session using a calendar-query REPORT with
// a VEVENT time-range filter.
func (c *client) ListObjects(ctx context.Context, cal calendar.CalendarRef, start, end time.Time) ([]calendar.CalendarObject, error) {
	body := fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<c:calendar-query xmlns:d="DAV:" xmlns:c="urn:ietf:params:xml:ns:caldav">
  <d:prop><c:calendar-data/></d:prop>
  <c:filter>
    <c:comp-filter name="VCALENDAR">
      <c:comp-filter name="VEVENT">
        <c:time-range start="%s" end="%s"/>
      </c:comp-filter>
    </c:comp-filter>
  </c:filter>
</c:calendar-query>`, calendar.FormatWireTime(start), calendar.FormatWireTime(end))

	ms, err := c.request(ctx, "REPORT", cal.Path, "1", body)
	if err != nil {
		return nil, err
	}

	var objs []calendar.CalendarObject
	for _, resp := range ms.Responses {
		prop, ok := resp.okProp()
		if !ok || prop.CalendarData == "" {
			continue
		}
		objs = append(objs, calendar.CalendarObject{Data: prop.CalendarData})
	}
	return objs, nil
}

// CreateObject implements calendar.Session with a PUT of the document.
func (c *client) CreateObject(ctx context.Context, cal calendar.CalendarRef, name, data string) error {
	target := c.abs(strings.TrimSuffix(cal.Path, "/") + "/" + name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, strings.NewReader(data))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "text/calendar; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("calendar server returned %s", resp.Status)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *client) findPrincipal(ctx context.Context) (string, error) {
	const body = `<?xml version="1.0" encoding="utf-8"?>
<d:propfind xmlns:d="DAV:">
  <d:prop><d:current-user-principal/></d:prop>
</d:propfind>`

	ms, err := c.request(ctx, "PROPFIND", c.base.Path+"/", "0", body)
	if err != nil {
		return "", err
	}
	for _, resp := range ms.Responses {
		if prop, ok := resp.okProp(); ok && prop.CurrentUserPrincipal.Href != "" {
			return prop.CurrentUserPrincipal.Href, nil
		}
	}
	return "", fmt.Errorf("no current-user-principal in response")
}

func (c *client) findHomeSet(ctx context.Context, principal string) (string, error) {
	const body = `<?xml version="1.0" encoding="utf-8"?>
<d:propfind xmlns:d="DAV:" xmlns:c="urn:ietf:params:xml:ns:caldav">
  <d:prop><c:calendar-home-set/></d:prop>
</d:propfind>`

	ms, err := c.request(ctx, "PROPFIND", principal, "0", body)
	if err != nil {
		return "", err
	}
	for _, resp := range ms.Responses {
		if prop, ok := resp.okProp(); ok && prop.CalendarHomeSet.Href != "" {
			return prop.CalendarHomeSet.Href, nil
		}
	}
	return "", fmt.Errorf("no calendar-home-set in response")
}

func (c *client) request(ctx context.Context, method, path, depth, body string) (*multistatus, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.abs(path), strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Depth", depth)
	req.Header.Set("Content-Type", "application/xml; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("calendar server returned %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var ms multistatus
	if err := xml.NewDecoder(bytes.NewReader(raw)).Decode(&ms); err != nil {
		return nil, fmt.Errorf("parsing multistatus response: %w", err)
	}
	return &ms, nil
}

// abs resolves a DAV href, which may be an absolute URL or a server-relative
// path, against the configured base.
func (c *client) abs(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	u := *c.base
	u.Path = path
	u.RawQuery = ""
	return u.String()
}

// Multistatus wire types. Tags match by local name only: servers disagree on
// namespace prefixes, and DAV local names are unambiguous for the properties
// requested here.
type multistatus struct {
	XMLName   xml.Name      `xml:"multistatus"`
	Responses []davResponse `xml:"response"`
}

type davResponse struct {
	Href      string     `xml:"href"`
	Propstats []propstat `xml:"propstat"`
}

// okProp returns the prop of the first propstat with a 200-class status.
func (r davResponse) okProp() (davProp, bool) {
	for _, ps := range r.Propstats {
		if strings.Contains(ps.Status, "200") {
			return ps.Prop, true
		}
	}
	return davProp{}, false
}

type propstat struct {
	Status string  `xml:"status"`
	Prop   davProp `xml:"prop"`
}

type davProp struct {
	DisplayName          string       `xml:"displayname"`
	ResourceType         resourceType `xml:"resourcetype"`
	CurrentUserPrincipal davHref      `xml:"current-user-principal"`
	CalendarHomeSet      davHref      `xml:"calendar-home-set"`
	CalendarData         string       `xml:"calendar-data"`
}

type resourceType struct {
	Calendar *struct{} `xml:"calendar"`
}

type davHref struct {
	Href string `xml:"href"`
}
