// Package calendar wraps the Google Calendar v3 REST API behind a small
// event-source client used by the google_calendar_events capability.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Event is one upcoming calendar entry, flattened for presentation.
type Event struct {
	Summary  string `json:"summary"`
	Location string `json:"location,omitempty"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// eventTime mirrors the API's start/end object: timed events carry dateTime,
// all-day events carry date.
type eventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

func (t eventTime) value() string {
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

type apiEvent struct {
	Summary  string    `json:"summary"`
	Location string    `json:"location"`
	Start    eventTime `json:"start"`
	End      eventTime `json:"end"`
}

type eventsResponse struct {
	Items []apiEvent `json:"items"`
}

// Service is the Google Calendar REST client. Credential loading happens
// outside; a Service constructed without a key reports not ready and never
// performs network access.
type Service struct {
	client *resty.Client
	apiKey string
}

// NewService creates a calendar client with the given API key and request
// timeout.
func NewService(apiKey string, timeout time.Duration) *Service {
	client := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(timeout)

	if apiKey == "" {
		slog.Warn("GOOGLE_CALENDAR_API_KEY not set, calendar capability will report errors")
	}

	return &Service{
		client: client,
		apiKey: apiKey,
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (s *Service) SetBaseURL(baseURL string) {
	s.client.SetBaseURL(baseURL)
}

// Ready reports whether the service holds a credential.
func (s *Service) Ready() bool {
	return s.apiKey != ""
}

// UpcomingEvents fetches up to maxResults future events from one calendar,
// ordered by start time.
func (s *Service) UpcomingEvents(ctx context.Context, calendarID string, maxResults int) ([]Event, error) {
	var out eventsResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"maxResults":   strconv.Itoa(maxResults),
			"timeMin":      time.Now().UTC().Format(time.RFC3339),
			"singleEvents": "true",
			"orderBy":      "startTime",
			"key":          s.apiKey,
		}).
		SetResult(&out).
		Get(fmt.Sprintf("/calendars/%s/events", url.PathEscape(calendarID)))
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("calendar API returned %s", resp.Status())
	}

	events := make([]Event, 0, len(out.Items))
	for _, item := range out.Items {
		events = append(events, Event{
			Summary:  item.Summary,
			Location: item.Location,
			Start:    item.Start.value(),
			End:      item.End.value(),
		})
	}

	slog.Debug("Fetched calendar events", "calendar_id", calendarID, "count", len(events))
	return events, nil
}
