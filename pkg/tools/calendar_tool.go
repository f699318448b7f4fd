package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ricky/pkg/tools/calendar"
)

// CalendarTool exposes upcoming Google Calendar events as the
// "google_calendar_events" capability.
type CalendarTool struct {
	service *calendar.Service
}

// NewCalendarTool wraps a calendar service as a registrable capability.
func NewCalendarTool(service *calendar.Service) *CalendarTool {
	return &CalendarTool{service: service}
}

// Name implements Tool.
func (t *CalendarTool) Name() string {
	return "google_calendar_events"
}

// Description implements Tool.
func (t *CalendarTool) Description() string {
	return "Get upcoming events from Google Calendar"
}

// calendarParams is the declared parameter signature. Unknown fields are
// rejected at decode time.
type calendarParams struct {
	MaxResults int    `json:"max_results"`
	CalendarID string `json:"calendar_id"`
}

// Execute implements Tool. An empty parameter mapping is a valid
// zero-argument invocation; both fields have defaults.
func (t *CalendarTool) Execute(ctx context.Context, params map[string]any) (Result, error) {
	var p calendarParams
	if err := DecodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.MaxResults <= 0 {
		p.MaxResults = 10
	}
	if p.CalendarID == "" {
		p.CalendarID = "primary"
	}

	slog.Info("Calendar events requested", "max_results", p.MaxResults, "calendar_id", p.CalendarID)

	if !t.service.Ready() {
		return Result{
			"status": "error",
			"error":  "Google Calendar service not initialized. Please check credentials.",
			"source": "google_calendar_api",
			"help":   "Set GOOGLE_CALENDAR_API_KEY in the environment",
		}, nil
	}

	events, err := t.service.UpcomingEvents(ctx, p.CalendarID, p.MaxResults)
	if err != nil {
		slog.Error("Error fetching calendar events", "error", err)
		return Result{
			"status":      "error",
			"error":       fmt.Sprintf("%v", err),
			"source":      "google_calendar_api",
			"calendar_id": p.CalendarID,
		}, nil
	}

	return Result{
		"status":      "success",
		"events":      events,
		"count":       len(events),
		"calendar_id": p.CalendarID,
		"source":      "google_calendar_api",
		"fetched_at":  time.Now().UTC().Format(time.RFC3339),
	}, nil
}
