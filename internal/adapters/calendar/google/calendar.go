package google

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	eventDuration   = time.Hour
	eventIDProperty = "legalos_event_id"
)

// CalendarSyncer pushes firm events to a Google Calendar.
type CalendarSyncer struct {
	srv        *calendar.Service
	calendarID string
	location   *time.Location
}

// NewCalendarSyncer authenticates with a service-account or authorized-user
// credentials file.
func NewCalendarSyncer(ctx context.Context, credentialsFile, calendarID, timezone string) (*CalendarSyncer, error) {
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read google credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, raw, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}
	return NewCalendarSyncerWithOptions(ctx, calendarID, timezone, option.WithCredentials(creds))
}

// NewCalendarSyncerWithOptions builds a syncer from raw client options.
func NewCalendarSyncerWithOptions(ctx context.Context, calendarID, timezone string, opts ...option.ClientOption) (*CalendarSyncer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load calendar timezone %q: %w", timezone, err)
	}
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar client: %w", err)
	}
	return &CalendarSyncer{srv: srv, calendarID: calendarID, location: loc}, nil
}

var _ portsrepo.CalendarSyncer = (*CalendarSyncer)(nil)

func (c *CalendarSyncer) PushEvent(ctx context.Context, event domain.CalendarEvent) (string, error) {
	gEvent, err := c.toGoogleEvent(event)
	if err != nil {
		return "", err
	}
	created, err := c.srv.Events.Insert(c.calendarID, gEvent).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert calendar event: %w", err)
	}
	return created.Id, nil
}

func (c *CalendarSyncer) toGoogleEvent(event domain.CalendarEvent) (*calendar.Event, error) {
	start, err := time.ParseInLocation(domain.DateLayout+" 15:04", event.Date+" "+event.Time, c.location)
	if err != nil {
		return nil, fmt.Errorf("parse event start %s %s: %w", event.Date, event.Time, err)
	}

	var desc []string
	if event.Description != "" {
		desc = append(desc, event.Description)
	}
	if event.MatterID != "" {
		desc = append(desc, "Matter: "+event.MatterID)
	}
	if event.LawyerAssigned != "" {
		desc = append(desc, "Lawyer: "+event.LawyerAssigned)
	}

	return &calendar.Event{
		Summary:     fmt.Sprintf("[%s] %s", event.Type, event.Title),
		Description: strings.Join(desc, "\n"),
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: start.Add(eventDuration).Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{eventIDProperty: event.ID},
		},
	}, nil
}
