package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

const icsProductID = "-//room-session-api//session plan//EN"

// ICSExporter renders dataset events as an iCalendar (RFC 5545) feed.
type ICSExporter struct {
	now func() time.Time
}

// NewICSExporter builds an iCalendar exporter.
func NewICSExporter() *ICSExporter {
	return &ICSExporter{now: func() time.Time { return time.Now().UTC() }}
}

// ContentType implements Renderer.
func (e *ICSExporter) ContentType() string { return "text/calendar" }

// Extension implements Renderer.
func (e *ICSExporter) Extension() string { return "ics" }

// Render writes one VEVENT per dataset event.
func (e *ICSExporter) Render(data Dataset) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	if data.Title != "" {
		cal.SetXWRCalName(data.Title)
	}

	stamp := e.now()
	for i, ev := range data.Events {
		if ev.UID == "" {
			return nil, fmt.Errorf("event %d: uid is required", i)
		}
		if !ev.Start.Before(ev.End) {
			return nil, fmt.Errorf("event %s: start must be before end", ev.UID)
		}
		event := cal.AddEvent(ev.UID)
		event.SetDtStampTime(stamp)
		event.SetStartAt(ev.Start.UTC())
		event.SetEndAt(ev.End.UTC())
		event.SetSummary(ev.Summary)
		if ev.Location != "" {
			event.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			event.SetDescription(ev.Description)
		}
	}
	return []byte(cal.Serialize()), nil
}
