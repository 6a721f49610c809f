package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

const icsProductID = "-//Eduwaly//Workload//FR"

// ICSExporter renders document events as an iCalendar feed.
type ICSExporter struct {
	now func() time.Time
}

// NewICSExporter constructs an ICS exporter.
func NewICSExporter() *ICSExporter {
	return &ICSExporter{now: time.Now}
}

// RenderDocument writes one all-day VEVENT per document event. The calendar
// name is the title followed by the subtitle lines.
func (e *ICSExporter) RenderDocument(doc Document) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	if name := calendarName(doc); name != "" {
		cal.SetXWRCalName(name)
	}

	stamp := e.now().UTC()
	for _, ev := range doc.Events {
		if ev.UID == "" {
			return nil, fmt.Errorf("calendar event %q has no uid", ev.Summary)
		}
		if ev.End.Before(ev.Start) {
			return nil, fmt.Errorf("calendar event %s ends before it starts", ev.UID)
		}
		event := cal.AddEvent(ev.UID)
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(ev.Start)
		// DTEND is exclusive for all-day events.
		event.SetAllDayEndAt(ev.End.AddDate(0, 0, 1))
		event.SetSummary(ev.Summary)
		if ev.Description != "" {
			event.SetDescription(ev.Description)
		}
	}

	buf := &bytes.Buffer{}
	if err := cal.SerializeTo(buf); err != nil {
		return nil, fmt.Errorf("serialize calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func calendarName(doc Document) string {
	parts := make([]string, 0, len(doc.Subtitle)+1)
	if doc.Title != "" {
		parts = append(parts, doc.Title)
	}
	parts = append(parts, doc.Subtitle...)
	return strings.Join(parts, " - ")
}
