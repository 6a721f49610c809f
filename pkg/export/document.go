package export

import "time"

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// DatasetFromRows keys positional rows by header.
func DatasetFromRows(headers []string, rows [][]string) Dataset {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = row[i]
			}
		}
		out = append(out, record)
	}
	return Dataset{Headers: headers, Rows: out}
}

// CalendarEvent is an all-day event spanning Start to End inclusive.
type CalendarEvent struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Document is a titled table with free-form lines above and below it. Events
// are only rendered by calendar exporters.
type Document struct {
	Title    string
	Subtitle []string
	Dataset  Dataset
	Footer   []string
	Events   []CalendarEvent
}

func (d Dataset) record(row map[string]string) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
	}
	return record
}
