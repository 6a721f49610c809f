package workload

// WeekRow is a bucket with at most two displayed entries.
type WeekRow struct {
	Bucket WeekBucket `json:"bucket"`
	First  *Entry     `json:"first,omitempty"`
	Second *Entry     `json:"second,omitempty"`
}

// Cells returns the three printed cells of the row.
func (r WeekRow) Cells() []string {
	return []string{r.Bucket.Label, FormatEntryCell(r.First), FormatEntryCell(r.Second)}
}

// Overlaps reports whether e intersects the bucket's Monday–Friday range.
func Overlaps(e Entry, b WeekBucket) bool {
	return !e.DateStart.After(b.End) && !e.DateEnd.Before(b.Start)
}

// AssignEntriesToBuckets maps each bucket label to every overlapping entry in input order.
func AssignEntriesToBuckets(buckets []WeekBucket, entries []Entry) map[string][]Entry {
	assigned := make(map[string][]Entry, len(buckets))
	for _, b := range buckets {
		for _, e := range entries {
			if Overlaps(e, b) {
				assigned[b.Label] = append(assigned[b.Label], e)
			}
		}
	}
	return assigned
}

// BuildRows pairs every bucket with its first two overlapping entries; any
// further overlaps are not shown in that row.
func BuildRows(buckets []WeekBucket, entries []Entry) []WeekRow {
	rows := make([]WeekRow, 0, len(buckets))
	for _, b := range buckets {
		row := WeekRow{Bucket: b}
		for i := range entries {
			if !Overlaps(entries[i], b) {
				continue
			}
			e := entries[i]
			if row.First == nil {
				row.First = &e
				continue
			}
			row.Second = &e
			break
		}
		rows = append(rows, row)
	}
	return rows
}
