package workload

import "fmt"

const commonCurriculumSuffix = "UE COMMUNE"

// FormatEntryCell renders "<kind> <name> (<hours>h)" followed by the common
// curriculum marker or the track name. A nil entry renders empty.
func FormatEntryCell(e *Entry) string {
	if e == nil {
		return ""
	}
	cell := fmt.Sprintf("%s %s (%dh)", e.ModuleKind, e.ModuleName, e.Hours)
	switch {
	case e.IsCommonCurriculum:
		cell += " " + commonCurriculumSuffix
	case e.TrackName != nil && *e.TrackName != "":
		cell += " " + *e.TrackName
	}
	return cell
}
