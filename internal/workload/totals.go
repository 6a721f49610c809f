package workload

import "fmt"

// DueHoursTable maps employment kinds to contractual due hours.
type DueHoursTable map[EmploymentKind]int

// SemesterDueHours is the per-semester quota.
var SemesterDueHours = DueHoursTable{
	EmploymentPermanent: 56,
	EmploymentContract:  28,
}

// AnnualDueHours is the per-year quota. It is not interchangeable with SemesterDueHours.
var AnnualDueHours = DueHoursTable{
	EmploymentPermanent: 192,
	EmploymentContract:  96,
}

// Totals aggregates dispensed, due and overtime hours.
type Totals struct {
	DispensedHours int `json:"dispensed_hours"`
	DueHours       int `json:"due_hours"`
	OvertimeHours  int `json:"overtime_hours"`
}

// DueFor looks up the quota of kind. With lenient set, unknown kinds fall back to CONTRACT.
func (t DueHoursTable) DueFor(kind EmploymentKind, lenient bool) (int, error) {
	if due, ok := t[kind]; ok {
		return due, nil
	}
	if lenient {
		if due, ok := t[EmploymentContract]; ok {
			return due, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEmploymentKind, kind)
}

// SumHours adds the hours of every entry.
func SumHours(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Hours
	}
	return total
}

// ComputeTotals sums entries against the due quota of kind in table.
func ComputeTotals(entries []Entry, kind EmploymentKind, table DueHoursTable) (Totals, error) {
	return computeTotals(entries, kind, table, false)
}

func computeTotals(entries []Entry, kind EmploymentKind, table DueHoursTable, lenient bool) (Totals, error) {
	due, err := table.DueFor(kind, lenient)
	if err != nil {
		return Totals{}, err
	}
	dispensed := SumHours(entries)
	overtime := dispensed - due
	if overtime < 0 {
		overtime = 0
	}
	return Totals{DispensedHours: dispensed, DueHours: due, OvertimeHours: overtime}, nil
}

// SemesterTotals computes totals over the entries of s only.
func SemesterTotals(entries []Entry, s Semester, kind EmploymentKind, table DueHoursTable, lenient bool) (Totals, error) {
	return computeTotals(FilterSemester(entries, s), kind, table, lenient)
}
