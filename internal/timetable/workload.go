package timetable

import "github.com/deptsched/timetable-api/internal/models"

// WorkloadTotals counts taught periods per teacher from flattened records.
// The totals match the counters the engine accumulates during generation:
// one hour per non-break, non-free assignment.
func WorkloadTotals(records []models.ClassRecord) map[string]int {
	totals := make(map[string]int)
	for _, record := range records {
		if record.Teacher == "" {
			continue
		}
		totals[record.Teacher]++
	}
	return totals
}
