package timetable

import (
	"sort"

	"github.com/deptsched/timetable-api/internal/models"
)

type seenKey struct {
	resource string
	day      string
	slot     string
}

// DetectConflicts scans a finished week schedule for teachers or rooms booked
// twice at the same day/time across sections. The schedule is not mutated and
// the scan is order-stable: the same schedule always yields the same conflict
// list in the same order. sections fixes the iteration order; pass nil to
// derive it from the schedule itself (sorted labels).
//
// Reuse of a resource across different (day, slot) pairs is not a conflict;
// only collisions within one slot count. Break slots, free periods' empty
// teachers and missing-room placeholders never collide.
func DetectConflicts(week models.WeekSchedule, sections []string) []models.Conflict {
	if sections == nil {
		sections = sectionLabels(week)
	}

	conflicts := make([]models.Conflict, 0)
	teacherSeen := make(map[seenKey]string)
	roomSeen := make(map[seenKey]string)

	for _, day := range week {
		for _, slot := range day.Slots {
			if slot.Kind == models.SlotBreak {
				continue
			}
			for _, section := range sections {
				assigned, ok := slot.Sections[section]
				if !ok {
					continue
				}

				if assigned.Kind == models.AssignmentTaught && assigned.TeacherID != "" {
					key := seenKey{assigned.TeacherID, day.Day, slot.Label}
					if first, dup := teacherSeen[key]; dup {
						conflicts = append(conflicts, models.Conflict{
							Kind:     models.TeacherConflict,
							Resource: assigned.TeacherID,
							Day:      day.Day,
							Time:     slot.Label,
							SectionA: first,
							SectionB: section,
							Subject:  assigned.SubjectLabel(),
						})
					} else {
						teacherSeen[key] = section
					}
				}

				if assigned.Room != "" {
					key := seenKey{assigned.Room, day.Day, slot.Label}
					if first, dup := roomSeen[key]; dup {
						conflicts = append(conflicts, models.Conflict{
							Kind:     models.RoomConflict,
							Resource: assigned.Room,
							Day:      day.Day,
							Time:     slot.Label,
							SectionA: first,
							SectionB: section,
							Subject:  assigned.SubjectLabel(),
						})
					} else {
						roomSeen[key] = section
					}
				}
			}
		}
	}

	return conflicts
}

func sectionLabels(week models.WeekSchedule) []string {
	labels := make(map[string]struct{})
	for _, day := range week {
		for _, slot := range day.Slots {
			for section := range slot.Sections {
				labels[section] = struct{}{}
			}
		}
	}
	result := make([]string, 0, len(labels))
	for label := range labels {
		result = append(result, label)
	}
	sort.Strings(result)
	return result
}
