package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deptsched/timetable-api/internal/models"
)

func taught(subject, teacher, room string) models.Assignment {
	return models.Assignment{
		Kind:      models.AssignmentTaught,
		Subject:   subject,
		TeacherID: teacher,
		Room:      room,
	}
}

func TestDetectConflictsTeacherDoubleBooked(t *testing.T) {
	week := models.WeekSchedule{{
		Day: "Monday",
		Slots: []models.DaySlot{{
			TimeSlot: models.TimeSlot{Label: "09:00 - 10:00", Kind: models.SlotTheory},
			Sections: map[string]models.Assignment{
				"A": taught("Programming", "faculty_001", "R101"),
				"B": taught("DBMS", "faculty_001", "R102"),
			},
		}},
	}}

	conflicts := DetectConflicts(week, []string{"A", "B"})
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.Conflict{
		Kind:     models.TeacherConflict,
		Resource: "faculty_001",
		Day:      "Monday",
		Time:     "09:00 - 10:00",
		SectionA: "A",
		SectionB: "B",
		Subject:  "DBMS",
	}, conflicts[0])
}

func TestDetectConflictsRoomDoubleBooked(t *testing.T) {
	week := models.WeekSchedule{{
		Day: "Monday",
		Slots: []models.DaySlot{{
			TimeSlot: models.TimeSlot{Label: "09:00 - 10:00", Kind: models.SlotTheory},
			Sections: map[string]models.Assignment{
				"A": taught("Programming", "faculty_001", "R101"),
				"B": {Kind: models.AssignmentFree, Room: "R101"},
			},
		}},
	}}

	conflicts := DetectConflicts(week, []string{"A", "B"})
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.RoomConflict, conflicts[0].Kind)
	assert.Equal(t, "R101", conflicts[0].Resource)
	assert.Equal(t, "A", conflicts[0].SectionA)
	assert.Equal(t, "B", conflicts[0].SectionB)
}

func TestDetectConflictsReuseAcrossSlotsIsFine(t *testing.T) {
	slot := func(label string) models.DaySlot {
		return models.DaySlot{
			TimeSlot: models.TimeSlot{Label: label, Kind: models.SlotTheory},
			Sections: map[string]models.Assignment{
				"A": taught("Programming", "faculty_001", "R101"),
			},
		}
	}
	week := models.WeekSchedule{
		{Day: "Monday", Slots: []models.DaySlot{slot("09:00 - 10:00"), slot("10:00 - 11:00")}},
		{Day: "Tuesday", Slots: []models.DaySlot{slot("09:00 - 10:00")}},
	}

	assert.Empty(t, DetectConflicts(week, []string{"A"}))
}

func TestDetectConflictsSkipsBreaksAndMissingRooms(t *testing.T) {
	week := models.WeekSchedule{{
		Day: "Monday",
		Slots: []models.DaySlot{
			{
				TimeSlot: models.TimeSlot{Label: "11:00 - 11:15", Kind: models.SlotBreak},
				Sections: map[string]models.Assignment{
					"A": {Kind: models.AssignmentBreak},
					"B": {Kind: models.AssignmentBreak},
				},
			},
			{
				TimeSlot: models.TimeSlot{Label: "11:15 - 12:15", Kind: models.SlotTheory},
				Sections: map[string]models.Assignment{
					// Two uncovered sections with no rooms left: neither the
					// empty teacher nor the missing room may collide.
					"A": {Kind: models.AssignmentFree},
					"B": {Kind: models.AssignmentFree},
				},
			},
		},
	}}

	assert.Empty(t, DetectConflicts(week, []string{"A", "B"}))
}

func TestDetectConflictsIdempotentAndOrderStable(t *testing.T) {
	week := models.WeekSchedule{{
		Day: "Monday",
		Slots: []models.DaySlot{{
			TimeSlot: models.TimeSlot{Label: "09:00 - 10:00", Kind: models.SlotTheory},
			Sections: map[string]models.Assignment{
				"A": taught("Programming", "faculty_001", "R101"),
				"B": taught("DBMS", "faculty_001", "R101"),
				"C": taught("OS", "faculty_001", "R101"),
			},
		}},
	}}

	first := DetectConflicts(week, []string{"A", "B", "C"})
	second := DetectConflicts(week, []string{"A", "B", "C"})
	assert.Equal(t, first, second)

	// Every later section conflicts against the first recorded one.
	require.Len(t, first, 4)
	for _, conflict := range first {
		assert.Equal(t, "A", conflict.SectionA)
	}
}

func TestDetectConflictsDerivesSectionsWhenNil(t *testing.T) {
	week := models.WeekSchedule{{
		Day: "Monday",
		Slots: []models.DaySlot{{
			TimeSlot: models.TimeSlot{Label: "09:00 - 10:00", Kind: models.SlotTheory},
			Sections: map[string]models.Assignment{
				"B": taught("DBMS", "faculty_001", "R102"),
				"A": taught("Programming", "faculty_001", "R101"),
			},
		}},
	}}

	conflicts := DetectConflicts(week, nil)
	require.Len(t, conflicts, 1)
	// Sorted label order makes the derived scan deterministic.
	assert.Equal(t, "A", conflicts[0].SectionA)
	assert.Equal(t, "B", conflicts[0].SectionB)
}
