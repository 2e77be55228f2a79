// Package timetable implements the weekly timetable generator: slot layout,
// per-slot resource pools, the greedy assignment engine and the post-hoc
// conflict detector.
package timetable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deptsched/timetable-api/internal/models"
)

// Weekdays is the fixed generation horizon, in iteration order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// theorySlotThreshold is the positional theory/lab split: the first three
// non-break slots of a day are theory, everything after is a lab block. The
// configured lab duration does not participate in slot typing.
const theorySlotThreshold = 3

// GenerateSlots walks a cursor from the configured start time in period-sized
// increments and returns the ordered slot sequence for one day. A single
// break is inserted once breakAfterPeriods periods (or breaks) have been
// emitted, provided it still fits before the end time. The result is empty
// when the window is empty or the times are malformed.
func GenerateSlots(cfg models.TimingConfig) []models.TimeSlot {
	start, err := clockToMinutes(cfg.StartTime)
	if err != nil {
		return nil
	}
	end, err := clockToMinutes(cfg.EndTime)
	if err != nil {
		return nil
	}
	if cfg.PeriodDuration <= 0 {
		return nil
	}

	var slots []models.TimeSlot
	cursor := start
	periodCount := 0
	theoryCount := 0

	for cursor < end {
		if periodCount == cfg.BreakAfterPeriods {
			breakEnd := cursor + cfg.BreakDuration
			if breakEnd <= end {
				slots = append(slots, models.TimeSlot{
					Label: slotLabel(cursor, breakEnd),
					Kind:  models.SlotBreak,
				})
				cursor = breakEnd
				periodCount++
				continue
			}
		}

		periodEnd := cursor + cfg.PeriodDuration
		if periodEnd > end {
			break
		}

		kind := models.SlotTheory
		if theoryCount >= theorySlotThreshold {
			kind = models.SlotLab
		} else {
			theoryCount++
		}

		slots = append(slots, models.TimeSlot{
			Label: slotLabel(cursor, periodEnd),
			Kind:  kind,
		})
		cursor = periodEnd
		periodCount++
	}

	return slots
}

func slotLabel(from, to int) string {
	return minutesToClock(from) + " - " + minutesToClock(to)
}

func clockToMinutes(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}
	return hours*60 + minutes, nil
}

func minutesToClock(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
