package timetable

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/models"
)

// RoomPolicy selects the room assignment strategy. The dual-pool policy keeps
// theory and lab rooms in separate pools with cross-category fallback; the
// single-pool policy treats all rooms as one undifferentiated list.
type RoomPolicy string

const (
	RoomPolicyDualPool   RoomPolicy = "dual_pool"
	RoomPolicySinglePool RoomPolicy = "single_pool"
)

// Validation failures reported before generation starts. Resource exhaustion
// during generation is never an error; it degrades to free periods and
// missing-room assignments.
var (
	ErrNoSubjects    = errors.New("at least one subject is required")
	ErrNoTheoryRooms = errors.New("at least one theory room is required")
	ErrNoLabRooms    = errors.New("at least one lab room is required")
)

// GenerationInput is the read-only configuration for one run. The engine
// never mutates it; all scratch state lives in per-run pools.
type GenerationInput struct {
	Sections    []string
	Faculty     []models.Faculty
	Subjects    []models.Subject
	TheoryRooms []string
	LabRooms    []string
	Timing      models.TimingConfig
	Policy      RoomPolicy
}

// Result is everything one generation run produces.
type Result struct {
	Slots     []models.TimeSlot
	Week      models.WeekSchedule
	Flat      []models.ClassRecord
	Workloads map[string]int
	Conflicts []models.Conflict
}

// Engine builds weekly timetables with a single greedy pass: days outer,
// slots next, sections innermost. It never backtracks; an unlucky early
// claim stays claimed.
type Engine struct {
	logger *zap.Logger
}

// NewEngine constructs the assignment engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// ValidateInput rejects configurations the engine must not run on. The checks
// mirror the coordinator form's blocking validation.
func ValidateInput(input GenerationInput) error {
	if len(input.Subjects) == 0 {
		return ErrNoSubjects
	}
	if len(input.TheoryRooms) == 0 {
		return ErrNoTheoryRooms
	}
	if len(input.LabRooms) == 0 {
		return ErrNoLabRooms
	}
	for _, f := range input.Faculty {
		if f.Name == "" {
			return fmt.Errorf("faculty %s has no name", f.ID)
		}
	}
	return nil
}

// Generate produces the full week schedule, its flattened records, the
// per-teacher workload totals and the post-hoc conflict list. The output is
// deterministic for identical inputs.
func (e *Engine) Generate(input GenerationInput) (*Result, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	policy := input.Policy
	if policy == "" {
		policy = RoomPolicyDualPool
	}

	slots := GenerateSlots(input.Timing)
	teachers := newTeacherPool(input.Faculty)
	rooms := newRoomSelector(policy, input.TheoryRooms, input.LabRooms)
	workloads := make(map[string]int, len(input.Faculty))
	for _, f := range input.Faculty {
		workloads[f.ID] = 0
	}

	week := make(models.WeekSchedule, 0, len(Weekdays))
	var flat []models.ClassRecord

	for dayIdx, day := range Weekdays {
		daySchedule := models.DaySchedule{Day: day, Slots: make([]models.DaySlot, 0, len(slots))}

		for slotIdx, slot := range slots {
			row := models.DaySlot{
				TimeSlot: slot,
				Sections: make(map[string]Assignment, len(input.Sections)),
			}

			for sectionIdx, section := range input.Sections {
				var assigned Assignment

				if slot.Kind == models.SlotBreak {
					assigned = Assignment{Kind: models.AssignmentBreak}
				} else if available := teachers.Available(day, slot.Label); len(available) > 0 {
					picked := leastLoaded(available, workloads)
					subject := input.Subjects[(dayIdx+slotIdx+sectionIdx)%len(input.Subjects)]

					name := subject.Name
					if slot.Kind == models.SlotLab && subject.HasLab {
						name += " Lab"
					}

					assigned = Assignment{
						Kind:      models.AssignmentTaught,
						Subject:   name,
						TeacherID: picked.ID,
						Room:      rooms.claimTaught(day, slot.Label, slot.Kind, sectionIdx),
					}
					teachers.Claim(day, slot.Label, picked.ID)
					workloads[picked.ID]++
				} else {
					// Uncovered period. A room is still claimed when one is
					// free so the grid keeps a room column for the section.
					assigned = Assignment{
						Kind: models.AssignmentFree,
						Room: rooms.claimFree(day, slot.Label, slot.Kind),
					}
				}

				row.Sections[section] = assigned

				if assigned.Kind == models.AssignmentTaught {
					flat = append(flat, models.ClassRecord{
						Day:     day,
						Time:    slot.Label,
						Section: "Section " + section,
						Room:    assigned.RoomLabel(),
						Subject: assigned.Subject,
						Teacher: assigned.TeacherID,
						Type:    slot.Kind,
					})
				}
			}

			daySchedule.Slots = append(daySchedule.Slots, row)
		}

		week = append(week, daySchedule)
	}

	conflicts := DetectConflicts(week, input.Sections)

	e.logger.Info("timetable generated",
		zap.Int("days", len(week)),
		zap.Int("slots_per_day", len(slots)),
		zap.Int("sections", len(input.Sections)),
		zap.Int("class_records", len(flat)),
		zap.Int("conflicts", len(conflicts)),
		zap.String("room_policy", string(policy)),
	)

	return &Result{
		Slots:     slots,
		Week:      week,
		Flat:      flat,
		Workloads: workloads,
		Conflicts: conflicts,
	}, nil
}

// Assignment re-exported for call-site brevity inside the package.
type Assignment = models.Assignment

// leastLoaded picks the teacher with the lowest cumulative workload; ties go
// to whichever teacher appears first in the roster.
func leastLoaded(candidates []models.Faculty, workloads map[string]int) models.Faculty {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if workloads[c.ID] < workloads[best.ID] {
			best = c
		}
	}
	return best
}

// roomSelector applies the configured RoomPolicy on top of the raw pools.
type roomSelector struct {
	policy RoomPolicy
	pool   *roomPool
}

func newRoomSelector(policy RoomPolicy, theoryRooms, labRooms []string) *roomSelector {
	if policy == RoomPolicySinglePool {
		combined := make([]string, 0, len(theoryRooms)+len(labRooms))
		combined = append(combined, theoryRooms...)
		combined = append(combined, labRooms...)
		return &roomSelector{policy: policy, pool: newRoomPool(combined, nil)}
	}
	return &roomSelector{policy: policy, pool: newRoomPool(theoryRooms, labRooms)}
}

func (s *roomSelector) categories(kind models.SlotKind) (preferred, fallback RoomCategory) {
	if s.policy == RoomPolicySinglePool {
		return RoomTheory, RoomTheory
	}
	if kind == models.SlotLab {
		return RoomLab, RoomTheory
	}
	return RoomTheory, RoomLab
}

// claimTaught picks a room for a taught period. The preferred pool is chosen
// by slot kind and distributed round-robin over the section index; when it is
// exhausted the first room of the other pool is taken instead. Returns ""
// when every room is gone.
func (s *roomSelector) claimTaught(day, slot string, kind models.SlotKind, sectionIdx int) string {
	preferred, fallback := s.categories(kind)

	if rooms := s.pool.Available(day, slot, preferred); len(rooms) > 0 {
		room := rooms[sectionIdx%len(rooms)]
		s.pool.Claim(day, slot, preferred, room)
		return room
	}
	if fallback == preferred {
		return ""
	}
	if rooms := s.pool.Available(day, slot, fallback); len(rooms) > 0 {
		room := rooms[0]
		s.pool.Claim(day, slot, fallback, room)
		return room
	}
	return ""
}

// claimFree holds a room for an uncovered period. Only the kind-matching pool
// is consulted; free periods never steal from the other category.
func (s *roomSelector) claimFree(day, slot string, kind models.SlotKind) string {
	preferred, _ := s.categories(kind)
	rooms := s.pool.Available(day, slot, preferred)
	if len(rooms) == 0 {
		return ""
	}
	room := rooms[0]
	s.pool.Claim(day, slot, preferred, room)
	return room
}
