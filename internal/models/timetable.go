package models

import "encoding/json"

// SlotKind classifies a time slot. The kind decides which room pool is
// consulted and whether the subject gets a lab label.
type SlotKind string

const (
	SlotTheory SlotKind = "theory"
	SlotLab    SlotKind = "lab"
	SlotBreak  SlotKind = "break"
)

// TimeSlot is one entry in the daily grid, e.g. {"09:00 - 10:00", theory}.
// The sequence is identical across all five days of a generation run.
type TimeSlot struct {
	Label string   `json:"time"`
	Kind  SlotKind `json:"type"`
}

// Faculty identifies a teaching staff member. Name must be non-empty before
// generation is allowed to start.
type Faculty struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Subject is a course offering. HasLab governs whether the subject may occupy
// lab slots under a "<name> Lab" label.
type Subject struct {
	Name   string `json:"name"`
	HasLab bool   `json:"hasLab"`
}

// TimingConfig holds the parameters the slot generator walks over.
// LabDuration is accepted for parity with the configuration form but is not
// consulted by slot typing: the theory/lab split is positional (first three
// non-break slots are theory, the rest labs).
type TimingConfig struct {
	StartTime         string `json:"startTime" validate:"required"`
	EndTime           string `json:"endTime" validate:"required"`
	PeriodDuration    int    `json:"periodDuration" validate:"required,min=1"`
	BreakDuration     int    `json:"breakDuration" validate:"min=0"`
	BreakAfterPeriods int    `json:"breakAfterPeriods" validate:"min=0"`
	LabDuration       int    `json:"labDuration" validate:"min=0"`
}

// AssignmentKind tags the outcome of one (day, slot, section) cell.
type AssignmentKind int

const (
	// AssignmentTaught is a regular class with subject, teacher and room.
	AssignmentTaught AssignmentKind = iota
	// AssignmentFree marks a period no teacher could cover. A room may still
	// be held so the grid keeps a visible room column.
	AssignmentFree
	// AssignmentBreak marks a non-teaching slot.
	AssignmentBreak
)

// Wire-format sentinels. They only exist at the serialization boundary; the
// in-memory model is the tagged Assignment.
const (
	SubjectBreak    = "BREAK"
	SubjectFree     = "FREE"
	RoomNone        = "NO ROOM AVAILABLE"
	RoomNoneForFree = "NO ROOM"
)

// Assignment is the engine's verdict for one section in one slot. Room is
// empty when no room could be claimed.
type Assignment struct {
	Kind      AssignmentKind
	Subject   string
	TeacherID string
	Room      string
}

// SubjectLabel returns the subject cell as rendered in the grid.
func (a Assignment) SubjectLabel() string {
	switch a.Kind {
	case AssignmentBreak:
		return SubjectBreak
	case AssignmentFree:
		return SubjectFree
	default:
		return a.Subject
	}
}

// RoomLabel returns the room cell, substituting the historical sentinel when
// no room was claimed.
func (a Assignment) RoomLabel() string {
	if a.Room != "" {
		return a.Room
	}
	switch a.Kind {
	case AssignmentBreak:
		return ""
	case AssignmentFree:
		return RoomNoneForFree
	default:
		return RoomNone
	}
}

type assignmentWire struct {
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
	Room    string `json:"room"`
}

// MarshalJSON renders the historical wire shape with sentinel strings.
func (a Assignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(assignmentWire{
		Subject: a.SubjectLabel(),
		Teacher: a.TeacherID,
		Room:    a.RoomLabel(),
	})
}

// UnmarshalJSON rebuilds the tagged form from the sentinel wire shape.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var wire assignmentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Subject {
	case SubjectBreak:
		*a = Assignment{Kind: AssignmentBreak}
	case SubjectFree:
		a.Kind = AssignmentFree
		a.Subject = ""
		a.TeacherID = ""
		a.Room = normalizeRoom(wire.Room)
	default:
		a.Kind = AssignmentTaught
		a.Subject = wire.Subject
		a.TeacherID = wire.Teacher
		a.Room = normalizeRoom(wire.Room)
	}
	return nil
}

func normalizeRoom(room string) string {
	if room == RoomNone || room == RoomNoneForFree {
		return ""
	}
	return room
}

// DaySlot is one row of a day's grid: the time slot plus each section's cell.
type DaySlot struct {
	TimeSlot
	Sections map[string]Assignment `json:"sections"`
}

// DaySchedule is one weekday of the generated grid.
type DaySchedule struct {
	Day   string    `json:"day"`
	Slots []DaySlot `json:"slots"`
}

// WeekSchedule is the engine's sole output artifact: Monday through Friday in
// order.
type WeekSchedule []DaySchedule

// ClassRecord is one flattened non-break, non-free assignment, the shape
// persisted for per-teacher filtering and export.
type ClassRecord struct {
	Day     string   `json:"day"`
	Time    string   `json:"time"`
	Section string   `json:"section"`
	Room    string   `json:"room"`
	Subject string   `json:"subject"`
	Teacher string   `json:"teacher"`
	Type    SlotKind `json:"type"`
}

// ConflictKind distinguishes double-booked teachers from double-booked rooms.
type ConflictKind string

const (
	TeacherConflict ConflictKind = "TEACHER_CONFLICT"
	RoomConflict    ConflictKind = "ROOM_CONFLICT"
)

// Conflict records a resource double-booked at the same day/time across two
// sections. SectionA is whichever section was encountered first.
type Conflict struct {
	Kind     ConflictKind `json:"type"`
	Resource string       `json:"resource"`
	Day      string       `json:"day"`
	Time     string       `json:"time"`
	SectionA string       `json:"section1"`
	SectionB string       `json:"section2"`
	Subject  string       `json:"subject"`
}
