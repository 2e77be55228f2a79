package dto

import (
	"time"

	"github.com/deptsched/timetable-api/internal/models"
)

// FacultyInput is one roster entry supplied by the coordinator. Name may
// arrive empty from the form; the precondition check rejects it with a
// pointed message before generation starts.
type FacultyInput struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

// SubjectInput declares a subject and whether it may occupy lab slots.
type SubjectInput struct {
	Name   string `json:"name" validate:"required"`
	HasLab bool   `json:"hasLab"`
}

// GenerateTimetableRequest carries the full declarative configuration for one
// generation run. Timing is optional; omitted fields fall back to the server
// defaults.
type GenerateTimetableRequest struct {
	Sections    []string             `json:"sections" validate:"required,min=1"`
	Faculty     []FacultyInput       `json:"faculty" validate:"required,min=1,dive"`
	Subjects    []SubjectInput       `json:"subjects" validate:"omitempty,dive"`
	TheoryRooms []string             `json:"theoryRooms"`
	LabRooms    []string             `json:"labRooms"`
	Timing      *models.TimingConfig `json:"timing" validate:"omitempty"`
	RoomPolicy  string               `json:"roomPolicy" validate:"omitempty,oneof=dual_pool single_pool"`
}

// TeacherWorkload reports one teacher's weekly hours.
type TeacherWorkload struct {
	TeacherID string `json:"teacherId"`
	Name      string `json:"name"`
	Hours     int    `json:"hours"`
}

// GenerateTimetableResponse returns everything one run produced. Conflicts
// are informational: the schedule is persisted even when the list is
// non-empty.
type GenerateTimetableResponse struct {
	RunID       string               `json:"runId"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Slots       []models.TimeSlot    `json:"slots"`
	Week        models.WeekSchedule  `json:"week"`
	Records     []models.ClassRecord `json:"records"`
	Workloads   []TeacherWorkload    `json:"workloads"`
	Conflicts   []models.Conflict    `json:"conflicts"`
}

// ConflictCheckResponse is the manual re-check result for the stored week.
type ConflictCheckResponse struct {
	Count     int               `json:"count"`
	Conflicts []models.Conflict `json:"conflicts"`
}

// FacultyDay groups one weekday's classes for the faculty view.
type FacultyDay struct {
	Day     string               `json:"day"`
	Classes []models.ClassRecord `json:"classes"`
}

// FacultyScheduleResponse is the per-teacher weekly view.
type FacultyScheduleResponse struct {
	FacultyID  string       `json:"facultyId"`
	Name       string       `json:"name"`
	TotalHours int          `json:"totalHours"`
	Days       []FacultyDay `json:"days"`
}
