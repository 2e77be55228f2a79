package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/dto"
	"github.com/deptsched/timetable-api/internal/models"
	"github.com/deptsched/timetable-api/internal/timetable"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
)

type scheduleReader interface {
	FlatRecords(ctx context.Context) ([]models.ClassRecord, error)
	FacultyNames(ctx context.Context) (map[string]string, error)
	FacultyList(ctx context.Context) ([]models.Faculty, error)
}

// FacultyService serves per-teacher views of the stored schedule.
type FacultyService struct {
	store  scheduleReader
	logger *zap.Logger
}

// NewFacultyService constructs the faculty view service.
func NewFacultyService(store scheduleReader, logger *zap.Logger) *FacultyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{store: store, logger: logger}
}

// List returns the roster stored with the last generation run.
func (s *FacultyService) List(ctx context.Context) ([]models.Faculty, error) {
	faculty, err := s.store.FacultyList(ctx)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable has been generated yet")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty roster")
	}
	return faculty, nil
}

// Schedule builds one teacher's weekly view: their classes grouped by day in
// week order, each day's classes sorted by start time.
func (s *FacultyService) Schedule(ctx context.Context, facultyID string) (*dto.FacultyScheduleResponse, error) {
	records, err := s.store.FlatRecords(ctx)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable has been generated yet")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class records")
	}

	names, err := s.store.FacultyNames(ctx)
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty names")
	}

	known := names[facultyID] != ""
	byDay := make(map[string][]models.ClassRecord)
	total := 0
	for _, record := range records {
		if record.Teacher != facultyID {
			continue
		}
		byDay[record.Day] = append(byDay[record.Day], record)
		total++
	}

	if !known && total == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
	}

	days := make([]dto.FacultyDay, 0, len(timetable.Weekdays))
	for _, day := range timetable.Weekdays {
		classes := byDay[day]
		if len(classes) == 0 {
			continue
		}
		// Slot labels are zero-padded "HH:MM - HH:MM", so lexicographic order
		// is chronological order.
		sort.Slice(classes, func(i, j int) bool { return classes[i].Time < classes[j].Time })
		days = append(days, dto.FacultyDay{Day: day, Classes: classes})
	}

	name := names[facultyID]
	if name == "" {
		name = facultyID
	}

	return &dto.FacultyScheduleResponse{
		FacultyID:  facultyID,
		Name:       name,
		TotalHours: total,
		Days:       days,
	}, nil
}
