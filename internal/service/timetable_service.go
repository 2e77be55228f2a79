package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/dto"
	"github.com/deptsched/timetable-api/internal/models"
	"github.com/deptsched/timetable-api/internal/timetable"
	"github.com/deptsched/timetable-api/pkg/config"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
)

type timetableStore interface {
	SaveGeneration(ctx context.Context, week models.WeekSchedule, flat []models.ClassRecord, faculty []models.Faculty) error
	WeekSchedule(ctx context.Context) (models.WeekSchedule, error)
	FlatRecords(ctx context.Context) ([]models.ClassRecord, error)
	FacultyNames(ctx context.Context) (map[string]string, error)
	FacultyList(ctx context.Context) ([]models.Faculty, error)
}

type generationObserver interface {
	RecordGeneration(conflicts int)
}

// TimetableService orchestrates generation runs and serves the stored
// schedule. Runs are serialized: the engine itself is stateless, but two
// concurrent runs would race on the persisted snapshot.
type TimetableService struct {
	engine    *timetable.Engine
	store     timetableStore
	metrics   generationObserver
	validator *validator.Validate
	logger    *zap.Logger
	defaults  config.GeneratorConfig

	mu sync.Mutex
}

// NewTimetableService constructs the timetable orchestration service.
func NewTimetableService(engine *timetable.Engine, store timetableStore, metrics generationObserver, defaults config.GeneratorConfig, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		engine:    engine,
		store:     store,
		metrics:   metrics,
		validator: validator.New(),
		logger:    logger,
		defaults:  defaults,
	}
}

// Generate runs one full generation pass and persists the result as the
// current schedule. Conflicts do not block persistence; they are returned so
// the coordinator can decide whether to re-run with more resources.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	input := s.buildInput(req)
	if err := timetable.ValidateInput(input); err != nil {
		return nil, mapGenerationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.engine.Generate(input)
	if err != nil {
		return nil, mapGenerationError(err)
	}

	if err := s.store.SaveGeneration(ctx, result.Week, result.Flat, input.Faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable")
	}

	if s.metrics != nil {
		s.metrics.RecordGeneration(len(result.Conflicts))
	}

	resp := &dto.GenerateTimetableResponse{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Slots:       result.Slots,
		Week:        result.Week,
		Records:     result.Flat,
		Workloads:   workloadRows(input.Faculty, result.Workloads),
		Conflicts:   result.Conflicts,
	}

	s.logger.Info("generation run persisted",
		zap.String("run_id", resp.RunID),
		zap.Int("sections", len(input.Sections)),
		zap.Int("records", len(result.Flat)),
		zap.Int("conflicts", len(result.Conflicts)))

	return resp, nil
}

// Current returns the stored week schedule.
func (s *TimetableService) Current(ctx context.Context) (models.WeekSchedule, error) {
	week, err := s.store.WeekSchedule(ctx)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable has been generated yet")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return week, nil
}

// CheckConflicts re-runs conflict detection over the stored schedule. The
// result for an unchanged schedule is identical run to run.
func (s *TimetableService) CheckConflicts(ctx context.Context) (*dto.ConflictCheckResponse, error) {
	week, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	conflicts := timetable.DetectConflicts(week, nil)
	return &dto.ConflictCheckResponse{Count: len(conflicts), Conflicts: conflicts}, nil
}

// Workloads recomputes weekly hours per teacher from the stored flat records.
// Rows follow roster order; teachers with zero classes still appear.
func (s *TimetableService) Workloads(ctx context.Context) ([]dto.TeacherWorkload, error) {
	records, err := s.store.FlatRecords(ctx)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable has been generated yet")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class records")
	}
	faculty, err := s.store.FacultyList(ctx)
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty roster")
	}
	return workloadRows(faculty, timetable.WorkloadTotals(records)), nil
}

func (s *TimetableService) buildInput(req dto.GenerateTimetableRequest) timetable.GenerationInput {
	timing := models.TimingConfig{
		StartTime:         s.defaults.StartTime,
		EndTime:           s.defaults.EndTime,
		PeriodDuration:    s.defaults.PeriodMinutes,
		BreakDuration:     s.defaults.BreakMinutes,
		BreakAfterPeriods: s.defaults.BreakAfterPeriods,
		LabDuration:       s.defaults.LabDurationMinutes,
	}
	if req.Timing != nil {
		timing = *req.Timing
	}

	policy := timetable.RoomPolicy(req.RoomPolicy)
	if policy == "" {
		policy = timetable.RoomPolicy(s.defaults.RoomPolicy)
	}

	faculty := make([]models.Faculty, 0, len(req.Faculty))
	for _, f := range req.Faculty {
		faculty = append(faculty, models.Faculty{ID: f.ID, Name: strings.TrimSpace(f.Name)})
	}
	subjects := make([]models.Subject, 0, len(req.Subjects))
	for _, sub := range req.Subjects {
		subjects = append(subjects, models.Subject{Name: strings.TrimSpace(sub.Name), HasLab: sub.HasLab})
	}

	return timetable.GenerationInput{
		Sections:    req.Sections,
		Faculty:     faculty,
		Subjects:    subjects,
		TheoryRooms: req.TheoryRooms,
		LabRooms:    req.LabRooms,
		Timing:      timing,
		Policy:      policy,
	}
}

// mapGenerationError translates engine preconditions into client-facing
// errors with the messages the coordinator form shows.
func mapGenerationError(err error) error {
	switch {
	case errors.Is(err, timetable.ErrNoSubjects):
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "please add at least one subject")
	case errors.Is(err, timetable.ErrNoTheoryRooms):
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "please add at least one theory room")
	case errors.Is(err, timetable.ErrNoLabRooms):
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "please add at least one lab room")
	default:
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
}

func workloadRows(faculty []models.Faculty, totals map[string]int) []dto.TeacherWorkload {
	rows := make([]dto.TeacherWorkload, 0, len(faculty))
	seen := make(map[string]bool, len(faculty))
	for _, f := range faculty {
		rows = append(rows, dto.TeacherWorkload{TeacherID: f.ID, Name: f.Name, Hours: totals[f.ID]})
		seen[f.ID] = true
	}
	// Teachers present in records but missing from the roster still get a row.
	extras := make([]string, 0)
	for id := range totals {
		if !seen[id] {
			extras = append(extras, id)
		}
	}
	sort.Strings(extras)
	for _, id := range extras {
		rows = append(rows, dto.TeacherWorkload{TeacherID: id, Name: id, Hours: totals[id]})
	}
	return rows
}
