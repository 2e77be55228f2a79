package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/dto"
	"github.com/deptsched/timetable-api/internal/models"
	"github.com/deptsched/timetable-api/internal/timetable"
	"github.com/deptsched/timetable-api/pkg/config"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
)

type fakeStore struct {
	week    models.WeekSchedule
	flat    []models.ClassRecord
	names   map[string]string
	faculty []models.Faculty
	saveErr error
	getErr  error
	saved   bool
}

func (f *fakeStore) SaveGeneration(ctx context.Context, week models.WeekSchedule, flat []models.ClassRecord, faculty []models.Faculty) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.week = week
	f.flat = flat
	f.faculty = faculty
	f.names = make(map[string]string, len(faculty))
	for _, member := range faculty {
		f.names[member.ID] = member.Name
	}
	f.saved = true
	return nil
}

func (f *fakeStore) WeekSchedule(ctx context.Context) (models.WeekSchedule, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.week == nil {
		return nil, appErrors.ErrCacheMiss
	}
	return f.week, nil
}

func (f *fakeStore) FlatRecords(ctx context.Context) ([]models.ClassRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.flat == nil {
		return nil, appErrors.ErrCacheMiss
	}
	return f.flat, nil
}

func (f *fakeStore) FacultyNames(ctx context.Context) (map[string]string, error) {
	if f.names == nil {
		return nil, appErrors.ErrCacheMiss
	}
	return f.names, nil
}

func (f *fakeStore) FacultyList(ctx context.Context) ([]models.Faculty, error) {
	if f.faculty == nil {
		return nil, appErrors.ErrCacheMiss
	}
	return f.faculty, nil
}

type fakeObserver struct {
	runs      int
	conflicts int
}

func (f *fakeObserver) RecordGeneration(conflicts int) {
	f.runs++
	f.conflicts += conflicts
}

func testGeneratorDefaults() config.GeneratorConfig {
	return config.GeneratorConfig{
		StartTime:         "09:00",
		EndTime:           "14:15",
		PeriodMinutes:     60,
		BreakMinutes:      15,
		BreakAfterPeriods: 2,
		RoomPolicy:        "dual_pool",
	}
}

func validRequest() dto.GenerateTimetableRequest {
	return dto.GenerateTimetableRequest{
		Sections: []string{"A", "B"},
		Faculty: []dto.FacultyInput{
			{ID: "fac-001", Name: "Dr. Rao"},
			{ID: "fac-002", Name: "Prof. Iyer"},
		},
		Subjects: []dto.SubjectInput{
			{Name: "Programming", HasLab: true},
			{Name: "DBMS", HasLab: false},
		},
		TheoryRooms: []string{"R101", "R102"},
		LabRooms:    []string{"L201", "L202"},
	}
}

func newTestTimetableService(store *fakeStore, observer generationObserver) *TimetableService {
	return NewTimetableService(timetable.NewEngine(zap.NewNop()), store, observer, testGeneratorDefaults(), zap.NewNop())
}

func TestTimetableServiceGenerate(t *testing.T) {
	store := &fakeStore{}
	observer := &fakeObserver{}
	svc := newTestTimetableService(store, observer)

	res, err := svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Len(t, res.Week, 5)
	assert.NotEmpty(t, res.Records)
	assert.True(t, store.saved)
	assert.Equal(t, 1, observer.runs)

	require.Len(t, res.Workloads, 2)
	assert.Equal(t, "fac-001", res.Workloads[0].TeacherID)
	assert.Equal(t, "Dr. Rao", res.Workloads[0].Name)
	total := 0
	for _, row := range res.Workloads {
		total += row.Hours
	}
	assert.Equal(t, len(res.Records), total)
}

func TestTimetableServiceGenerateValidation(t *testing.T) {
	svc := newTestTimetableService(&fakeStore{}, nil)

	tests := []struct {
		name   string
		mutate func(*dto.GenerateTimetableRequest)
		code   string
	}{
		{
			name:   "no sections",
			mutate: func(r *dto.GenerateTimetableRequest) { r.Sections = nil },
			code:   appErrors.ErrValidation.Code,
		},
		{
			name:   "no subjects",
			mutate: func(r *dto.GenerateTimetableRequest) { r.Subjects = nil },
			code:   appErrors.ErrPreconditionFailed.Code,
		},
		{
			name:   "no theory rooms",
			mutate: func(r *dto.GenerateTimetableRequest) { r.TheoryRooms = nil },
			code:   appErrors.ErrPreconditionFailed.Code,
		},
		{
			name:   "no lab rooms",
			mutate: func(r *dto.GenerateTimetableRequest) { r.LabRooms = nil },
			code:   appErrors.ErrPreconditionFailed.Code,
		},
		{
			name:   "unnamed faculty",
			mutate: func(r *dto.GenerateTimetableRequest) { r.Faculty[1].Name = "  " },
			code:   appErrors.ErrValidation.Code,
		},
		{
			name:   "bad room policy",
			mutate: func(r *dto.GenerateTimetableRequest) { r.RoomPolicy = "triple_pool" },
			code:   appErrors.ErrValidation.Code,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := svc.Generate(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, tc.code, appErrors.FromError(err).Code)
		})
	}
}

func TestTimetableServiceGeneratePersistFailure(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("redis down")}
	svc := newTestTimetableService(store, nil)

	_, err := svc.Generate(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceCurrent(t *testing.T) {
	store := &fakeStore{}
	svc := newTestTimetableService(store, nil)

	_, err := svc.Current(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	week, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Len(t, week, 5)
}

func TestTimetableServiceCheckConflictsIdempotent(t *testing.T) {
	store := &fakeStore{}
	svc := newTestTimetableService(store, nil)

	_, err := svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	first, err := svc.CheckConflicts(context.Background())
	require.NoError(t, err)
	second, err := svc.CheckConflicts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTimetableServiceWorkloads(t *testing.T) {
	store := &fakeStore{}
	svc := newTestTimetableService(store, nil)

	_, err := svc.Workloads(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	res, err := svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	rows, err := svc.Workloads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.Workloads, rows)
}
