package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/models"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
)

// Fixed store keys. Every successful generation overwrites all of them
// wholesale; there is no versioning.
const (
	keyFlatTimetable = "timetable:flat"
	keyWeekTimetable = "timetable:week"
	keyFacultyNames  = "faculty:names"
	keyFacultyList   = "faculty:list"
)

// TimetableRepository persists generation output in an opaque JSON key-value
// store backed by Redis.
type TimetableRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(client *redis.Client, logger *zap.Logger) *TimetableRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableRepository{client: client, logger: logger}
}

// SaveGeneration stores the four documents of a successful run atomically:
// flattened records, the full week grid, the faculty display-name map and the
// faculty roster.
func (r *TimetableRepository) SaveGeneration(ctx context.Context, week models.WeekSchedule, flat []models.ClassRecord, faculty []models.Faculty) error {
	names := make(map[string]string, len(faculty))
	for _, f := range faculty {
		names[f.ID] = f.Name
	}

	payloads := map[string]interface{}{
		keyFlatTimetable: flat,
		keyWeekTimetable: week,
		keyFacultyNames:  names,
		keyFacultyList:   faculty,
	}

	pipe := r.client.TxPipeline()
	for key, value := range payloads {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		pipe.Set(ctx, key, raw, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("persist timetable: %w", err)
	}

	r.logger.Debug("timetable persisted",
		zap.Int("class_records", len(flat)),
		zap.Int("faculty", len(faculty)),
	)
	return nil
}

// WeekSchedule loads the persisted week grid.
func (r *TimetableRepository) WeekSchedule(ctx context.Context) (models.WeekSchedule, error) {
	var week models.WeekSchedule
	if err := r.get(ctx, keyWeekTimetable, &week); err != nil {
		return nil, err
	}
	return week, nil
}

// FlatRecords loads the persisted flattened class records.
func (r *TimetableRepository) FlatRecords(ctx context.Context) ([]models.ClassRecord, error) {
	var records []models.ClassRecord
	if err := r.get(ctx, keyFlatTimetable, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FacultyNames loads the faculty ID to display-name map.
func (r *TimetableRepository) FacultyNames(ctx context.Context) (map[string]string, error) {
	names := make(map[string]string)
	if err := r.get(ctx, keyFacultyNames, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// FacultyList loads the persisted faculty roster.
func (r *TimetableRepository) FacultyList(ctx context.Context) ([]models.Faculty, error) {
	var faculty []models.Faculty
	if err := r.get(ctx, keyFacultyList, &faculty); err != nil {
		return nil, err
	}
	return faculty, nil
}

func (r *TimetableRepository) get(ctx context.Context, key string, dest interface{}) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}
