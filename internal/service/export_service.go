package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/models"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
	"github.com/deptsched/timetable-api/pkg/export"
)

// Export formats supported by the export endpoints.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

var timetableHeaders = []string{"Day", "Time", "Section", "Subject", "Teacher", "Room", "Type"}

type exportArchive interface {
	Save(filename string, data []byte) (string, error)
}

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the stored schedule as CSV or PDF downloads and
// archives a copy of each render on disk.
type ExportService struct {
	store   scheduleReader
	faculty *FacultyService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	archive exportArchive
	logger  *zap.Logger
}

// NewExportService constructs the export service. archive may be nil, in
// which case renders are not kept on disk.
func NewExportService(store scheduleReader, faculty *FacultyService, archive exportArchive, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:   store,
		faculty: faculty,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		archive: archive,
		logger:  logger,
	}
}

// Timetable renders the full department schedule.
func (s *ExportService) Timetable(ctx context.Context, format string) (*ExportFile, error) {
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
	return s.render(format, "department-timetable", "Department Weekly Timetable", recordsDataset(records, names))
}

// FacultySchedule renders one teacher's weekly schedule.
func (s *ExportService) FacultySchedule(ctx context.Context, facultyID, format string) (*ExportFile, error) {
	schedule, err := s.faculty.Schedule(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	names, err := s.store.FacultyNames(ctx)
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty names")
	}

	var records []models.ClassRecord
	for _, day := range schedule.Days {
		records = append(records, day.Classes...)
	}
	base := fmt.Sprintf("schedule-%s", facultyID)
	title := fmt.Sprintf("Weekly Schedule: %s", schedule.Name)
	return s.render(format, base, title, recordsDataset(records, names))
}

func (s *ExportService) render(format, base, title string, data export.Dataset) (*ExportFile, error) {
	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case FormatCSV:
		payload, err = s.csv.Render(data)
		contentType = "text/csv"
	case FormatPDF:
		payload, err = s.pdf.Render(data, title)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("%s-%s.%s", base, time.Now().UTC().Format("20060102-150405"), format)
	if s.archive != nil {
		if path, saveErr := s.archive.Save(filename, payload); saveErr != nil {
			s.logger.Warn("failed to archive export", zap.String("filename", filename), zap.Error(saveErr))
		} else {
			s.logger.Info("export archived", zap.String("path", path))
		}
	}

	return &ExportFile{Filename: filename, ContentType: contentType, Data: payload}, nil
}

// recordsDataset flattens class records into the tabular export shape,
// substituting display names for teacher IDs where known.
func recordsDataset(records []models.ClassRecord, names map[string]string) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		teacher := record.Teacher
		if name := names[record.Teacher]; name != "" {
			teacher = name
		}
		rows = append(rows, map[string]string{
			"Day":     record.Day,
			"Time":    record.Time,
			"Section": record.Section,
			"Subject": record.Subject,
			"Teacher": teacher,
			"Room":    record.Room,
			"Type":    string(record.Type),
		})
	}
	return export.Dataset{Headers: timetableHeaders, Rows: rows}
}
