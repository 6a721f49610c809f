package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eduwaly/eduwaly-api/internal/dto"
	"github.com/eduwaly/eduwaly-api/internal/models"
	"github.com/eduwaly/eduwaly-api/internal/workload"
	"github.com/eduwaly/eduwaly-api/pkg/config"
	appErrors "github.com/eduwaly/eduwaly-api/pkg/errors"
	"github.com/eduwaly/eduwaly-api/pkg/export"
)

const workloadLegend = "Légende : CM = cours magistral, TD = travaux dirigés, TP = travaux pratiques, UE COMMUNE = unité d'enseignement commune"

type workloadTeacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	ListActive(ctx context.Context) ([]models.Teacher, error)
}

type workloadEntryReader interface {
	ListByTeacher(ctx context.Context, teacherID, academicYearID string) ([]models.ScheduleEntry, error)
	ListByAcademicYear(ctx context.Context, academicYearID string) ([]models.ScheduleEntry, error)
}

type academicYearReader interface {
	FindCurrent(ctx context.Context) (*models.AcademicYear, error)
	FindByID(ctx context.Context, id string) (*models.AcademicYear, error)
}

type signatoryReader interface {
	Signatory(ctx context.Context) (models.SignatorySettings, error)
}

// WorkloadConfig carries the parsed calendar fixtures and cache policy.
type WorkloadConfig struct {
	Options  workload.Options
	CacheTTL time.Duration
}

// WorkloadConfigFromSettings parses the MM-DD scan bounds and special week ranges.
func WorkloadConfigFromSettings(cfg config.WorkloadConfig) (WorkloadConfig, error) {
	out := WorkloadConfig{CacheTTL: cfg.CacheTTL}
	out.Options.LenientEmploymentKind = cfg.LenientEmploymentKind
	if cfg.ScanStart != "" {
		md, err := workload.ParseMonthDay(cfg.ScanStart)
		if err != nil {
			return WorkloadConfig{}, fmt.Errorf("WORKLOAD_SCAN_START: %w", err)
		}
		out.Options.ScanStart = md
	}
	if cfg.ScanEnd != "" {
		md, err := workload.ParseMonthDay(cfg.ScanEnd)
		if err != nil {
			return WorkloadConfig{}, fmt.Errorf("WORKLOAD_SCAN_END: %w", err)
		}
		out.Options.ScanEnd = md
	}
	for _, raw := range cfg.SpecialWeeks {
		r, err := workload.ParseDateRange(raw)
		if err != nil {
			return WorkloadConfig{}, fmt.Errorf("WORKLOAD_SPECIAL_WEEKS %q: %w", raw, err)
		}
		out.Options.SpecialWeeks = append(out.Options.SpecialWeeks, r)
	}
	return out, nil
}

// WorkloadService loads teachers, academic years and schedule entries and
// runs them through the workload pipeline.
type WorkloadService struct {
	teachers  workloadTeacherReader
	entries   workloadEntryReader
	years     academicYearReader
	signatory signatoryReader
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       WorkloadConfig
	now       func() time.Time
}

// NewWorkloadService constructs the service. cache, metrics and signatory may be nil.
func NewWorkloadService(
	teachers workloadTeacherReader,
	entries workloadEntryReader,
	years academicYearReader,
	signatory signatoryReader,
	cache *CacheService,
	metrics *MetricsService,
	cfg WorkloadConfig,
	logger *zap.Logger,
) *WorkloadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkloadService{
		teachers:  teachers,
		entries:   entries,
		years:     years,
		signatory: signatory,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithClock overrides the clock used for the signature date and timestamps.
func (s *WorkloadService) WithClock(now func() time.Time) *WorkloadService {
	if now != nil {
		s.now = now
	}
	return s
}

// TeacherReport computes the weekly timetable of one teacher for a semester.
// An empty semester means S2 and an empty yearID means the current year.
func (s *WorkloadService) TeacherReport(ctx context.Context, teacherID, semester, yearID string) (*dto.WorkloadReport, error) {
	sem, err := parseSemester(semester)
	if err != nil {
		return nil, err
	}
	teacher, err := s.loadTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	year, err := s.resolveYear(ctx, yearID)
	if err != nil {
		return nil, err
	}

	key := workloadCacheKey(teacher.ID, year.ID, sem)
	var cached dto.WorkloadReport
	if s.cache.Get(ctx, key, &cached) {
		cached.CacheHit = true
		return &cached, nil
	}

	report, err := s.build(ctx, teacher, year, sem)
	if err != nil {
		return nil, err
	}
	out := s.toDTO(teacher, year, report)
	s.cache.Set(ctx, key, out, s.cfg.CacheTTL)
	return out, nil
}

// AnnualSummary totals both semesters and checks the year against the annual quota.
func (s *WorkloadService) AnnualSummary(ctx context.Context, teacherID, yearID string) (*dto.AnnualSummary, error) {
	teacher, err := s.loadTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	year, err := s.resolveYear(ctx, yearID)
	if err != nil {
		return nil, err
	}
	rows, err := s.entries.ListByTeacher(ctx, teacher.ID, year.ID)
	if err != nil {
		return nil, s.internal(err, "load schedule entries", teacher.ID)
	}

	kind := toWorkloadTeacher(teacher).EmploymentKind
	lenient := s.cfg.Options.LenientEmploymentKind
	valid, skipped := workload.ValidateEntries(toWorkloadEntries(rows))
	s.logSkipped(teacher.ID, skipped)

	perSemester := func(sem workload.Semester) (workload.Totals, error) {
		return workload.SemesterTotals(valid, sem, kind, s.semesterTable(), lenient)
	}

	first, err := perSemester(workload.SemesterOne)
	if err != nil {
		return nil, s.translate(err, teacher)
	}
	second, err := perSemester(workload.SemesterTwo)
	if err != nil {
		return nil, s.translate(err, teacher)
	}
	annual, _, err := workload.AnnualTotals(toWorkloadTeacher(teacher), valid, workload.AnnualDueHours, lenient)
	if err != nil {
		return nil, s.translate(err, teacher)
	}

	return &dto.AnnualSummary{
		Teacher:        teacherSummary(teacher),
		AcademicYear:   year.Label,
		AcademicYearID: year.ID,
		FirstSemester:  first,
		SecondSemester: second,
		Annual:         annual,
	}, nil
}

// Overview returns the semester totals of every active teacher sorted by
// overtime, then name. A teacher whose totals cannot be computed is listed
// with an error instead of failing the whole overview.
func (s *WorkloadService) Overview(ctx context.Context, semester, yearID string) (*dto.WorkloadOverview, error) {
	sem, err := parseSemester(semester)
	if err != nil {
		return nil, err
	}
	year, err := s.resolveYear(ctx, yearID)
	if err != nil {
		return nil, err
	}
	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, s.internal(err, "list active teachers", "")
	}
	rows, err := s.entries.ListByAcademicYear(ctx, year.ID)
	if err != nil {
		return nil, s.internal(err, "load schedule entries", "")
	}
	byTeacher := make(map[string][]models.ScheduleEntry, len(teachers))
	for _, row := range rows {
		byTeacher[row.TeacherID] = append(byTeacher[row.TeacherID], row)
	}

	out := &dto.WorkloadOverview{
		AcademicYear:   year.Label,
		AcademicYearID: year.ID,
		Semester:       string(sem),
		Rows:           make([]dto.OverviewRow, 0, len(teachers)),
	}
	for i := range teachers {
		teacher := &teachers[i]
		valid, skipped := workload.ValidateEntries(toWorkloadEntries(byTeacher[teacher.ID]))
		s.logSkipped(teacher.ID, skipped)
		row := dto.OverviewRow{Teacher: teacherSummary(teacher)}
		totals, err := workload.SemesterTotals(valid, sem, toWorkloadTeacher(teacher).EmploymentKind, s.semesterTable(), s.cfg.Options.LenientEmploymentKind)
		if err != nil {
			row.Error = appErrors.ErrUnknownEmploymentKind.Code
		} else {
			row.Totals = totals
			out.TotalOvertime += totals.OvertimeHours
		}
		out.Rows = append(out.Rows, row)
	}
	sort.SliceStable(out.Rows, func(i, j int) bool {
		a, b := out.Rows[i], out.Rows[j]
		if a.Totals.OvertimeHours != b.Totals.OvertimeHours {
			return a.Totals.OvertimeHours > b.Totals.OvertimeHours
		}
		return a.Teacher.DisplayName < b.Teacher.DisplayName
	})
	return out, nil
}

// Document builds the printable workload sheet: identity lines, the weekly
// table, totals, the legend and the signature block.
func (s *WorkloadService) Document(ctx context.Context, teacherID, semester, yearID string) (export.Document, *dto.WorkloadReport, error) {
	report, err := s.TeacherReport(ctx, teacherID, semester, yearID)
	if err != nil {
		return export.Document{}, nil, err
	}

	signatory := models.SignatorySettings{}
	if s.signatory != nil {
		signatory, err = s.signatory.Signatory(ctx)
		if err != nil {
			s.logger.Sugar().Warnw("signatory settings unavailable", "error", err)
			signatory = models.SignatorySettings{}
		}
	}

	doc := export.Document{
		Title: "Emploi du temps de l'enseignant",
		Subtitle: []string{
			"Enseignant : " + report.Teacher.DisplayName,
			"Grade : " + report.Teacher.AcademicGrade,
			"Statut : " + employmentLabel(report.Teacher.EmploymentKind),
			fmt.Sprintf("Année académique : %s, semestre %s", report.AcademicYear, report.Semester),
		},
		Dataset: export.DatasetFromRows(report.Table.Header, report.Table.Rows),
		Footer:  s.footer(report.Totals, signatory),
	}
	doc.Events, err = s.calendarEvents(ctx, report)
	if err != nil {
		return export.Document{}, nil, err
	}
	return doc, report, nil
}

// calendarEvents lists the valid entries of the report's semester as all-day events.
func (s *WorkloadService) calendarEvents(ctx context.Context, report *dto.WorkloadReport) ([]export.CalendarEvent, error) {
	rows, err := s.entries.ListByTeacher(ctx, report.Teacher.ID, report.AcademicYearID)
	if err != nil {
		return nil, s.internal(err, "load schedule entries", report.Teacher.ID)
	}
	valid, _ := workload.ValidateEntries(toWorkloadEntries(rows))
	entries := workload.FilterSemester(valid, workload.Semester(report.Semester))
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].DateStart.Before(entries[j].DateStart) })

	events := make([]export.CalendarEvent, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		events = append(events, export.CalendarEvent{
			UID:         e.ID + "@eduwaly",
			Summary:     workload.FormatEntryCell(e),
			Description: fmt.Sprintf("%s, %dh", report.Teacher.DisplayName, e.Hours),
			Start:       e.DateStart,
			End:         e.DateEnd,
		})
	}
	return events, nil
}

// InvalidateTeacher drops cached reports of one teacher.
func (s *WorkloadService) InvalidateTeacher(ctx context.Context, teacherID string) error {
	return s.cache.Invalidate(ctx, fmt.Sprintf("workload:%s:*", teacherID))
}

func (s *WorkloadService) semesterTable() workload.DueHoursTable {
	if s.cfg.Options.DueHours != nil {
		return s.cfg.Options.DueHours
	}
	return workload.SemesterDueHours
}

func (s *WorkloadService) footer(totals workload.Totals, signatory models.SignatorySettings) []string {
	lines := []string{
		fmt.Sprintf("Total heures dispensées : %dh", totals.DispensedHours),
		fmt.Sprintf("Heures dues : %dh", totals.DueHours),
		fmt.Sprintf("Heures complémentaires : %dh", totals.OvertimeHours),
		workloadLegend,
	}
	dated := "Fait le " + s.now().Format("02/01/2006")
	if signatory.City != "" {
		dated = signatory.City + ", " + strings.ToLower(dated[:1]) + dated[1:]
	}
	lines = append(lines, dated, "Le Chef de département")
	if signatory.Name != "" {
		lines = append(lines, signatory.Name)
	}
	if signatory.Grade != "" {
		lines = append(lines, signatory.Grade)
	}
	return lines
}

func (s *WorkloadService) build(ctx context.Context, teacher *models.Teacher, year *models.AcademicYear, sem workload.Semester) (*workload.Report, error) {
	start := s.now()
	rows, err := s.entries.ListByTeacher(ctx, teacher.ID, year.ID)
	if err != nil {
		s.metrics.ObserveWorkloadReport(string(sem), "error", 0, time.Since(start))
		return nil, s.internal(err, "load schedule entries", teacher.ID)
	}

	report, err := workload.BuildReport(workload.ReportInput{
		Teacher:      toWorkloadTeacher(teacher),
		Entries:      toWorkloadEntries(rows),
		AcademicYear: year.Label,
		Semester:     sem,
		Options:      s.cfg.Options,
	})
	if err != nil {
		translated := s.translate(err, teacher)
		s.metrics.ObserveWorkloadReport(string(sem), appErrors.FromError(translated).Code, 0, time.Since(start))
		return nil, translated
	}
	s.logSkipped(teacher.ID, report.Skipped)
	s.metrics.ObserveWorkloadReport(string(sem), "ok", len(report.Skipped), time.Since(start))
	return report, nil
}

func (s *WorkloadService) toDTO(teacher *models.Teacher, year *models.AcademicYear, report *workload.Report) *dto.WorkloadReport {
	out := &dto.WorkloadReport{
		Teacher:        teacherSummary(teacher),
		AcademicYear:   year.Label,
		AcademicYearID: year.ID,
		Semester:       string(report.Semester),
		Bounds:         dto.NewPeriod(report.Bounds),
		Window:         dto.NewPeriod(report.Window),
		Table:          report.Table(),
		Totals:         report.Totals,
		GeneratedAt:    s.now().UTC(),
	}
	for _, sk := range report.Skipped {
		out.SkippedEntries = append(out.SkippedEntries, sk.EntryID)
	}
	return out
}

func (s *WorkloadService) loadTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTeacherNotFound
		}
		return nil, s.internal(err, "load teacher", id)
	}
	return teacher, nil
}

func (s *WorkloadService) resolveYear(ctx context.Context, id string) (*models.AcademicYear, error) {
	var (
		year *models.AcademicYear
		err  error
	)
	if id == "" {
		year, err = s.years.FindCurrent(ctx)
	} else {
		year, err = s.years.FindByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrAcademicYearNotFound
		}
		return nil, s.internal(err, "load academic year", "")
	}
	return year, nil
}

func (s *WorkloadService) translate(err error, teacher *models.Teacher) error {
	switch {
	case errors.Is(err, workload.ErrUnknownEmploymentKind):
		return appErrors.Wrap(err, appErrors.ErrUnknownEmploymentKind.Code, appErrors.ErrUnknownEmploymentKind.Status,
			fmt.Sprintf("unknown employment kind %q for teacher %s", teacher.EmploymentKind, teacher.ID))
	case errors.Is(err, workload.ErrInvalidSemester):
		return appErrors.Clone(appErrors.ErrValidation, "semester must be S1 or S2")
	default:
		return s.internal(err, "build workload report", teacher.ID)
	}
}

func (s *WorkloadService) internal(err error, op, teacherID string) error {
	s.logger.Sugar().Errorw("workload report failed", "op", op, "teacher_id", teacherID, "error", err)
	return appErrors.Wrap(err, appErrors.ErrReportFailed.Code, appErrors.ErrReportFailed.Status, appErrors.ErrReportFailed.Message)
}

func (s *WorkloadService) logSkipped(teacherID string, skipped []workload.EntryError) {
	for _, sk := range skipped {
		s.logger.Sugar().Warnw("skipping malformed schedule entry", "entry_id", sk.EntryID, "teacher_id", teacherID, "error", sk.Err)
	}
}

func parseSemester(raw string) (workload.Semester, error) {
	sem, err := workload.ParseSemester(raw)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "semester must be S1 or S2")
	}
	return sem, nil
}

func workloadCacheKey(teacherID, yearID string, sem workload.Semester) string {
	return fmt.Sprintf("workload:%s:%s:%s", teacherID, yearID, sem)
}

func toWorkloadTeacher(t *models.Teacher) workload.Teacher {
	return workload.Teacher{
		FamilyName:     t.FamilyName,
		GivenName:      t.GivenName,
		Title:          t.Title,
		EmploymentKind: workload.EmploymentKind(strings.ToUpper(strings.TrimSpace(t.EmploymentKind))),
		AcademicGrade:  t.AcademicGrade,
	}
}

func toWorkloadEntries(rows []models.ScheduleEntry) []workload.Entry {
	out := make([]workload.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, workload.Entry{
			ID:                 row.ID,
			DateStart:          row.DateStart,
			DateEnd:            row.DateEnd,
			Hours:              row.Hours,
			ModuleName:         row.ModuleName,
			ModuleKind:         row.ModuleKind,
			IsCommonCurriculum: row.IsCommonCurriculum,
			TrackName:          row.TrackName,
		})
	}
	return out
}

func teacherSummary(t *models.Teacher) dto.TeacherSummary {
	return dto.TeacherSummary{
		ID:             t.ID,
		DisplayName:    toWorkloadTeacher(t).DisplayName(),
		EmploymentKind: t.EmploymentKind,
		AcademicGrade:  t.AcademicGrade,
	}
}

func employmentLabel(kind string) string {
	switch workload.EmploymentKind(strings.ToUpper(kind)) {
	case workload.EmploymentPermanent:
		return "Permanent"
	case workload.EmploymentContract:
		return "Vacataire"
	default:
		return kind
	}
}
