package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opencampus/timetable-api/internal/dto"
	"github.com/opencampus/timetable-api/internal/models"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
	"github.com/opencampus/timetable-api/pkg/export"
	"github.com/opencampus/timetable-api/pkg/jobs"
)

type sectionSource interface {
	ListForScheduling(ctx context.Context, termID string) ([]models.Section, error)
}

type classroomSource interface {
	ListActive(ctx context.Context) ([]models.Classroom, error)
}

type studentLoadSource interface {
	StudentLoad(ctx context.Context, termID string, sectionIDs []string) (models.StudentLoad, error)
}

type assignmentStore interface {
	ReplaceForTerm(ctx context.Context, termID string, assignments []models.SectionAssignment) error
	ListByTerm(ctx context.Context, termID string) ([]models.SectionAssignment, error)
	DeleteByTerm(ctx context.Context, termID string) error
}

type runResultCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type runObserver interface {
	ObserveScheduleRun(outcome string, stats dto.RunStatistics)
}

// SchedulerConfig governs run behaviour.
type SchedulerConfig struct {
	MaxNodes      int
	CommitPartial bool
	ResultTTL     time.Duration
}

// SchedulerService drives one end-to-end scheduling run: snapshot, search,
// result packaging and the optional atomic commit through the assignment
// store. The engine itself has no persistence knowledge.
type SchedulerService struct {
	sections    sectionSource
	classrooms  classroomSource
	enrollments studentLoadSource
	assignments assignmentStore
	cache       runResultCache
	observer    runObserver
	queue       *jobs.Queue
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         SchedulerConfig

	csvExporter *export.CSVExporter
	pdfExporter *export.PDFExporter
}

// NewSchedulerService wires scheduler dependencies.
func NewSchedulerService(
	sections sectionSource,
	classrooms classroomSource,
	enrollments studentLoadSource,
	assignments assignmentStore,
	cache runResultCache,
	observer runObserver,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg SchedulerConfig,
) *SchedulerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &SchedulerService{
		sections:    sections,
		classrooms:  classrooms,
		enrollments: enrollments,
		assignments: assignments,
		cache:       cache,
		observer:    observer,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
		csvExporter: export.NewCSVExporter(),
		pdfExporter: export.NewPDFExporter(),
	}
}

// AttachQueue enables asynchronous runs through the background job queue.
func (s *SchedulerService) AttachQueue(queue *jobs.Queue) {
	s.queue = queue
}

// Run executes one scheduling run for the requested term. Partial
// unsatisfiability is a normal outcome (success=false with per-section
// reasons), not an error; only empty inputs and infrastructure failures
// return errors.
func (s *SchedulerService) Run(ctx context.Context, req dto.RunScheduleRequest) (*dto.ScheduleRunResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule run payload")
	}

	snapshot, err := s.buildSnapshot(ctx, req.TermID)
	if err != nil {
		return nil, err
	}

	maxNodes := s.cfg.MaxNodes
	if req.MaxNodes > 0 {
		maxNodes = req.MaxNodes
	}

	state := newSchedulerState(snapshot)
	search := newCSPSearch(state, snapshot, maxNodes)

	start := time.Now()
	success := search.run(ctx)
	duration := time.Since(start)

	conflicts := state.detectConflicts()
	if len(conflicts) > 0 {
		s.logger.Error("scheduler produced residual conflicts, this is an engine defect",
			zap.String("term_id", req.TermID),
			zap.Int("conflicts", len(conflicts)),
		)
	}

	resp := s.packageResult(req.TermID, snapshot, state, search, conflicts, success, duration)

	if req.Commit && len(resp.Assignments) > 0 && (success || s.cfg.CommitPartial) {
		if err := s.commit(ctx, req.TermID, resp.Assignments); err != nil {
			return nil, err
		}
		resp.Committed = true
	}

	s.cacheResult(ctx, resp)
	s.observe(resp)

	s.logger.Info("schedule run finished",
		zap.String("term_id", req.TermID),
		zap.String("run_id", resp.RunID),
		zap.Bool("success", resp.Success),
		zap.Bool("committed", resp.Committed),
		zap.Int("scheduled", resp.Stats.Scheduled),
		zap.Int("unscheduled", resp.Stats.Unscheduled),
		zap.Int("backtracks", resp.Stats.BacktrackCount),
		zap.Int("nodes", resp.Stats.NodeCount),
		zap.Duration("duration", duration),
	)
	return resp, nil
}

// EnqueueRun schedules a run on the background queue and returns immediately.
func (s *SchedulerService) EnqueueRun(ctx context.Context, req dto.RunScheduleRequest) (*dto.EnqueueRunResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule run payload")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "asynchronous runs are not enabled")
	}

	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    "schedule.run",
		Payload: req,
	}
	if err := s.queue.Enqueue(job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue schedule run")
	}
	return &dto.EnqueueRunResponse{RunID: job.ID, TermID: req.TermID, Status: "queued"}, nil
}

// HandleRunJob is the queue handler executing asynchronous runs.
func (s *SchedulerService) HandleRunJob(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.RunScheduleRequest)
	if !ok {
		return fmt.Errorf("unexpected payload type for job %s", job.ID)
	}
	if _, err := s.Run(ctx, req); err != nil {
		return fmt.Errorf("async schedule run for term %s: %w", req.TermID, err)
	}
	return nil
}

// LatestRun returns the most recent cached run result for a term.
func (s *SchedulerService) LatestRun(ctx context.Context, termID string) (*dto.ScheduleRunResponse, error) {
	if termID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "term id is required")
	}
	if s.cache == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no run result available for this term")
	}
	var resp dto.ScheduleRunResponse
	if err := s.cache.Get(ctx, runResultKey(termID), &resp); err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrCacheMiss.Code {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no run result available for this term")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load run result")
	}
	return &resp, nil
}

// ClearTerm removes the committed timetable for a term and invalidates its
// cached run result.
func (s *SchedulerService) ClearTerm(ctx context.Context, termID string) error {
	if termID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "term id is required")
	}
	if s.assignments == nil {
		return appErrors.Clone(appErrors.ErrInternal, "assignment store unavailable")
	}
	if err := s.assignments.DeleteByTerm(ctx, termID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear committed timetable")
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, runResultKey(termID)); err != nil {
			s.logger.Warn("failed to invalidate cached run result", zap.String("term_id", termID), zap.Error(err))
		}
	}
	s.logger.Info("term schedule cleared", zap.String("term_id", termID))
	return nil
}

// ExportTimetable renders the committed timetable for a term as CSV or PDF.
func (s *SchedulerService) ExportTimetable(ctx context.Context, termID, format string) ([]byte, string, error) {
	if termID == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "term id is required")
	}
	assignments, err := s.assignments.ListByTerm(ctx, termID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committed timetable")
	}
	if len(assignments) == 0 {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "no committed timetable for this term")
	}

	dataset := export.Dataset{Headers: []string{"Section", "Classroom", "Day", "Start", "End"}}
	for _, a := range assignments {
		slot, _ := models.TimeSlotByID(a.TimeSlotID)
		dataset.Rows = append(dataset.Rows, []string{
			a.SectionID,
			a.ClassroomID,
			models.Day(a.DayOfWeek).String(),
			slot.Start,
			slot.End,
		})
	}

	if format == "pdf" {
		payload, err := s.pdfExporter.Render(dataset, fmt.Sprintf("Timetable %s", termID))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable pdf")
		}
		return payload, "application/pdf", nil
	}

	payload, err := s.csvExporter.Render(dataset)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable csv")
	}
	return payload, "text/csv", nil
}

// buildSnapshot loads the read-only resource and demand model for one run.
// Sections are seeded largest-first and classrooms largest-first; ties break
// on id so two runs over the same data enumerate identically.
func (s *SchedulerService) buildSnapshot(ctx context.Context, termID string) (*models.ScheduleSnapshot, error) {
	sections, err := s.sections.ListForScheduling(ctx, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}
	if len(sections) == 0 {
		return nil, appErrors.ErrNoSections
	}

	classrooms, err := s.classrooms.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	if len(classrooms) == 0 {
		return nil, appErrors.ErrNoClassrooms
	}

	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].RequiredCapacity != sections[j].RequiredCapacity {
			return sections[i].RequiredCapacity > sections[j].RequiredCapacity
		}
		return sections[i].ID < sections[j].ID
	})
	sort.SliceStable(classrooms, func(i, j int) bool {
		if classrooms[i].Capacity != classrooms[j].Capacity {
			return classrooms[i].Capacity > classrooms[j].Capacity
		}
		return classrooms[i].ID < classrooms[j].ID
	})

	sectionIDs := make([]string, 0, len(sections))
	for _, sec := range sections {
		sectionIDs = append(sectionIDs, sec.ID)
	}
	load, err := s.enrollments.StudentLoad(ctx, termID, sectionIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student enrollments")
	}

	return &models.ScheduleSnapshot{
		TermID:      termID,
		Sections:    sections,
		Classrooms:  classrooms,
		StudentLoad: load,
	}, nil
}

func (s *SchedulerService) packageResult(
	termID string,
	snapshot *models.ScheduleSnapshot,
	state *schedulerState,
	search *cspSearch,
	conflicts []models.AssignmentConflict,
	success bool,
	duration time.Duration,
) *dto.ScheduleRunResponse {
	assignments := make([]dto.AssignmentProposal, 0, len(state.assigned))
	unassigned := make([]dto.UnassignedSection, 0, len(state.unassigned))
	for _, sec := range snapshot.Sections {
		if p, ok := state.assigned[sec.ID]; ok {
			slot, _ := models.TimeSlotByID(p.SlotID)
			assignments = append(assignments, dto.AssignmentProposal{
				SectionID:   sec.ID,
				ClassroomID: p.ClassroomID,
				DayOfWeek:   int(p.Day),
				Day:         p.Day.String(),
				TimeSlotID:  p.SlotID,
				StartTime:   slot.Start,
				EndTime:     slot.End,
			})
			continue
		}
		unassigned = append(unassigned, dto.UnassignedSection{
			SectionID: sec.ID,
			Reason:    search.reasons[sec.ID],
		})
	}

	return &dto.ScheduleRunResponse{
		RunID:       uuid.NewString(),
		TermID:      termID,
		Success:     success,
		Assignments: assignments,
		Unassigned:  unassigned,
		Conflicts:   conflicts,
		Stats: dto.RunStatistics{
			TotalSections:  len(snapshot.Sections),
			Scheduled:      len(assignments),
			Unscheduled:    len(unassigned),
			BacktrackCount: search.stats.Backtracks,
			NodeCount:      search.stats.Nodes,
			DurationMs:     duration.Milliseconds(),
		},
		GeneratedAt: time.Now().UTC(),
	}
}

// commit hands the run's assignments to the transactional persistence
// collaborator: prior entries for the affected sections are cleared, new
// entries written and section classroom references updated atomically.
func (s *SchedulerService) commit(ctx context.Context, termID string, proposals []dto.AssignmentProposal) error {
	if s.assignments == nil {
		return appErrors.Clone(appErrors.ErrInternal, "assignment store unavailable")
	}
	records := make([]models.SectionAssignment, 0, len(proposals))
	for _, p := range proposals {
		records = append(records, models.SectionAssignment{
			TermID:      termID,
			SectionID:   p.SectionID,
			ClassroomID: p.ClassroomID,
			DayOfWeek:   p.DayOfWeek,
			TimeSlotID:  p.TimeSlotID,
		})
	}
	if err := s.assignments.ReplaceForTerm(ctx, termID, records); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule")
	}
	return nil
}

func (s *SchedulerService) cacheResult(ctx context.Context, resp *dto.ScheduleRunResponse) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, runResultKey(resp.TermID), resp, s.cfg.ResultTTL); err != nil {
		s.logger.Warn("failed to cache run result", zap.String("term_id", resp.TermID), zap.Error(err))
	}
}

func (s *SchedulerService) observe(resp *dto.ScheduleRunResponse) {
	if s.observer == nil {
		return
	}
	outcome := "success"
	if !resp.Success {
		outcome = "partial"
	}
	s.observer.ObserveScheduleRun(outcome, resp.Stats)
}

func runResultKey(termID string) string {
	return "scheduler:last_run:" + termID
}
