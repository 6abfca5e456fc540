package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/yigit/coursereview/internal/app/models"
)

// DefaultOrphanReportSchedule runs the orphan course report daily at 03:00 (seconds precision).
const DefaultOrphanReportSchedule = "0 0 3 * * *"

// maxLoggedOrphans bounds how many orphan course codes one report lists.
const maxLoggedOrphans = 50

// OrphanCourseLister returns courses that have no reviews.
type OrphanCourseLister interface {
	ListOrphanCourses(ctx context.Context) ([]*models.Course, error)
}

// Manager manages the scheduled maintenance jobs
type Manager struct {
	cron     *cron.Cron
	courses  OrphanCourseLister
	schedule string
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewManager creates a new job manager. An empty schedule selects DefaultOrphanReportSchedule.
func NewManager(courses OrphanCourseLister, schedule string, timeout time.Duration, lgr zerolog.Logger) *Manager {
	if schedule == "" {
		schedule = DefaultOrphanReportSchedule
	}
	return &Manager{
		cron:     cron.New(cron.WithSeconds()),
		courses:  courses,
		schedule: schedule,
		timeout:  timeout,
		logger:   lgr.With().Str("component", "jobs").Logger(),
	}
}

// Start registers the jobs and starts the scheduler
func (m *Manager) Start() error {
	if _, err := m.cron.AddFunc(m.schedule, func() {
		m.logJobStart("orphan_course_report")
		if _, err := m.ReportOrphanCourses(context.Background()); err != nil {
			m.logger.Error().Err(err).Str("job", "orphan_course_report").Msg("Job failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid orphan report schedule %q: %w", m.schedule, err)
	}

	m.cron.Start()
	m.logger.Info().Str("schedule", m.schedule).Msg("Scheduled jobs started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (m *Manager) Stop() {
	m.logger.Info().Msg("Stopping scheduled jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info().Msg("Scheduled jobs stopped")
}

// ReportOrphanCourses logs every course without reviews and returns how many there are.
// Such courses are left behind when a review insert fails after its course was created.
// Nothing is deleted.
func (m *Manager) ReportOrphanCourses(ctx context.Context) (int, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	orphans, err := m.courses.ListOrphanCourses(ctx)
	if err != nil {
		return 0, fmt.Errorf("error listing orphan courses: %w", err)
	}

	if len(orphans) == 0 {
		m.logger.Info().Msg("No courses without reviews")
		return 0, nil
	}

	codes := make([]string, 0, min(len(orphans), maxLoggedOrphans))
	for _, c := range orphans {
		if len(codes) == maxLoggedOrphans {
			break
		}
		codes = append(codes, c.CourseCode+" ("+c.CourseName+")")
	}

	m.logger.Warn().
		Int("count", len(orphans)).
		Strs("courses", codes).
		Msg("Courses without reviews found")
	return len(orphans), nil
}

func (m *Manager) logJobStart(name string) {
	m.logger.Info().Str("job", name).Time("startedAt", time.Now()).Msg("Starting job")
}
