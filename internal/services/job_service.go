package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soltixdb/finlytics/internal/cache"
	"github.com/soltixdb/finlytics/internal/logging"
	"github.com/soltixdb/finlytics/internal/metrics"
	"github.com/soltixdb/finlytics/internal/queue"
)

// JobKind selects the analysis a job runs
type JobKind string

const (
	JobKindForecast JobKind = "forecast"
	JobKindAnalyze  JobKind = "analyze"
)

// JobState is the lifecycle stage of a job
type JobState string

const (
	JobPending   JobState = "pending"
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
)

// Job is the queued unit of async work
type Job struct {
	ID          string           `json:"id"`
	Kind        JobKind          `json:"kind"`
	Forecast    *ForecastRequest `json:"forecast,omitempty"`
	Analyze     *AnalyzeRequest  `json:"analyze,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

// JobStatus is the stored state of a job
type JobStatus struct {
	ID          string            `json:"id"`
	Kind        JobKind           `json:"kind"`
	State       JobState          `json:"state"`
	Error       *ServiceError     `json:"error,omitempty"`
	Forecast    *ForecastResponse `json:"forecast,omitempty"`
	Analysis    *AnalysisReport   `json:"analysis,omitempty"`
	SubmittedAt time.Time         `json:"submitted_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

// JobService queues analyses and tracks their state in a dedicated job store
type JobService struct {
	logger    *logging.Logger
	publisher queue.Publisher
	store     cache.Cache
	analytics *AnalyticsService
	subject   string
	metrics   *metrics.Recorder
	now       func() time.Time
}

// NewJobService creates a new JobService
func NewJobService(
	logger *logging.Logger,
	publisher queue.Publisher,
	store cache.Cache,
	analytics *AnalyticsService,
	subject string,
) *JobService {
	return &JobService{
		logger:    logger,
		publisher: publisher,
		store:     store,
		analytics: analytics,
		subject:   subject,
		now:       time.Now,
	}
}

// SetMetrics attaches a Prometheus recorder
func (s *JobService) SetMetrics(rec *metrics.Recorder) {
	s.metrics = rec
}

func (s *JobService) log(ctx context.Context) *logging.Logger {
	return logging.FromContextOr(ctx, s.logger).WithContext(ctx)
}

func jobKey(id string) string {
	return "job:" + id
}

// Submit validates the job shape, records it as pending and publishes it.
// The job's ID is assigned here.
func (s *JobService) Submit(ctx context.Context, job *Job) (string, error) {
	switch job.Kind {
	case JobKindForecast:
		if job.Forecast == nil {
			return "", NewServiceError(CodeInvalidParameters, "forecast job requires a forecast request")
		}
	case JobKindAnalyze:
		if job.Analyze == nil {
			return "", NewServiceError(CodeInvalidParameters, "analyze job requires an analyze request")
		}
	default:
		return "", NewServiceErrorWithDetails(CodeInvalidParameters,
			fmt.Sprintf("unknown job kind: %q", job.Kind),
			map[string]interface{}{"available_kinds": []JobKind{JobKindForecast, JobKindAnalyze}})
	}

	job.ID = uuid.New().String()
	job.SubmittedAt = s.now().UTC()

	data, err := json.Marshal(job)
	if err != nil {
		return "", NewServiceError(CodeInternal, err.Error())
	}

	status := &JobStatus{ID: job.ID, Kind: job.Kind, State: JobPending, SubmittedAt: job.SubmittedAt}
	if err := s.store.Set(ctx, jobKey(job.ID), status); err != nil {
		return "", NewServiceError(CodeInternal, fmt.Sprintf("failed to record job: %v", err))
	}

	if err := s.publisher.Publish(ctx, s.subject, data); err != nil {
		_ = s.store.Delete(ctx, jobKey(job.ID))
		return "", NewServiceErrorWithDetails(CodeQueueUnavailable, "failed to enqueue job",
			map[string]interface{}{"error": err.Error()})
	}

	s.log(ctx).Info("Job submitted", "job_id", job.ID, "kind", job.Kind)
	return job.ID, nil
}

// Status returns the stored state of a job
func (s *JobService) Status(ctx context.Context, id string) (*JobStatus, error) {
	var status JobStatus
	if err := s.store.Get(ctx, jobKey(id), &status); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, NewServiceErrorWithDetails(CodeJobNotFound, "job not found",
				map[string]interface{}{"job_id": id})
		}
		return nil, NewServiceError(CodeInternal, err.Error())
	}
	return &status, nil
}

// Start subscribes HandleMessage to the job subject
func (s *JobService) Start(sub queue.Subscriber) error {
	if err := sub.Subscribe(s.subject, s.HandleMessage); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.subject, err)
	}
	s.logger.Info("Job worker started", "subject", s.subject)
	return nil
}

// HandleMessage runs one queued job and stores its outcome.
// Malformed messages are dropped. Only a failure to store the outcome is
// returned, so the queue redelivers the job.
func (s *JobService) HandleMessage(ctx context.Context, data []byte) error {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil || job.ID == "" {
		s.logger.Warn("Dropping malformed job message", "error", err, "bytes", len(data))
		return nil
	}

	ctx = logging.WithJobID(logging.WithLogger(ctx, s.logger), job.ID)
	status := &JobStatus{ID: job.ID, Kind: job.Kind, State: JobRunning, SubmittedAt: job.SubmittedAt}
	if err := s.store.Set(ctx, jobKey(job.ID), status); err != nil {
		return fmt.Errorf("record running job %s: %w", job.ID, err)
	}

	var err error
	switch job.Kind {
	case JobKindForecast:
		if job.Forecast == nil {
			err = NewServiceError(CodeInvalidParameters, "forecast job requires a forecast request")
			break
		}
		status.Forecast, err = s.analytics.Forecast(ctx, job.Forecast)
	case JobKindAnalyze:
		if job.Analyze == nil {
			err = NewServiceError(CodeInvalidParameters, "analyze job requires an analyze request")
			break
		}
		status.Analysis, err = s.analytics.Analyze(ctx, job.Analyze)
	default:
		err = NewServiceError(CodeInvalidParameters, fmt.Sprintf("unknown job kind: %q", job.Kind))
	}

	completed := s.now().UTC()
	status.CompletedAt = &completed
	if err != nil {
		status.State = JobFailed
		status.Error = AsServiceError(err)
		logging.WarnCtx(ctx, "Job failed", "code", status.Error.Code, "error", err)
	} else {
		status.State = JobSucceeded
		logging.InfoCtx(ctx, "Job completed", "kind", job.Kind)
	}

	if err := s.store.Set(ctx, jobKey(job.ID), status); err != nil {
		logging.ErrorCtx(ctx, "Failed to record job result", "state", status.State, "error", err)
		return fmt.Errorf("record job %s result: %w", job.ID, err)
	}
	s.metrics.JobFinished(string(job.Kind), string(status.State))
	return nil
}
