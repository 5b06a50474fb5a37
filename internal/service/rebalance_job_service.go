package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/room-session-api/internal/dto"
	"github.com/noah-isme/room-session-api/internal/models"
	appErrors "github.com/noah-isme/room-session-api/pkg/errors"
	"github.com/noah-isme/room-session-api/pkg/jobs"
)

// RebalanceJobType tags rebalance jobs on the worker queue.
const RebalanceJobType = "rebalance"

type rebalanceRunner interface {
	Get(ctx context.Context, draftID string) (*dto.DraftResponse, error)
	ValidateRebalance(req dto.RebalanceRequest) error
	RunRebalance(ctx context.Context, draftID string, req dto.RebalanceRequest, mode string) (*dto.RebalanceResponse, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
	Cancel(jobID string) bool
}

// RebalanceJobConfig governs how long finished jobs stay queryable.
type RebalanceJobConfig struct {
	ResultTTL time.Duration
}

type rebalanceJobRecord struct {
	job     models.RebalanceJob
	request dto.RebalanceRequest
	result  *dto.RebalanceResponse
}

// RebalanceJobService runs rebalances on the worker queue so callers can poll or cancel them.
type RebalanceJobService struct {
	runner  rebalanceRunner
	queue   jobDispatcher
	metrics *MetricsService
	logger  *zap.Logger
	cfg     RebalanceJobConfig
	now     func() time.Time

	mu   sync.Mutex
	jobs map[string]*rebalanceJobRecord
}

// NewRebalanceJobService constructs the job service. The queue handler must call Handle.
func NewRebalanceJobService(runner rebalanceRunner, queue jobDispatcher, metrics *MetricsService, logger *zap.Logger, cfg RebalanceJobConfig) *RebalanceJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = time.Hour
	}
	return &RebalanceJobService{
		runner:  runner,
		queue:   queue,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
		jobs:    make(map[string]*rebalanceJobRecord),
	}
}

// SetQueue attaches the dispatcher once the queue has been built around Handle.
func (s *RebalanceJobService) SetQueue(queue jobDispatcher) {
	s.mu.Lock()
	s.queue = queue
	s.mu.Unlock()
}

// Submit validates the request and queues a rebalance for the draft.
func (s *RebalanceJobService) Submit(ctx context.Context, draftID string, req dto.RebalanceRequest) (*dto.RebalanceJobResponse, error) {
	if err := s.runner.ValidateRebalance(req); err != nil {
		return nil, err
	}
	if _, err := s.runner.Get(ctx, draftID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.purgeLocked()
	queue := s.queue
	record := &rebalanceJobRecord{
		job: models.RebalanceJob{
			ID:        uuid.NewString(),
			DraftID:   draftID,
			Status:    models.RebalanceJobQueued,
			CreatedAt: s.now(),
		},
		request: req,
	}
	s.jobs[record.job.ID] = record
	s.mu.Unlock()

	if queue == nil {
		s.finish(record.job.ID, models.RebalanceJobFailed, "rebalance queue unavailable", nil)
		return nil, appErrors.Clone(appErrors.ErrInternal, "rebalance queue unavailable")
	}
	if err := queue.Enqueue(jobs.Job{ID: record.job.ID, Type: RebalanceJobType, Payload: draftID}); err != nil {
		s.finish(record.job.ID, models.RebalanceJobFailed, "failed to enqueue job", nil)
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, appErrors.Wrap(err, appErrors.ErrPreconditionFailed.Code, appErrors.ErrPreconditionFailed.Status, "rebalance queue is full")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue rebalance job")
	}
	return s.Status(ctx, record.job.ID)
}

// Status reports a job and, once succeeded, its result.
func (s *RebalanceJobService) Status(_ context.Context, jobID string) (*dto.RebalanceJobResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	record, ok := s.jobs[jobID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "rebalance job not found")
	}
	return toJobResponse(record), nil
}

// Cancel stops a queued or running job. Queued jobs are cancelled at once;
// running jobs record CANCELLED when the search observes the cancellation.
func (s *RebalanceJobService) Cancel(_ context.Context, jobID string) (*dto.RebalanceJobResponse, error) {
	s.mu.Lock()
	record, ok := s.jobs[jobID]
	if !ok {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrNotFound, "rebalance job not found")
	}
	if record.job.Status.Terminal() {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrConflict, "rebalance job already finished")
	}
	queued := record.job.Status == models.RebalanceJobQueued
	if queued {
		s.markLocked(record, models.RebalanceJobCancelled, "cancelled before start", nil)
	}
	queue := s.queue
	s.mu.Unlock()

	if queue != nil {
		queue.Cancel(jobID)
	}
	if queued {
		s.metrics.RecordRebalanceJob(string(models.RebalanceJobCancelled))
	}
	s.logger.Info("rebalance job cancel requested", zap.String("job_id", jobID), zap.Bool("queued", queued))
	return s.Status(context.Background(), jobID)
}

// Handle is the queue handler for rebalance jobs.
func (s *RebalanceJobService) Handle(ctx context.Context, job jobs.Job) error {
	s.mu.Lock()
	record, ok := s.jobs[job.ID]
	if !ok || record.job.Status != models.RebalanceJobQueued {
		s.mu.Unlock()
		return nil
	}
	started := s.now()
	record.job.Status = models.RebalanceJobRunning
	record.job.StartedAt = &started
	draftID := record.job.DraftID
	req := record.request
	s.mu.Unlock()

	result, err := s.runner.RunRebalance(ctx, draftID, req, RebalanceModeAsync)
	if err != nil {
		if ctx.Err() != nil || appErrors.FromError(err).Code == appErrors.ErrCancelled.Code {
			s.finish(job.ID, models.RebalanceJobCancelled, "cancelled", nil)
			return nil
		}
		s.finish(job.ID, models.RebalanceJobFailed, err.Error(), nil)
		return err
	}
	s.finish(job.ID, models.RebalanceJobSucceeded, "", result)
	return nil
}

func (s *RebalanceJobService) finish(jobID string, status models.RebalanceJobStatus, message string, result *dto.RebalanceResponse) {
	s.mu.Lock()
	record, ok := s.jobs[jobID]
	if ok {
		s.markLocked(record, status, message, result)
	}
	s.mu.Unlock()
	if ok {
		s.metrics.RecordRebalanceJob(string(status))
	}
}

func (s *RebalanceJobService) markLocked(record *rebalanceJobRecord, status models.RebalanceJobStatus, message string, result *dto.RebalanceResponse) {
	finished := s.now()
	record.job.Status = status
	record.job.FinishedAt = &finished
	if status != models.RebalanceJobSucceeded {
		record.job.Error = message
	}
	record.result = result
}

func (s *RebalanceJobService) purgeLocked() {
	cutoff := s.now().Add(-s.cfg.ResultTTL)
	for id, record := range s.jobs {
		if record.job.FinishedAt != nil && record.job.FinishedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}

func toJobResponse(record *rebalanceJobRecord) *dto.RebalanceJobResponse {
	return &dto.RebalanceJobResponse{
		ID:         record.job.ID,
		DraftID:    record.job.DraftID,
		Status:     record.job.Status,
		Error:      record.job.Error,
		Result:     record.result,
		CreatedAt:  record.job.CreatedAt,
		StartedAt:  record.job.StartedAt,
		FinishedAt: record.job.FinishedAt,
	}
}
