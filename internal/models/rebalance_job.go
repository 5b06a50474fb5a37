package models

import "time"

// RebalanceJobStatus tracks an asynchronous rebalance run.
type RebalanceJobStatus string

const (
	RebalanceJobQueued    RebalanceJobStatus = "QUEUED"
	RebalanceJobRunning   RebalanceJobStatus = "RUNNING"
	RebalanceJobSucceeded RebalanceJobStatus = "SUCCEEDED"
	RebalanceJobFailed    RebalanceJobStatus = "FAILED"
	RebalanceJobCancelled RebalanceJobStatus = "CANCELLED"
)

// Terminal reports whether the status is final.
func (s RebalanceJobStatus) Terminal() bool {
	switch s {
	case RebalanceJobSucceeded, RebalanceJobFailed, RebalanceJobCancelled:
		return true
	default:
		return false
	}
}

// RebalanceJob is the bookkeeping record for a queued rebalance.
type RebalanceJob struct {
	ID         string             `json:"id"`
	DraftID    string             `json:"draft_id"`
	Status     RebalanceJobStatus `json:"status"`
	Error      string             `json:"error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	StartedAt  *time.Time         `json:"started_at,omitempty"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
}
