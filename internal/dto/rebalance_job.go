package dto

import (
	"time"

	"github.com/noah-isme/room-session-api/internal/models"
)

// RebalanceJobResponse reports the state of an asynchronous rebalance.
type RebalanceJobResponse struct {
	ID         string                    `json:"id"`
	DraftID    string                    `json:"draftId"`
	Status     models.RebalanceJobStatus `json:"status"`
	Error      string                    `json:"error,omitempty"`
	Result     *RebalanceResponse        `json:"result,omitempty"`
	CreatedAt  time.Time                 `json:"createdAt"`
	StartedAt  *time.Time                `json:"startedAt,omitempty"`
	FinishedAt *time.Time                `json:"finishedAt,omitempty"`
}
