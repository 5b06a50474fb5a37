package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/room-session-api/internal/dto"
	"github.com/noah-isme/room-session-api/internal/models"
	appErrors "github.com/noah-isme/room-session-api/pkg/errors"
)

type rebalanceJobsMock struct {
	submitted dto.RebalanceRequest
	submitErr error
}

func (m *rebalanceJobsMock) Submit(_ context.Context, draftID string, req dto.RebalanceRequest) (*dto.RebalanceJobResponse, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	m.submitted = req
	return &dto.RebalanceJobResponse{ID: "job-1", DraftID: draftID, Status: models.RebalanceJobQueued}, nil
}

func (m *rebalanceJobsMock) Status(_ context.Context, jobID string) (*dto.RebalanceJobResponse, error) {
	if jobID != "job-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "rebalance job not found")
	}
	return &dto.RebalanceJobResponse{ID: jobID, Status: models.RebalanceJobRunning}, nil
}

func (m *rebalanceJobsMock) Cancel(_ context.Context, jobID string) (*dto.RebalanceJobResponse, error) {
	return &dto.RebalanceJobResponse{ID: jobID, Status: models.RebalanceJobCancelled}, nil
}

func rebalanceJobRouter(mock *rebalanceJobsMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &RebalanceJobHandler{service: mock}
	r := gin.New()
	r.POST("/drafts/:id/rebalance-jobs", h.Submit)
	r.GET("/rebalance-jobs/:id", h.Status)
	r.DELETE("/rebalance-jobs/:id", h.Cancel)
	return r
}

func TestRebalanceJobHandlerLifecycle(t *testing.T) {
	mock := &rebalanceJobsMock{}
	r := rebalanceJobRouter(mock)

	w := doRequest(r, http.MethodPost, "/drafts/d1/rebalance-jobs", `{"iterations":500}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 500, mock.submitted.Iterations)
	assert.Contains(t, w.Body.String(), `"QUEUED"`)

	w = doRequest(r, http.MethodGet, "/rebalance-jobs/job-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"RUNNING"`)

	w = doRequest(r, http.MethodGet, "/rebalance-jobs/other", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodDelete, "/rebalance-jobs/job-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"CANCELLED"`)
}

func TestRebalanceJobHandlerQueueFull(t *testing.T) {
	mock := &rebalanceJobsMock{submitErr: appErrors.Clone(appErrors.ErrPreconditionFailed, "rebalance queue is full")}
	r := rebalanceJobRouter(mock)

	w := doRequest(r, http.MethodPost, "/drafts/d1/rebalance-jobs", "")
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, errorCode(t, w))
}
