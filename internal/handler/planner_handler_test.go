package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/room-session-api/internal/dto"
	"github.com/noah-isme/room-session-api/internal/models"
	"github.com/noah-isme/room-session-api/internal/scheduler"
	appErrors "github.com/noah-isme/room-session-api/pkg/errors"
)

type plannerMock struct {
	generated  dto.GenerateDraftRequest
	rebalance  dto.RebalanceRequest
	roomID     int64
	draftErr   error
	saveErr    error
	conflicts  scheduler.ConflictReport
	planQuery  dto.SessionPlanQuery
	deletedIDs []string
}

func (m *plannerMock) draft(id string) (*dto.DraftResponse, error) {
	if m.draftErr != nil {
		return nil, m.draftErr
	}
	return &dto.DraftResponse{DraftID: id, Revision: 1}, nil
}

func (m *plannerMock) Generate(_ context.Context, req dto.GenerateDraftRequest) (*dto.DraftResponse, error) {
	m.generated = req
	return m.draft("d1")
}

func (m *plannerMock) Regenerate(_ context.Context, id string, _ dto.DraftParams) (*dto.DraftResponse, error) {
	return m.draft(id)
}

func (m *plannerMock) Get(_ context.Context, id string) (*dto.DraftResponse, error) {
	return m.draft(id)
}

func (m *plannerMock) UpdateSlots(_ context.Context, id string, _ dto.UpdateSlotsRequest) (*dto.DraftResponse, error) {
	return m.draft(id)
}

func (m *plannerMock) AssignRoomJuries(_ context.Context, id string, roomID int64, _ dto.AssignRoomJuriesRequest) (*dto.DraftResponse, error) {
	m.roomID = roomID
	return m.draft(id)
}

func (m *plannerMock) Conflicts(context.Context, string) (scheduler.ConflictReport, error) {
	return m.conflicts, m.draftErr
}

func (m *plannerMock) Evaluate(context.Context, string, dto.EvaluateRequest) (*dto.EvaluationResponse, error) {
	return &dto.EvaluationResponse{Weights: scheduler.DefaultWeights()}, nil
}

func (m *plannerMock) Rebalance(_ context.Context, id string, req dto.RebalanceRequest) (*dto.RebalanceResponse, error) {
	m.rebalance = req
	return &dto.RebalanceResponse{DraftID: id, Iterations: req.Iterations}, nil
}

func (m *plannerMock) AcceptRebalance(_ context.Context, id string) (*dto.DraftResponse, error) {
	return m.draft(id)
}

func (m *plannerMock) UndoRebalance(context.Context, string) (*dto.DraftResponse, error) {
	return nil, appErrors.ErrNothingToUndo
}

func (m *plannerMock) DiscardRebalance(_ context.Context, id string) (*dto.DraftResponse, error) {
	return m.draft(id)
}

func (m *plannerMock) Save(context.Context, string) (*dto.SaveDraftResponse, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return &dto.SaveDraftResponse{PlanID: "p1", Version: 3}, nil
}

func (m *plannerMock) NextLabel(req dto.NextLabelRequest) (*dto.NextLabelResponse, error) {
	return &dto.NextLabelResponse{Label: scheduler.NextLabel(req.Label)}, nil
}

func (m *plannerMock) ListPlans(_ context.Context, query dto.SessionPlanQuery) ([]models.SessionPlan, *models.Pagination, error) {
	m.planQuery = query
	return []models.SessionPlan{{ID: "p1"}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (m *plannerMock) PlanSlots(context.Context, string) ([]models.SessionPlanSlot, error) {
	return []models.SessionPlanSlot{}, nil
}

func (m *plannerMock) DeletePlan(_ context.Context, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *plannerMock) PublishPlan(_ context.Context, id string) (*models.SessionPlan, error) {
	return &models.SessionPlan{ID: id, Status: models.SessionPlanStatusPublished}, nil
}

func plannerRouter(mock *plannerMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &PlannerHandler{service: mock}
	r := gin.New()
	r.POST("/drafts", h.Generate)
	r.GET("/drafts/:id", h.Get)
	r.PUT("/drafts/:id/rooms/:roomId/juries", h.AssignRoomJuries)
	r.GET("/drafts/:id/conflicts", h.Conflicts)
	r.POST("/drafts/:id/rebalance", h.Rebalance)
	r.POST("/drafts/:id/rebalance/undo", h.UndoRebalance)
	r.POST("/drafts/:id/save", h.Save)
	r.POST("/labels/next", h.NextLabel)
	r.GET("/session-plans", h.ListPlans)
	r.DELETE("/session-plans/:id", h.DeletePlan)
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestPlannerHandlerGenerate(t *testing.T) {
	mock := &plannerMock{}
	r := plannerRouter(mock)

	w := doRequest(r, http.MethodPost, "/drafts", `{"sessionKey":"finals","roomIds":[1],"teamIds":[11,12],"juryIds":[21],"teamsPerRoom":2,"juriesPerRoom":1,"startTime":"2026-03-02T09:00:00Z","slotDuration":30}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "finals", mock.generated.SessionKey)
	assert.Equal(t, []int64{11, 12}, mock.generated.TeamIDs)
	assert.Equal(t, 30, mock.generated.SlotDuration)

	w = doRequest(r, http.MethodPost, "/drafts", `{"sessionKey":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, w))
}

func TestPlannerHandlerDraftErrors(t *testing.T) {
	mock := &plannerMock{draftErr: appErrors.ErrDraftExpired}
	r := plannerRouter(mock)

	w := doRequest(r, http.MethodGet, "/drafts/d1", "")
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, appErrors.ErrDraftExpired.Code, errorCode(t, w))

	w = doRequest(r, http.MethodPost, "/drafts/d1/rebalance/undo", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, appErrors.ErrNothingToUndo.Code, errorCode(t, w))
}

func TestPlannerHandlerAssignRoomJuries(t *testing.T) {
	mock := &plannerMock{}
	r := plannerRouter(mock)

	w := doRequest(r, http.MethodPut, "/drafts/d1/rooms/7/juries", `{"juryIds":[21,22]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), mock.roomID)

	w = doRequest(r, http.MethodPut, "/drafts/d1/rooms/abc/juries", `{"juryIds":[21]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlannerHandlerConflictsMeta(t *testing.T) {
	mock := &plannerMock{conflicts: scheduler.ConflictReport{Teams: []scheduler.TeamConflict{{TeamID: 11, SlotIndexes: []int{0, 1}}}}}
	r := plannerRouter(mock)

	w := doRequest(r, http.MethodGet, "/drafts/d1/conflicts", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Meta map[string]bool `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Meta["hasConflicts"])
}

func TestPlannerHandlerRebalanceOptionalBody(t *testing.T) {
	mock := &plannerMock{}
	r := plannerRouter(mock)

	w := doRequest(r, http.MethodPost, "/drafts/d1/rebalance", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, mock.rebalance.Iterations)

	w = doRequest(r, http.MethodPost, "/drafts/d1/rebalance", `{"seed":9,"iterations":50,"useAnalytics":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mock.rebalance.Seed)
	assert.Equal(t, int64(9), *mock.rebalance.Seed)
	assert.Equal(t, 50, mock.rebalance.Iterations)
	assert.True(t, mock.rebalance.UseAnalytics)
}

func TestPlannerHandlerSaveConflictDetails(t *testing.T) {
	report := scheduler.ConflictReport{Teams: []scheduler.TeamConflict{{TeamID: 11, SlotIndexes: []int{0, 1}}}}
	mock := &plannerMock{saveErr: appErrors.WithDetails(appErrors.ErrConflict, "draft contains unresolved conflicts", report)}
	r := plannerRouter(mock)

	w := doRequest(r, http.MethodPost, "/drafts/d1/save", "")
	require.Equal(t, http.StatusConflict, w.Code)
	var body struct {
		Error struct {
			Details scheduler.ConflictReport `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Error.Details.Teams, 1)
	assert.Equal(t, int64(11), body.Error.Details.Teams[0].TeamID)

	mock.saveErr = nil
	w = doRequest(r, http.MethodPost, "/drafts/d1/save", "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestPlannerHandlerLabelsAndPlans(t *testing.T) {
	mock := &plannerMock{}
	r := plannerRouter(mock)

	w := doRequest(r, http.MethodPost, "/labels/next", `{"label":"Team 9"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Team 10"`)

	w = doRequest(r, http.MethodGet, "/session-plans?sessionKey=finals&page=2&pageSize=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.SessionPlanQuery{SessionKey: "finals", Page: 2, PageSize: 5}, mock.planQuery)
	assert.Contains(t, w.Body.String(), `"pagination"`)

	w = doRequest(r, http.MethodDelete, "/session-plans/p1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"p1"}, mock.deletedIDs)
}
