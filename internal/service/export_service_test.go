package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/room-session-api/internal/dto"
	"github.com/noah-isme/room-session-api/internal/scheduler"
	appErrors "github.com/noah-isme/room-session-api/pkg/errors"
	"github.com/noah-isme/room-session-api/pkg/storage"
)

type stubDraftReader struct {
	draft *dto.DraftResponse
}

func (s stubDraftReader) Get(_ context.Context, draftID string) (*dto.DraftResponse, error) {
	if s.draft == nil || s.draft.DraftID != draftID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "draft not found")
	}
	return s.draft, nil
}

func exportDraft() *dto.DraftResponse {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return &dto.DraftResponse{
		DraftID:    "d1",
		SessionKey: "finals",
		Slots: []scheduler.Slot{
			{RoomID: 1, SlotIndex: 0, StartTime: start, EndTime: start.Add(30 * time.Minute), TeamIDs: []int64{11, 12}, JuryIDs: []int64{21}},
			{RoomID: 2, SlotIndex: 0, StartTime: start, EndTime: start.Add(30 * time.Minute), TeamIDs: []int64{13}, JuryIDs: []int64{22}},
		},
	}
}

func newExportFixture(t *testing.T, ttl time.Duration) (*ExportService, string) {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", ttl)
	svc := NewExportService(stubDraftReader{draft: exportDraft()}, files, signer, ExportConfig{APIPrefix: "/api/v1/"}, zap.NewNop())
	return svc, dir
}

func TestExportServiceCSVRoundTrip(t *testing.T) {
	svc, _ := newExportFixture(t, time.Hour)

	resp, err := svc.Export(context.Background(), "d1", dto.ExportRequest{Format: dto.ExportFormatCSV})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/exports/"+resp.Token, resp.URL)
	assert.Equal(t, dto.ExportFormatCSV, resp.Format)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	download, err := svc.Open(resp.Token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "session-slots.csv", download.Filename)
	assert.Equal(t, "text/csv", download.ContentType)

	body, err := io.ReadAll(download.File)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Room,Slot,Start,End,Teams,Juries", lines[0])
	assert.Equal(t, `1,0,2026-03-02T09:00:00Z,2026-03-02T09:30:00Z,"11, 12",21`, lines[1])
}

func TestExportServiceXLSX(t *testing.T) {
	svc, _ := newExportFixture(t, time.Hour)

	resp, err := svc.Export(context.Background(), "d1", dto.ExportRequest{Format: dto.ExportFormatXLSX})
	require.NoError(t, err)

	download, err := svc.Open(resp.Token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "session-slots.xlsx", download.Filename)

	book, err := excelize.OpenReader(download.File)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Slots")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Session finals", rows[0][0])
}

func TestExportServiceICS(t *testing.T) {
	svc, _ := newExportFixture(t, time.Hour)

	resp, err := svc.Export(context.Background(), "d1", dto.ExportRequest{Format: dto.ExportFormatICS})
	require.NoError(t, err)

	download, err := svc.Open(resp.Token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "session-slots.ics", download.Filename)
	assert.Equal(t, "text/calendar", download.ContentType)

	cal, err := ics.ParseCalendar(download.File)
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "d1-1-0@room-session-api", events[0].Id())
	assert.Equal(t, "Room 1", events[0].GetProperty(ics.ComponentPropertyLocation).Value)
	start, err := events[1].GetStartAt()
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC).Equal(start))
}

func TestExportServiceRejectsBadInput(t *testing.T) {
	svc, _ := newExportFixture(t, time.Hour)

	_, err := svc.Export(context.Background(), "d1", dto.ExportRequest{Format: "pdf"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Export(context.Background(), "missing", dto.ExportRequest{Format: dto.ExportFormatCSV})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Open("not-a-token")
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErrors.FromError(err).Code)
}

func TestExportServiceTamperedToken(t *testing.T) {
	svc, _ := newExportFixture(t, time.Hour)

	resp, err := svc.Export(context.Background(), "d1", dto.ExportRequest{Format: dto.ExportFormatCSV})
	require.NoError(t, err)

	parts := strings.Split(resp.Token, ".")
	require.Len(t, parts, 4)
	parts[2] = "Li4vZXRjL3Bhc3N3ZA"
	_, err = svc.Open(strings.Join(parts, "."))
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErrors.FromError(err).Code)
}

func TestExportServiceMissingFileAndCleanup(t *testing.T) {
	svc, dir := newExportFixture(t, time.Hour)

	resp, err := svc.Export(context.Background(), "d1", dto.ExportRequest{Format: dto.ExportFormatCSV})
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "drafts", "d1", "*.csv"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(matches[0], old, old))
	assert.Len(t, svc.Cleanup(), 1)

	_, err = svc.Open(resp.Token)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
