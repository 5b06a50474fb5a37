package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/room-session-api/internal/dto"
	appErrors "github.com/noah-isme/room-session-api/pkg/errors"
	"github.com/noah-isme/room-session-api/pkg/export"
	"github.com/noah-isme/room-session-api/pkg/storage"
)

var slotExportHeaders = []string{"Room", "Slot", "Start", "End", "Teams", "Juries"}

type draftReader interface {
	Get(ctx context.Context, draftID string) (*dto.DraftResponse, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix       string
	CleanupInterval time.Duration
}

// ExportDownload is a resolved, opened export file.
type ExportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
	SizeBytes   int64
	ExpiresAt   time.Time
}

// ExportService renders draft slots to files and hands out signed download tokens.
type ExportService struct {
	drafts    draftReader
	storage   fileStorage
	renderers map[dto.ExportFormat]export.Renderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService with CSV, XLSX and iCalendar renderers.
func NewExportService(drafts draftReader, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		drafts:  drafts,
		storage: files,
		renderers: map[dto.ExportFormat]export.Renderer{
			dto.ExportFormatCSV:  export.NewCSVExporter(),
			dto.ExportFormatXLSX: export.NewXLSXExporter("Slots"),
			dto.ExportFormatICS:  export.NewICSExporter(),
		},
		signer: signer,
		logger: logger,
		cfg:    cfg,
	}
}

// Export renders the draft's active slots and returns a signed download link.
func (s *ExportService) Export(ctx context.Context, draftID string, req dto.ExportRequest) (*dto.ExportResponse, error) {
	renderer, ok := s.renderers[req.Format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", req.Format))
	}
	d, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	payload, err := renderer.Render(slotDataset(d))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	exportID := uuid.NewString()
	relPath, err := s.storage.Save(path.Join("drafts", draftID, exportID+"."+renderer.Extension()), payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		_ = s.storage.Delete(relPath)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("draft exported",
		zap.String("draft_id", draftID),
		zap.String("format", string(req.Format)),
		zap.Int("slots", len(d.Slots)),
	)
	return &dto.ExportResponse{
		Token:     token,
		URL:       fmt.Sprintf("%s/exports/%s", prefix, token),
		Format:    req.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// Open validates the token and opens the referenced file.
func (s *ExportService) Open(token string) (*ExportDownload, error) {
	claims, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidToken.Code, appErrors.ErrInvalidToken.Status, appErrors.ErrInvalidToken.Message)
	}
	file, err := s.storage.Open(claims.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file")
	}
	contentType := "application/octet-stream"
	ext := strings.TrimPrefix(path.Ext(claims.Path), ".")
	for _, renderer := range s.renderers {
		if renderer.Extension() == ext {
			contentType = renderer.ContentType()
		}
	}
	return &ExportDownload{
		File:        file,
		Filename:    "session-slots." + ext,
		ContentType: contentType,
		SizeBytes:   info.Size(),
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// StartCleanup removes files older than the token TTL on every tick.
func (s *ExportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// Cleanup removes expired export files once.
func (s *ExportService) Cleanup() []string {
	deleted, err := s.storage.CleanupOlderThan(s.signer.TTL())
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return nil
	}
	if len(deleted) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(deleted)))
	}
	return deleted
}

func slotDataset(d *dto.DraftResponse) export.Dataset {
	rows := make([]map[string]string, 0, len(d.Slots))
	events := make([]export.Event, 0, len(d.Slots))
	for _, slot := range d.Slots {
		room := strconv.FormatInt(slot.RoomID, 10)
		index := strconv.Itoa(slot.SlotIndex)
		rows = append(rows, map[string]string{
			"Room":   room,
			"Slot":   index,
			"Start":  slot.StartTime.UTC().Format(time.RFC3339),
			"End":    slot.EndTime.UTC().Format(time.RFC3339),
			"Teams":  joinIDs(slot.TeamIDs),
			"Juries": joinIDs(slot.JuryIDs),
		})
		events = append(events, export.Event{
			UID:         fmt.Sprintf("%s-%s-%s@room-session-api", d.DraftID, room, index),
			Summary:     fmt.Sprintf("%s: room %s, slot %s", d.SessionKey, room, index),
			Location:    "Room " + room,
			Description: fmt.Sprintf("Teams: %s\nJuries: %s", joinIDs(slot.TeamIDs), joinIDs(slot.JuryIDs)),
			Start:       slot.StartTime,
			End:         slot.EndTime,
		})
	}
	return export.Dataset{
		Title:   "Session " + d.SessionKey,
		Headers: slotExportHeaders,
		Rows:    rows,
		Events:  events,
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
