package service

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/room-session-api/internal/dto"
	"github.com/noah-isme/room-session-api/internal/scheduler"
	appErrors "github.com/noah-isme/room-session-api/pkg/errors"
)

// draft is an in-memory arrangement under edit. Revision changes on every
// content change so a rebalance computed against an older revision can be
// detected.
type draft struct {
	ID                string
	SessionKey        string
	Params            dto.DraftParams
	RoomJuries        map[int64][]int64
	Slots             []scheduler.Slot
	Previous          []scheduler.Slot
	Pending           *pendingRebalance
	UnassignedTeamIDs []int64
	UnassignedJuryIDs []int64
	Warnings          []string
	Revision          int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type pendingRebalance struct {
	Result           *scheduler.RebalanceResult
	BaseRevision     int
	AnalyticsApplied bool
	ScaledWeights    []string
}

func (d *draft) touch(now time.Time) {
	d.Revision++
	d.UpdatedAt = now
}

func (d *draft) clone() *draft {
	out := *d
	out.Params.RoomIDs = append([]int64(nil), d.Params.RoomIDs...)
	out.Params.TeamIDs = append([]int64(nil), d.Params.TeamIDs...)
	out.Params.JuryIDs = append([]int64(nil), d.Params.JuryIDs...)
	out.RoomJuries = make(map[int64][]int64, len(d.RoomJuries))
	for room, juries := range d.RoomJuries {
		out.RoomJuries[room] = append([]int64(nil), juries...)
	}
	out.Slots = scheduler.CloneSlots(d.Slots)
	if d.Previous != nil {
		out.Previous = scheduler.CloneSlots(d.Previous)
	}
	if d.Pending != nil {
		pending := *d.Pending
		result := *d.Pending.Result
		result.OriginalSlots = scheduler.CloneSlots(result.OriginalSlots)
		result.Slots = scheduler.CloneSlots(result.Slots)
		pending.Result = &result
		pending.ScaledWeights = append([]string(nil), d.Pending.ScaledWeights...)
		out.Pending = &pending
	}
	out.UnassignedTeamIDs = append([]int64(nil), d.UnassignedTeamIDs...)
	out.UnassignedJuryIDs = append([]int64(nil), d.UnassignedJuryIDs...)
	out.Warnings = append([]string(nil), d.Warnings...)
	return &out
}

// draftStore keeps drafts for a sliding TTL measured from their last update.
type draftStore struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]*draft
}

func newDraftStore(ttl time.Duration) *draftStore {
	return &draftStore{
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
		items: make(map[string]*draft),
	}
}

func (s *draftStore) Save(d *draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[d.ID] = d.clone()
}

// Get returns a copy of the draft.
func (s *draftStore) Get(id string) (*draft, error) {
	s.mu.RLock()
	d, err := s.lookupLocked(id)
	if err != nil {
		s.mu.RUnlock()
		if appErrors.FromError(err).Code == appErrors.ErrDraftExpired.Code {
			s.Delete(id)
		}
		return nil, err
	}
	out := d.clone()
	s.mu.RUnlock()
	return out, nil
}

// Update applies fn to the stored draft under the write lock and returns a
// copy of the result. The draft is left untouched when fn fails.
func (s *draftStore) Update(id string, fn func(d *draft, now time.Time) error) (*draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookupLocked(id)
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrDraftExpired.Code {
			delete(s.items, id)
		}
		return nil, err
	}
	work := d.clone()
	if err := fn(work, s.now()); err != nil {
		return nil, err
	}
	s.items[id] = work
	return work.clone(), nil
}

func (s *draftStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// ExpiresAt reports when d lapses if left untouched.
func (s *draftStore) ExpiresAt(d *draft) time.Time {
	return d.UpdatedAt.Add(s.ttl)
}

// Purge drops every expired draft and returns how many were removed.
func (s *draftStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, d := range s.items {
		if now.Sub(d.UpdatedAt) > s.ttl {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// StartCleanup purges expired drafts on every tick until ctx ends.
func (s *draftStore) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Purge()
			}
		}
	}()
}

func (s *draftStore) lookupLocked(id string) (*draft, error) {
	d, ok := s.items[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "draft not found")
	}
	if s.now().Sub(d.UpdatedAt) > s.ttl {
		return nil, appErrors.ErrDraftExpired
	}
	return d, nil
}
