package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"Remindly/internal/model"
	"Remindly/pkg/snowflake"
)

// fakeChainStore keeps the claim state in memory and rolls it back when the
// transaction callback fails, mirroring the repository's transactional
// behavior.
type fakeChainStore struct {
	pending   map[string]bool
	created   []*model.Reminder
	createErr error
}

func (f *fakeChainStore) ListPendingGeneration(ctx context.Context, now time.Time, limit int) ([]*model.Reminder, error) {
	return nil, nil
}

func (f *fakeChainStore) Tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	before := make(map[string]bool, len(f.pending))
	for id, v := range f.pending {
		before[id] = v
	}
	createdBefore := len(f.created)
	if err := fn(nil); err != nil {
		f.pending = before
		f.created = f.created[:createdBefore]
		return err
	}
	return nil
}

func (f *fakeChainStore) MarkGenerated(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	if !f.pending[id] {
		return false, nil
	}
	f.pending[id] = false
	return true, nil
}

func (f *fakeChainStore) Create(ctx context.Context, tx *gorm.DB, rem *model.Reminder) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, rem)
	return nil
}

type fakeChainSyncer struct {
	synced []string
}

func (f *fakeChainSyncer) SyncReminder(ctx context.Context, reminderID string, now time.Time) error {
	f.synced = append(f.synced, reminderID)
	return nil
}

func chainReminder(t *testing.T) *model.Reminder {
	t.Helper()
	if err := snowflake.Init(1, 1); err != nil {
		t.Fatalf("snowflake init: %v", err)
	}
	due := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return &model.Reminder{
		ID:       "head-1",
		OwnerID:  "owner-1",
		Title:    "Take medication",
		DueAt:    due,
		Timezone: "UTC",
		Status:   model.ReminderStatusDone,
		Notifications: model.NotificationSettings{
			{ID: "n1", OffsetMinutes: 10, ChannelSpec: model.ChannelSpecPush, Sent: true},
		},
		Rule: &model.RecurrenceRule{
			Frequency: model.FrequencyDaily,
			Interval:  1,
			Anchor:    due,
		},
		GenerationStatus: model.GenerationPending,
		OccurrenceIndex:  0,
	}
}

func TestSuccessorAdvancesChain(t *testing.T) {
	s := &GenerationService{log: zap.NewNop()}
	rem := chainReminder(t)

	next, ok := s.successor(rem)
	if !ok {
		t.Fatal("expected a successor")
	}
	if !next.DueAt.Equal(rem.DueAt.Add(24 * time.Hour)) {
		t.Errorf("successor due = %v", next.DueAt)
	}
	if next.OriginID != "head-1" || next.RootID != "head-1" {
		t.Errorf("chain links wrong: origin=%s root=%s", next.OriginID, next.RootID)
	}
	if next.OccurrenceIndex != 1 {
		t.Errorf("occurrence index = %d, want 1", next.OccurrenceIndex)
	}
	if next.GenerationStatus != model.GenerationPending {
		t.Errorf("generation status = %s", next.GenerationStatus)
	}
	if next.Status != model.ReminderStatusPending {
		t.Errorf("status = %s", next.Status)
	}
	if next.ID == rem.ID || next.ID == "" {
		t.Errorf("successor must get a fresh id, got %q", next.ID)
	}
}

func TestSuccessorResetsSentFlags(t *testing.T) {
	s := &GenerationService{log: zap.NewNop()}
	rem := chainReminder(t)

	next, ok := s.successor(rem)
	if !ok {
		t.Fatal("expected a successor")
	}
	if len(next.Notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(next.Notifications))
	}
	if next.Notifications[0].Sent {
		t.Error("successor settings must start unsent")
	}
	// The predecessor's flags must not be touched.
	if !rem.Notifications[0].Sent {
		t.Error("predecessor settings mutated")
	}
}

func TestSuccessorRootIDPropagates(t *testing.T) {
	s := &GenerationService{log: zap.NewNop()}
	rem := chainReminder(t)
	rem.ID = "link-5"
	rem.RootID = "head-1"
	rem.OccurrenceIndex = 5

	next, ok := s.successor(rem)
	if !ok {
		t.Fatal("expected a successor")
	}
	if next.RootID != "head-1" || next.OriginID != "link-5" {
		t.Errorf("chain links wrong: origin=%s root=%s", next.OriginID, next.RootID)
	}
	if next.OccurrenceIndex != 6 {
		t.Errorf("occurrence index = %d, want 6", next.OccurrenceIndex)
	}
}

func TestSuccessorStopsAfterCount(t *testing.T) {
	s := &GenerationService{log: zap.NewNop()}
	rem := chainReminder(t)
	rem.Rule.EndCondition = model.EndCondition{Type: model.EndAfterCount, Count: 3}

	// Index 1 -> successor index 2, still below the cap of 3 occurrences.
	rem.OccurrenceIndex = 1
	if _, ok := s.successor(rem); !ok {
		t.Fatal("expected a successor below the count cap")
	}

	// Index 2 -> successor would be the 4th occurrence; chain ends.
	rem.OccurrenceIndex = 2
	if _, ok := s.successor(rem); ok {
		t.Fatal("expected chain to end at the count cap")
	}
}

func TestAdvanceCreatesAndSyncsSuccessor(t *testing.T) {
	rem := chainReminder(t)
	store := &fakeChainStore{pending: map[string]bool{rem.ID: true}}
	syncer := &fakeChainSyncer{}
	s := &GenerationService{reminders: store, maintainer: syncer, log: zap.NewNop()}

	if err := s.advance(context.Background(), rem, time.Now().UTC()); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("created = %d, want 1", len(store.created))
	}
	if store.pending[rem.ID] {
		t.Error("claim not consumed")
	}
	if len(syncer.synced) != 1 || syncer.synced[0] != store.created[0].ID {
		t.Errorf("successor queue not synced: %v", syncer.synced)
	}
}

func TestAdvanceLostClaimSkipsCreate(t *testing.T) {
	rem := chainReminder(t)
	// The chain was already claimed by a concurrent sweep.
	store := &fakeChainStore{pending: map[string]bool{}}
	syncer := &fakeChainSyncer{}
	s := &GenerationService{reminders: store, maintainer: syncer, log: zap.NewNop()}

	if err := s.advance(context.Background(), rem, time.Now().UTC()); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(store.created) != 0 {
		t.Errorf("lost claim must not spawn a successor, created %d", len(store.created))
	}
	if len(syncer.synced) != 0 {
		t.Errorf("lost claim must not sync, synced %v", syncer.synced)
	}
}

func TestAdvanceCreateFailureRollsBackClaim(t *testing.T) {
	rem := chainReminder(t)
	store := &fakeChainStore{
		pending:   map[string]bool{rem.ID: true},
		createErr: errors.New("insert failed"),
	}
	syncer := &fakeChainSyncer{}
	s := &GenerationService{reminders: store, maintainer: syncer, log: zap.NewNop()}

	if err := s.advance(context.Background(), rem, time.Now().UTC()); err == nil {
		t.Fatal("expected the create failure to surface")
	}
	if !store.pending[rem.ID] {
		t.Error("claim must roll back with the failed create so the next sweep retries")
	}
	if len(store.created) != 0 {
		t.Errorf("created = %d, want 0", len(store.created))
	}
	if len(syncer.synced) != 0 {
		t.Errorf("failed advance must not sync, synced %v", syncer.synced)
	}
}

func TestAdvanceExhaustedChainRetires(t *testing.T) {
	rem := chainReminder(t)
	end := rem.DueAt.Add(12 * time.Hour)
	rem.Rule.EndCondition = model.EndCondition{Type: model.EndOnDate, Date: &end}
	store := &fakeChainStore{pending: map[string]bool{rem.ID: true}}
	syncer := &fakeChainSyncer{}
	s := &GenerationService{reminders: store, maintainer: syncer, log: zap.NewNop()}

	if err := s.advance(context.Background(), rem, time.Now().UTC()); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if store.pending[rem.ID] {
		t.Error("exhausted chain must still consume its claim")
	}
	if len(store.created) != 0 {
		t.Errorf("exhausted chain spawned %d successors", len(store.created))
	}
}

func TestSuccessorStopsOnDate(t *testing.T) {
	s := &GenerationService{log: zap.NewNop()}
	rem := chainReminder(t)
	end := rem.DueAt.Add(12 * time.Hour)
	rem.Rule.EndCondition = model.EndCondition{Type: model.EndOnDate, Date: &end}

	if _, ok := s.successor(rem); ok {
		t.Fatal("expected chain to end before the next occurrence")
	}
}
