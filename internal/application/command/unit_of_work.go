// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/alem-hub/petquest/internal/domain/player"
	"github.com/alem-hub/petquest/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// Every write runs as load → mutate → save inside one single-writer section.
// In-process callers are serialized by a mutex; stores that implement
// player.Locker additionally exclude writers in other processes.
// ══════════════════════════════════════════════════════════════════════════════

// ErrSessionClosed is returned when a session is used after its unit of work
// ended or after a failed commit.
var ErrSessionClosed = errors.New("unit of work: session closed")

// UnitOfWork serializes read-modify-write cycles against a player.Store.
type UnitOfWork struct {
	mu     sync.Mutex
	store  player.Store
	locker player.Locker
}

// NewUnitOfWork creates a UnitOfWork over store. If store implements
// player.Locker its lock is held for the duration of each Execute.
func NewUnitOfWork(store player.Store) *UnitOfWork {
	locker, _ := store.(player.Locker)
	return &UnitOfWork{
		store:  store,
		locker: locker,
	}
}

// Execute loads the full record collection and runs fn with a session over it.
// Changes reach the store only through Session.Commit. The error from fn is
// returned as is.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, s *Session) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.locker != nil {
		release, err := u.locker.Lock(ctx)
		if err != nil {
			return shared.StorageError("Lock", err)
		}
		defer func() {
			// Release must run even if ctx was cancelled mid-operation.
			_ = release(context.WithoutCancel(ctx))
		}()
	}

	records, err := u.store.Load(ctx)
	if err != nil {
		return shared.StorageError("Load", err)
	}
	if records == nil {
		records = player.Records{}
	}

	s := &Session{store: u.store, records: records}
	defer s.close()

	return fn(ctx, s)
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION
// ══════════════════════════════════════════════════════════════════════════════

// Session is the view of the record collection inside one Execute call.
// It is not safe for use outside fn.
type Session struct {
	store   player.Store
	records player.Records
	closed  bool
}

// Record returns the record for userID, creating a default one in the session
// if the user is unknown. A created record is only persisted by Commit.
func (s *Session) Record(userID string) *player.Record {
	r, found := s.records.GetOrNew(userID)
	if !found {
		s.records[userID] = r
	}
	return r
}

// Lookup returns the record for userID without creating it.
func (s *Session) Lookup(userID string) (*player.Record, bool) {
	r, ok := s.records[userID]
	return r, ok && r != nil
}

// Put replaces the record for userID.
func (s *Session) Put(userID string, r *player.Record) {
	s.records[userID] = r
}

// IDs returns the user identifiers in the session, sorted.
func (s *Session) IDs() []string {
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Commit persists the whole collection. On failure the session is closed and
// its in-memory changes are dropped; the stored state stays as it was.
func (s *Session) Commit(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if err := s.store.Save(ctx, s.records); err != nil {
		s.close()
		return shared.StorageError("Save", fmt.Errorf("commit: %w", err))
	}
	return nil
}

func (s *Session) close() {
	s.closed = true
	s.records = player.Records{}
}
