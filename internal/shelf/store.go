package shelf

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/handiism/bookshelf/internal/model"
)

// Lister is the remote list operation the Store refreshes from.
type Lister interface {
	List(ctx context.Context) ([]model.Book, error)
}

// RetryPolicy controls how often a failed refresh is attempted again.
type RetryPolicy struct {
	// Attempts is the total number of list calls per refresh. Values below 1
	// mean a single attempt.
	Attempts int

	// Delay returns the wait before retry number tries (0-based).
	// Nil means retry immediately.
	Delay func(tries int) time.Duration
}

// Store holds the authoritative local snapshot of all books.
//
// The snapshot is only ever replaced as a whole by Refresh, never patched.
// Each Refresh takes a generation number when it starts; a refresh that
// completes after a newer one has already been applied is discarded, so the
// last refresh to start wins.
type Store struct {
	lister Lister
	retry  RetryPolicy

	mu        sync.RWMutex
	records   []model.Book
	issued    uint64
	applied   uint64
	err       error
	errGen    uint64
	fetchedAt time.Time
}

// NewStore creates an empty Store backed by lister.
func NewStore(lister Lister, retry RetryPolicy) *Store {
	return &Store{
		lister:  lister,
		retry:   retry,
		records: []model.Book{},
	}
}

// Refresh fetches the full list and replaces the snapshot.
//
// On failure the previous snapshot is kept, the failure is recorded in Err,
// and it is returned. A successful refresh clears Err.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.mu.Unlock()

	books, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if gen > s.applied && gen >= s.errGen {
			s.err = err
			s.errGen = gen
		}
		return err
	}

	if gen <= s.applied {
		glog.V(1).Infof("[store] discarding refresh #%d, #%d already applied", gen, s.applied)
		return nil
	}

	records := make([]model.Book, 0, len(books))
	for _, b := range books {
		if b.IsDraft() {
			glog.Warningf("[store] skipping record without id: %q", b.Title)
			continue
		}
		records = append(records, b)
	}

	s.records = records
	s.applied = gen
	s.fetchedAt = time.Now()
	if s.errGen <= gen {
		s.err = nil
	}
	glog.V(1).Infof("[store] refresh #%d applied, %d records", gen, len(records))

	return nil
}

// Snapshot returns a copy of the current records in server order.
func (s *Store) Snapshot() []model.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Book(nil), s.records...)
}

// Lookup returns the record with the given id from the current snapshot.
func (s *Store) Lookup(id string) (model.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.records {
		if b.ID == id {
			return b, true
		}
	}
	return model.Book{}, false
}

// Len returns the number of records in the snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Err returns the failure of the most recent refresh, or nil.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// FetchedAt returns when the snapshot was last replaced, zero if never.
func (s *Store) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

func (s *Store) fetch(ctx context.Context) ([]model.Book, error) {
	attempts := s.retry.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var books []model.Book
	var err error
	for tries := 0; tries < attempts; tries++ {
		books, err = s.lister.List(ctx)
		if err == nil {
			return books, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		if tries+1 < attempts {
			glog.Warningf("[store] list failed (attempt %d/%d): %v", tries+1, attempts, err)
			s.waitForRetry(ctx, tries)
		}
	}

	return nil, err
}

func (s *Store) waitForRetry(ctx context.Context, tries int) {
	if s.retry.Delay == nil {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(s.retry.Delay(tries)):
	}
}
