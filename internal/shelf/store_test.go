package shelf

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/handiism/bookshelf/internal/model"
)

type listerFunc func(ctx context.Context) ([]model.Book, error)

func (f listerFunc) List(ctx context.Context) ([]model.Book, error) {
	return f(ctx)
}

func staticLister(books ...model.Book) listerFunc {
	return func(context.Context) ([]model.Book, error) {
		return append([]model.Book(nil), books...), nil
	}
}

func TestStore_StartsEmpty(t *testing.T) {
	s := NewStore(staticLister(), RetryPolicy{})

	assert.Equal(t, len(s.Snapshot()), 0)
	assert.Equal(t, s.Len(), 0)
	assert.Equal(t, s.Err(), nil)
	assert.Equal(t, s.FetchedAt().IsZero(), true)
}

func TestStore_RefreshReplacesSnapshot(t *testing.T) {
	books := []model.Book{{ID: "1", Title: "A"}, {ID: "2", Title: "B"}}
	current := books
	s := NewStore(listerFunc(func(context.Context) ([]model.Book, error) {
		return current, nil
	}), RetryPolicy{})

	assert.Equal(t, s.Refresh(context.Background()), nil)
	assert.Equal(t, s.Snapshot(), books)

	current = []model.Book{{ID: "3", Title: "C"}}
	assert.Equal(t, s.Refresh(context.Background()), nil)
	assert.Equal(t, s.Snapshot(), current)

	_, ok := s.Lookup("1")
	assert.Equal(t, ok, false)
	b, ok := s.Lookup("3")
	assert.Equal(t, ok, true)
	assert.Equal(t, b.Title, "C")
}

func TestStore_RefreshIsIdempotent(t *testing.T) {
	s := NewStore(staticLister(model.Book{ID: "1", Title: "A"}), RetryPolicy{})

	assert.Equal(t, s.Refresh(context.Background()), nil)
	first := s.Snapshot()
	assert.Equal(t, s.Refresh(context.Background()), nil)
	assert.Equal(t, s.Snapshot(), first)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore(staticLister(model.Book{ID: "1", Title: "A"}), RetryPolicy{})
	assert.Equal(t, s.Refresh(context.Background()), nil)

	snap := s.Snapshot()
	snap[0].Title = "mutated"

	assert.Equal(t, s.Snapshot()[0].Title, "A")
}

func TestStore_FailureKeepsSnapshot(t *testing.T) {
	fail := false
	boom := errors.New("boom")
	s := NewStore(listerFunc(func(context.Context) ([]model.Book, error) {
		if fail {
			return nil, boom
		}
		return []model.Book{{ID: "1", Title: "A"}}, nil
	}), RetryPolicy{})

	assert.Equal(t, s.Refresh(context.Background()), nil)

	fail = true
	err := s.Refresh(context.Background())
	assert.Equal(t, errors.Is(err, boom), true)
	assert.Equal(t, errors.Is(s.Err(), boom), true)
	assert.Equal(t, s.Len(), 1)

	fail = false
	assert.Equal(t, s.Refresh(context.Background()), nil)
	assert.Equal(t, s.Err(), nil)
}

func TestStore_RetriesList(t *testing.T) {
	var calls int32
	s := NewStore(listerFunc(func(context.Context) ([]model.Book, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, errors.New("flaky")
		}
		return []model.Book{{ID: "1"}}, nil
	}), RetryPolicy{Attempts: 3, Delay: func(int) time.Duration { return time.Millisecond }})

	assert.Equal(t, s.Refresh(context.Background()), nil)
	assert.Equal(t, atomic.LoadInt32(&calls), int32(3))
	assert.Equal(t, s.Len(), 1)
}

func TestStore_RetryGivesUp(t *testing.T) {
	var calls int32
	s := NewStore(listerFunc(func(context.Context) ([]model.Book, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("down")
	}), RetryPolicy{Attempts: 2})

	assert.NotEqual(t, s.Refresh(context.Background()), nil)
	assert.Equal(t, atomic.LoadInt32(&calls), int32(2))
}

func TestStore_NoRetryAfterCancel(t *testing.T) {
	var calls int32
	ctx, cancel := context.WithCancel(context.Background())
	s := NewStore(listerFunc(func(ctx context.Context) ([]model.Book, error) {
		atomic.AddInt32(&calls, 1)
		cancel()
		return nil, ctx.Err()
	}), RetryPolicy{Attempts: 5})

	assert.NotEqual(t, s.Refresh(ctx), nil)
	assert.Equal(t, atomic.LoadInt32(&calls), int32(1))
}

func TestStore_SkipsDrafts(t *testing.T) {
	s := NewStore(staticLister(model.Book{ID: "1", Title: "kept"}, model.Book{Title: "no id"}), RetryPolicy{})

	assert.Equal(t, s.Refresh(context.Background()), nil)
	assert.Equal(t, s.Snapshot(), []model.Book{{ID: "1", Title: "kept"}})
}

func TestStore_DiscardsStaleRefresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	s := NewStore(listerFunc(func(context.Context) ([]model.Book, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
			return []model.Book{{ID: "old"}}, nil
		}
		return []model.Book{{ID: "new"}}, nil
	}), RetryPolicy{})

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background()) }()
	<-started

	assert.Equal(t, s.Refresh(context.Background()), nil)
	close(release)
	assert.Equal(t, <-done, nil)

	assert.Equal(t, s.Snapshot(), []model.Book{{ID: "new"}})
}

func TestStore_StaleFailureDoesNotSetErr(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	s := NewStore(listerFunc(func(context.Context) ([]model.Book, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
			return nil, errors.New("late failure")
		}
		return []model.Book{{ID: "new"}}, nil
	}), RetryPolicy{})

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background()) }()
	<-started

	assert.Equal(t, s.Refresh(context.Background()), nil)
	close(release)
	assert.NotEqual(t, <-done, nil)

	assert.Equal(t, s.Err(), nil)
	assert.Equal(t, s.Len(), 1)
}
