package shelf

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang/glog"
	"github.com/handiism/bookshelf/internal/api"
	"github.com/handiism/bookshelf/internal/config"
	bhttp "github.com/handiism/bookshelf/internal/http"
	"github.com/handiism/bookshelf/internal/model"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when an id is not in the current snapshot.
var ErrNotFound = errors.New("book not found")

// Level indicates the severity/type of an event.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// Op names the operation an Event or Result belongs to.
type Op string

const (
	OpRefresh Op = "refresh"
	OpCreate  Op = "create"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
	OpImport  Op = "import"
)

// Event reports progress or failure of an operation.
type Event struct {
	Op      Op
	ID      string
	Message string
	Level   Level
	Err     error
}

// Result is the outcome of one coordinator operation.
//
// Err is the failure of the remote call itself. RefreshErr is a failure of
// the refresh that follows a successful mutation; the mutation still
// happened on the server.
type Result struct {
	Op         Op
	ID         string
	Book       model.Book
	Err        error
	RefreshErr error
}

// OK reports whether the remote operation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Failure returns the first failure of the result, or nil.
func (r Result) Failure() error {
	if r.Err != nil {
		return r.Err
	}
	return r.RefreshErr
}

// ImportFailure describes one draft that could not be created.
type ImportFailure struct {
	Index int
	Draft model.Draft
	Err   error
}

// ImportResult is the outcome of Import.
type ImportResult struct {
	Created    []model.Book
	Failed     []ImportFailure
	RefreshErr error
}

// Coordinator runs every mutation as "remote call, then refresh".
//
// Mutations are serialized: each one holds the coordinator lock across its
// remote call and its follow-up refresh, so overlapping user actions run one
// after another. Standalone refreshes are not serialized; the Store discards
// stale ones.
//
// Failures are reported through the returned Result, through the OnEvent
// callback at LevelError, and through LastError.
type Coordinator struct {
	settings *config.Settings
	svc      api.Service
	store    *Store
	slot     *EditSlot

	onEvent func(Event)
	mu      sync.Mutex

	errMu   sync.RWMutex
	lastErr error
}

// New creates a Coordinator talking HTTP to settings.APIURL.
func New(settings *config.Settings, onEvent func(Event)) *Coordinator {
	client := api.NewClient(settings.APIURL, bhttp.NewClient(settings.Timeout(), settings.UserAgent))
	return NewCoordinator(settings, client, onEvent)
}

// NewCoordinator creates a Coordinator over any Service, with an empty
// Store and an Idle EditSlot.
func NewCoordinator(settings *config.Settings, svc api.Service, onEvent func(Event)) *Coordinator {
	retry := RetryPolicy{
		Attempts: settings.RefreshMaxRetries,
		Delay:    settings.RetryDelay,
	}

	return &Coordinator{
		settings: settings,
		svc:      svc,
		store:    NewStore(svc, retry),
		slot:     NewEditSlot(),
		onEvent:  onEvent,
	}
}

// Store returns the record store.
func (c *Coordinator) Store() *Store {
	return c.store
}

// Slot returns the edit slot.
func (c *Coordinator) Slot() *EditSlot {
	return c.slot
}

// Start performs the initial refresh.
func (c *Coordinator) Start(ctx context.Context) error {
	return c.Refresh(ctx).Err
}

// Refresh reloads the snapshot from the server.
func (c *Coordinator) Refresh(ctx context.Context) Result {
	if err := c.store.Refresh(ctx); err != nil {
		c.fail(OpRefresh, "", "Refresh failed", err)
		return Result{Op: OpRefresh, Err: err}
	}
	c.setLastErr(nil)
	c.progress(Event{Op: OpRefresh, Message: fmt.Sprintf("Loaded %d book(s)", c.store.Len()), Level: LevelVerbose})
	return Result{Op: OpRefresh}
}

// BeginEdit puts the record with the given id from the snapshot into the
// edit slot.
func (c *Coordinator) BeginEdit(id string) (model.Book, error) {
	book, ok := c.store.Lookup(id)
	if !ok {
		return model.Book{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := c.slot.BeginEdit(book); err != nil {
		return model.Book{}, err
	}
	return book, nil
}

// CancelEdit empties the edit slot. No remote call is made.
func (c *Coordinator) CancelEdit() {
	c.slot.CancelEdit()
}

// Create sends a new book built from draft, then refreshes.
//
// On failure the snapshot is unchanged; the caller keeps its draft so the
// user can retry.
func (c *Coordinator) Create(ctx context.Context, draft model.Draft) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	created, err := c.svc.Create(ctx, draft.Book(""))
	if err != nil {
		c.fail(OpCreate, "", "Create failed", err)
		return Result{Op: OpCreate, Err: err}
	}

	glog.Infof("[coordinator] created %s %q", created.ID, created.Title)
	c.progress(Event{Op: OpCreate, ID: created.ID, Message: fmt.Sprintf("Added %q", draft[model.FieldTitle]), Level: LevelSuccess})

	return c.refreshAfter(ctx, Result{Op: OpCreate, ID: created.ID, Book: created})
}

// Update replaces every field of the book with the given id, then refreshes.
//
// On success the edit slot is cleared (if it holds id) as soon as the server
// confirms, before the refresh is issued. On failure the slot is left as is
// so the user can retry.
func (c *Coordinator) Update(ctx context.Context, id string, draft model.Draft) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	updated, err := c.svc.Update(ctx, id, draft.Book(id))
	if err != nil {
		c.fail(OpUpdate, id, "Update failed", err)
		return Result{Op: OpUpdate, ID: id, Err: err}
	}

	c.slot.clearIf(id)
	glog.Infof("[coordinator] updated %s", id)
	c.progress(Event{Op: OpUpdate, ID: id, Message: fmt.Sprintf("Updated %q", draft[model.FieldTitle]), Level: LevelSuccess})

	return c.refreshAfter(ctx, Result{Op: OpUpdate, ID: id, Book: updated})
}

// Delete removes the book with the given id, then refreshes.
//
// Deleting the record currently being edited also clears the edit slot.
func (c *Coordinator) Delete(ctx context.Context, id string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.svc.Delete(ctx, id); err != nil {
		c.fail(OpDelete, id, "Delete failed", err)
		return Result{Op: OpDelete, ID: id, Err: err}
	}

	c.slot.clearIf(id)
	glog.Infof("[coordinator] deleted %s", id)
	c.progress(Event{Op: OpDelete, ID: id, Message: fmt.Sprintf("Deleted %s", id), Level: LevelSuccess})

	return c.refreshAfter(ctx, Result{Op: OpDelete, ID: id})
}

// Import creates every draft, at most MaxConcurrentImports at a time, then
// refreshes once.
//
// Drafts missing required fields are reported as failures without a call.
// One failed create does not stop the others.
func (c *Coordinator) Import(ctx context.Context, drafts []model.Draft) ImportResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	limit := c.settings.MaxConcurrentImports
	if limit < 1 {
		limit = 1
	}

	created := make([]*model.Book, len(drafts))
	errs := make([]error, len(drafts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, draft := range drafts {
		i, draft := i, draft
		if err := draft.Validate(); err != nil {
			errs[i] = err
			continue
		}
		g.Go(func() error {
			book, err := c.svc.Create(gctx, draft.Book(""))
			if err != nil {
				errs[i] = err
				return nil // Continue with other drafts
			}
			created[i] = &book
			return nil
		})
	}
	_ = g.Wait()

	var result ImportResult
	for i := range drafts {
		if errs[i] != nil {
			result.Failed = append(result.Failed, ImportFailure{Index: i, Draft: drafts[i], Err: errs[i]})
			c.fail(OpImport, "", fmt.Sprintf("Import of entry %d failed", i+1), errs[i])
			continue
		}
		result.Created = append(result.Created, *created[i])
	}

	if len(result.Created) == 0 {
		return result
	}

	glog.Infof("[coordinator] imported %d/%d books", len(result.Created), len(drafts))
	level := LevelSuccess
	if len(result.Failed) > 0 {
		level = LevelWarning
	}
	c.progress(Event{Op: OpImport, Message: fmt.Sprintf("Imported %d/%d book(s)", len(result.Created), len(drafts)), Level: level})

	if err := c.store.Refresh(ctx); err != nil {
		c.fail(OpRefresh, "", "Refresh failed", err)
		result.RefreshErr = err
	} else if len(result.Failed) == 0 {
		c.setLastErr(nil)
	}

	return result
}

// LastError returns the most recent failure, or nil if the latest operation
// fully succeeded or ClearError was called.
func (c *Coordinator) LastError() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()
	return c.lastErr
}

// ClearError dismisses the last failure.
func (c *Coordinator) ClearError() {
	c.setLastErr(nil)
}

func (c *Coordinator) refreshAfter(ctx context.Context, r Result) Result {
	if err := c.store.Refresh(ctx); err != nil {
		c.fail(OpRefresh, "", "Refresh failed", err)
		r.RefreshErr = err
		return r
	}
	c.setLastErr(nil)
	return r
}

func (c *Coordinator) fail(op Op, id, message string, err error) {
	glog.Warningf("[coordinator] %s %s: %v", op, id, err)
	c.setLastErr(err)
	c.progress(Event{Op: op, ID: id, Message: fmt.Sprintf("%s: %v", message, err), Level: LevelError, Err: err})
}

func (c *Coordinator) setLastErr(err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	c.lastErr = err
}

func (c *Coordinator) progress(event Event) {
	if c.onEvent != nil {
		c.onEvent(event)
	}
}
