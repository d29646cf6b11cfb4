package shelf

import (
	"errors"
	"sync"

	"github.com/handiism/bookshelf/internal/model"
)

// ErrDraft is returned when trying to edit a book the server has not saved.
var ErrDraft = errors.New("cannot edit a book without an id")

// Mode says which form the presentation surface shows.
type Mode int

const (
	// ModeCreate shows the create form. The edit slot is empty.
	ModeCreate Mode = iota

	// ModeEdit shows the edit form seeded with the slot record.
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// EditSlot holds at most one record being edited.
//
// Two states: Idle (create form visible) and Editing(record) (edit form
// visible). Exactly one form is visible at any time. The zero value is Idle
// and ready to use.
type EditSlot struct {
	mu     sync.RWMutex
	record *model.Book
}

// NewEditSlot returns an Idle slot.
func NewEditSlot() *EditSlot {
	return &EditSlot{}
}

// BeginEdit puts the slot into Editing(book), replacing any record already
// being edited.
func (e *EditSlot) BeginEdit(book model.Book) error {
	if book.IsDraft() {
		return ErrDraft
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record = &book
	return nil
}

// CancelEdit returns the slot to Idle.
func (e *EditSlot) CancelEdit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record = nil
}

// IsEditing reports whether the slot holds a record.
func (e *EditSlot) IsEditing() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.record != nil
}

// ShowsCreateForm reports whether the create form is visible.
// It is always the negation of IsEditing.
func (e *EditSlot) ShowsCreateForm() bool {
	return !e.IsEditing()
}

// Current returns the record being edited.
func (e *EditSlot) Current() (model.Book, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.record == nil {
		return model.Book{}, false
	}
	return *e.record, true
}

// Mode returns ModeEdit while editing and ModeCreate otherwise.
func (e *EditSlot) Mode() Mode {
	if e.IsEditing() {
		return ModeEdit
	}
	return ModeCreate
}

// clearIf returns the slot to Idle if it holds the record with the given id.
func (e *EditSlot) clearIf(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.record == nil || e.record.ID != id {
		return false
	}
	e.record = nil
	return true
}
