package model

import (
	"strings"
)

// Field names one editable attribute of a Book.
//
// The values match the JSON names of the REST contract so a Draft can be
// logged or compared against a payload without translation.
type Field string

const (
	FieldTitle         Field = "title"
	FieldAuthor        Field = "author"
	FieldPublishedYear Field = "publishedYear"
	FieldGenre         Field = "genre"
)

// Fields lists the editable fields in form order.
var Fields = []Field{FieldTitle, FieldAuthor, FieldPublishedYear, FieldGenre}

// Label returns the human readable name of the field.
func (f Field) Label() string {
	switch f {
	case FieldTitle:
		return "Title"
	case FieldAuthor:
		return "Author"
	case FieldPublishedYear:
		return "Year"
	case FieldGenre:
		return "Genre"
	default:
		return string(f)
	}
}

// Draft is the ephemeral per-form state: field name to entered text.
//
// A Draft is owned by exactly one form. It is seeded empty for the create
// form or from a record for the edit form, and discarded on submit or cancel.
type Draft map[Field]string

// NewDraft returns a Draft with every field empty.
func NewDraft() Draft {
	d := make(Draft, len(Fields))
	for _, f := range Fields {
		d[f] = ""
	}
	return d
}

// DraftOf returns a Draft seeded from the given book.
func DraftOf(b Book) Draft {
	return Draft{
		FieldTitle:         b.Title,
		FieldAuthor:        b.Author,
		FieldPublishedYear: string(b.PublishedYear),
		FieldGenre:         b.Genre,
	}
}

// Book builds the payload for this draft. Pass an empty id for creates.
func (d Draft) Book(id string) Book {
	return Book{
		ID:            id,
		Title:         d[FieldTitle],
		Author:        d[FieldAuthor],
		PublishedYear: Year(d[FieldPublishedYear]),
		Genre:         d[FieldGenre],
	}
}

// Clone returns an independent copy of the draft.
func (d Draft) Clone() Draft {
	c := make(Draft, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}

// Missing returns the required fields that are empty or whitespace only,
// in form order.
func (d Draft) Missing() []Field {
	var missing []Field
	for _, f := range Fields {
		if strings.TrimSpace(d[f]) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Validate checks required-field presence.
//
// Returns a *ValidationError listing the missing fields, or nil.
func (d Draft) Validate() error {
	if missing := d.Missing(); len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// ValidationError reports required fields left empty on a form.
type ValidationError struct {
	Missing []Field
}

func (e *ValidationError) Error() string {
	labels := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		labels[i] = f.Label()
	}
	return "required: " + strings.Join(labels, ", ")
}
