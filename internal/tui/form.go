package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/bookshelf/internal/model"
	"github.com/handiism/bookshelf/internal/shelf"
)

var placeholders = map[model.Field]string{
	model.FieldTitle:         "Dune",
	model.FieldAuthor:        "Frank Herbert",
	model.FieldPublishedYear: "1965",
	model.FieldGenre:         "Science Fiction",
}

// form is one of the two book forms. It owns its draft through the inputs.
type form struct {
	mode    shelf.Mode
	id      string
	title   string
	inputs  []textinput.Model
	focused int
	err     string
}

func newForm(mode shelf.Mode, draft model.Draft) form {
	f := form{mode: mode, inputs: make([]textinput.Model, len(model.Fields))}
	for i, field := range model.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[field]
		ti.CharLimit = 200
		ti.Width = 40
		ti.SetValue(draft[field])
		f.inputs[i] = ti
	}
	return f
}

// newCreateForm returns the create form, restoring draft if one was stashed.
func newCreateForm(draft model.Draft) form {
	if draft == nil {
		draft = model.NewDraft()
	}
	return newForm(shelf.ModeCreate, draft)
}

// newEditForm returns an edit form seeded from book.
func newEditForm(book model.Book) form {
	f := newForm(shelf.ModeEdit, model.DraftOf(book))
	f.id = book.ID
	f.title = book.Title
	return f
}

// draft returns the current field values.
func (f form) draft() model.Draft {
	d := make(model.Draft, len(model.Fields))
	for i, field := range model.Fields {
		d[field] = f.inputs[i].Value()
	}
	return d
}

func (f form) focus() (form, tea.Cmd) {
	return f.focusField(f.focused)
}

func (f form) blur() form {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f
}

// move shifts the focused field by delta, wrapping around.
func (f form) move(delta int) (form, tea.Cmd) {
	n := len(f.inputs)
	return f.focusField(((f.focused+delta)%n + n) % n)
}

func (f form) focusField(i int) (form, tea.Cmd) {
	f = f.blur()
	f.focused = i
	return f, f.inputs[i].Focus()
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return f, cmd
}

func (f form) heading() string {
	if f.mode == shelf.ModeEdit {
		return fmt.Sprintf("Edit %q", f.title)
	}
	return "Add a book"
}

func (f form) view(active bool) string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(f.heading()))
	b.WriteString("\n\n")

	for i, field := range model.Fields {
		label := fmt.Sprintf("%-7s", field.Label()+":")
		if active && i == f.focused {
			b.WriteString(focusedStyle.Render("› " + label))
		} else {
			b.WriteString(dimStyle.Render("  " + label))
		}
		b.WriteString(" ")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(f.err))
		b.WriteString("\n")
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
