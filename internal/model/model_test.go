package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestYear_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Year
	}{
		{"string", `{"publishedYear":"1965"}`, "1965"},
		{"number", `{"publishedYear":1965}`, "1965"},
		{"free text", `{"publishedYear":"c. 1200"}`, "c. 1200"},
		{"null", `{"publishedYear":null}`, ""},
		{"missing", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Book
			if err := json.Unmarshal([]byte(tt.input), &b); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
			}
			if b.PublishedYear != tt.want {
				t.Errorf("PublishedYear = %q, want %q", b.PublishedYear, tt.want)
			}
		})
	}
}

func TestYear_UnmarshalJSONRejectsObjects(t *testing.T) {
	var b Book
	if err := json.Unmarshal([]byte(`{"publishedYear":{"y":1}}`), &b); err == nil {
		t.Error("expected error for object-valued publishedYear")
	}
}

func TestBook_MarshalJSON(t *testing.T) {
	draft := Book{Title: "Dune", Author: "Herbert", PublishedYear: "1965", Genre: "SciFi"}
	data, err := json.Marshal(draft)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"title":"Dune","author":"Herbert","publishedYear":"1965","genre":"SciFi"}`
	if string(data) != want {
		t.Errorf("Marshal(draft) = %s, want %s", data, want)
	}

	draft.ID = "abc"
	data, _ = json.Marshal(draft)
	want = `{"_id":"abc","title":"Dune","author":"Herbert","publishedYear":"1965","genre":"SciFi"}`
	if string(data) != want {
		t.Errorf("Marshal(record) = %s, want %s", data, want)
	}
}

func TestBook_String(t *testing.T) {
	b := Book{ID: "1", Title: "Dune", Author: "Herbert", PublishedYear: "1965", Genre: "SciFi"}
	if got := b.String(); got != "Dune by Herbert (1965) [SciFi]" {
		t.Errorf("String() = %q", got)
	}
	if b.IsDraft() {
		t.Error("IsDraft() should be false when ID is set")
	}
	if !(Book{Title: "x"}).IsDraft() {
		t.Error("IsDraft() should be true when ID is empty")
	}
}

func TestDraft_RoundTrip(t *testing.T) {
	b := Book{ID: "7", Title: "Emma", Author: "Austen", PublishedYear: "1815", Genre: "Novel"}

	got := DraftOf(b).Book("7")
	if got != b {
		t.Errorf("DraftOf(b).Book() = %+v, want %+v", got, b)
	}

	if got := DraftOf(b).Book(""); !got.IsDraft() {
		t.Error("Book(\"\") should produce a draft")
	}
}

func TestDraft_Clone(t *testing.T) {
	d := NewDraft()
	d[FieldTitle] = "Dune"

	c := d.Clone()
	c[FieldTitle] = "Emma"

	if d[FieldTitle] != "Dune" {
		t.Errorf("original modified through clone: %q", d[FieldTitle])
	}
}

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		missing []Field
	}{
		{
			name:    "empty",
			draft:   NewDraft(),
			missing: []Field{FieldTitle, FieldAuthor, FieldPublishedYear, FieldGenre},
		},
		{
			name: "complete",
			draft: Draft{
				FieldTitle: "Dune", FieldAuthor: "Herbert", FieldPublishedYear: "1965", FieldGenre: "SciFi",
			},
		},
		{
			name: "whitespace counts as missing",
			draft: Draft{
				FieldTitle: "Dune", FieldAuthor: "  ", FieldPublishedYear: "1965", FieldGenre: "\t",
			},
			missing: []Field{FieldAuthor, FieldGenre},
		},
		{
			name:    "nil draft",
			draft:   nil,
			missing: []Field{FieldTitle, FieldAuthor, FieldPublishedYear, FieldGenre},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if len(tt.missing) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(verr.Missing) != len(tt.missing) {
				t.Fatalf("Missing = %v, want %v", verr.Missing, tt.missing)
			}
			for i := range tt.missing {
				if verr.Missing[i] != tt.missing[i] {
					t.Errorf("Missing[%d] = %q, want %q", i, verr.Missing[i], tt.missing[i])
				}
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Missing: []Field{FieldTitle, FieldPublishedYear}}
	if got := err.Error(); got != "required: Title, Year" {
		t.Errorf("Error() = %q", got)
	}
}
