package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Book represents a single book record held by the remote service.
//
// Book contains:
//   - ID assigned by the server (empty for drafts)
//   - Title, Author and Genre as free text
//   - PublishedYear stored exactly as entered
//
// The JSON names match the collaborator's REST contract. The YAML names are
// used by import and export files.
//
// Example:
//
//	book := Book{ID: "1", Title: "Dune", Author: "Herbert", PublishedYear: "1965", Genre: "SciFi"}
//	fmt.Println(book) // "Dune by Herbert (1965) [SciFi]"
type Book struct {
	// ID is the server-assigned identifier. Immutable once assigned.
	ID string `json:"_id,omitempty" yaml:"id,omitempty"`

	// Title is the book title.
	Title string `json:"title" yaml:"title"`

	// Author is the book author.
	Author string `json:"author" yaml:"author"`

	// PublishedYear is the year of publication as the user entered it.
	PublishedYear Year `json:"publishedYear" yaml:"publishedYear"`

	// Genre is the book genre.
	Genre string `json:"genre" yaml:"genre"`
}

// IsDraft reports whether the book has not been assigned an ID by the server.
func (b Book) IsDraft() bool {
	return b.ID == ""
}

// String renders the book as a single list line.
func (b Book) String() string {
	return fmt.Sprintf("%s by %s (%s) [%s]", b.Title, b.Author, b.PublishedYear, b.Genre)
}

// Year is a publication year kept as literal text.
//
// Servers commonly store the year as a number even though the client sends a
// string. UnmarshalJSON accepts both:
//
//	"1965" -> Year("1965")
//	1965   -> Year("1965")
//	null   -> Year("")
//
// MarshalJSON always emits a JSON string so no coercion happens client-side.
type Year string

// MarshalJSON implements json.Marshaler.
func (y Year) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(y))
}

// UnmarshalJSON implements json.Unmarshaler.
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*y = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Year(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("publishedYear: expected string or number, got %s", data)
	}
	*y = Year(n.String())
	return nil
}

// String returns the year text.
func (y Year) String() string {
	return string(y)
}
