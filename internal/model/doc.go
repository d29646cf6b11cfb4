// Package model defines the core data structures used throughout
// the bookshelf application.
//
// # Book
//
// Book is one record of the remote collection. Its ID is assigned by the
// server; a Book without an ID is a draft that has not been persisted yet:
//
//	book := model.Book{Title: "Dune", Author: "Herbert", PublishedYear: "1965"}
//	book.IsDraft() // true until the server has assigned an ID
//	fmt.Println(book) // "Dune by Herbert (1965) []"
//
// # Year
//
// PublishedYear holds whatever the user typed. The server may send it back as
// a JSON number or a JSON string; both decode to the same literal text.
//
// # Draft
//
// Draft is the ephemeral field map a form edits before submitting:
//
//	draft := model.NewDraft()              // empty create form
//	draft := model.DraftOf(book)          // edit form seeded from a record
//	if err := draft.Validate(); err != nil {
//	    // required fields are missing, nothing is sent
//	}
//	payload := draft.Book(book.ID)
package model
