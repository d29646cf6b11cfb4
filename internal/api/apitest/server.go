// Package apitest provides an in-memory book service for tests.
//
// The Server speaks the same REST contract as the real service on an
// httptest.Server, assigns ulid ids, keeps insertion order, and can be told
// to fail the next calls of a given method.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/handiism/bookshelf/internal/model"
	"github.com/oklog/ulid/v2"
)

// CollectionPath is where the fake mounts the book collection.
const CollectionPath = "/api/books"

// Server is a fake book service.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	books    []model.Book
	failures map[string][]int
	calls    map[string]int
	onCall   func(method string)
}

// NewServer starts a fake service holding the given books.
// Call Close when done.
func NewServer(seed ...model.Book) *Server {
	s := &Server{
		books:    append([]model.Book(nil), seed...),
		failures: make(map[string][]int),
		calls:    make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// CollectionURL returns the absolute URL of the book collection.
func (s *Server) CollectionURL() string {
	return s.Server.URL + CollectionPath
}

// Books returns a copy of the server-side collection.
func (s *Server) Books() []model.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Book(nil), s.books...)
}

// Put replaces the server-side collection without going through the API,
// simulating changes made by another client.
func (s *Server) Put(books ...model.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = append([]model.Book(nil), books...)
}

// FailNext makes the next calls with the given method answer with the given
// statuses, one per call, in order.
func (s *Server) FailNext(method string, statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = append(s.failures[method], statuses...)
}

// Calls returns how many requests with the given method were received.
func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// OnCall registers a hook run at the start of every request, before any
// lock is taken. Tests use it to block or sequence requests.
func (s *Server) OnCall(fn func(method string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCall = fn
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	hook := s.onCall
	s.mu.Unlock()
	if hook != nil {
		hook(r.Method)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[r.Method]++
	if queued := s.failures[r.Method]; len(queued) > 0 {
		s.failures[r.Method] = queued[1:]
		http.Error(w, "injected failure", queued[0])
		return
	}

	id, isItem, ok := parsePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case !isItem && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, s.books)

	case !isItem && r.Method == http.MethodPost:
		var book model.Book
		if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		book.ID = ulid.Make().String()
		s.books = append(s.books, book)
		writeJSON(w, http.StatusCreated, book)

	case isItem && r.Method == http.MethodPut:
		var book model.Book
		if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		i := s.indexOf(id)
		if i < 0 {
			http.NotFound(w, r)
			return
		}
		book.ID = id
		s.books[i] = book
		writeJSON(w, http.StatusOK, book)

	case isItem && r.Method == http.MethodDelete:
		i := s.indexOf(id)
		if i < 0 {
			http.NotFound(w, r)
			return
		}
		s.books = append(s.books[:i], s.books[i+1:]...)
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) indexOf(id string) int {
	for i, b := range s.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// parsePath splits a request path into the collection or one item of it.
func parsePath(path string) (id string, isItem bool, ok bool) {
	if path == CollectionPath || path == CollectionPath+"/" {
		return "", false, true
	}
	rest, found := strings.CutPrefix(path, CollectionPath+"/")
	if !found || rest == "" || strings.Contains(rest, "/") {
		return "", false, false
	}
	return rest, true, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
