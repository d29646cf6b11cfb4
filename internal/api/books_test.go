package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/handiism/bookshelf/internal/api/apitest"
	bhttp "github.com/handiism/bookshelf/internal/http"
	"github.com/handiism/bookshelf/internal/model"
)

func newTestClient(t *testing.T, seed ...model.Book) (*Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(seed...)
	t.Cleanup(srv.Close)
	return NewClient(srv.CollectionURL()+"/", bhttp.NewClient(0, "")), srv
}

func TestClient_ListEmpty(t *testing.T) {
	client, _ := newTestClient(t)

	books, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if books == nil || len(books) != 0 {
		t.Errorf("List() = %#v, want empty non-nil slice", books)
	}
}

func TestClient_CRUD(t *testing.T) {
	ctx := context.Background()
	client, srv := newTestClient(t, model.Book{ID: "1", Title: "Old", Author: "A", PublishedYear: "1900", Genre: "G"})

	created, err := client.Create(ctx, model.Book{ID: "ignored", Title: "Dune", Author: "Herbert", PublishedYear: "1965", Genre: "SciFi"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" || created.ID == "ignored" {
		t.Errorf("Create should return a server-assigned id, got %q", created.ID)
	}

	updated, err := client.Update(ctx, "1", model.Book{Title: "New", Author: "A", PublishedYear: "1901", Genre: "G"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != "1" || updated.Title != "New" {
		t.Errorf("Update returned %+v", updated)
	}

	if err := client.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	books, err := client.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(books) != 1 || books[0].Title != "New" {
		t.Errorf("List() = %+v, want only the updated record", books)
	}
	if got := srv.Calls(http.MethodPost); got != 1 {
		t.Errorf("POST calls = %d, want 1", got)
	}
}

func TestClient_MissingID(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	if _, err := client.Update(ctx, "", model.Book{}); !errors.Is(err, ErrMissingID) {
		t.Errorf("Update(\"\") err = %v, want ErrMissingID", err)
	}
	if err := client.Delete(ctx, ""); !errors.Is(err, ErrMissingID) {
		t.Errorf("Delete(\"\") err = %v, want ErrMissingID", err)
	}
	if srv.Calls(http.MethodPut)+srv.Calls(http.MethodDelete) != 0 {
		t.Error("no request should be sent without an id")
	}
}

func TestClient_UnknownID(t *testing.T) {
	client, _ := newTestClient(t)

	err := client.Delete(context.Background(), "missing")

	var statusErr *bhttp.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("Delete(missing) err = %v, want 404 StatusError", err)
	}
}

func TestClient_InjectedFailure(t *testing.T) {
	client, srv := newTestClient(t)
	srv.FailNext(http.MethodPost, http.StatusServiceUnavailable)

	if _, err := client.Create(context.Background(), model.Book{Title: "x"}); err == nil {
		t.Fatal("expected injected failure")
	}
	if len(srv.Books()) != 0 {
		t.Error("failed create must not change server state")
	}

	if _, err := client.Create(context.Background(), model.Book{Title: "x"}); err != nil {
		t.Errorf("second create should succeed: %v", err)
	}
}
