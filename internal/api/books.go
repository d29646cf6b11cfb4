// Package api implements the client side of the book service REST contract.
//
//	GET    /api/books       list all books
//	POST   /api/books       create a book
//	PUT    /api/books/{id}  replace a book
//	DELETE /api/books/{id}  delete a book
package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	bhttp "github.com/handiism/bookshelf/internal/http"
	"github.com/handiism/bookshelf/internal/model"
)

// Service is the set of remote operations the client relies on.
type Service interface {
	List(ctx context.Context) ([]model.Book, error)
	Create(ctx context.Context, book model.Book) (model.Book, error)
	Update(ctx context.Context, id string, book model.Book) (model.Book, error)
	Delete(ctx context.Context, id string) error
}

// ErrMissingID is returned by Update and Delete when called without an id.
var ErrMissingID = errors.New("book id is required")

// Client talks to the book collection at a fixed URL.
type Client struct {
	http    *bhttp.Client
	baseURL string
}

var _ Service = (*Client)(nil)

// NewClient returns a Client for the collection at baseURL,
// e.g. "http://localhost:5000/api/books".
func NewClient(baseURL string, httpClient *bhttp.Client) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// List returns every book in server order. An empty collection is an empty,
// non-nil slice.
func (c *Client) List(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := c.http.GetJSON(ctx, c.baseURL, &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

// Create sends the book without its id and returns the server's record.
func (c *Client) Create(ctx context.Context, book model.Book) (model.Book, error) {
	book.ID = ""

	var created model.Book
	if err := c.http.SendJSON(ctx, http.MethodPost, c.baseURL, book, &created); err != nil {
		return model.Book{}, err
	}
	return created, nil
}

// Update replaces every field of the book with the given id.
func (c *Client) Update(ctx context.Context, id string, book model.Book) (model.Book, error) {
	if id == "" {
		return model.Book{}, ErrMissingID
	}
	book.ID = id

	var updated model.Book
	if err := c.http.SendJSON(ctx, http.MethodPut, c.itemURL(id), book, &updated); err != nil {
		return model.Book{}, err
	}
	return updated, nil
}

// Delete removes the book with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	return c.http.Delete(ctx, c.itemURL(id))
}

func (c *Client) itemURL(id string) string {
	return c.baseURL + "/" + url.PathEscape(id)
}
