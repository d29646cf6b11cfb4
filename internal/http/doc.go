// Package http provides an HTTP client for the JSON book service.
//
// The Client in this package handles:
//   - User-Agent, Accept and X-Request-Id headers
//   - JSON request and response bodies
//   - Dial, TLS and overall timeout handling
//   - Mapping of non-2xx responses to *StatusError
//
// # Basic Usage
//
//	client := http.NewClient(30*time.Second, "")
//
//	// Fetch a collection
//	var books []model.Book
//	err := client.GetJSON(ctx, "http://localhost:5000/api/books", &books)
//
//	// Create a record
//	var created model.Book
//	err = client.SendJSON(ctx, "POST", "http://localhost:5000/api/books", draft, &created)
//
// # Errors
//
// Callers can detect server-side rejections with errors.As:
//
//	var statusErr *http.StatusError
//	if errors.As(err, &statusErr) && statusErr.StatusCode == 404 {
//	    // record is gone
//	}
package http
