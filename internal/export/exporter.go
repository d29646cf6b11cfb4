package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/bookshelf/internal/model"
	"gopkg.in/yaml.v3"
)

// Format represents supported export file formats.
//
// Each format has different uses:
//   - JSON: same shape as the REST list response
//   - YAML: hand-editable, also accepted by import
//   - CSV: spreadsheets
type Format int

const (
	// FormatJSON creates .json files.
	FormatJSON Format = iota

	// FormatYAML creates .yaml files.
	FormatYAML

	// FormatCSV creates .csv files with a header row.
	FormatCSV
)

// ParseFormat returns the Format named by s ("json", "yaml", "yml", "csv").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return FormatJSON, fmt.Errorf("unknown format %q (choose json, yaml, or csv)", s)
	}
}

// FormatFromPath picks the Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatCSV:
		return ".csv"
	default:
		return ".json"
	}
}

func (f Format) String() string {
	return strings.TrimPrefix(f.Extension(), ".")
}

// csvHeader uses the REST field names so exported files line up with the API.
var csvHeader = []string{"_id", "title", "author", "publishedYear", "genre"}

// Exporter serializes a snapshot of books.
//
// Example:
//
//	exporter := NewExporter(FormatCSV)
//	data, err := exporter.Export(store.Snapshot())
//	err = WriteFile("books.csv", data)
type Exporter struct {
	format Format
}

// NewExporter creates a new Exporter for the given format.
func NewExporter(format Format) *Exporter {
	return &Exporter{format: format}
}

// Export renders the books in the exporter's format. A nil slice exports as
// an empty list.
func (e *Exporter) Export(books []model.Book) ([]byte, error) {
	if books == nil {
		books = []model.Book{}
	}

	switch e.format {
	case FormatYAML:
		return yaml.Marshal(books)
	case FormatCSV:
		return exportCSV(books)
	default:
		data, err := json.MarshalIndent(books, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

func exportCSV(books []model.Book) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, b := range books {
		if err := w.Write([]string{b.ID, b.Title, b.Author, string(b.PublishedYear), b.Genre}); err != nil {
			return nil, err
		}
	}
	w.Flush()

	return buf.Bytes(), w.Error()
}
