package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/handiism/bookshelf/internal/model"
	"gopkg.in/yaml.v3"
)

// WriteFile writes data to a file, creating parent directories as needed.
//
// The file is created with mode 0644 and truncated if it already exists.
// Directories are created with mode 0755.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadDrafts reads a YAML or JSON list of books and returns them as drafts.
//
// Any ids in the file are ignored: imported books always get fresh ids from
// the server. Years may be written as numbers or strings.
//
// Example file:
//
//	- title: Dune
//	  author: Frank Herbert
//	  publishedYear: 1965
//	  genre: SciFi
func ReadDrafts(path string) ([]model.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// JSON is valid YAML, so one decoder serves both.
	var books []model.Book
	if err := yaml.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	drafts := make([]model.Draft, len(books))
	for i, b := range books {
		drafts[i] = model.DraftOf(b)
	}
	return drafts, nil
}
