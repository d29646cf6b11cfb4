// Package config provides configuration management for bookshelf.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Environment overrides
//   - Validation before a client is built
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Talks to http://localhost:5000/api/books
//	// 30 second request timeout
//	// 3 refresh attempts with exponential backoff
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//	settings.ApplyEnv() // BOOKSHELF_API_URL wins over the file
//
// # Saving Settings
//
//	settings.APIURL = "https://books.example.com/api/books"
//	err := settings.Save("/path/to/config.yaml")
package config
