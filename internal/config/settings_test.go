package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *settings != *DefaultSettings() {
		t.Errorf("Load(missing) = %+v, want defaults", settings)
	}
}

func TestSaveLoad(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"json", "config.json"},
		{"yaml", "config.yaml"},
		{"yml", "nested/dir/config.yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)

			want := DefaultSettings()
			want.APIURL = "https://books.example.com/api/books"
			want.MaxConcurrentImports = 9
			if err := want.Save(path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if *got != *want {
				t.Errorf("Load() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_url: http://example.com/api/books\n"), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.APIURL != "http://example.com/api/books" {
		t.Errorf("APIURL = %q", settings.APIURL)
	}
	if settings.RefreshMaxRetries != DefaultSettings().RefreshMaxRetries {
		t.Errorf("RefreshMaxRetries = %d, want default", settings.RefreshMaxRetries)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://override:9000/api/books")

	settings := DefaultSettings()
	settings.ApplyEnv()

	if settings.APIURL != "http://override:9000/api/books" {
		t.Errorf("APIURL = %q, want env override", settings.APIURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(s *Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"https", func(s *Settings) { s.APIURL = "https://example.com/api/books" }, false},
		{"relative url", func(s *Settings) { s.APIURL = "/api/books" }, true},
		{"bad scheme", func(s *Settings) { s.APIURL = "ftp://example.com/api/books" }, true},
		{"no host", func(s *Settings) { s.APIURL = "http:///api/books" }, true},
		{"negative timeout", func(s *Settings) { s.RequestTimeout = -1 }, true},
		{"zero retries", func(s *Settings) { s.RefreshMaxRetries = 0 }, true},
		{"zero imports", func(s *Settings) { s.MaxConcurrentImports = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(s)
			err := s.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRetryDelay(t *testing.T) {
	s := DefaultSettings()
	s.RefreshRetryCooldown = 0.5
	s.RefreshRetryExponent = 2

	tests := []struct {
		tries int
		want  time.Duration
	}{
		{0, 500 * time.Millisecond},
		{1, time.Second},
		{2, 2 * time.Second},
	}

	for _, tt := range tests {
		if got := s.RetryDelay(tt.tries); got != tt.want {
			t.Errorf("RetryDelay(%d) = %s, want %s", tt.tries, got, tt.want)
		}
	}

	if got := s.Timeout(); got != 30*time.Second {
		t.Errorf("Timeout() = %s, want 30s", got)
	}
}
