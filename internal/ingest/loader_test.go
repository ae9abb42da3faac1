package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test CSV: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"name,description,url",
		`Email Automation,"Sends an email, fast",https://example.com/email`,
		"Slack Alerts,Posts alerts to Slack,https://example.com/slack",
	}, "\n"))

	records, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV() failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "Email Automation" {
		t.Errorf("Name = %q", records[0].Name)
	}
	if records[0].Description != "Sends an email, fast" {
		t.Errorf("Description = %q", records[0].Description)
	}
	if records[0].Link != "https://example.com/email" {
		t.Errorf("Link = %q", records[0].Link)
	}
}

func TestLoadCSV_ColumnOrderAndCase(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"URL,Name,Description",
		"https://example.com/x,X,Does X",
	}, "\n"))

	records, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV() failed: %v", err)
	}
	if records[0].Name != "X" || records[0].Link != "https://example.com/x" {
		t.Errorf("columns not remapped: %+v", records[0])
	}
}

func TestLoadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"missing column", "name,description\nA,does a"},
		{"empty name", "name,description,url\n,does a,https://x"},
		{"empty description", "name,description,url\nA,,https://x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.content)
			if _, err := LoadCSV(path); !errors.Is(err, ErrLoad) {
				t.Errorf("LoadCSV() = %v, want ErrLoad", err)
			}
		})
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	if _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, ErrLoad) {
		t.Errorf("LoadCSV() = %v, want ErrLoad", err)
	}
}
