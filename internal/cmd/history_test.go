package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/synthflow/internal/history"
	"github.com/harrison/synthflow/internal/models"
)

// seedHistory writes a config pointing at a temp database and records
// one finished run in it. Returns the config path.
func seedHistory(t *testing.T, dir string) string {
	t.Helper()

	dbPath := filepath.Join(dir, "history.db")
	configPath := filepath.Join(dir, "config.yaml")
	configContent := "history:\n  enabled: true\n  db_path: " + dbPath + "\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	defer store.Close()

	rec := models.RunRecord{
		ID:        uuid.NewString(),
		StartedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Duration:  90 * time.Second,
		TopModule: "adder32",
		Part:      "xc7a200tfbg484-2",
		Task:      models.TaskSynthesize.String(),
		Status:    models.StatusPassed,
		SlackNs:   0.123,
		LUTs:      120,
		Registers: 64,
	}
	if err := store.Record(rec); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	return configPath
}

// TestHistoryShowListsRuns verifies recorded runs render in the table.
func TestHistoryShowListsRuns(t *testing.T) {
	configPath := seedHistory(t, t.TempDir())

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"history", "show", "--config", configPath})

	if err := root.Execute(); err != nil {
		t.Fatalf("history show error = %v", err)
	}

	text := out.String()
	for _, want := range []string{"MODULE", "adder32", "xc7a200tfbg484-2", "PASSED"} {
		if !strings.Contains(text, want) {
			t.Errorf("history output missing %q:\n%s", want, text)
		}
	}
}

// TestHistoryShowHTML verifies --html writes a rendered table file.
func TestHistoryShowHTML(t *testing.T) {
	dir := t.TempDir()
	configPath := seedHistory(t, dir)
	htmlPath := filepath.Join(dir, "history.html")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"history", "show", "--config", configPath, "--html", htmlPath})

	if err := root.Execute(); err != nil {
		t.Fatalf("history show --html error = %v", err)
	}

	data, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("failed to read HTML output: %v", err)
	}
	html := string(data)
	for _, want := range []string{"<table>", "adder32", "xc7a200tfbg484-2"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML output missing %q:\n%s", want, html)
		}
	}
}
