package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("no database yet", func(t *testing.T) {
		t.Parallel()

		out, err := executeCmd(t, "history", "--db-dir", t.TempDir(), testURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No snapshot saved yet") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("url is required", func(t *testing.T) {
		t.Parallel()

		_, err := executeCmd(t, "history", "--db-dir", t.TempDir())
		if err == nil || !strings.Contains(err.Error(), "url is required") {
			t.Errorf("expected url required error, got %v", err)
		}
	})

	t.Run("saved reports are listed once per change", func(t *testing.T) {
		t.Parallel()

		root := setupResults(t)
		dbDir := t.TempDir()

		for range 2 {
			if _, err := executeCmd(t, "report", "-S", "-r", root, "--save", "--db-dir", dbDir, testURL); err != nil {
				t.Fatalf("report failed: %v", err)
			}
		}

		out, err := executeCmd(t, "history", "--db-dir", dbDir, testURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Total: 1 snapshot(s)") {
			t.Errorf("expected a single snapshot:\n%s", out)
		}
		if !strings.Contains(out, "9876") || !strings.Contains(out, "2/11") {
			t.Errorf("expected run and availability:\n%s", out)
		}

		// A new run changes the report.
		newer := filepath.Join(root, testB64, "9999")
		if err := os.Mkdir(newer, 0750); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
		if _, err := executeCmd(t, "report", "-S", "-r", root, "--save", "--db-dir", dbDir, testURL); err != nil {
			t.Fatalf("report failed: %v", err)
		}

		out, err = executeCmd(t, "history", "--db-dir", dbDir, testURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Total: 2 snapshot(s)") {
			t.Errorf("expected two snapshots:\n%s", out)
		}
		if strings.Index(out, "9999") > strings.Index(out, "9876") {
			t.Errorf("expected newest snapshot first:\n%s", out)
		}
	})

	t.Run("list urls and show snapshot", func(t *testing.T) {
		t.Parallel()

		root := setupResults(t)
		dbDir := t.TempDir()
		if _, err := executeCmd(t, "report", "-S", "-r", root, "--save", "--db-dir", dbDir, testURL); err != nil {
			t.Fatalf("report failed: %v", err)
		}

		out, err := executeCmd(t, "history", "--db-dir", dbDir, "--list-urls")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "  "+testURL+"\n") || !strings.Contains(out, "Total: 1 URL(s)") {
			t.Errorf("unexpected url list:\n%s", out)
		}

		out, err = executeCmd(t, "history", "--db-dir", dbDir, "--show", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Run:         9876") {
			t.Errorf("expected text report:\n%s", out)
		}

		out, err = executeCmd(t, "history", "--db-dir", dbDir, "--show", "1", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var decoded struct {
			URL string `json:"url"`
			Run string `json:"run"`
		}
		if err := json.Unmarshal([]byte(out), &decoded); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, out)
		}
		if decoded.URL != testURL || decoded.Run != "9876" {
			t.Errorf("unexpected snapshot %+v", decoded)
		}

		out, err = executeCmd(t, "history", "--db-dir", dbDir, "--latest", testURL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Run:         9876") {
			t.Errorf("expected latest snapshot:\n%s", out)
		}

		out, err = executeCmd(t, "history", "--db-dir", dbDir, "--latest", "https://www.invalid.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No snapshot found") {
			t.Errorf("unexpected output %q", out)
		}

		if _, err := executeCmd(t, "history", "--db-dir", dbDir, "--show", "42"); err == nil {
			t.Error("expected error for unknown snapshot")
		}
	})
}
