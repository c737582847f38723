package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const (
	testURL = "https://www.test.com"
	testB64 = "aHR0cHM6Ly93d3cudGVzdC5jb20="
)

// setupResults creates a results root with the runs 1234 and 9876 of
// testURL. The latest run holds two report files and a screenshot.
func setupResults(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for _, run := range []string{"1234", "9876"} {
		if err := os.MkdirAll(filepath.Join(root, testB64, run), 0750); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
	}

	latest := filepath.Join(root, testB64, "9876")
	files := map[string]string{
		"codescanalerts.json": `{"totalCount": 42}`,
		"nuclei.json":         `[{"template": "tech-detect"}]`,
		"zap.json":            `{"site": `,
		"screenshot.jpeg":     "\xff\xd8",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(latest, name), []byte(content), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return root
}

// writeConfig writes a configuration file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".urlreport")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// executeCmd runs the root command with args and returns stdout and the
// error. An empty configuration file is used unless args set --config.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	hasConfig := false
	for _, a := range args {
		if a == "-c" || a == "--config" {
			hasConfig = true
		}
	}
	if !hasConfig {
		args = append(args, "--config", writeConfig(t, ""))
	}

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}
