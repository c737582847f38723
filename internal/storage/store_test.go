package storage

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// makeRuns creates {root}/{identifier of rawURL}/{run} for every run.
func makeRuns(t *testing.T, root, rawURL string, runs ...string) string {
	t.Helper()

	dir := filepath.Join(root, URLIdentifier(rawURL))
	if err := os.MkdirAll(dir, 0750); err != nil {
		t.Fatalf("failed to create url dir: %v", err)
	}
	for _, run := range runs {
		if err := os.MkdirAll(filepath.Join(dir, run), 0750); err != nil {
			t.Fatalf("failed to create run dir: %v", err)
		}
	}
	return dir
}

func TestURLIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "https url",
			url:  "https://www.test.com",
			want: "aHR0cHM6Ly93d3cudGVzdC5jb20=",
		},
		{
			name: "empty string",
			url:  "",
			want: "",
		},
		{
			name: "not a url",
			url:  "hello",
			want: "aGVsbG8=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := URLIdentifier(tt.url); got != tt.want {
				t.Errorf("URLIdentifier(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}

	t.Run("no normalization is applied", func(t *testing.T) {
		t.Parallel()

		variants := []string{
			"https://example.com",
			"https://example.com/",
			"HTTPS://EXAMPLE.COM",
			"http://example.com",
		}
		seen := make(map[string]string)
		for _, v := range variants {
			id := URLIdentifier(v)
			if prev, ok := seen[id]; ok {
				t.Errorf("%q and %q map to the same identifier %q", prev, v, id)
			}
			seen[id] = v
		}
	})

	t.Run("round trips through DecodeIdentifier", func(t *testing.T) {
		t.Parallel()

		url := "https://例え.jp/path?q=1&b=ö"
		got, err := DecodeIdentifier(URLIdentifier(url))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != url {
			t.Errorf("expected %q, got %q", url, got)
		}
	})

	t.Run("invalid identifier returns ErrInvalidIdentifier", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeIdentifier("not base64!")
		if !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("expected ErrInvalidIdentifier, got %v", err)
		}
	})
}

func TestStoreKnown(t *testing.T) {
	t.Parallel()

	t.Run("unknown url is not an error", func(t *testing.T) {
		t.Parallel()

		s := NewStore(t.TempDir())
		id, known, err := s.Known("https://www.invalid.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if known {
			t.Error("expected url to be unknown")
		}
		if id != URLIdentifier("https://www.invalid.com") {
			t.Errorf("unexpected identifier %q", id)
		}
	})

	t.Run("url with directory is known", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		makeRuns(t, root, "https://www.test.com", "1234")

		s := NewStore(root)
		id, known, err := s.Known("https://www.test.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !known {
			t.Error("expected url to be known")
		}
		if id != "aHR0cHM6Ly93d3cudGVzdC5jb20=" {
			t.Errorf("unexpected identifier %q", id)
		}
	})

	t.Run("regular file in place of directory is unknown", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		path := filepath.Join(root, URLIdentifier("https://file.com"))
		if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		_, known, err := NewStore(root).Known("https://file.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if known {
			t.Error("expected url to be unknown")
		}
	})

	t.Run("missing root means nothing is known", func(t *testing.T) {
		t.Parallel()

		s := NewStore(filepath.Join(t.TempDir(), "missing"))
		id, known, err := s.Known("https://www.test.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if known {
			t.Error("expected url to be unknown")
		}
		if id != "aHR0cHM6Ly93d3cudGVzdC5jb20=" {
			t.Errorf("unexpected identifier %q", id)
		}
	})

	t.Run("root that is a file returns ErrRootUnreachable", func(t *testing.T) {
		t.Parallel()

		root := filepath.Join(t.TempDir(), "results")
		if err := os.WriteFile(root, nil, 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		_, _, err := NewStore(root).Known("https://www.test.com")
		if !errors.Is(err, ErrRootUnreachable) {
			t.Errorf("expected ErrRootUnreachable, got %v", err)
		}
	})
}

func TestStoreLatestRun(t *testing.T) {
	t.Parallel()

	t.Run("picks lexicographic maximum regardless of order", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		makeRuns(t, root, "https://www.test.com", "9876", "1234", "5678")

		run, ok, err := NewStore(root).LatestRun(URLIdentifier("https://www.test.com"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatal("expected a run")
		}
		if run != "9876" {
			t.Errorf("expected run 9876, got %q", run)
		}
	})

	t.Run("comparison is not numeric", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		makeRuns(t, root, "https://www.test.com", "10", "9")

		run, _, err := NewStore(root).LatestRun(URLIdentifier("https://www.test.com"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run != "9" {
			t.Errorf("expected run 9, got %q", run)
		}
	})

	t.Run("iso timestamps sort chronologically", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		makeRuns(t, root, "https://www.test.com",
			"2024-01-31T10:00:00Z", "2024-12-01T08:00:00Z", "2024-02-15T23:59:59Z")

		run, _, err := NewStore(root).LatestRun(URLIdentifier("https://www.test.com"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run != "2024-12-01T08:00:00Z" {
			t.Errorf("unexpected run %q", run)
		}
	})

	t.Run("files are not runs", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		dir := makeRuns(t, root, "https://www.test.com", "1234")
		if err := os.WriteFile(filepath.Join(dir, "9999"), []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		run, _, err := NewStore(root).LatestRun(URLIdentifier("https://www.test.com"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run != "1234" {
			t.Errorf("expected run 1234, got %q", run)
		}
	})

	t.Run("symlinked run directory counts", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		dir := makeRuns(t, root, "https://www.test.com", "9876", "1234", "5678")
		target := filepath.Join(t.TempDir(), "archived")
		if err := os.Mkdir(target, 0750); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.Symlink(target, filepath.Join(dir, "9999")); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}

		s := NewStore(root)
		run, ok, err := s.LatestRun(URLIdentifier("https://www.test.com"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok || run != "9999" {
			t.Errorf("expected run 9999, got %q (ok=%v)", run, ok)
		}

		runs, err := s.Runs(URLIdentifier("https://www.test.com"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := []string{"1234", "5678", "9876", "9999"}; !slices.Equal(runs, want) {
			t.Errorf("expected runs %v, got %v", want, runs)
		}
	})

	t.Run("dangling symlink is not a run", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		dir := makeRuns(t, root, "https://www.test.com", "1234")
		if err := os.Symlink(filepath.Join(root, "gone"), filepath.Join(dir, "9999")); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}

		run, _, err := NewStore(root).LatestRun(URLIdentifier("https://www.test.com"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run != "1234" {
			t.Errorf("expected run 1234, got %q", run)
		}
	})

	t.Run("empty url directory has no run", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		makeRuns(t, root, "https://www.test.com")

		_, ok, err := NewStore(root).LatestRun(URLIdentifier("https://www.test.com"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected no run")
		}
	})
}

func TestStoreRuns(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	makeRuns(t, root, "https://www.test.com", "9876", "1234", "5678")

	runs, err := NewStore(root).Runs(URLIdentifier("https://www.test.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"1234", "5678", "9876"}
	if !slices.Equal(runs, want) {
		t.Errorf("expected %v, got %v", want, runs)
	}
}

func TestStoreHasScreenshot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := makeRuns(t, root, "https://www.test.com", "1234", "9876")
	id := URLIdentifier("https://www.test.com")

	// Screenshot only in the older run.
	if err := os.WriteFile(filepath.Join(dir, "1234", DefaultScreenshotFile), []byte{0xff, 0xd8}, 0600); err != nil {
		t.Fatalf("failed to write screenshot: %v", err)
	}

	s := NewStore(root)
	if s.HasScreenshot(id, "9876") {
		t.Error("expected no screenshot in run 9876")
	}
	if !s.HasScreenshot(id, "1234") {
		t.Error("expected screenshot in run 1234")
	}

	t.Run("custom file name", func(t *testing.T) {
		t.Parallel()

		if err := os.WriteFile(filepath.Join(dir, "9876", "shot.png"), nil, 0600); err != nil {
			t.Fatalf("failed to write screenshot: %v", err)
		}
		custom := NewStore(root, WithScreenshotFile("shot.png"))
		if !custom.HasScreenshot(id, "9876") {
			t.Error("expected custom screenshot to be detected")
		}
	})

	t.Run("directory with screenshot name is not a screenshot", func(t *testing.T) {
		t.Parallel()

		other := makeRuns(t, root, "https://other.com", "1")
		if err := os.Mkdir(filepath.Join(other, "1", DefaultScreenshotFile), 0750); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if s.HasScreenshot(URLIdentifier("https://other.com"), "1") {
			t.Error("expected directory not to count as screenshot")
		}
	})
}

func TestStoreTargets(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	makeRuns(t, root, "https://b.com", "1", "2")
	makeRuns(t, root, "https://a.com")
	if err := os.Mkdir(filepath.Join(root, "not base64!"), 0750); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	targets, skipped, err := NewStore(root).Targets()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
	if targets[0].URL != "https://a.com" || targets[0].Runs != 0 || targets[0].LatestRun != "" {
		t.Errorf("unexpected first target %+v", targets[0])
	}
	if targets[1].URL != "https://b.com" || targets[1].Runs != 2 || targets[1].LatestRun != "2" {
		t.Errorf("unexpected second target %+v", targets[1])
	}
	if len(skipped) != 1 || skipped[0] != "not base64!" {
		t.Errorf("expected skipped directory, got %v", skipped)
	}
}
