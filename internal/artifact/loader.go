package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Results maps each catalog field to its load result.
type Results map[Field]Result

// Get returns the result of a field, or an absent result if the field was
// not loaded.
func (r Results) Get(field Field) Result {
	if res, ok := r[field]; ok {
		return res
	}
	return Absent()
}

// Load reads one report file from dir and checks its shape.
//
// The file is read once; a missing file is reported by the read itself, so
// there is no window between an existence check and the read.
func Load(dir string, entry Entry) Result {
	data, err := os.ReadFile(filepath.Join(dir, entry.Filename)) //nolint:gosec // Path is built from the fixed catalog
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Absent()
		}
		return Malformed(err)
	}
	return Decode(data, entry.Shape)
}

// utf8BOM is stripped from the start of report files. Some scanners on
// Windows write it.
var utf8BOM = []byte("\xef\xbb\xbf")

// Decode checks that data is a JSON document of the given shape and returns
// it compacted. A leading UTF-8 byte order mark is ignored.
func Decode(data []byte, shape Shape) Result {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(bytes.TrimSpace(data), utf8BOM))
	if !json.Valid(trimmed) {
		return Malformed(ErrInvalidJSON)
	}

	switch shape {
	case ShapeObject:
		if trimmed[0] != '{' {
			return Malformed(fmt.Errorf("%w: want %s", ErrWrongShape, shape))
		}
	case ShapeArray:
		if trimmed[0] != '[' {
			return Malformed(fmt.Errorf("%w: want %s", ErrWrongShape, shape))
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return Malformed(fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		}
		if len(elems) == 0 {
			return Empty()
		}
	default:
		return Malformed(fmt.Errorf("%w: %s", ErrWrongShape, shape))
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return Malformed(fmt.Errorf("%w: %w", ErrInvalidJSON, err))
	}
	return Found(buf.Bytes())
}

// LoadAll loads every catalog entry from dir.
//
// The files are independent, so they are read concurrently; each goroutine
// writes its own key. The only error is the context error when ctx is
// cancelled before all files are read.
func LoadAll(ctx context.Context, dir string) (Results, error) {
	results := make(Results, len(catalog))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, entry := range catalog {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			res := Load(dir, entry)

			mu.Lock()
			results[entry.Field] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
