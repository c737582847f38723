package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/urlreport/internal/api"
	"github.com/nao1215/urlreport/internal/storage"
)

func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	tests := []struct {
		name     string
		defValue string
	}{
		{name: "addr", defValue: defaultListenAddr},
		{name: "results", defValue: "results"},
		{name: "rate", defValue: "10"},
		{name: "burst", defValue: "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

func TestRunServeCmd(t *testing.T) {
	t.Parallel()

	t.Run("unreachable results directory fails before listening", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing")
		_, err := executeCmd(t, "serve", "-r", missing, "--addr", "127.0.0.1:0")
		if !errors.Is(err, storage.ErrRootUnreachable) {
			t.Errorf("expected ErrRootUnreachable, got %v", err)
		}
	})

	t.Run("cancelled context stops the server", func(t *testing.T) {
		t.Parallel()

		root := setupResults(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var stdout bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"serve", "-r", root, "--addr", "127.0.0.1:0", "--config", writeConfig(t, "")})

		if err := cmd.ExecuteContext(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(stdout.String(), "Serving reports from "+root) {
			t.Errorf("unexpected output %q", stdout.String())
		}
	})
}

func TestServe(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	server := &http.Server{
		Handler:           api.NewRouter(storage.NewStore(setupResults(t)), api.Options{}),
		ReadHeaderTimeout: time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, server, listener)
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/api/v1/targets")
	if err != nil {
		cancel()
		t.Fatalf("request failed: %v", err)
	}
	var targets []map[string]any
	decodeErr := json.NewDecoder(resp.Body).Decode(&targets)
	_ = resp.Body.Close()
	if decodeErr != nil || len(targets) != 1 || targets[0]["url"] != testURL {
		t.Errorf("unexpected targets %v (%v)", targets, decodeErr)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
