package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/desertthunder/kedoo/internal/store"
	th "github.com/desertthunder/kedoo/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := th.Logger()
			output := &bytes.Buffer{}
			st := store.New(store.NewMemoryBackend(), logger)

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				Store:  st,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.svc == nil || runner.exporter == nil {
				t.Error("expected services to be built over the provided store")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("without store defers opening", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.store != nil || runner.svc != nil {
				t.Error("expected the store to open on first use")
			}
		})
	})

	t.Run("open", func(t *testing.T) {
		t.Run("opens the configured backend once", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Store.Backend = "memory"
			runner := NewRunner(RunnerOpts{Config: config, Logger: th.Logger(), Output: &bytes.Buffer{}})

			svc, err := runner.services(t.Context())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			again, _ := runner.services(t.Context())
			if svc != again {
				t.Error("expected the same services on the second call")
			}

			version, err := runner.store.Version(t.Context())
			if err != nil || version != 2 {
				t.Errorf("expected store at revision 2, got %d (%v)", version, err)
			}
		})

		t.Run("rejects unknown backends", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Store.Backend = "etcd"
			runner := NewRunner(RunnerOpts{Config: config, Logger: th.Logger()})

			if _, err := runner.services(t.Context()); !errors.Is(err, shared.ErrUnknownBackend) {
				t.Errorf("expected ErrUnknownBackend, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]int{"n": 1}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "{\"n\":1}\n" {
				t.Errorf("expected compact JSON, got %q", output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)

			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &th.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: th.NewLimitedWriter(1, &bytes.Buffer{})})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes formatted text", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("Hello %s, count: %d\n", "World", 42); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "Hello World, count: 42\n" {
				t.Errorf("got %q", output.String())
			}
		})

		t.Run("writePlainln surrounds the line with newlines", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			runner.writePlainln("Tracks (%d)", 2)
			if output.String() != "\nTracks (2)\n" {
				t.Errorf("got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &th.FWriter{}})

			if err := runner.writePlain("test"); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for _, c := range commands {
			names[c.Name] = true
		}
		for _, want := range []string{"setup", "migrate", "auth", "releases", "trash", "tickets", "wallet", "settings", "export", "import", "serve", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}

func TestParseAmount(t *testing.T) {
	tc := []struct {
		in   string
		want int64
	}{
		{"12", 1200},
		{"12.5", 1250},
		{"12.50", 1250},
		{"0.07", 7},
		{" 3.10 ", 310},
	}
	for _, tt := range tc {
		got, err := parseAmount(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseAmount(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}

	for _, bad := range []string{"", "abc", "1.", "1.234", "1.-5", "1,50"} {
		if _, err := parseAmount(bad); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("parseAmount(%q) expected ErrInvalidArgument, got %v", bad, err)
		}
	}
}
