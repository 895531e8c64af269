package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/services"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/desertthunder/kedoo/internal/store"
	"github.com/desertthunder/kedoo/internal/tasks"
	th "github.com/desertthunder/kedoo/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const releaseManifest = `
title = "Night Dreams"
artists = ["Artist Name"]
genre = "Electronic"

[[tracks]]
name = "Intro"
explicit = true

[[tracks]]
name = "Outro"
`

type harness struct {
	t      *testing.T
	runner *Runner
	out    *bytes.Buffer
}

func newCLI(t *testing.T) *harness {
	t.Helper()
	config := shared.DefaultConfig()
	config.Store.Backend = "memory"
	out := &bytes.Buffer{}
	st := store.New(store.NewMemoryBackend(), th.Logger(), store.WithClock(th.FixedClock()))
	_, err := st.Migrate(context.Background())
	require.NoError(t, err)

	return &harness{
		t:      t,
		runner: NewRunner(RunnerOpts{Config: config, Logger: th.Logger(), Output: out, Store: st}),
		out:    out,
	}
}

func (c *harness) run(args ...string) (string, error) {
	c.t.Helper()
	c.out.Reset()
	err := c.runner.App().Run(context.Background(), append([]string{"kedoo"}, args...))
	return c.out.String(), err
}

func (c *harness) must(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "kedoo %v", args)
	return out
}

func (c *harness) register() {
	c.t.Helper()
	c.must("auth", "register", "--email", "artist@example.com", "--username", "artist", "--password", "secret")
}

func (c *harness) createRelease(extra ...string) *models.Release {
	c.t.Helper()
	path := filepath.Join(c.t.TempDir(), "release.toml")
	require.NoError(c.t, os.WriteFile(path, []byte(releaseManifest), 0644))
	c.must(append(append([]string{"releases", "create"}, extra...), path)...)

	releases, err := c.runner.svc.Releases.List(context.Background(), services.ReleaseFilter{})
	require.NoError(c.t, err)
	require.NotEmpty(c.t, releases)
	return &releases[len(releases)-1]
}

func TestAuthCommands(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("auth", "whoami")
	assert.ErrorIs(t, err, shared.ErrNotAuthenticated)

	out := c.must("auth", "register", "--email", "artist@example.com", "--username", "artist", "--password", "secret")
	assert.Contains(t, out, "Registered and signed in as artist")

	out = c.must("auth", "whoami", "--json")
	var u models.User
	require.NoError(t, json.Unmarshal([]byte(out), &u))
	assert.Equal(t, "artist@example.com", u.Email)
	assert.Empty(t, u.Password, "session output never includes the password")

	c.must("auth", "logout")
	_, err = c.run("auth", "login", "--email", "artist@example.com", "--password", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	c.must("auth", "reset", "--email", "artist@example.com", "--password", "fresh")
	c.must("auth", "login", "--email", "artist@example.com", "--password", "fresh")

	_, err = c.run("auth", "profile")
	assert.ErrorIs(t, err, shared.ErrMissingArgument)
	out = c.must("auth", "profile", "--email", "new@example.com")
	assert.Contains(t, out, "new@example.com")
}

func TestReleaseCommands(t *testing.T) {
	c := newCLI(t)
	c.register()

	t.Run("create submits by default", func(t *testing.T) {
		rel := c.createRelease()
		assert.Equal(t, models.StatusModeration, rel.Status)
		assert.Len(t, rel.Tracks, 2)

		out := c.must("releases", "list")
		assert.Contains(t, out, "Night Dreams")
		assert.Contains(t, out, "In moderation")

		out = c.must("releases", "show", rel.ID)
		assert.Contains(t, out, "Tracks (2, 1 explicit)")
		assert.Contains(t, out, " 1. Intro [E]")
	})

	t.Run("moderation", func(t *testing.T) {
		c := newCLI(t)
		c.register()
		rel := c.createRelease()

		_, err := c.run("releases", "moderate", rel.ID)
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
		_, err = c.run("releases", "moderate", "--approve", "--reject", "no", rel.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)

		out := c.must("releases", "moderate", "--reject", "Cover is blurry", rel.ID)
		assert.Contains(t, out, "Rejected")

		out = c.must("releases", "show", rel.ID)
		assert.Contains(t, out, "Reason:   Cover is blurry")

		c.must("releases", "edit", "--title", "Night Dreams (Deluxe)", "--artist", "A", "--artist", "B", rel.ID)
		c.must("releases", "submit", rel.ID)
		out = c.must("releases", "moderate", "--approve", rel.ID)
		assert.Contains(t, out, "Night Dreams (Deluxe)")
		assert.Contains(t, out, "Approved")

		_, err = c.run("releases", "edit", "--genre", "Jazz", rel.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	})

	t.Run("edit needs a change", func(t *testing.T) {
		c := newCLI(t)
		c.register()
		rel := c.createRelease("--draft")
		assert.Equal(t, models.StatusDraft, rel.Status)

		_, err := c.run("releases", "edit", rel.ID)
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
	})

	t.Run("list filters", func(t *testing.T) {
		out := c.must("releases", "list", "--status", "approved")
		assert.Contains(t, out, "No releases yet")

		_, err := c.run("releases", "list", "--status", "published")
		assert.ErrorIs(t, err, shared.ErrInvalidFlag)

		out = c.must("releases", "list", "--json", "--query", "night")
		var releases []models.Release
		require.NoError(t, json.Unmarshal([]byte(out), &releases))
		assert.Len(t, releases, 1)
	})

	t.Run("stats", func(t *testing.T) {
		out := c.must("releases", "stats", "--json")
		var stats services.Stats
		require.NoError(t, json.Unmarshal([]byte(out), &stats))
		assert.Equal(t, 1, stats.Total)
		assert.Equal(t, 2, stats.Tracks)
	})

	t.Run("manifest round trip", func(t *testing.T) {
		rel := c.createRelease()
		path := filepath.Join(t.TempDir(), "out.toml")
		c.must("releases", "manifest", "-o", path, rel.ID)
		th.AssertFileExists(t, path)
		assert.Contains(t, th.MustReadFile(t, path), `title = "Night Dreams"`)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := c.run("releases", "show")
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
		_, err = c.run("releases", "show", "nope")
		assert.ErrorIs(t, err, shared.ErrReleaseNotFound)
	})
}

func TestTrashCommands(t *testing.T) {
	c := newCLI(t)
	c.register()
	first := c.createRelease()
	second := c.createRelease("--draft")

	assert.Contains(t, c.must("trash", "list"), "Trash is empty")

	c.must("releases", "delete", first.ID)
	c.must("releases", "delete", second.ID)
	out := c.must("trash", "list")
	assert.Contains(t, out, first.ID)
	assert.Contains(t, out, "2024-01-10")

	c.must("trash", "restore", first.ID)
	out = c.must("releases", "show", first.ID)
	assert.Contains(t, out, "Night Dreams")

	out = c.must("trash", "empty")
	assert.Contains(t, out, "1 release(s)")

	_, err := c.run("trash", "purge", second.ID)
	assert.ErrorIs(t, err, shared.ErrReleaseNotFound)
}

func TestTicketCommands(t *testing.T) {
	c := newCLI(t)
	c.register()

	c.must("tickets", "open", "--subject", "Payout", "--message", "When do I get paid?")
	tickets, err := c.runner.svc.Tickets.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	id := tickets[0].ID

	c.must("tickets", "respond", "-m", "Next month", id)
	c.must("tickets", "close", id)
	out := c.must("tickets", "list")
	assert.Contains(t, out, "[closed] Payout")
	assert.Contains(t, out, "↳ Next month")

	_, err = c.run("tickets", "close", id)
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	c.must("tickets", "reopen", id)
}

func TestWalletAndSettingsCommands(t *testing.T) {
	c := newCLI(t)

	out := c.must("settings", "theme", "get")
	assert.Contains(t, out, "Purple (default)")

	c.register()
	assert.Contains(t, c.must("wallet", "balance"), "0.00 RUB")
	_, err := c.run("wallet", "withdraw", "12.50")
	assert.ErrorIs(t, err, shared.ErrInsufficientFunds)
	_, err = c.run("wallet", "withdraw", "twelve")
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	c.must("settings", "theme", "set", "ocean")
	out = c.must("settings", "theme", "list")
	assert.Contains(t, out, "* ocean")

	_, err = c.run("settings", "theme", "set", "plaid")
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
}

func TestExportImportCommands(t *testing.T) {
	c := newCLI(t)
	c.register()
	rel := c.createRelease()
	c.createRelease("--draft")

	t.Run("single release", func(t *testing.T) {
		dir := t.TempDir()
		out := c.must("releases", "export", "-f", "csv", "-o", dir, rel.ID)
		assert.Contains(t, out, rel.ID+"_tracks.csv")

		_, err := c.run("releases", "export", "-f", "pdf", "-o", dir, rel.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidFlag)
	})

	t.Run("bulk", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "bulk")
		out := c.must("export", "releases", "--all", "-f", "txt", "-o", dir)
		assert.Contains(t, out, "Exported: 2/2")
		th.AssertFileExists(t, filepath.Join(dir, tasks.ManifestName))

		_, err := c.run("export", "releases", "-o", dir)
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
		_, err = c.run("export", "releases", "--all", rel.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
		_, err = c.run("export", "releases", "someone-elses")
		assert.ErrorIs(t, err, shared.ErrReleaseNotFound)
	})

	t.Run("dump and import", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dump.json")
		c.must("export", "dump", "-o", path)

		fresh := newCLI(t)
		out := fresh.must("import", path)
		assert.Contains(t, out, "kedoo_releases")
		assert.Contains(t, out, "kedoo_users")

		list := fresh.must("releases", "list", "--json")
		var releases []models.Release
		require.NoError(t, json.Unmarshal([]byte(list), &releases))
		assert.Len(t, releases, 2, "the session slot travels with the dump")
	})

	t.Run("import rejects non-objects", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`[1, 2]`), 0644))
		_, err := c.run("import", path)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestMigrateCommand(t *testing.T) {
	c := newCLI(t)
	out := c.must("migrate")
	assert.Contains(t, out, "Store revision: 2")
}
