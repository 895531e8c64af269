// package testing contains shared testing utilities: record fixtures, a fixed clock and failing writers
package testing

import (
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// Epoch is the instant returned by [FixedClock] before any advance.
var Epoch = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

// FixedClock returns a clock starting at [Epoch] that moves one second forward per call.
func FixedClock() func() time.Time {
	var mu sync.Mutex
	now := Epoch
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := now
		now = now.Add(time.Second)
		return t
	}
}

// Logger returns a logger that discards everything.
func Logger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

// User returns a user fixture with the given id.
func User(id string) *models.User {
	return models.NewUser(id, id+"@example.com", "artist-"+id, "secret-"+id)
}

// Release returns a draft release fixture owned by userID with one named track.
func Release(id, userID string) *models.Release {
	track := models.NewTrack(id + "-t1")
	track.Name = "First Song"
	track.Artists = []string{"Artist Name"}

	return &models.Release{
		ID:           id,
		UserID:       userID,
		AlbumTitle:   "Album " + id,
		AlbumArtists: []string{"Artist Name"},
		Status:       models.StatusDraft,
		Genre:        "Pop",
		Tracks:       []models.Track{track},
		CreatedAt:    models.NewTimestamp(Epoch),
	}
}

// Ticket returns an open ticket fixture owned by userID.
func Ticket(id, userID string) *models.Ticket {
	return &models.Ticket{
		ID:      id,
		UserID:  userID,
		Subject: "Moderation question",
		Message: "Why was my release rejected?",
		Status:  models.TicketOpen,
		Date:    Epoch.Format(shared.DateLayout),
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
