package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// SchemaVersion is the document revision this build writes.
const SchemaVersion = 2

// revisions[i] upgrades documents from revision i+1 to i+2.
var revisions = []func(*Store, Tx) error{
	normalizeDocuments,
}

// Version returns the stored schema revision. Stores that never recorded one are revision 1.
func (s *Store) Version(ctx context.Context) (int, error) {
	var version int
	err := s.backend.View(ctx, func(tx Tx) error {
		v, err := readVersion(tx)
		version = v
		return err
	})
	return version, err
}

// Migrate upgrades the stored documents to [SchemaVersion] in one transaction and returns the revision it started from.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	var from int
	err := s.backend.Update(ctx, func(tx Tx) error {
		v, err := readVersion(tx)
		if err != nil {
			return err
		}
		from = v
		return s.upgrade(tx, v)
	})
	if err == nil && from < SchemaVersion {
		s.logger.Info("migrated store", "from", from, "to", SchemaVersion)
	}
	return from, err
}

func (s *Store) upgrade(tx Tx, from int) error {
	if from > SchemaVersion {
		return fmt.Errorf("%w: store revision %d is newer than supported revision %d", shared.ErrInvalidConfig, from, SchemaVersion)
	}
	if from == SchemaVersion {
		return nil
	}

	for v := from; v < SchemaVersion; v++ {
		if err := revisions[v-1](s, tx); err != nil {
			return fmt.Errorf("failed to upgrade revision %d: %w", v, err)
		}
	}
	return tx.Set(KeySchemaVersion, []byte(strconv.Itoa(SchemaVersion)))
}

func readVersion(tx Tx) (int, error) {
	data, err := tx.Get(KeySchemaVersion)
	if errors.Is(err, shared.ErrKeyNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%w: schema version %q", shared.ErrInvalidInput, data)
	}
	return v, nil
}

// normalizeDocuments fills defaults the browser dashboard left out and repairs interrupted moves:
// empty statuses, nil lists, duplicated ids, and trash copies of releases that are still active.
// A key that does not decode is left as it is.
func normalizeDocuments(s *Store, tx Tx) error {
	if err := normalizeList(s, tx, KeyUsers, dedupe[models.User]); err != nil {
		return err
	}

	var active []models.Release
	err := normalizeList(s, tx, KeyReleases, func(items []models.Release) []models.Release {
		active = dedupe(items)
		for i := range active {
			normalizeRelease(&active[i])
		}
		return active
	})
	if err != nil {
		return err
	}

	err = normalizeList(s, tx, KeyTrash, func(items []models.Release) []models.Release {
		kept := make([]models.Release, 0, len(items))
		for _, r := range dedupe(items) {
			if indexOf(active, r.ID) >= 0 {
				s.logger.Warn("dropping trash copy of active release", "id", r.ID)
				continue
			}
			normalizeRelease(&r)
			kept = append(kept, r)
		}
		return kept
	})
	if err != nil {
		return err
	}

	return normalizeList(s, tx, KeyTickets, func(items []models.Ticket) []models.Ticket {
		items = dedupe(items)
		for i := range items {
			if items[i].Status == "" {
				items[i].Status = models.TicketOpen
			}
		}
		return items
	})
}

// normalizeList rewrites the collection under key with fix applied. Malformed documents are skipped with a warning.
func normalizeList[E any](s *Store, tx Tx, key string, fix func([]E) []E) error {
	items, err := editList[E](tx, key)
	if errors.Is(err, shared.ErrMalformed) {
		s.logger.Warn("leaving malformed document untouched", "key", key, "err", err)
		return nil
	}
	if err != nil {
		return err
	}
	return writeList(tx, key, fix(items))
}

func normalizeRelease(r *models.Release) {
	if r.Status == "" {
		r.Status = models.StatusDraft
	}
	if r.AlbumArtists == nil {
		r.AlbumArtists = []string{}
	}
	if r.Tracks == nil {
		r.Tracks = []models.Track{}
	}
	for i := range r.Tracks {
		t := &r.Tracks[i]
		if t.Artists == nil {
			t.Artists = []string{}
		}
		if t.Musicians == nil {
			t.Musicians = []string{}
		}
		if t.Lyricists == nil {
			t.Lyricists = []string{}
		}
	}
}

// dedupe keeps the first record for each id.
func dedupe[E any, P record[E]](items []E) []E {
	seen := make(map[string]struct{}, len(items))
	out := make([]E, 0, len(items))
	for i := range items {
		id := P(&items[i]).RecordID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, items[i])
	}
	return out
}
