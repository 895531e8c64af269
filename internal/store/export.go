package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/desertthunder/kedoo/internal/shared"
)

// Dump is a local storage snapshot: each key maps to the raw text stored under it.
type Dump map[string]string

// ParseDump decodes a JSON object of keys to values.
//
// Values may be strings holding the stored text (what the browser's local storage export produces) or
// inline JSON documents, which are kept in compact form.
func ParseDump(data []byte) (Dump, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: dump is not a JSON object: %v", shared.ErrInvalidInput, err)
	}

	dump := make(Dump, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) > 0 && v[0] == '"' {
			var text string
			if err := json.Unmarshal(v, &text); err != nil {
				return nil, fmt.Errorf("%w: key %s: %v", shared.ErrInvalidInput, k, err)
			}
			dump[k] = text
			continue
		}

		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return nil, fmt.Errorf("%w: key %s: %v", shared.ErrInvalidInput, k, err)
		}
		dump[k] = buf.String()
	}
	return dump, nil
}

// Encode writes the dump as an indented JSON object of strings with sorted keys.
func (d Dump) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(map[string]string(d), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode dump: %w", err)
	}
	return append(data, '\n'), nil
}

// Export reads every store key that holds a value.
func (s *Store) Export(ctx context.Context) (Dump, error) {
	dump := Dump{}
	err := s.backend.View(ctx, func(tx Tx) error {
		for _, key := range Keys {
			data, err := tx.Get(key)
			if errors.Is(err, shared.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			dump[key] = string(data)
		}
		return nil
	})
	return dump, err
}

// Import writes the store keys found in dump and upgrades them to the current revision, all in one
// transaction. Keys outside [Keys] are skipped. It returns the imported keys in sorted order.
func (s *Store) Import(ctx context.Context, dump Dump) ([]string, error) {
	var imported []string
	for key, value := range dump {
		if !IsStoreKey(key) {
			s.logger.Debug("skipping foreign key", "key", key)
			continue
		}
		if slices.Contains(documentKeys, key) && !json.Valid([]byte(value)) {
			return nil, fmt.Errorf("%w: %s does not hold a JSON document", shared.ErrInvalidInput, key)
		}
		imported = append(imported, key)
	}
	slices.Sort(imported)

	err := s.backend.Update(ctx, func(tx Tx) error {
		for _, key := range imported {
			if err := tx.Set(key, []byte(dump[key])); err != nil {
				return err
			}
		}
		if _, ok := dump[KeySchemaVersion]; !ok {
			if err := tx.Delete(KeySchemaVersion); err != nil {
				return err
			}
		}

		from, err := readVersion(tx)
		if err != nil {
			return err
		}
		return s.upgrade(tx, from)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("imported dump", "keys", len(imported))
	return imported, nil
}
