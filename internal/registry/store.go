// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package registry

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/models"
)

// Store persists remotely-fetched card type descriptors in BadgerDB so
// previously-fetched types survive restarts and source outages.
type Store struct {
	db *badger.DB
}

// Descriptor key prefix for namespacing in BadgerDB.
const remoteKeyPrefix = "cardtype:remote:"

// OpenStore opens (creating if needed) the descriptor store at path.
func OpenStore(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB internal logs
	// Descriptor sets are tiny; keep value log files small
	opts.ValueLogFileSize = 16 << 20 // 16MB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open card type store: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an existing BadgerDB connection. Useful when the
// process shares one database across stores.
func NewStoreFromDB(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying BadgerDB connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRemote atomically replaces the persisted remote descriptor set.
// Descriptors no longer present upstream are dropped.
func (s *Store) SaveRemote(descs []models.CardTypeDescriptor) error {
	return s.db.Update(func(txn *badger.Txn) error {
		keep := make(map[string]struct{}, len(descs))
		for _, desc := range descs {
			keep[remoteKeyPrefix+desc.Identifier] = struct{}{}
		}

		// Collect stale keys first; the iterator must be closed before
		// the transaction writes.
		var stale [][]byte
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		prefix := []byte(remoteKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			if _, ok := keep[string(key)]; !ok {
				stale = append(stale, append([]byte{}, key...))
			}
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		for _, desc := range descs {
			data, err := json.Marshal(desc)
			if err != nil {
				return fmt.Errorf("marshal descriptor %q: %w", desc.Identifier, err)
			}
			if err := txn.Set([]byte(remoteKeyPrefix+desc.Identifier), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadRemote returns the persisted remote descriptor set. Corrupt entries
// are skipped with a warning.
func (s *Store) LoadRemote() ([]models.CardTypeDescriptor, error) {
	var descs []models.CardTypeDescriptor

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(remoteKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			var desc models.CardTypeDescriptor
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &desc)
			})
			if err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("Skipping corrupt persisted card type")
				continue
			}
			descs = append(descs, desc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load persisted card types: %w", err)
	}
	return descs, nil
}
