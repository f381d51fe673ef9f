// Package store owns the on-disk catalog snapshot file.
//
// The snapshot is one JSON document, written with an atomic temp-write and
// rename so the file on disk is always either the previous complete snapshot
// or the new complete snapshot, never a partial write. A missing file is a
// normal state, not a failure: the application simply has no offline catalog
// yet.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/manabase/scrydex/pkg/cards"
	"github.com/manabase/scrydex/pkg/constants"
	"github.com/manabase/scrydex/pkg/errors"
	"github.com/manabase/scrydex/pkg/logging"
)

// Store reads and writes catalog snapshots under a data directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The directory is created on first
// persist, not here, so constructing a store never touches the disk.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, constants.SnapshotFileName)
}

// Load reads the persisted snapshot.
//
// A missing file returns errors.ErrNoSnapshot, the normal empty state. A
// file that exists but cannot be read is a disk failure; one that reads but
// does not parse is a parse failure.
func (s *Store) Load() (*cards.Snapshot, error) {
	path := s.Path()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrNoSnapshot
		}
		return nil, errors.WrapIO("read", path, err)
	}
	defer func() { _ = f.Close() }()

	var snap cards.Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, errors.NewParseError("json", path, "snapshot file is corrupt", err)
	}

	if snap.Count != len(snap.Cards) {
		// The header count disagreeing with the record array means a
		// truncated or hand-edited file slipped past the decoder.
		return nil, errors.NewParseError("json", path, "record count mismatch", nil)
	}

	logging.Debug().
		Str("generation", snap.Generation).
		Int("records", snap.Count).
		Msg("Loaded catalog snapshot from disk")
	return &snap, nil
}

// Persist atomically writes the snapshot: encode to a temp file in the same
// directory, then rename over the live path.
func (s *Store) Persist(snap *cards.Snapshot) error {
	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", s.dir, err)
	}

	path := s.Path()

	tmp, err := os.CreateTemp(s.dir, "snapshot_*.json")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpPath := tmp.Name()

	if err := json.NewEncoder(tmp).Encode(snap); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("rename", path, err)
	}

	logging.Info().
		Str("generation", snap.Generation).
		Int("records", snap.Count).
		Str("path", path).
		Msg("Persisted catalog snapshot")
	return nil
}
