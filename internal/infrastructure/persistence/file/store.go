// Package file implements the default record store: one JSON document on disk
// mapping user ids to records. The document layout is the historical
// user_data.json format, so existing files load unchanged.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alem-hub/petquest/internal/domain/player"
	"github.com/alem-hub/petquest/internal/domain/shared"
)

// DefaultPath is the data file used when none is configured.
const DefaultPath = "user_data.json"

// ErrMalformed is returned when the data file is not a JSON object of records.
var ErrMalformed = errors.New("file store: malformed data file")

// Store implements player.Store on a local JSON file. Saves write a temporary
// file next to the target and rename it into place, so a failed save leaves
// the previous document intact.
type Store struct {
	path string
	perm fs.FileMode
}

// NewStore creates a Store for path.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path, perm: 0o644}
}

// Load reads the data file. A missing file loads as an empty collection.
func (s *Store) Load(ctx context.Context) (player.Records, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return player.Records{}, nil
		}
		return nil, shared.StorageError("Load", err)
	}

	var records player.Records
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, shared.StorageError("Load", fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err))
	}
	if records == nil {
		if !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			return nil, shared.StorageError("Load", fmt.Errorf("%w: %s", ErrMalformed, s.path))
		}
		records = player.Records{}
	}
	for id, rec := range records {
		if rec == nil {
			delete(records, id)
		}
	}

	return records, nil
}

// Save writes the whole collection atomically.
func (s *Store) Save(ctx context.Context, records player.Records) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = player.Records{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return shared.StorageError("Save", err)
	}

	if err := s.writeAtomic(data); err != nil {
		return shared.StorageError("Save", err)
	}
	return nil
}

func (s *Store) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, s.perm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
