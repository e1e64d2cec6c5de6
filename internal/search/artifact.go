package search

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// WriteArtifact persists the index as a flat JSON array. The write is
// atomic (temp file plus rename) and serialized across processes with
// a lock file, so a reader never sees a torn artifact and concurrent
// builders never interleave.
func WriteArtifact(path string, entries []IndexEntry) error {
	if entries == nil {
		entries = []IndexEntry{}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index dir: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking index artifact: %w", err)
	}
	defer lock.Unlock()

	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".index-*.json")
	if err != nil {
		return fmt.Errorf("creating temp index: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing index: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("publishing index: %w", err)
	}
	return nil
}

// ReadArtifact loads a previously written index artifact.
func ReadArtifact(path string) ([]IndexEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading index artifact: %w", err)
	}
	var entries []IndexEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing index artifact: %w", err)
	}
	return entries, nil
}
