package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Record is the persisted form of a token; Timestamp is the issue time in
// Unix milliseconds.
type Record struct {
	Token     string `json:"token"`
	Timestamp int64  `json:"timestamp"`
}

func NewRecord(token string, issuedAt time.Time) Record {
	return Record{Token: token, Timestamp: issuedAt.UnixMilli()}
}

func (r Record) IssuedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// FileStore keeps the record as JSON under TokenKey in a single file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (Record, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}

	var doc map[string]Record
	if err := json.Unmarshal(data, &doc); err != nil {
		return Record{}, false, fmt.Errorf("decode %s: %w", s.path, err)
	}
	rec, ok := doc[TokenKey]
	return rec, ok, nil
}

// Save writes through a temp file so a crash never leaves a torn record.
func (s *FileStore) Save(rec Record) error {
	data, err := json.Marshal(map[string]Record{TokenKey: rec})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
