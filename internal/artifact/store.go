package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists stage artifacts under deterministic names. Save overwrites
// the previous snapshot wholesale; Load reports absence without error.
type Store interface {
	Save(ctx context.Context, stage Stage, data []byte) error
	Load(ctx context.Context, stage Stage) (data []byte, ok bool, err error)
}

// FSStore keeps artifacts as <stage>.json files in one directory. Writes go
// to a temp file first and are renamed into place, so a crash mid-write can
// never leave a half-written artifact that a resume would read as complete.
type FSStore struct {
	dir string
}

func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifact: empty store directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) path(stage Stage) string {
	return filepath.Join(s.dir, string(stage)+".json")
}

func (s *FSStore) Save(ctx context.Context, stage Stage, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, string(stage)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(stage))
}

func (s *FSStore) Load(ctx context.Context, stage Stage) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(s.path(stage))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
