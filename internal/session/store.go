package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go-staff-console/internal/model"
)

// Store holds the operator's session tuple. Writes are all-or-nothing: a
// concurrent reader sees either the complete previous tuple or the complete
// new one, never a partial mix.
type Store interface {
	Load(ctx context.Context) (model.Session, bool, error)
	Save(ctx context.Context, s model.Session) error
	Clear(ctx context.Context) error
}

// FileStore persists the session as a single JSON document so it survives
// console restarts. Atomicity comes from writing a sibling temp file and
// renaming it over the target.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(_ context.Context) (model.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Session{}, false, nil
	}
	if err != nil {
		return model.Session{}, false, fmt.Errorf("read session file: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A corrupt file cannot be trusted as a credential; treat it as
		// no session at all.
		return model.Session{}, false, nil
	}

	if !sess.Valid() {
		return model.Session{}, false, nil
	}

	return sess, true, nil
}

func (s *FileStore) Save(_ context.Context, sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}

	return nil
}
