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
)

// FilePersister stores the session as a JSON file readable only by the owner
type FilePersister struct {
	path string
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

func (p *FilePersister) Load(ctx context.Context) (Session, error) {
	raw, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("failed to unmarshal session file: %w", err)
	}
	return s, nil
}

func (p *FilePersister) Save(ctx context.Context, s Session) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

func (p *FilePersister) Clear(ctx context.Context) error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemoryPersister keeps the session for the lifetime of the process only
type MemoryPersister struct {
	mu sync.Mutex
	s  Session
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (p *MemoryPersister) Load(ctx context.Context) (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.s, nil
}

func (p *MemoryPersister) Save(ctx context.Context, s Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s = s
	return nil
}

func (p *MemoryPersister) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s = Session{}
	return nil
}
