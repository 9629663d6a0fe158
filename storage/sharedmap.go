// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package storage

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/qstd/conf/internal/try"
)

// SharedMap is the opaque transport for the cross-process context
// record. Implementations provide per-key get/set; atomicity across
// keys is explicitly NOT part of the contract.
type SharedMap interface {
	Get(key string) (any, bool, error)
	Set(key string, value any) error
}

// MemMap is a process-local SharedMap, safe for concurrent use. It is
// the transport of choice for tests and for sharing one context between
// goroutines of a single process.
type MemMap struct {
	mu sync.RWMutex
	m  map[string]any
}

// NewMemMap returns an empty MemMap.
func NewMemMap() *MemMap {
	return &MemMap{m: make(map[string]any)}
}

// Get implements the SharedMap interface.
func (s *MemMap) Get(key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

// Set implements the SharedMap interface.
func (s *MemMap) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

// FileMap is a SharedMap backed by a JSON file, allowing independent
// OS processes to share one context record through the filesystem.
// Writes go through a rename so readers never observe a half-written
// file, but two keys written back to back are still two separate file
// versions: the torn-update window between config and revision remains.
type FileMap struct {
	path string
	mu   sync.Mutex
}

// NewFileMap returns a FileMap persisting at path. The file is created
// on first Set.
func NewFileMap(path string) *FileMap {
	return &FileMap{path: path}
}

// Get implements the SharedMap interface.
func (s *FileMap) Get(key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return nil, false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

// Set implements the SharedMap interface. It performs a read-modify-write
// of the whole record; the last writer wins.
func (s *FileMap) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return err
	}
	m[key] = value
	return s.write(m)
}

func (s *FileMap) read() (_ map[string]any, err error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, err
	}
	defer try.Close(&err, f)

	m := make(map[string]any)
	err = json.NewDecoder(f).Decode(&m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *FileMap) write(m map[string]any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	err = os.WriteFile(tmp, b, 0o644)
	if err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
