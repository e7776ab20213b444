package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// File is a Provider persisting entries under a directory so repeated runs
// against the same window skip the RPC round trips. Each entry is a value
// file plus a JSON sidecar holding the expiry; keys are hashed to stay
// filesystem-safe.
type File struct {
	dir        string
	defaultTTL time.Duration
	mu         sync.Mutex
}

type fileMeta struct {
	Key       string `json:"key"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

// NewFile builds a file cache rooted at dir, creating it if needed.
func NewFile(dir string, defaultTTL time.Duration) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &File{dir: dir, defaultTTL: defaultTTL}, nil
}

func (f *File) Fetch(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	metaRaw, err := os.ReadFile(f.metaPath(key))
	if err != nil {
		return nil, false
	}
	var meta fileMeta
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		f.removeLocked(key)
		return nil, false
	}
	expiry, err := time.Parse(time.RFC3339Nano, meta.ExpiresAt)
	if err != nil || time.Now().After(expiry) {
		f.removeLocked(key)
		return nil, false
	}

	value, err := os.ReadFile(f.valuePath(key))
	if err != nil {
		return nil, false
	}
	return value, true
}

func (f *File) Store(key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ttl <= 0 {
		ttl = f.defaultTTL
	}
	now := time.Now()
	meta := fileMeta{
		Key:       key,
		CreatedAt: now.UTC().Format(time.RFC3339Nano),
		ExpiresAt: now.Add(ttl).UTC().Format(time.RFC3339Nano),
	}
	metaRaw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal cache meta: %w", err)
	}

	if err := os.WriteFile(f.metaPath(key), metaRaw, 0o644); err != nil {
		return fmt.Errorf("write cache meta: %w", err)
	}
	if err := os.WriteFile(f.valuePath(key), value, 0o644); err != nil {
		f.removeLocked(key)
		return fmt.Errorf("write cache value: %w", err)
	}
	return nil
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeLocked(key)
	return nil
}

func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, pattern := range []string{"*.cache", "*.meta"} {
		matches, err := filepath.Glob(filepath.Join(f.dir, pattern))
		if err != nil {
			return err
		}
		for _, match := range matches {
			if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}

func (f *File) removeLocked(key string) {
	os.Remove(f.valuePath(key))
	os.Remove(f.metaPath(key))
}

func (f *File) valuePath(key string) string {
	return filepath.Join(f.dir, hashKey(key)+".cache")
}

func (f *File) metaPath(key string) string {
	return filepath.Join(f.dir, hashKey(key)+".meta")
}

func hashKey(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}
