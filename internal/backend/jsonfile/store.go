// Package jsonfile implements service.Service on a single JSON file.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"todoclist/internal/config"
	"todoclist/internal/service"
)

const (
	// FileMode is the permission used for the task-list file.
	FileMode = 0o644

	// lockRetryDelay is how often a busy lock is polled.
	lockRetryDelay = 50 * time.Millisecond
)

// Store implements service.Service on the file at cfg.TasksPath().
//
// Saves are atomic (temp file + fsync + rename + dir fsync), so readers
// never observe a half-written file. Concurrent writers are serialized
// only through Lock, whose lock file is gone again once it is released.
type Store struct {
	path        string
	lockPath    string
	lockTimeout time.Duration
	log         *log.Logger
}

// New creates a Store for the resolved config.
func New(cfg *config.Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		path:        cfg.TasksPath(),
		lockPath:    cfg.LockPath(),
		lockTimeout: cfg.LockTimeout,
		log:         logger,
	}
}

// Path implements service.Service.
func (s *Store) Path() string {
	return s.path
}

// Exists implements service.Service.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat task list: %w", err)
	}
}

// Init implements service.Service.
func (s *Store) Init(ctx context.Context) (*service.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil, fmt.Errorf("%w: %s", service.ErrAlreadyExists, s.path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat task list: %w", err)
	}

	list := service.NewList()
	if err := s.Save(ctx, list); err != nil {
		return nil, err
	}
	s.log.Debug("initialized task list", "path", s.path)
	return list, nil
}

// Load implements service.Service.
func (s *Store) Load(ctx context.Context, autoInit bool) (*service.List, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("read task list: %w", err)
		}
		if !autoInit {
			return nil, false, fmt.Errorf("%w: %s", service.ErrNotInitialized, s.path)
		}
		list, err := s.Init(ctx)
		if err != nil {
			return nil, false, err
		}
		return list, true, nil
	}

	list, err := service.Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", s.path, err)
	}
	s.log.Debug("loaded task list", "path", s.path, "tasks", list.Len())
	return list, false, nil
}

// Save implements service.Service.
func (s *Store) Save(ctx context.Context, list *service.List) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := service.Encode(list)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data, FileMode); err != nil {
		return fmt.Errorf("write task list: %w", err)
	}
	s.log.Debug("saved task list", "path", s.path, "tasks", list.Len(), "bytes", len(data))
	return nil
}

// Lock implements service.Service. A zero lock timeout disables locking.
//
// The lock file only lives while the lock is held: the holder removes it
// before unlocking, and an attempt only succeeds if the file it locked is
// still the one at lockPath.
func (s *Store) Lock(ctx context.Context) (func() error, error) {
	if s.lockTimeout <= 0 {
		return func() error { return nil }, nil
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	for {
		fl, err := s.tryLock()
		if err != nil {
			return nil, fmt.Errorf("lock task list: %w", err)
		}
		if fl != nil {
			s.log.Debug("acquired lock", "path", s.lockPath)
			return s.unlockFunc(fl), nil
		}

		select {
		case <-lockCtx.Done():
			if ctx.Err() != nil {
				return nil, fmt.Errorf("lock task list: %w", ctx.Err())
			}
			return nil, fmt.Errorf("%w: %s", service.ErrLocked, s.lockPath)
		case <-time.After(lockRetryDelay):
		}
	}
}

// tryLock makes one attempt at the lock. It returns nil if the lock is busy
// or the lock file was replaced while it was being taken.
func (s *Store) tryLock() (*flock.Flock, error) {
	before, err := s.statLockFile(true)
	if err != nil || before == nil {
		return nil, err
	}

	fl := flock.New(s.lockPath, flock.SetPermissions(FileMode))
	ok, err := fl.TryLock()
	if err != nil || !ok {
		_ = fl.Close()
		return nil, err
	}

	after, err := s.statLockFile(false)
	if err != nil || after == nil || !os.SameFile(before, after) {
		// Locked a file its previous holder already removed.
		_ = fl.Close()
		return nil, err
	}
	return fl, nil
}

// statLockFile stats the lock file, creating it first if create is set.
// A missing file yields nil info and no error.
func (s *Store) statLockFile(create bool) (os.FileInfo, error) {
	if create {
		f, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_WRONLY, FileMode)
		if err != nil {
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
	}
	fi, err := os.Stat(s.lockPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return fi, err
}

func (s *Store) unlockFunc(fl *flock.Flock) func() error {
	return func() error {
		// Removing needs the lock still held; some platforms refuse to
		// remove an open file, which leaves it for the next holder.
		if err := os.Remove(s.lockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("lock file left in place", "path", s.lockPath, "err", err)
		}
		if err := fl.Unlock(); err != nil {
			return fmt.Errorf("unlock task list: %w", err)
		}
		s.log.Debug("released lock", "path", s.lockPath)
		return nil
	}
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place. The directory must already exist.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
