package lock

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"
)

const (
	// StaleLockTimeout is the duration after which a lock is considered stale
	StaleLockTimeout = 5 * time.Minute
	// PollInterval is how often Acquire retries a held lock
	PollInterval = 50 * time.Millisecond
	// DefaultWait bounds how long Acquire waits for a live holder
	DefaultWait = 10 * time.Second
)

// HeldError reports a lock that is still held by a live process
type HeldError struct {
	Path string
	PID  int
}

func (e *HeldError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("another instance is running (pid %d holds %s)", e.PID, e.Path)
	}
	return fmt.Sprintf("another instance is running (%s is held)", e.Path)
}

// processAlive 检测 pid 对应的进程是否仍在运行
var processAlive = func(pid int) bool {
	if pid <= 0 {
		return false
	}
	if pid == os.Getpid() || runtime.GOOS == "windows" {
		return true
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = p.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// Lock represents a file-based lock for one key
type Lock struct {
	fs       afero.Fs
	lockPath string
	acquired bool

	// Wait bounds Acquire when the holder is alive; zero means DefaultWait
	Wait time.Duration
}

// NewLock creates a new lock named after key inside dir
func NewLock(fsys afero.Fs, dir, key string) *Lock {
	return &Lock{
		fs:       fsys,
		lockPath: filepath.Join(dir, "."+key+".lock"),
	}
}

// Path returns the lock file path
func (l *Lock) Path() string { return l.lockPath }

// TryAcquire attempts to acquire the lock
// Returns true if acquired, false if another live process holds it
func (l *Lock) TryAcquire() (bool, error) {
	if info, err := l.fs.Stat(l.lockPath); err == nil {
		if !l.stale(info.ModTime()) {
			return false, nil
		}
		_ = l.fs.Remove(l.lockPath)
	}

	f, err := l.fs.OpenFile(l.lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create lock file: %w", err)
	}
	_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = l.fs.Remove(l.lockPath)
		return false, fmt.Errorf("failed to write lock file: %w", werr)
	}

	l.acquired = true
	return true, nil
}

// stale: too old, or the recorded holder is gone
func (l *Lock) stale(modTime time.Time) bool {
	if time.Since(modTime) > StaleLockTimeout {
		return true
	}
	pid, err := l.GetPID()
	if err != nil {
		// 写入 PID 之前的瞬间也会读到空文件，按未过期处理
		return false
	}
	return !processAlive(pid)
}

// Acquire polls TryAcquire until the lock is held, ctx is done or Wait
// elapses. A lock left by a dead process is taken over immediately.
func (l *Lock) Acquire(ctx context.Context) error {
	wait := l.Wait
	if wait <= 0 {
		wait = DefaultWait
	}
	deadline := time.NewTimer(wait)
	defer deadline.Stop()

	for {
		ok, err := l.TryAcquire()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", l.held(), ctx.Err())
		case <-deadline.C:
			return l.held()
		case <-time.After(PollInterval):
		}
	}
}

func (l *Lock) held() *HeldError {
	pid, _ := l.GetPID()
	return &HeldError{Path: l.lockPath, PID: pid}
}

// Release releases the lock
func (l *Lock) Release() error {
	if !l.acquired {
		return nil
	}
	if err := l.fs.Remove(l.lockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	l.acquired = false
	return nil
}

// Touch updates the lock file timestamp (keep-alive)
func (l *Lock) Touch() error {
	if !l.acquired {
		return nil
	}
	now := time.Now()
	return l.fs.Chtimes(l.lockPath, now, now)
}

// KeepAlive touches the lock every interval until the returned stop func is
// called. stop must run before Release.
func (l *Lock) KeepAlive(interval time.Duration, onErr func(error)) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := l.Touch(); err != nil && onErr != nil {
					onErr(err)
				}
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}

// GetPID returns the PID stored in the lock file
func (l *Lock) GetPID() (int, error) {
	data, err := afero.ReadFile(l.fs, l.lockPath)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in lock file: %w", err)
	}
	return pid, nil
}
