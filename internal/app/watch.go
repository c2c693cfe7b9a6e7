package app

import (
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

// FileWatcher polls a file's modification time and invokes a callback when it
// moves past the baseline. It is used for the configuration file and for
// the running binary during development.
type FileWatcher struct {
	path     string
	interval time.Duration
	once     bool

	mu       sync.Mutex
	baseline time.Time
	stopCh   chan struct{}
	onChange func(modTime time.Time)
}

// NewFileWatcher watches path. Symlinks are resolved first so a rebuilt
// target is noticed. A file that does not exist yet has a zero baseline and
// fires once it appears.
func NewFileWatcher(path string, interval time.Duration) *FileWatcher {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	w := &FileWatcher{path: path, interval: interval}
	if info, err := os.Stat(path); err == nil {
		w.baseline = info.ModTime()
	}
	return w
}

// NewBinaryWatcher watches the current executable and stops after the first
// change. Returns nil if the executable path cannot be determined.
func NewBinaryWatcher(interval time.Duration) *FileWatcher {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}
	w := NewFileWatcher(execPath, interval)
	if w.Baseline().IsZero() {
		return nil
	}
	w.once = true
	return w
}

// OnChange sets the callback. It runs on the watcher goroutine.
func (w *FileWatcher) OnChange(callback func(modTime time.Time)) {
	w.mu.Lock()
	w.onChange = callback
	w.mu.Unlock()
}

// Start begins polling in a background goroutine.
func (w *FileWatcher) Start() {
	w.mu.Lock()
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()
	go w.loop(stop)
}

// Stop ends polling. It is safe to call more than once.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *FileWatcher) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			modTime, changed := w.poll()
			if !changed {
				continue
			}
			w.mu.Lock()
			cb := w.onChange
			w.mu.Unlock()
			if cb != nil {
				cb(modTime)
			}
			if w.once {
				return
			}
		}
	}
}

// poll advances the baseline and reports whether the file changed.
func (w *FileWatcher) poll() (time.Time, bool) {
	info, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}, false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !info.ModTime().After(w.baseline) {
		return w.baseline, false
	}
	if !w.once {
		w.baseline = info.ModTime()
	}
	return info.ModTime(), true
}

// Path returns the watched path.
func (w *FileWatcher) Path() string {
	return w.path
}

// Baseline returns the modification time changes are compared against.
func (w *FileWatcher) Baseline() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.baseline
}

// ResetBaseline takes the file's current modification time as the new
// baseline, so a declined restart is not offered again.
func (w *FileWatcher) ResetBaseline() {
	if info, err := os.Stat(w.path); err == nil {
		w.mu.Lock()
		w.baseline = info.ModTime()
		w.mu.Unlock()
	}
}

// RestartProcess replaces the current process with execPath, keeping the
// arguments and environment. It does not return on success.
func RestartProcess(execPath string) error {
	return syscall.Exec(execPath, os.Args, os.Environ())
}
