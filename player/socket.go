package player

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lbonnet/mpvris/logger"
)

// waitForSocket blocks until the mpv IPC socket exists, watching its parent
// directory for creation, bounded by timeout.
func waitForSocket(path string, timeout time.Duration) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Warn("[player] failed to close watcher: %v", closeErr)
		}
	}()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return &SocketError{Path: path, Reason: "cannot watch " + dir + ": " + err.Error()}
	}

	// The socket may have appeared between Stat and Add.
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	logger.Info("[player] waiting for mpv socket %s", path)
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return &SocketError{Path: path, Reason: "watcher closed"}
			}
			if event.Name == path && event.Op.Has(fsnotify.Create) {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return &SocketError{Path: path, Reason: "watcher closed"}
			}
			logger.Error("[player] watcher error: %v", err)
		case <-deadline.C:
			return &SocketError{Path: path, Reason: "timed out waiting for socket"}
		}
	}
}
