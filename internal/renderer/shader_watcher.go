package renderer

import (
	"path/filepath"

	"Kube/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ShaderWatcher reports edits to shader sources in a directory. Events are
// queued and drained by Pending on the render thread.
type ShaderWatcher struct {
	watcher *fsnotify.Watcher
	changes chan string
	done    chan struct{}
}

func NewShaderWatcher(dir string) (*ShaderWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	sw := &ShaderWatcher{
		watcher: watcher,
		changes: make(chan string, 16),
		done:    make(chan struct{}),
	}
	go sw.loop()
	logger.Log.Info("Watching shaders", zap.String("dir", dir))
	return sw, nil
}

func isShaderFile(name string) bool {
	switch filepath.Ext(name) {
	case ".vert", ".frag":
		return true
	}
	return false
}

func (sw *ShaderWatcher) loop() {
	defer close(sw.done)
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !isShaderFile(event.Name) || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			select {
			case sw.changes <- event.Name:
			default:
				// a reload is already pending
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Warn("Shader watcher error", zap.Error(err))
		}
	}
}

// Pending drains queued changes without blocking and reports whether any
// shader changed
func (sw *ShaderWatcher) Pending() bool {
	changed := false
	for {
		select {
		case name := <-sw.changes:
			logger.Log.Debug("Shader changed", zap.String("file", name))
			changed = true
		default:
			return changed
		}
	}
}

func (sw *ShaderWatcher) Close() error {
	err := sw.watcher.Close()
	<-sw.done
	return err
}
