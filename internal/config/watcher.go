package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"continuum/pkg/logging"
)

// Watcher reports changes to the configuration file while the platform is
// serving. Changes are not hot-applied; the serve loop logs that a restart
// is needed to pick them up.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	events    chan string
	done      chan struct{}
}

// NewWatcher watches the config.yaml inside the given directory.
func NewWatcher(configPath string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors replace files on save,
	// which would silently detach a file-level watch.
	if err := fsWatcher.Add(configPath); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		events:    make(chan string, 8),
		done:      make(chan struct{}),
	}
	go w.run(filepath.Join(configPath, configFileName))
	return w, nil
}

// Events delivers the path of the config file each time it changes.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) run(configFilePath string) {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != configFilePath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			select {
			case w.events <- configFilePath:
			default:
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logging.Warn("Config", "Config watcher error: %v", err)
		}
	}
}
