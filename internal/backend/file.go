package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicstack/sitemap-panel/internal/openhab"
	"github.com/atomicstack/sitemap-panel/internal/sitemap"
)

// FileSource serves a sitemap from a local JSON or YAML file. Its stream
// reports the sitemap as changed whenever the file is written.
type FileSource struct {
	path     string
	debounce time.Duration
}

// NewFileSource returns a source reading path. Zero debounce uses
// DefaultDebounce.
func NewFileSource(path string, debounce time.Duration) *FileSource {
	return &FileSource{path: path, debounce: debounce}
}

// Sitemap loads the file.
func (f *FileSource) Sitemap(ctx context.Context) (*sitemap.Sitemap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sitemap.LoadFile(f.path)
}

// Subscribe returns the watched path as the stream location.
func (f *FileSource) Subscribe(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(f.path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", f.path, err)
	}
	return abs, nil
}

// Stream watches the directory holding location, so editors that replace the
// file instead of writing it in place are noticed too. Bursts of events are
// debounced into one SITEMAP_CHANGED message.
func (f *FileSource) Stream(ctx context.Context, location string, fn func(openhab.Message)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", location, err)
	}
	defer fsw.Close()
	if err := fsw.Add(filepath.Dir(location)); err != nil {
		return fmt.Errorf("watch %s: %w", location, err)
	}

	fire := make(chan struct{}, 1)
	deb := newDebouncer(f.debounce)
	defer deb.cancel()
	name := filepath.Base(location)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(evt.Name) != name {
				continue
			}
			if !evt.Op.Has(fsnotify.Write) && !evt.Op.Has(fsnotify.Create) && !evt.Op.Has(fsnotify.Rename) {
				continue
			}
			deb.trigger(func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			fn(openhab.Message{Kind: openhab.MessageSitemapChanged, Type: "SITEMAP_CHANGED"})
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", location, err)
		}
	}
}
