package fileview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"github.com/gobwas/glob"
)

var (
	ErrNoLister     = errors.New("fileview: no directory lister configured")
	ErrNotDirectory = errors.New("fileview: not a directory")
)

// Lister reads the files of one directory. Every returned FileData carries a
// reference the caller releases with Unref.
type Lister interface {
	List(dir string) ([]*FileData, error)
}

// DirLister lists regular files through the Fyne storage repository.
type DirLister struct {
	Registry   *Registry
	ShowHidden bool

	filter glob.Glob
}

func NewDirLister(reg *Registry) *DirLister {
	return &DirLister{Registry: reg}
}

// SetFilter restricts listings to names matching pattern. An empty pattern
// matches everything.
func (l *DirLister) SetFilter(pattern string) error {
	if pattern == "" {
		l.filter = nil
		return nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid filter %q: %w", pattern, err)
	}
	l.filter = g
	return nil
}

func (l *DirLister) List(dir string) ([]*FileData, error) {
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotDirectory, dir, err)
	}
	uris, err := lister.List()
	if err != nil {
		return nil, err
	}

	files := make([]*FileData, 0, len(uris))
	for _, u := range uris {
		if !l.ShowHidden && isHidden(u) {
			continue
		}
		if l.filter != nil && !l.filter.Match(u.Name()) {
			continue
		}
		info, err := os.Stat(u.Path())
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, l.Registry.Acquire(u.Path(), info.Size(), info.ModTime()))
	}
	return files, nil
}

func isHidden(file fyne.URI) bool {
	if file.Scheme() != "file" {
		return false
	}
	name := filepath.Base(file.Path())
	return name == "" || name[0] == '.'
}

func releaseFiles(files []*FileData) {
	for _, fd := range files {
		fd.Unref()
	}
}
