package fileview

import (
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// ChangeType describes a pending file operation.
type ChangeType int

const (
	ChangeNone ChangeType = iota
	ChangeCopy
	ChangeMove
	ChangeRename
	ChangeDelete
)

func (c ChangeType) String() string {
	switch c {
	case ChangeCopy:
		return "copy"
	case ChangeMove:
		return "move"
	case ChangeRename:
		return "rename"
	case ChangeDelete:
		return "delete"
	}
	return "none"
}

// FileChange is attached to a FileData while its change is being announced.
type FileChange struct {
	Type   ChangeType
	Source string
	Dest   string
}

// NotifyFunc receives file change announcements from a Registry.
type NotifyFunc func(fd *FileData, change ChangeType)

// FileData is the shared identity of one file. It is owned by a Registry and
// reference counted; views hold a reference for as long as they show it.
type FileData struct {
	reg *Registry

	path    string
	name    string
	size    int64
	modTime time.Time
	marks   uint32
	change  *FileChange
	refs    int
}

func (fd *FileData) Path() string       { return fd.path }
func (fd *FileData) Name() string       { return fd.name }
func (fd *FileData) Dir() string        { return filepath.Dir(fd.path) }
func (fd *FileData) Size() int64        { return fd.size }
func (fd *FileData) ModTime() time.Time { return fd.modTime }

// Change returns the change currently being announced, or nil.
func (fd *FileData) Change() *FileChange {
	fd.reg.mu.Lock()
	defer fd.reg.mu.Unlock()
	return fd.change
}

// Ref takes a reference and returns fd for chaining.
func (fd *FileData) Ref() *FileData {
	fd.reg.mu.Lock()
	fd.refs++
	fd.reg.mu.Unlock()
	return fd
}

// Unref releases a reference. The registry forgets the file when the last
// reference goes away.
func (fd *FileData) Unref() {
	r := fd.reg
	r.mu.Lock()
	defer r.mu.Unlock()

	fd.refs--
	if fd.refs < 0 {
		panic("fileview: FileData reference count below zero for " + fd.path)
	}
	if fd.refs == 0 && r.files[fd.path] == fd {
		delete(r.files, fd.path)
	}
}

// Mark reports mark bit n (1 based).
func (fd *FileData) Mark(n int) bool {
	checkMark(n)
	fd.reg.mu.Lock()
	defer fd.reg.mu.Unlock()
	return fd.marks&(1<<(n-1)) != 0
}

// Marks returns the raw mark bits.
func (fd *FileData) Marks() uint32 {
	fd.reg.mu.Lock()
	defer fd.reg.mu.Unlock()
	return fd.marks
}

// SetMark sets mark bit n and persists it when the registry has a MarkStore.
func (fd *FileData) SetMark(n int, value bool) {
	checkMark(n)
	r := fd.reg
	r.mu.Lock()
	old := fd.marks
	if value {
		fd.marks |= 1 << (n - 1)
	} else {
		fd.marks &^= 1 << (n - 1)
	}
	bits, path, store := fd.marks, fd.path, r.marks
	r.mu.Unlock()

	if bits == old || store == nil {
		return
	}
	if err := store.SaveMarks(path, bits); err != nil {
		log().Warn("saving marks failed", "path", path, "err", err)
	}
}

// MarkStore persists mark bits across sessions.
type MarkStore interface {
	LoadMarks(path string) (uint32, error)
	SaveMarks(path string, marks uint32) error
	RenameMarks(oldPath, newPath string) error
}

type notifyEntry struct {
	id int
	fn NotifyFunc
}

// Registry hands out one FileData per path and announces changes to them.
type Registry struct {
	mu     sync.Mutex
	files  map[string]*FileData
	marks  MarkStore
	notify []notifyEntry
	nextID int
}

func NewRegistry() *Registry {
	return &Registry{files: make(map[string]*FileData)}
}

// UseMarkStore attaches persistent storage for marks. Files acquired later
// load their bits from it.
func (r *Registry) UseMarkStore(s MarkStore) {
	r.mu.Lock()
	r.marks = s
	r.mu.Unlock()
}

// Acquire returns a referenced FileData for path, creating it on first use.
// Repeated calls for the same path return the same pointer.
func (r *Registry) Acquire(path string, size int64, modTime time.Time) *FileData {
	path = filepath.Clean(path)

	r.mu.Lock()
	if fd, ok := r.files[path]; ok {
		fd.size = size
		fd.modTime = modTime
		fd.refs++
		r.mu.Unlock()
		return fd
	}

	fd := &FileData{
		reg:     r,
		path:    path,
		name:    filepath.Base(path),
		size:    size,
		modTime: modTime,
		refs:    1,
	}
	r.files[path] = fd
	store := r.marks
	r.mu.Unlock()

	if store != nil {
		bits, err := store.LoadMarks(path)
		if err != nil {
			log().Warn("loading marks failed", "path", path, "err", err)
		} else {
			r.mu.Lock()
			fd.marks = bits
			r.mu.Unlock()
		}
	}
	return fd
}

// Lookup returns the live FileData for path without taking a reference.
func (r *Registry) Lookup(path string) *FileData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.files[filepath.Clean(path)]
}

// RegisterNotify adds a change listener and returns its id.
func (r *Registry) RegisterNotify(fn NotifyFunc) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.notify = append(r.notify, notifyEntry{id: r.nextID, fn: fn})
	return r.nextID
}

func (r *Registry) UnregisterNotify(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notify = slices.DeleteFunc(r.notify, func(n notifyEntry) bool { return n.id == id })
}

// Rename announces that fd now lives at newPath.
func (r *Registry) Rename(fd *FileData, newPath string) {
	r.relocate(fd, newPath, ChangeRename)
}

// Move announces that fd was moved to newPath.
func (r *Registry) Move(fd *FileData, newPath string) {
	r.relocate(fd, newPath, ChangeMove)
}

// Copy announces that fd was copied to dest. fd itself is unchanged.
func (r *Registry) Copy(fd *FileData, dest string) {
	r.announce(fd, &FileChange{Type: ChangeCopy, Source: fd.path, Dest: filepath.Clean(dest)})
}

// Delete announces that fd no longer exists. Later acquisitions of the same
// path create a fresh FileData.
func (r *Registry) Delete(fd *FileData) {
	r.mu.Lock()
	if r.files[fd.path] == fd {
		delete(r.files, fd.path)
	}
	r.mu.Unlock()
	r.announce(fd, &FileChange{Type: ChangeDelete, Source: fd.path})
}

func (r *Registry) relocate(fd *FileData, newPath string, t ChangeType) {
	newPath = filepath.Clean(newPath)

	r.mu.Lock()
	oldPath := fd.path
	if r.files[oldPath] == fd {
		delete(r.files, oldPath)
	}
	// A file already at newPath has been overwritten.
	displaced := r.files[newPath]
	if displaced == fd {
		displaced = nil
	}
	fd.path = newPath
	fd.name = filepath.Base(newPath)
	r.files[newPath] = fd
	store := r.marks
	marked := fd.marks != 0
	r.mu.Unlock()

	if store != nil && (marked || displaced != nil) {
		if err := store.RenameMarks(oldPath, newPath); err != nil {
			log().Warn("moving marks failed", "from", oldPath, "to", newPath, "err", err)
		}
	}
	if displaced != nil {
		r.announce(displaced, &FileChange{Type: ChangeDelete, Source: newPath})
	}
	r.announce(fd, &FileChange{Type: t, Source: oldPath, Dest: newPath})
}

func (r *Registry) announce(fd *FileData, change *FileChange) {
	r.mu.Lock()
	fd.change = change
	listeners := slices.Clone(r.notify)
	r.mu.Unlock()

	for _, n := range listeners {
		n.fn(fd, change.Type)
	}

	r.mu.Lock()
	fd.change = nil
	r.mu.Unlock()
}
