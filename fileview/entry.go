package fileview

import (
	"image"
	"time"
)

// SelectionState holds the independent per-entry flags.
type SelectionState uint8

const (
	SelectionNone     SelectionState = 0
	SelectionSelected SelectionState = 1 << (iota - 1)
	SelectionPrelight
	SelectionFocus
)

// Entry is the view-local record for one file shown by an IconView.
type Entry struct {
	fd    *FileData
	state SelectionState
	row   int

	thumb    image.Image
	thumbGen int
	thumbMod time.Time // file modification time the thumbnail was made from
}

func newEntry(fd *FileData) *Entry {
	return &Entry{fd: fd.Ref(), row: -1}
}

func (e *Entry) File() *FileData        { return e.fd }
func (e *Entry) State() SelectionState  { return e.state }
func (e *Entry) Selected() bool         { return e.state&SelectionSelected != 0 }
func (e *Entry) Focused() bool          { return e.state&SelectionFocus != 0 }
func (e *Entry) Prelit() bool           { return e.state&SelectionPrelight != 0 }
func (e *Entry) Row() int               { return e.row }
func (e *Entry) Thumbnail() image.Image { return e.thumb }

// dropStaleThumb forgets a thumbnail made before the file last changed.
func (e *Entry) dropStaleThumb() {
	if e.thumb != nil && !e.thumbMod.Equal(e.fd.modTime) {
		e.thumb = nil
	}
}

func (e *Entry) release() {
	e.fd.Unref()
	e.thumb = nil
	e.row = -1
}
