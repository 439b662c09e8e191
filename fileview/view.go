package fileview

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/dustin/go-humanize"
)

// Layout is the image display the view hands its selection to.
type Layout interface {
	CurrentImage() *FileData
	// SetImage shows fd; readAhead, when not nil, is the file likely to be
	// shown next.
	SetImage(fd, readAhead *FileData)
	// ShowingCollection reports whether another owner drives the displayed
	// image, in which case removals do not pick a replacement selection.
	ShowingCollection() bool
}

// Config wires an IconView to its collaborators. Only Sink is required for a
// visible view; nil collaborators fall back to defaults or are skipped.
type Config struct {
	Registry  *Registry
	Lister    Lister
	Sink      GridSink
	Viewport  Viewport
	Thumbs    ThumbnailLoader
	Layout    Layout
	Scheduler Scheduler
	Options   Options
}

// IconView is the state of a file pane: an ordered sequence of entries laid
// out on a grid, with selection, keyboard focus and background thumbnails.
// All methods must be called from the UI goroutine.
type IconView struct {
	reg       *Registry
	lister    Lister
	sink      GridSink
	viewport  Viewport
	loader    ThumbnailLoader
	layout    Layout
	scheduler Scheduler
	opts      Options

	dir     string
	entries []*Entry
	rows    [][]*Entry
	columns int
	width   float32

	selection     []*Entry
	prevSelection *Entry
	clickEntry    *Entry

	focus    *Entry
	focusRow int
	focusCol int

	thumbs thumbQueue

	notifyID       int
	syncPending    bool
	cancelSync     func()
	refreshPending bool
	cancelRefresh  func()

	tipEntry  *Entry
	cancelTip func()

	watcher   *Watcher
	destroyed bool

	updateListeners []func()
	thumbStatus     func(progress float64, text string)

	// OnContextMenu is called for the menu key and secondary clicks.
	OnContextMenu func(fd *FileData, x, y float32)
	// OnTooltip shows a tooltip for fd, or hides it when fd is nil. Tooltips
	// are only offered while filenames are hidden.
	OnTooltip func(fd *FileData)
	// OnActivate is called on double click.
	OnActivate func(fd *FileData)
}

func NewIconView(cfg Config) *IconView {
	v := &IconView{
		reg:       cfg.Registry,
		lister:    cfg.Lister,
		sink:      cfg.Sink,
		viewport:  cfg.Viewport,
		loader:    cfg.Thumbs,
		layout:    cfg.Layout,
		scheduler: cfg.Scheduler,
		opts:      cfg.Options,
		columns:   1,
		focusRow:  -1,
		focusCol:  -1,
	}
	v.opts.normalize()
	if v.reg == nil {
		v.reg = NewRegistry()
	}
	if v.lister == nil {
		dl := NewDirLister(v.reg)
		dl.ShowHidden = v.opts.ShowHidden
		if err := dl.SetFilter(v.opts.Filter); err != nil {
			log().Warn("ignoring file filter", "err", err)
		}
		v.lister = dl
	}
	if v.sink == nil {
		v.sink = &discardSink{}
	}
	if v.scheduler == nil {
		v.scheduler = FyneScheduler{}
	}
	v.thumbs.view = v
	v.notifyID = v.reg.RegisterNotify(v.onNotify)
	return v
}

func (v *IconView) Registry() *Registry { return v.reg }
func (v *IconView) Dir() string         { return v.dir }
func (v *IconView) Options() Options    { return v.opts }
func (v *IconView) Columns() int        { return v.columns }
func (v *IconView) Rows() int           { return len(v.rows) }

// CellWidth is the width of one grid slot at the current settings.
func (v *IconView) CellWidth() float32 {
	return cellWidth(v.opts.ThumbMaxWidth, v.opts.ShowFilenames, zoomLevels[v.opts.ZoomLevel])
}

// AddUpdateListener registers fn to run after selection or content changes.
func (v *IconView) AddUpdateListener(fn func()) {
	v.updateListeners = append(v.updateListeners, fn)
}

// SetThumbStatusFunc receives thumbnail progress in [0, 1].
func (v *IconView) SetThumbStatusFunc(fn func(progress float64, text string)) {
	v.thumbStatus = fn
}

func (v *IconView) sendUpdate() {
	for _, fn := range v.updateListeners {
		fn()
	}
}

// SetSortMethod reorders the view. Selection and focus keep their entries.
func (v *IconView) SetSortMethod(method SortMethod, ascending bool) {
	if v.opts.SortMethod == method && v.opts.SortAscending == ascending {
		return
	}
	v.opts.SortMethod = method
	v.opts.SortAscending = ascending
	if len(v.entries) == 0 {
		return
	}
	v.sortEntries()
	v.sync()
}

func (v *IconView) SortMethod() (SortMethod, bool) {
	return v.opts.SortMethod, v.opts.SortAscending
}

func (v *IconView) sortEntries() {
	sortEntries(v.entries, v.opts.SortMethod, v.opts.SortAscending)
}

// SetViewportWidth recomputes the column count for a new viewport width.
func (v *IconView) SetViewportWidth(width float32) {
	v.populateAtNewSize(width, false)
}

func (v *IconView) SetShowFilenames(show bool) {
	if v.opts.ShowFilenames == show {
		return
	}
	v.opts.ShowFilenames = show
	v.cancelTooltip()
	v.populateAtNewSize(v.width, true)
}

func (v *IconView) ToggleFilenames() {
	v.SetShowFilenames(!v.opts.ShowFilenames)
}

func (v *IconView) SetZoomLevel(level int) {
	level = clampZoomLevelIndex(level)
	if v.opts.ZoomLevel == level {
		return
	}
	v.opts.ZoomLevel = level
	v.populateAtNewSize(v.width, true)
}

func (v *IconView) ZoomLevel() int { return v.opts.ZoomLevel }

// ZoomScale is the factor applied to icon sizes.
func (v *IconView) ZoomScale() float32 { return zoomLevels[v.opts.ZoomLevel] }

func (v *IconView) SetLayout(l ViewLayout) {
	if l != ListView {
		l = GridView
	}
	if v.opts.Layout == l {
		return
	}
	v.opts.Layout = l
	v.populateAtNewSize(v.width, true)
}

func (v *IconView) Layout() ViewLayout { return v.opts.Layout }

func (v *IconView) SetRectangularSelection(rect bool) {
	v.opts.RectangularSelection = rect
}

// SetThumbnails turns background thumbnail loading on or off.
func (v *IconView) SetThumbnails(enabled bool) {
	if v.opts.Thumbnails == enabled {
		return
	}
	v.opts.Thumbnails = enabled
	if enabled {
		v.thumbs.restart()
	} else {
		v.thumbs.cleanup()
	}
}

// SetShowHidden changes dot-file visibility of the default lister and
// reloads the directory.
func (v *IconView) SetShowHidden(show bool) error {
	v.opts.ShowHidden = show
	if dl, ok := v.lister.(*DirLister); ok {
		dl.ShowHidden = show
	}
	if v.dir == "" {
		return nil
	}
	return v.Refresh()
}

// SetFilter applies a glob on file names to the default lister and reloads.
func (v *IconView) SetFilter(pattern string) error {
	if dl, ok := v.lister.(*DirLister); ok {
		if err := dl.SetFilter(pattern); err != nil {
			return err
		}
	}
	v.opts.Filter = pattern
	if v.dir == "" {
		return nil
	}
	return v.Refresh()
}

// Count returns the number of files and their total size.
func (v *IconView) Count() (n int, bytes int64) {
	for _, e := range v.entries {
		bytes += e.fd.size
	}
	return len(v.entries), bytes
}

// Files returns the displayed files in order.
func (v *IconView) Files() []*FileData {
	files := make([]*FileData, len(v.entries))
	for i, e := range v.entries {
		files[i] = e.fd
	}
	return files
}

// FileAt returns the file at position i, or nil.
func (v *IconView) FileAt(i int) *FileData {
	if i < 0 || i >= len(v.entries) {
		return nil
	}
	return v.entries[i].fd
}

func (v *IconView) IndexByFileData(fd *FileData) int {
	return slices.IndexFunc(v.entries, func(e *Entry) bool { return e.fd == fd })
}

func (v *IconView) IndexByPath(path string) int {
	path = filepath.Clean(path)
	return slices.IndexFunc(v.entries, func(e *Entry) bool { return e.fd.path == path })
}

func (v *IconView) entryFor(fd *FileData) *Entry {
	if i := v.IndexByFileData(fd); i >= 0 {
		return v.entries[i]
	}
	return nil
}

func (v *IconView) indexOf(e *Entry) int {
	return slices.Index(v.entries, e)
}

// Focus returns the focused file, or nil.
func (v *IconView) Focus() *FileData {
	if v.focus == nil {
		return nil
	}
	return v.focus.fd
}

func (v *IconView) FocusPosition() (row, col int) {
	return v.focusRow, v.focusCol
}

// StatusText summarizes the listing and the selection.
func (v *IconView) StatusText() string {
	n, bytes := v.Count()
	s := fmt.Sprintf("%d files (%s)", n, humanize.Bytes(uint64(bytes)))
	if sn, sbytes := v.SelectionCount(); sn > 0 {
		s += fmt.Sprintf(", %d selected (%s)", sn, humanize.Bytes(uint64(sbytes)))
	}
	return s
}

// EnableWatcher follows the current directory with fsnotify, applying
// removals directly and reloading on other changes.
func (v *IconView) EnableWatcher() error {
	if v.watcher != nil {
		return nil
	}
	w, err := NewWatcher(v.reg, v.scheduler, func() { v.scheduleRefresh() })
	if err != nil {
		return err
	}
	v.watcher = w
	if v.dir != "" {
		return w.Watch(v.dir)
	}
	return nil
}

// Destroy releases every entry and detaches the view from its collaborators.
func (v *IconView) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true

	if v.cancelSync != nil {
		v.cancelSync()
		v.cancelSync = nil
	}
	v.syncPending = false
	if v.cancelRefresh != nil {
		v.cancelRefresh()
		v.cancelRefresh = nil
	}
	v.refreshPending = false
	v.reg.UnregisterNotify(v.notifyID)
	v.cancelTooltip()
	v.thumbs.cleanup()
	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			log().Warn("closing watcher failed", "err", err)
		}
		v.watcher = nil
	}

	v.freeEntries()
}

func (v *IconView) freeEntries() {
	for _, e := range v.entries {
		e.release()
	}
	v.entries = nil
	v.selection = nil
	v.prevSelection = nil
	v.clickEntry = nil
	v.focus = nil
	v.tipEntry = nil
}

type discardSink struct {
	rows int
}

func (s *discardSink) RowCount() int           { return s.rows }
func (s *discardSink) InsertRow(int, []*Entry) { s.rows++ }
func (s *discardSink) SetRow(int, []*Entry)    {}
func (s *discardSink) RemoveRow(int)           { s.rows-- }
func (s *discardSink) RefreshRow(int)          {}
