package fileview

import (
	"fmt"
	"image/color"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/FyshOS/fancyfs"
	"github.com/dustin/go-humanize"
)

var keyMap = map[fyne.KeyName]Key{
	fyne.KeyLeft:     KeyLeft,
	fyne.KeyRight:    KeyRight,
	fyne.KeyUp:       KeyUp,
	fyne.KeyDown:     KeyDown,
	fyne.KeyPageUp:   KeyPageUp,
	fyne.KeyPageDown: KeyPageDown,
	fyne.KeyHome:     KeyHome,
	fyne.KeyEnd:      KeyEnd,
	fyne.KeySpace:    KeySpace,
	desktop.KeyMenu:  KeyMenu,
}

// FileView is a Fyne widget showing a directory as an icon grid or a list.
// It drives an IconView, acting as its GridSink and Viewport.
type FileView struct {
	widget.BaseWidget

	view  *IconView
	sched Scheduler

	list    *widget.List
	overlay *selectionOverlay
	zoom    *zoomScrollOverlay
	bg      *canvas.Image

	rows          [][]*Entry
	refreshQueued bool
	hasFocus      bool

	pointer        fyne.Position
	lastClick      time.Time
	lastClickEntry *Entry
	tip            *widget.PopUp
	menu           *widget.PopUpMenu

	dragSelecting bool
	lastDragTime  time.Time
	dragStart     fyne.Position // content coordinates
	dragCur       fyne.Position // viewport coordinates
	lastArea      [4]int

	autoScrollTicker *time.Ticker
	autoScrollStop   chan struct{}
	autoScrollDir    int
	autoScrollStep   float32
}

// NewFileView creates the widget. cfg.Sink and cfg.Viewport are replaced by
// the widget itself.
func NewFileView(cfg Config) *FileView {
	f := &FileView{sched: cfg.Scheduler}
	if f.sched == nil {
		f.sched = FyneScheduler{}
		cfg.Scheduler = f.sched
	}
	cfg.Sink = f
	cfg.Viewport = f

	f.list = widget.NewList(
		func() int { return len(f.rows) },
		func() fyne.CanvasObject { return newFileRow(f) },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			row := o.(*fileRow)
			if id < len(f.rows) {
				row.setCells(f.rows[id])
			} else {
				row.setCells(nil)
			}
		},
	)
	f.list.HideSeparators = true

	f.overlay = newSelectionOverlay(f.list, f.onSelectionDrag, f.onSelectionEnd)
	f.zoom = newZoomScrollOverlay(f.onZoomStep)
	f.bg = canvas.NewImageFromResource(nil)
	f.bg.Hide()

	f.view = NewIconView(cfg)
	f.view.OnTooltip = f.showTooltip

	f.ExtendBaseWidget(f)
	return f
}

// View returns the state behind the widget.
func (f *FileView) View() *IconView { return f.view }

func (f *FileView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(f.bg, f.overlay, f.zoom))
}

func (f *FileView) Resize(size fyne.Size) {
	f.BaseWidget.Resize(size)
	f.view.SetViewportWidth(size.Width - theme.ScrollBarSize())
}

// SetDirectory shows dir, along with its folder background when it has one.
func (f *FileView) SetDirectory(dir string) error {
	err := f.view.SetDirectory(dir)
	f.updateBackground()
	return err
}

func (f *FileView) updateBackground() {
	f.bg.Hide()
	f.bg.Resource = nil
	f.bg.File = ""
	if f.view.Dir() == "" {
		f.bg.Refresh()
		return
	}

	details, err := fancyfs.DetailsForFolder(storage.NewFileURI(f.view.Dir()))
	if err != nil || details == nil {
		f.bg.Refresh()
		return
	}
	switch {
	case details.BackgroundURI != nil:
		f.bg.File = details.BackgroundURI.Path()
		f.bg.FillMode = details.BackgroundFill
		f.bg.Show()
	case details.BackgroundResource != nil:
		f.bg.Resource = details.BackgroundResource
		f.bg.FillMode = details.BackgroundFill
		f.bg.Show()
	}
	f.bg.Refresh()
}

// SavePreferences stores the current options in p.
func (f *FileView) SavePreferences(p fyne.Preferences) {
	f.view.Options().Save(p)
}

// CopyPaths puts the selected paths, one per line, on the clipboard. With no
// selection the focused file is copied.
func (f *FileView) CopyPaths() {
	files := f.view.Selection()
	if len(files) == 0 {
		if fd := f.view.Focus(); fd != nil {
			files = []*FileData{fd}
		}
	}
	if len(files) == 0 {
		return
	}
	paths := make([]string, len(files))
	for i, fd := range files {
		paths[i] = fd.Path()
	}
	fyne.CurrentApp().Clipboard().SetContent(strings.Join(paths, "\n"))
}

// ShowMenu pops up menu at view coordinates x, y. The menu key reports no
// pointer position, so 0, 0 places the menu at the focused file.
func (f *FileView) ShowMenu(menu *fyne.Menu, x, y float32) {
	c := fyne.CurrentApp().Driver().CanvasForObject(f)
	if c == nil {
		return
	}
	pos := fyne.NewPos(x, y)
	if x == 0 && y == 0 {
		row, col := f.view.FocusPosition()
		pos = f.slotPosition(row, col)
	}
	if f.menu != nil {
		f.menu.Hide()
	}
	f.menu = widget.NewPopUpMenu(menu, c)
	f.menu.ShowAtPosition(fyne.CurrentApp().Driver().AbsolutePositionForObject(f.overlay).Add(pos))
}

func (f *FileView) showTooltip(fd *FileData) {
	if f.tip != nil {
		f.tip.Hide()
		f.tip = nil
	}
	if fd == nil {
		return
	}
	c := fyne.CurrentApp().Driver().CanvasForObject(f)
	if c == nil {
		return
	}
	text := fmt.Sprintf("%s\n%s", fd.Name(), humanize.Bytes(uint64(fd.Size())))
	f.tip = widget.NewPopUp(widget.NewLabel(text), c)
	abs := fyne.CurrentApp().Driver().AbsolutePositionForObject(f.overlay)
	f.tip.ShowAtPosition(abs.Add(f.pointer).Add(fyne.NewPos(12, 12)))
}

func (f *FileView) onZoomStep(steps int) {
	f.view.SetZoomLevel(f.view.ZoomLevel() + steps)
}

// Focusable

func (f *FileView) FocusGained() {
	f.hasFocus = true
	f.list.Refresh()
}

func (f *FileView) FocusLost() {
	f.hasFocus = false
	f.list.Refresh()
}

func (f *FileView) TypedRune(rune) {}

func (f *FileView) TypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyReturn, fyne.KeyEnter:
		if fd := f.view.Focus(); fd != nil && f.view.OnActivate != nil {
			f.view.OnActivate(fd)
		}
		return
	case fyne.KeyEscape:
		f.view.SelectNone()
		return
	}
	if key, ok := keyMap[ev.Name]; ok {
		f.view.HandleKey(KeyEvent{Key: key, Modifiers: currentModifiers()})
	}
}

func (f *FileView) TypedShortcut(s fyne.Shortcut) {
	switch s.(type) {
	case *fyne.ShortcutSelectAll:
		f.view.SelectAll()
	case *fyne.ShortcutCopy:
		f.CopyPaths()
	}
}

func (f *FileView) requestFocus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(f); c != nil {
		c.Focus(f)
	}
}

func currentModifiers() Modifier {
	d, ok := fyne.CurrentApp().Driver().(desktop.Driver)
	if !ok {
		return 0
	}
	return toModifier(d.CurrentKeyModifiers())
}

func toModifier(m fyne.KeyModifier) Modifier {
	var mods Modifier
	if m&fyne.KeyModifierShift != 0 {
		mods |= ModShift
	}
	if m&(fyne.KeyModifierControl|fyne.KeyModifierShortcutDefault) != 0 {
		mods |= ModControl
	}
	return mods
}

// GridSink

func (f *FileView) RowCount() int { return len(f.rows) }

func (f *FileView) InsertRow(index int, cells []*Entry) {
	f.rows = slices.Insert(f.rows, index, cells)
	f.queueRefresh()
}

func (f *FileView) SetRow(index int, cells []*Entry) {
	f.rows[index] = cells
	f.queueRefresh()
}

func (f *FileView) RemoveRow(index int) {
	f.rows = slices.Delete(f.rows, index, index+1)
	f.queueRefresh()
}

func (f *FileView) RefreshRow(index int) {
	if f.refreshQueued {
		return
	}
	f.list.RefreshItem(index)
}

// queueRefresh folds bursts of row edits into a single list refresh.
func (f *FileView) queueRefresh() {
	if f.refreshQueued {
		return
	}
	f.refreshQueued = true
	f.sched.Idle(func() {
		f.refreshQueued = false
		f.list.Refresh()
	})
}

// Viewport

func (f *FileView) lineHeight() float32 {
	return fyne.MeasureText("A", theme.TextSize(), fyne.TextStyle{}).Height
}

func (f *FileView) rowHeight() float32 {
	opts := f.view.Options()
	pad := theme.Padding()
	if opts.Layout == ListView {
		return max(float32(fileInlineIconSize)*f.view.ZoomScale(), f.lineHeight()) + pad*2
	}
	h := float32(opts.ThumbMaxHeight)*f.view.ZoomScale() + thumbBorderPadding*2 + pad*2
	if opts.ShowFilenames {
		h += f.lineHeight()*2 + pad
	}
	return h
}

func (f *FileView) rowStep() float32 {
	return f.rowHeight() + f.list.Theme().Size(theme.SizeNamePadding)
}

func (f *FileView) columnWidth() float32 {
	if f.view.Layout() == ListView {
		return f.list.Size().Width
	}
	return f.view.CellWidth()
}

func (f *FileView) SlotAt(x, y float32) (row, col int, ok bool) {
	if x < 0 || y < 0 || len(f.rows) == 0 {
		return -1, -1, false
	}
	step := f.rowStep()
	cy := y + f.list.GetScrollOffset()
	row = int(cy / step)
	if row >= len(f.rows) || cy-float32(row)*step > f.rowHeight() {
		return -1, -1, false
	}
	cw := f.columnWidth()
	if cw <= 0 {
		return -1, -1, false
	}
	col = int(x / cw)
	if col >= f.view.Columns() {
		return -1, -1, false
	}
	return row, col, true
}

func (f *FileView) FirstVisibleRow() int {
	if len(f.rows) == 0 {
		return -1
	}
	return min(int(f.list.GetScrollOffset()/f.rowStep()), len(f.rows)-1)
}

func (f *FileView) VisibleRowCount() int {
	return int(f.list.Size().Height / f.rowStep())
}

func (f *FileView) MakeRowVisible(row int) {
	if row >= 0 && row < len(f.rows) {
		f.list.ScrollTo(row)
	}
}

// slotPosition is the centre of a slot in view coordinates.
func (f *FileView) slotPosition(row, col int) fyne.Position {
	if row < 0 || col < 0 {
		return fyne.NewPos(0, 0)
	}
	cw := f.columnWidth()
	if f.view.Layout() == ListView {
		cw = f.lineHeight() * 4
	}
	x := float32(col)*cw + cw/2
	y := float32(row)*f.rowStep() - f.list.GetScrollOffset() + f.rowHeight()/2
	return fyne.NewPos(x, y)
}

// pointer handling

func (f *FileView) toView(abs fyne.Position) fyne.Position {
	origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(f.overlay)
	return abs.Subtract(origin)
}

func (f *FileView) pointerEvent(pos fyne.Position, ev *desktop.MouseEvent) PointerEvent {
	pe := PointerEvent{X: pos.X, Y: pos.Y, Modifiers: toModifier(ev.Modifier)}
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		pe.Button = ButtonPrimary
	case desktop.MouseButtonSecondary:
		pe.Button = ButtonSecondary
	case desktop.MouseButtonTertiary:
		pe.Button = ButtonMiddle
	}
	return pe
}

func (f *FileView) mouseDown(cell *fileCell, ev *desktop.MouseEvent) {
	f.requestFocus()
	if f.menu != nil {
		f.menu.Hide()
		f.menu = nil
	}
	pos := f.toView(ev.AbsolutePosition)
	f.pointer = pos
	pe := f.pointerEvent(pos, ev)

	if pe.Button == ButtonPrimary {
		now := time.Now()
		pe.DoubleClick = cell.entry != nil && cell.entry == f.lastClickEntry &&
			now.Sub(f.lastClick) < fyne.CurrentApp().Driver().DoubleTapDelay()
		f.lastClick = now
		f.lastClickEntry = cell.entry
	}
	f.view.HandlePress(pe)
}

func (f *FileView) mouseUp(cell *fileCell, ev *desktop.MouseEvent) {
	// A drag ends with a release over whatever cell is under the pointer.
	if f.dragSelecting || time.Since(f.lastDragTime) < 200*time.Millisecond {
		return
	}
	pos := f.toView(ev.AbsolutePosition)
	f.view.HandleRelease(f.pointerEvent(pos, ev))
}

func (f *FileView) mouseMoved(cell *fileCell, ev *desktop.MouseEvent) {
	pos := f.toView(ev.AbsolutePosition)
	f.pointer = pos
	f.view.HandleMotion(PointerEvent{X: pos.X, Y: pos.Y})
}

// drag selection

func (f *FileView) onSelectionDrag(start, cur fyne.Position) {
	if !f.dragSelecting {
		f.dragSelecting = true
		f.dragStart = fyne.NewPos(start.X, start.Y+f.list.GetScrollOffset())
		f.lastArea = [4]int{-1, -1, -1, -1}
	}
	f.dragCur = cur

	f.updateAutoScroll()
	f.updateDragSelection()
}

func (f *FileView) updateDragSelection() {
	if !f.dragSelecting || len(f.rows) == 0 {
		return
	}

	offset := f.list.GetScrollOffset()
	// keep the band anchored to where the drag started in the content
	f.overlay.setStartPos(fyne.NewPos(f.dragStart.X, f.dragStart.Y-offset))

	cur := fyne.NewPos(f.dragCur.X, f.dragCur.Y+offset)
	tl := fyne.NewPos(min(f.dragStart.X, cur.X), min(f.dragStart.Y, cur.Y))
	br := fyne.NewPos(max(f.dragStart.X, cur.X), max(f.dragStart.Y, cur.Y))

	step := f.rowStep()
	cw := f.columnWidth()
	if step <= 0 || cw <= 0 {
		return
	}
	r1 := max(int(tl.Y/step), 0)
	r2 := min(int(br.Y/step), len(f.rows)-1)
	c1 := max(int(tl.X/cw), 0)
	c2 := min(int(br.X/cw), f.view.Columns()-1)

	area := [4]int{r1, c1, r2, c2}
	if area == f.lastArea {
		return
	}
	f.lastArea = area
	if r1 > r2 || c1 > c2 {
		f.view.SelectNone()
		return
	}
	f.view.SelectArea(r1, c1, r2, c2)
}

func (f *FileView) onSelectionEnd() {
	f.stopAutoScroll()
	f.dragSelecting = false
	f.lastDragTime = time.Now()
}

func (f *FileView) maxScrollOffset() float32 {
	total := float32(len(f.rows)) * f.rowStep()
	return max(total-f.list.Size().Height, 0)
}

func (f *FileView) updateAutoScroll() {
	if !f.dragSelecting {
		f.stopAutoScroll()
		return
	}

	size := f.overlay.Size()
	if size.Height <= 0 {
		f.stopAutoScroll()
		return
	}

	zone := min(max(theme.Padding()*4, 24), size.Height/2)

	var dir int
	var intensity float32
	if f.dragCur.Y < zone {
		dir = -1
		intensity = (zone - f.dragCur.Y) / zone
	} else if f.dragCur.Y > size.Height-zone {
		dir = 1
		intensity = (f.dragCur.Y - (size.Height - zone)) / zone
	}
	intensity = min(intensity, 1)

	if dir == 0 || intensity <= 0 {
		f.stopAutoScroll()
		return
	}

	maxStep := min(max(f.rowHeight()*0.5, 12), 80)
	f.autoScrollDir = dir
	f.autoScrollStep = intensity * maxStep
	f.startAutoScroll()
}

func (f *FileView) startAutoScroll() {
	if f.autoScrollTicker != nil {
		return
	}
	f.autoScrollTicker = time.NewTicker(30 * time.Millisecond)
	f.autoScrollStop = make(chan struct{})

	stop := f.autoScrollStop
	ticker := f.autoScrollTicker
	go func() {
		for {
			select {
			case <-ticker.C:
				fyne.Do(f.autoScrollTick)
			case <-stop:
				return
			}
		}
	}()
}

func (f *FileView) stopAutoScroll() {
	if f.autoScrollTicker == nil {
		return
	}
	f.autoScrollTicker.Stop()
	f.autoScrollTicker = nil
	if f.autoScrollStop != nil {
		close(f.autoScrollStop)
		f.autoScrollStop = nil
	}
	f.autoScrollDir = 0
	f.autoScrollStep = 0
}

func (f *FileView) autoScrollTick() {
	if !f.dragSelecting || f.autoScrollDir == 0 || f.autoScrollStep <= 0 {
		f.stopAutoScroll()
		return
	}

	offset := f.list.GetScrollOffset()
	maxOffset := f.maxScrollOffset()
	if maxOffset <= 0 {
		f.stopAutoScroll()
		return
	}

	next := min(max(offset+float32(f.autoScrollDir)*f.autoScrollStep, 0), maxOffset)
	if next == offset {
		f.stopAutoScroll()
		return
	}
	f.list.ScrollToOffset(next)

	// the pointer now covers different content
	f.updateDragSelection()
}

// rows and cells

type fileRow struct {
	widget.BaseWidget
	f     *FileView
	cells []*fileCell
	box   *fyne.Container
}

func newFileRow(f *FileView) *fileRow {
	r := &fileRow{f: f}
	r.box = container.New(&rowLayout{f: f})
	r.ExtendBaseWidget(r)
	return r
}

func (r *fileRow) setCells(entries []*Entry) {
	for len(r.cells) < len(entries) {
		c := newFileCell(r.f)
		r.cells = append(r.cells, c)
		r.box.Add(c)
	}
	for i, c := range r.cells {
		if i < len(entries) {
			c.bind(entries[i])
			c.Show()
		} else {
			c.bind(nil)
			c.Hide()
		}
	}
	r.box.Refresh()
}

func (r *fileRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(r.box)
}

func (r *fileRow) MinSize() fyne.Size {
	return fyne.NewSize(0, r.f.rowHeight())
}

type rowLayout struct {
	f *FileView
}

func (l *rowLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	cw := l.f.view.CellWidth()
	if l.f.view.Layout() == ListView {
		cw = size.Width
	}
	for i, o := range objects {
		o.Move(fyne.NewPos(float32(i)*cw, 0))
		o.Resize(fyne.NewSize(cw, size.Height))
	}
}

func (l *rowLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(0, l.f.rowHeight())
}

// fileCell renders one slot of the grid.
type fileCell struct {
	widget.BaseWidget
	f     *FileView
	entry *Entry

	bg     *canvas.Rectangle
	frame  *canvas.Rectangle
	icon   *widget.FileIcon
	thumb  *canvas.Image
	label  *widget.Label
	detail *widget.Label
}

var (
	_ desktop.Mouseable = (*fileCell)(nil)
	_ desktop.Hoverable = (*fileCell)(nil)
)

func newFileCell(f *FileView) *fileCell {
	c := &fileCell{
		f:      f,
		bg:     canvas.NewRectangle(theme.Color(theme.ColorNameSelection)),
		frame:  canvas.NewRectangle(color.Transparent),
		icon:   widget.NewFileIcon(nil),
		thumb:  canvas.NewImageFromImage(nil),
		label:  widget.NewLabel(""),
		detail: widget.NewLabel(""),
	}
	c.frame.StrokeColor = theme.Color(theme.ColorNameFocus)
	c.frame.StrokeWidth = 2
	c.thumb.FillMode = canvas.ImageFillContain
	c.thumb.Hide()
	c.bg.Hide()
	c.frame.Hide()
	c.detail.Alignment = fyne.TextAlignTrailing
	c.ExtendBaseWidget(c)
	return c
}

func (c *fileCell) bind(e *Entry) {
	c.entry = e
	if e == nil {
		c.label.SetText("")
		c.detail.SetText("")
		c.thumb.Image = nil
		c.thumb.Hide()
		c.icon.SetURI(nil)
		c.bg.Hide()
		c.frame.Hide()
		c.Refresh()
		return
	}

	fd := e.File()
	list := c.f.view.Layout() == ListView
	c.icon.SetURI(storage.NewFileURI(fd.Path()))

	if img := e.Thumbnail(); img != nil {
		c.thumb.Image = img
		c.thumb.Show()
		c.icon.Hide()
	} else {
		c.thumb.Image = nil
		c.thumb.Hide()
		c.icon.Show()
	}
	c.thumb.Refresh()

	name := fd.Name()
	if list {
		c.label.Alignment = fyne.TextAlignLeading
		c.label.Wrapping = fyne.TextWrapOff
		c.label.Truncation = fyne.TextTruncateEllipsis
		c.label.Show()
		c.detail.SetText(fmt.Sprintf("%s  %s", humanize.Bytes(uint64(fd.Size())), humanize.Time(fd.ModTime())))
		c.detail.Show()
	} else {
		c.label.Alignment = fyne.TextAlignCenter
		c.label.Wrapping = fyne.TextWrapBreak
		c.label.Truncation = fyne.TextTruncateClip
		c.detail.Hide()
		if c.f.view.Options().ShowFilenames {
			limit := 1.6 * c.f.view.CellWidth()
			name = shortenName(name, limit, func(s string) float32 {
				return fyne.MeasureText(s, theme.TextSize(), c.label.TextStyle).Width
			})
			c.label.Show()
		} else {
			c.label.Hide()
		}
	}
	c.label.SetText(name)

	switch {
	case e.Selected():
		c.bg.FillColor = theme.Color(theme.ColorNameSelection)
		c.bg.Show()
	case e.Prelit():
		c.bg.FillColor = theme.Color(theme.ColorNameHover)
		c.bg.Show()
	default:
		c.bg.Hide()
	}
	c.bg.Refresh()

	if e.Focused() && c.f.hasFocus {
		c.frame.Show()
	} else {
		c.frame.Hide()
	}
	c.frame.Refresh()
	c.Refresh()
}

// shortenName replaces the middle of name with ".." so it measures at most
// limit, keeping the extension.
func shortenName(name string, limit float32, measure func(string) float32) string {
	if measure(name) <= limit {
		return name
	}
	const dots = ".."
	ext := filepath.Ext(name)
	head := limit - measure(dots) - measure(ext)
	if head <= 0 {
		return dots + ext
	}

	base := []rune(name[:len(name)-len(ext)])
	low, high, best := 0, len(base), 0
	for low <= high {
		mid := (low + high) / 2
		if measure(string(base[:mid])) <= head {
			best = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return string(base[:best]) + dots + ext
}

func (c *fileCell) MouseDown(e *desktop.MouseEvent)  { c.f.mouseDown(c, e) }
func (c *fileCell) MouseUp(e *desktop.MouseEvent)    { c.f.mouseUp(c, e) }
func (c *fileCell) MouseIn(e *desktop.MouseEvent)    { c.f.mouseMoved(c, e) }
func (c *fileCell) MouseMoved(e *desktop.MouseEvent) { c.f.mouseMoved(c, e) }
func (c *fileCell) MouseOut()                        { c.f.view.HandleLeave() }

func (c *fileCell) CreateRenderer() fyne.WidgetRenderer {
	return &fileCellRenderer{c: c}
}

type fileCellRenderer struct {
	c *fileCell
}

func (r *fileCellRenderer) Layout(size fyne.Size) {
	c := r.c
	pad := theme.Padding()
	zoom := c.f.view.ZoomScale()
	c.bg.Resize(size)
	c.frame.Resize(size)

	if c.f.view.Layout() == ListView {
		iconSize := fyne.NewSquareSize(float32(fileInlineIconSize) * zoom)
		iconPos := fyne.NewPos(pad, (size.Height-iconSize.Height)/2)
		c.icon.Resize(iconSize)
		c.icon.Move(iconPos)
		c.thumb.Resize(iconSize)
		c.thumb.Move(iconPos)

		detailW := min(c.detail.MinSize().Width, size.Width/3)
		c.detail.Resize(fyne.NewSize(detailW, size.Height))
		c.detail.Move(fyne.NewPos(size.Width-detailW, 0))

		labelX := iconSize.Width + pad*2
		c.label.Resize(fyne.NewSize(max(size.Width-labelX-detailW, 0), size.Height))
		c.label.Move(fyne.NewPos(labelX, 0))
		return
	}

	opts := c.f.view.Options()
	thumbSize := fyne.NewSize(float32(opts.ThumbMaxWidth)*zoom, float32(opts.ThumbMaxHeight)*zoom)
	c.thumb.Resize(thumbSize)
	c.thumb.Move(fyne.NewPos((size.Width-thumbSize.Width)/2, pad+thumbBorderPadding))

	iconSize := fyne.NewSquareSize(min(float32(fileIconSize)*zoom, thumbSize.Height))
	c.icon.Resize(iconSize)
	c.icon.Move(fyne.NewPos((size.Width-iconSize.Width)/2, pad+thumbBorderPadding+(thumbSize.Height-iconSize.Height)/2))

	labelY := pad*2 + thumbSize.Height + thumbBorderPadding*2
	c.label.Resize(fyne.NewSize(size.Width, max(size.Height-labelY, 0)))
	c.label.Move(fyne.NewPos(0, labelY-pad))
}

func (r *fileCellRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, r.c.f.rowHeight())
}

func (r *fileCellRenderer) Refresh() {
	r.Layout(r.c.Size())
	r.c.bg.Refresh()
	r.c.frame.Refresh()
	r.c.icon.Refresh()
	r.c.thumb.Refresh()
	r.c.label.Refresh()
	r.c.detail.Refresh()
}

func (r *fileCellRenderer) Objects() []fyne.CanvasObject {
	c := r.c
	return []fyne.CanvasObject{c.bg, c.icon, c.thumb, c.label, c.detail, c.frame}
}

func (r *fileCellRenderer) Destroy() {}

var (
	_ fyne.Focusable    = (*FileView)(nil)
	_ fyne.Shortcutable = (*FileView)(nil)
	_ GridSink          = (*FileView)(nil)
	_ Viewport          = (*FileView)(nil)
)
