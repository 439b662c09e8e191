package fileview

// Key is a navigation key understood by the view.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeySpace
	KeyMenu
)

// Modifier is a bitset of held modifier keys.
type Modifier int

const (
	ModShift Modifier = 1 << iota
	ModControl
)

type KeyEvent struct {
	Key       Key
	Modifiers Modifier
}

// Button identifies the pointer button of a PointerEvent.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)

// PointerEvent carries coordinates in the view's own space.
type PointerEvent struct {
	X, Y        float32
	Button      Button
	Modifiers   Modifier
	DoubleClick bool
}

// HandleKey applies a key press and reports whether it was consumed.
func (v *IconView) HandleKey(ev KeyEvent) bool {
	shift := ev.Modifiers&ModShift != 0
	ctrl := ev.Modifiers&ModControl != 0

	var dRow, dCol int
	switch ev.Key {
	case KeyLeft:
		dCol = -1
	case KeyRight:
		dCol = 1
	case KeyUp:
		dRow = -1
	case KeyDown:
		dRow = 1
	case KeyPageUp:
		dRow = -v.pageHeight()
	case KeyPageDown:
		dRow = v.pageHeight()
	case KeyHome:
		dRow = -v.focusRow
		dCol = -v.focusCol
	case KeyEnd:
		dRow = len(v.rows) - 1 - v.focusRow
		dCol = v.columns - 1 - v.focusCol
	case KeySpace:
		e := v.findData(v.focusRow, v.focusCol)
		v.cancelTooltip()
		if e == nil {
			return true
		}
		v.clickEntry = e
		if ctrl {
			v.toggleEntry(e)
			if e.Selected() {
				v.sendLayoutSelect(e)
			}
		} else {
			v.selectNone()
			v.selectEntry(e)
			v.sendLayoutSelect(e)
		}
		v.sendUpdate()
		return true
	case KeyMenu:
		e := v.findData(v.focusRow, v.focusCol)
		v.clickEntry = e
		v.setPrelight(e, true)
		v.cancelTooltip()
		if v.OnContextMenu != nil {
			v.OnContextMenu(fileOf(e), 0, 0)
		}
		return true
	default:
		return false
	}

	v.cancelTooltip()
	if dRow == 0 && dCol == 0 {
		return true
	}

	old := v.findData(v.focusRow, v.focusCol)
	v.moveFocus(dRow, dCol, true)
	cur := v.findData(v.focusRow, v.focusCol)
	if cur == old {
		return true
	}

	switch {
	case shift:
		if !v.opts.RectangularSelection {
			v.selectRegion(old, cur, false)
		} else {
			v.selectRegion(v.clickEntry, old, false)
		}
		v.selectRegion(v.clickEntry, cur, true)
		v.sendLayoutSelect(cur)
		v.sendUpdate()
	case ctrl:
		v.clickEntry = cur
	default:
		v.clickEntry = cur
		v.selectNone()
		v.selectEntry(cur)
		v.sendLayoutSelect(cur)
		v.sendUpdate()
	}
	return true
}

// HandlePress records the entry under the pointer as the click target.
func (v *IconView) HandlePress(ev PointerEvent) {
	e := v.FindByCoordinate(ev.X, ev.Y)
	v.clickEntry = e
	v.setPrelight(e, true)
	v.cancelTooltip()

	if e == nil {
		return
	}
	switch {
	case ev.Button == ButtonSecondary:
		if v.OnContextMenu != nil {
			v.OnContextMenu(e.fd, ev.X, ev.Y)
		}
	case ev.Button == ButtonPrimary && ev.DoubleClick:
		if v.OnActivate != nil {
			v.OnActivate(e.fd)
		}
	}
}

// HandleRelease completes a click started on the same entry.
func (v *IconView) HandleRelease(ev PointerEvent) {
	e := v.FindByCoordinate(ev.X, ev.Y)
	click := v.clickEntry
	if click != nil {
		v.setPrelight(click, false)
	}
	if ev.Button == ButtonSecondary || e == nil || e != click {
		return
	}

	wasSelected := click.Selected()
	switch ev.Button {
	case ButtonPrimary:
		v.setFocus(click)
		if ev.Modifiers&ModControl != 0 {
			if ev.Modifiers&ModShift != 0 {
				if v.prevSelection != nil {
					v.selectRegion(v.prevSelection, click, !click.Selected())
				}
			} else {
				v.toggleEntry(click)
			}
		} else {
			v.selectNone()
			if ev.Modifiers&ModShift != 0 && v.prevSelection != nil {
				v.selectRegion(v.prevSelection, click, true)
			} else {
				v.selectEntry(click)
			}
		}
	case ButtonMiddle:
		v.toggleEntry(click)
	default:
		return
	}
	v.sendUpdate()

	if !wasSelected && click.Selected() {
		v.sendLayoutSelect(click)
	}
}

// HandleMotion tracks the pointer for tooltips.
func (v *IconView) HandleMotion(ev PointerEvent) {
	if v.opts.ShowFilenames {
		return
	}
	e := v.FindByCoordinate(ev.X, ev.Y)
	if e != nil && e == v.tipEntry {
		return
	}
	v.cancelTooltip()
	if e == nil {
		return
	}
	v.tipEntry = e
	v.cancelTip = v.scheduler.AfterFunc(tooltipDelay, func() {
		v.cancelTip = nil
		if v.OnTooltip != nil && v.tipEntry != nil {
			v.OnTooltip(v.tipEntry.fd)
		}
	})
}

// HandleLeave hides any tooltip when the pointer leaves the view.
func (v *IconView) HandleLeave() {
	v.cancelTooltip()
	if v.clickEntry != nil {
		v.setPrelight(v.clickEntry, false)
	}
}

func (v *IconView) cancelTooltip() {
	if v.cancelTip != nil {
		v.cancelTip()
		v.cancelTip = nil
	}
	if v.tipEntry != nil {
		v.tipEntry = nil
		if v.OnTooltip != nil {
			v.OnTooltip(nil)
		}
	}
}

func (v *IconView) setPrelight(e *Entry, on bool) {
	if e == nil || e.Prelit() == on {
		return
	}
	if on {
		e.state |= SelectionPrelight
	} else {
		e.state &^= SelectionPrelight
	}
	v.refreshEntryRow(e)
}

// sendLayoutSelect hands e to the layout, with its neighbour in the
// direction of travel as read-ahead.
func (v *IconView) sendLayoutSelect(e *Entry) {
	if v.layout == nil || e == nil {
		return
	}
	cur := v.layout.CurrentImage()
	if e.fd == cur {
		return
	}

	var ahead *FileData
	if v.opts.ReadAhead && cur != nil {
		row := v.indexOf(e)
		if row > v.IndexByFileData(cur) && row+1 < len(v.entries) {
			ahead = v.entries[row+1].fd
		} else if row > 0 {
			ahead = v.entries[row-1].fd
		}
	}
	v.layout.SetImage(e.fd, ahead)
}

func fileOf(e *Entry) *FileData {
	if e == nil {
		return nil
	}
	return e.fd
}
