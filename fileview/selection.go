package fileview

import "slices"

// setSelected updates the flag and the selection set together without
// touching the anchor.
func (v *IconView) setSelected(e *Entry, selected bool) {
	if e == nil || e.Selected() == selected {
		return
	}
	if selected {
		e.state |= SelectionSelected
		v.selection = append(v.selection, e)
	} else {
		e.state &^= SelectionSelected
		if i := slices.Index(v.selection, e); i >= 0 {
			v.selection = slices.Delete(v.selection, i, i+1)
		}
	}
	v.refreshEntryRow(e)
}

// selectEntry and unselectEntry always move the anchor, even when e is
// already in the requested state.
func (v *IconView) selectEntry(e *Entry) bool {
	v.prevSelection = e
	if e == nil || e.Selected() {
		return false
	}
	v.setSelected(e, true)
	return true
}

func (v *IconView) unselectEntry(e *Entry) bool {
	v.prevSelection = e
	if e == nil || !e.Selected() {
		return false
	}
	v.setSelected(e, false)
	return true
}

func (v *IconView) toggleEntry(e *Entry) {
	if e == nil {
		return
	}
	if e.Selected() {
		v.unselectEntry(e)
	} else {
		v.selectEntry(e)
	}
}

func (v *IconView) selectNone() {
	for _, e := range v.selection {
		e.state &^= SelectionSelected
		v.refreshEntryRow(e)
	}
	v.selection = nil
}

// selectRegion applies selected to every entry between start and end. The
// rectangular policy covers the row/column rectangle spanned by the two
// slots; the linear policy covers the run of the sequence between them.
func (v *IconView) selectRegion(start, end *Entry, selected bool) {
	if start == nil || end == nil {
		return
	}
	i1, i2 := v.indexOf(start), v.indexOf(end)
	if i1 < 0 || i2 < 0 {
		return
	}

	if !v.opts.RectangularSelection || v.columns == 1 {
		if i1 > i2 {
			i1, i2 = i2, i1
		}
		for _, e := range v.entries[i1 : i2+1] {
			v.setSelected(e, selected)
		}
	} else {
		r1, c1 := positionToRowCol(i1, v.columns)
		r2, c2 := positionToRowCol(i2, v.columns)
		if r1 > r2 {
			r1, r2 = r2, r1
		}
		if c1 > c2 {
			c1, c2 = c2, c1
		}
		for r := r1; r <= r2; r++ {
			for c := c1; c <= c2; c++ {
				v.setSelected(v.findData(r, c), selected)
			}
		}
	}
	v.prevSelection = end
}

// verifySelections drops selection members that left the sequence.
func (v *IconView) verifySelections() {
	if len(v.selection) == 0 {
		return
	}
	live := make(map[*Entry]struct{}, len(v.entries))
	for _, e := range v.entries {
		live[e] = struct{}{}
	}
	v.selection = slices.DeleteFunc(v.selection, func(e *Entry) bool {
		_, ok := live[e]
		return !ok
	})
}

func (v *IconView) SelectAll() {
	v.selection = v.selection[:0]
	for _, e := range v.entries {
		e.state |= SelectionSelected
		v.selection = append(v.selection, e)
	}
	for r := range v.rows {
		v.sink.RefreshRow(r)
	}
	v.sendUpdate()
}

func (v *IconView) SelectNone() {
	v.selectNone()
	v.sendUpdate()
}

func (v *IconView) InvertSelection() {
	selection := make([]*Entry, 0, len(v.entries))
	for _, e := range v.entries {
		if e.Selected() {
			e.state &^= SelectionSelected
		} else {
			e.state |= SelectionSelected
			selection = append(selection, e)
		}
	}
	v.selection = selection
	for r := range v.rows {
		v.sink.RefreshRow(r)
	}
	v.sendUpdate()
}

// Select adds fd to the selection and makes it the anchor.
func (v *IconView) Select(fd *FileData) {
	e := v.entryFor(fd)
	if e == nil {
		return
	}
	if v.selectEntry(e) {
		v.sendUpdate()
	}
}

// Unselect removes fd from the selection and makes it the anchor.
func (v *IconView) Unselect(fd *FileData) {
	e := v.entryFor(fd)
	if e == nil {
		return
	}
	if v.unselectEntry(e) {
		v.sendUpdate()
	}
}

// SelectRegion selects or unselects the files between start and end using
// the configured region policy. end becomes the anchor.
func (v *IconView) SelectRegion(start, end *FileData, selected bool) {
	s, e := v.entryFor(start), v.entryFor(end)
	if s == nil || e == nil {
		return
	}
	v.selectRegion(s, e, selected)
	v.sendUpdate()
}

// SelectArea replaces the selection with the entries in a slot rectangle.
func (v *IconView) SelectArea(row1, col1, row2, col2 int) {
	if row1 > row2 {
		row1, row2 = row2, row1
	}
	if col1 > col2 {
		col1, col2 = col2, col1
	}
	v.selectNone()
	for r := row1; r <= row2; r++ {
		for c := col1; c <= col2; c++ {
			v.setSelected(v.findData(r, c), true)
		}
	}
	v.sendUpdate()
}

// SelectFiles adds every listed file shown by the view to the selection.
func (v *IconView) SelectFiles(files []*FileData) {
	changed := false
	for _, fd := range files {
		if e := v.entryFor(fd); e != nil {
			changed = v.selectEntry(e) || changed
		}
	}
	if changed {
		v.sendUpdate()
	}
}

// SelectByFileData makes fd the only selected file unless it already is
// selected, then focuses it.
func (v *IconView) SelectByFileData(fd *FileData) {
	e := v.entryFor(fd)
	if e == nil {
		return
	}
	if !e.Selected() {
		v.selectNone()
		v.selectEntry(e)
		v.sendUpdate()
	}
	v.setFocus(e)
}

// MarkToSelection folds mark bit mark into the selection.
func (v *IconView) MarkToSelection(mark int, mode MarkToSelectionMode) {
	checkMark(mark)
	for _, e := range v.entries {
		m := e.fd.Mark(mark)
		s := e.Selected()
		switch mode {
		case MarkSet:
			s = m
		case MarkOr:
			s = m || s
		case MarkAnd:
			s = m && s
		case MarkMinus:
			s = !m && s
		}
		if s {
			v.selectEntry(e)
		} else {
			v.unselectEntry(e)
		}
	}
	v.sendUpdate()
}

// SelectionToMark writes the selection into mark bit mark.
func (v *IconView) SelectionToMark(mark int, mode SelectionToMarkMode) {
	checkMark(mark)
	for _, e := range slices.Clone(v.selection) {
		switch mode {
		case MarkApplySet:
			e.fd.SetMark(mark, true)
		case MarkApplyReset:
			e.fd.SetMark(mark, false)
		case MarkApplyToggle:
			e.fd.SetMark(mark, !e.fd.Mark(mark))
		}
		v.refreshEntryRow(e)
	}
	v.sendUpdate()
}

// SelectionCount returns the number of selected files and their total size.
func (v *IconView) SelectionCount() (n int, bytes int64) {
	for _, e := range v.selection {
		bytes += e.fd.size
	}
	return len(v.selection), bytes
}

// Selection returns the selected files in the order they were selected.
func (v *IconView) Selection() []*FileData {
	files := make([]*FileData, len(v.selection))
	for i, e := range v.selection {
		files[i] = e.fd
	}
	return files
}

// SelectionIndexes returns the sequence positions of the selected files.
func (v *IconView) SelectionIndexes() []int {
	idx := make([]int, 0, len(v.selection))
	for _, e := range v.selection {
		if i := v.indexOf(e); i >= 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func (v *IconView) IsSelected(fd *FileData) bool {
	e := v.entryFor(fd)
	return e != nil && e.Selected()
}

func (v *IconView) IsSelectedIndex(i int) bool {
	return i >= 0 && i < len(v.entries) && v.entries[i].Selected()
}
