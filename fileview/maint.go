package fileview

import (
	"path/filepath"
	"slices"
)

func (v *IconView) onNotify(fd *FileData, change ChangeType) {
	if v.destroyed || v.dir == "" {
		return
	}
	ch := fd.Change()
	if ch == nil {
		return
	}

	switch change {
	case ChangeMove:
		v.MaintMoved(fd, nil)
	case ChangeRename:
		v.MaintRenamed(fd)
	case ChangeDelete:
		v.MaintRemoved(fd, nil)
	}

	// Files arriving from elsewhere are picked up by a reload.
	if ch.Dest != "" && filepath.Dir(ch.Dest) == v.dir && v.entryFor(fd) == nil {
		v.scheduleRefresh()
	}
}

// MaintRenamed re-sorts a file renamed within its directory. Renames into
// another directory remove it from the view.
func (v *IconView) MaintRenamed(fd *FileData) bool {
	e := v.entryFor(fd)
	if e == nil {
		return false
	}
	ch := fd.Change()
	source, dest := fd.path, fd.path
	if ch != nil {
		source, dest = ch.Source, ch.Dest
	}

	if filepath.Dir(source) != filepath.Dir(dest) {
		return v.MaintRemoved(fd, nil)
	}

	i := v.indexOf(e)
	v.entries = slices.Delete(v.entries, i, i+1)
	v.entries = insertSorted(v.entries, e, v.opts.SortMethod, v.opts.SortAscending)
	v.scheduleSync()
	return true
}

// MaintMoved removes a file that was moved out of the view's directory.
func (v *IconView) MaintMoved(fd *FileData, ignore []*FileData) bool {
	ch := fd.Change()
	if ch == nil || filepath.Dir(ch.Source) != v.dir {
		return false
	}
	return v.MaintRemoved(fd, ignore)
}

// MaintRemoved drops a file that no longer exists. ignore lists other files
// removed in the same operation; they are skipped when choosing the entry
// that inherits the selection.
func (v *IconView) MaintRemoved(fd *FileData, ignore []*FileData) bool {
	e := v.entryFor(fd)
	if e == nil {
		return false
	}
	row := v.indexOf(e)

	// A collection owns the displayed image, so no replacement is picked.
	wasSelected := e.Selected()
	v.unselectEntry(e)
	if wasSelected && (v.layout == nil || !v.layout.ShowingCollection()) {
		newRow := -1
		count := len(v.entries)
		switch {
		case len(v.selection) == 0:
			if ignore != nil {
				newRow = findClosest(row, count, v.ignoreIndexes(ignore))
			} else if row+1 < count {
				newRow = row + 1
			} else if row > 0 {
				newRow = row - 1
			}
		case ignore != nil:
			for _, s := range v.selection {
				if !slices.Contains(ignore, s.fd) {
					newRow = v.indexOf(s)
					break
				}
			}
			if newRow < 0 {
				newRow = findClosest(row, count, v.ignoreIndexes(ignore))
			}
		default:
			newRow = v.indexOf(v.selection[0])
		}

		if newRow >= 0 {
			n := v.entries[newRow]
			v.selectEntry(n)
			v.sendLayoutSelect(n)
		}
	}

	v.thumbs.detach(e)

	if v.prevSelection == e {
		v.prevSelection = nil
	}
	if v.clickEntry == e {
		v.clickEntry = nil
	}
	if v.focus == e {
		v.focus = nil
	}
	if v.tipEntry == e {
		v.cancelTooltip()
	}

	if e.row >= 0 && e.row < len(v.rows) {
		if c := slices.Index(v.rows[e.row], e); c >= 0 {
			v.rows[e.row][c] = nil
			v.sink.SetRow(e.row, v.rows[e.row])
		}
	}

	v.entries = slices.Delete(v.entries, row, row+1)
	e.release()

	v.scheduleSync()
	v.sendUpdate()
	return true
}

func (v *IconView) ignoreIndexes(ignore []*FileData) []int {
	idx := make([]int, 0, len(ignore))
	for _, fd := range ignore {
		if i := v.IndexByFileData(fd); i >= 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// findClosest looks for the nearest position to row, scanning forward from
// row+1 and backward from row-1, that is not listed in ignore. It returns -1
// when neither direction has a survivor.
func findClosest(row, count int, ignore []int) int {
	rev := row - 1
	row++

	list := slices.Clone(ignore)
	for len(list) > 0 {
		hit := -1
		for i, p := range list {
			if row == p {
				row++
				hit = i
			}
			if rev == p {
				rev--
				hit = i
			}
			if hit >= 0 {
				break
			}
		}
		if hit < 0 {
			break
		}
		list = slices.Delete(list, hit, hit+1)
	}

	if row > count-1 {
		if rev < 0 {
			return -1
		}
		return rev
	}
	return row
}
