package fileview

// moveFocus moves the focus cursor. Relative column steps wrap onto the
// neighbouring row and stop at the first and last slot of the grid. A move
// past the last file of the final row lands on that file.
func (v *IconView) moveFocus(row, col int, relative bool) {
	rows := len(v.rows)
	cols := v.columns
	var newRow, newCol int

	if relative {
		newRow = v.focusRow + row
		if newRow > rows-1 {
			newRow = rows - 1
		}
		if newRow < 0 {
			newRow = 0
		}

		newCol = v.focusCol
		for col != 0 {
			if col < 0 {
				newCol--
				col++
			} else {
				newCol++
				col--
			}

			if newCol < 0 {
				if newRow > 0 {
					newRow--
					newCol = cols - 1
				} else {
					newCol = 0
				}
			}
			if newCol >= cols {
				if newRow < rows-1 {
					newRow++
					newCol = 0
				} else {
					newCol = cols - 1
				}
			}
		}
	} else {
		newRow, newCol = row, col
		if newRow >= rows {
			if rows > 0 {
				newRow = rows - 1
			} else {
				newRow = 0
			}
			newCol = cols - 1
		}
		if newCol >= cols {
			newCol = cols - 1
		}
	}

	if newRow == rows-1 {
		last := len(v.entries)
		if rows > 1 {
			last -= (rows - 1) * cols
		}
		if newCol >= last {
			newCol = last - 1
		}
	}

	v.setFocus(v.findData(newRow, newCol))
}

// setFocus moves the focus flag to e and scrolls it into view. A nil or
// unknown entry clears focus.
func (v *IconView) setFocus(e *Entry) {
	v.placeFocus(e, true)
}

func (v *IconView) placeFocus(e *Entry, scroll bool) {
	if v.focus != nil {
		if v.focus == e {
			if row, col, ok := v.position(e); ok {
				v.focusRow, v.focusCol = row, col
				if scroll && v.viewport != nil {
					v.viewport.MakeRowVisible(row)
				}
				return
			}
		}
		v.focus.state &^= SelectionFocus
		v.refreshEntryRow(v.focus)
	}

	v.focus = e
	if e == nil {
		v.focusRow, v.focusCol = -1, -1
		return
	}

	row, col, ok := v.position(e)
	if !ok {
		v.focus = nil
		v.focusRow, v.focusCol = -1, -1
		return
	}
	v.focusRow, v.focusCol = row, col
	e.state |= SelectionFocus
	v.refreshEntryRow(e)
	if scroll && v.viewport != nil {
		v.viewport.MakeRowVisible(row)
	}
}

// updateFocus keeps focus on its entry when it is still shown, otherwise on
// the nearest slot to where it was.
func (v *IconView) updateFocus() {
	row, col := v.focusRow, v.focusCol
	if v.focus != nil {
		if r, c, ok := v.position(v.focus); ok {
			row, col = r, c
		}
	}
	v.moveFocus(row, col, false)
}

// pageHeight is the number of rows a page key moves.
func (v *IconView) pageHeight() int {
	if v.viewport == nil {
		return 1
	}
	if n := v.viewport.VisibleRowCount(); n > 1 {
		return n
	}
	return 1
}

// SetFocus focuses fd when the view shows it.
func (v *IconView) SetFocus(fd *FileData) {
	if e := v.entryFor(fd); e != nil {
		v.setFocus(e)
	}
}
