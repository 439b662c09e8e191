package fileview

// findData returns the entry shown at a grid slot, or nil for empty and out
// of range slots.
func (v *IconView) findData(row, col int) *Entry {
	if row < 0 || col < 0 || row >= len(v.rows) {
		return nil
	}
	cells := v.rows[row]
	if col >= len(cells) {
		return nil
	}
	return cells[col]
}

// FindByCoordinate hit tests a point in view coordinates.
func (v *IconView) FindByCoordinate(x, y float32) *Entry {
	if v.viewport == nil {
		return nil
	}
	row, col, ok := v.viewport.SlotAt(x, y)
	if !ok {
		return nil
	}
	return v.findData(row, col)
}

// position reports the grid slot of e by its place in the sequence.
func (v *IconView) position(e *Entry) (row, col int, ok bool) {
	n := v.indexOf(e)
	if n < 0 {
		return -1, -1, false
	}
	row, col = positionToRowCol(n, v.columns)
	return row, col, true
}

func (v *IconView) refreshEntryRow(e *Entry) {
	if e != nil && e.row >= 0 && e.row < v.sink.RowCount() {
		v.sink.RefreshRow(e.row)
	}
}

// fillRows writes the sequence onto the grid, reusing existing rows.
func (v *IconView) fillRows() {
	cols := v.columns
	count := rowsFor(len(v.entries), cols)

	rows := make([][]*Entry, count)
	for r := range count {
		cells := make([]*Entry, cols)
		for c := range cols {
			n := rowColToPosition(r, c, cols)
			if n >= len(v.entries) {
				break
			}
			e := v.entries[n]
			e.row = r
			cells[c] = e
		}
		rows[r] = cells

		if r < v.sink.RowCount() {
			v.sink.SetRow(r, cells)
		} else {
			v.sink.InsertRow(r, cells)
		}
	}
	for v.sink.RowCount() > count {
		v.sink.RemoveRow(v.sink.RowCount() - 1)
	}
	v.rows = rows
}

// populate rebuilds the grid after a structural change. With resize every
// row is dropped first; with keepPosition the first visible entry stays in
// view.
func (v *IconView) populate(resize, keepPosition bool) {
	v.verifySelections()

	var visible *Entry
	if keepPosition && v.viewport != nil {
		if r := v.viewport.FirstVisibleRow(); r >= 0 {
			visible = v.findData(r, 0)
		}
	}

	if resize {
		for v.sink.RowCount() > 0 {
			v.sink.RemoveRow(v.sink.RowCount() - 1)
		}
		v.rows = nil
	}

	v.fillRows()

	if visible != nil && visible.row >= 0 && v.viewport.FirstVisibleRow() != visible.row {
		v.viewport.MakeRowVisible(visible.row)
	}

	log().Debug("grid populated", "dir", v.dir, "files", len(v.entries), "rows", len(v.rows), "columns", v.columns)

	v.sendUpdate()
	v.thumbs.restart()
}

// sync rewrites the grid in place, used when entries were reordered or
// removed without a full reload.
func (v *IconView) sync() {
	v.fillRows()
	v.updateFocus()
}

// scheduleSync coalesces structural edits into one sync on the next idle.
func (v *IconView) scheduleSync() {
	if v.syncPending || v.destroyed {
		return
	}
	v.syncPending = true
	v.cancelSync = v.scheduler.Idle(func() {
		if !v.syncPending {
			return
		}
		v.syncPending = false
		v.cancelSync = nil
		v.sync()
	})
}

func (v *IconView) scheduleRefresh() {
	if v.refreshPending || v.destroyed {
		return
	}
	v.refreshPending = true
	v.cancelRefresh = v.scheduler.Idle(func() {
		if !v.refreshPending {
			return
		}
		v.refreshPending = false
		v.cancelRefresh = nil
		if err := v.refresh(true); err != nil {
			log().Warn("reloading directory failed", "dir", v.dir, "err", err)
		}
	})
}

func (v *IconView) columnsFor(width float32) int {
	if v.opts.Layout == ListView {
		return 1
	}
	return columnsForWidth(width, v.CellWidth())
}

// populateAtNewSize repopulates when the column count for width differs from
// the current one, or unconditionally with force.
func (v *IconView) populateAtNewSize(width float32, force bool) {
	v.width = width
	cols := v.columnsFor(width)
	if !force && cols == v.columns {
		return
	}
	log().Debug("column count changed", "from", v.columns, "to", cols)
	v.columns = cols
	v.populate(true, true)
}
