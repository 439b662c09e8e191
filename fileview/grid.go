package fileview

// GridSink receives the rows the view lays out. Cells past the last file in
// the final row are nil.
type GridSink interface {
	RowCount() int
	InsertRow(index int, cells []*Entry)
	SetRow(index int, cells []*Entry)
	RemoveRow(index int)
	RefreshRow(index int)
}

// Viewport exposes the scroll state and hit testing of the presentation.
type Viewport interface {
	// SlotAt maps view coordinates to a grid slot.
	SlotAt(x, y float32) (row, col int, ok bool)
	// FirstVisibleRow is -1 while nothing is realized.
	FirstVisibleRow() int
	VisibleRowCount() int
	MakeRowVisible(row int)
}

var zoomLevels = []float32{
	0.75,
	1.0,
	1.25,
	1.5,
	1.75,
	2.0,
}

const defaultZoomLevelIndex = 1 // 1.0

func clampZoomLevelIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(zoomLevels) {
		return len(zoomLevels) - 1
	}
	return i
}

func positionToRowCol(n, columns int) (row, col int) {
	row = n / columns
	col = n - row*columns
	return row, col
}

func rowColToPosition(row, col, columns int) int {
	return row*columns + col
}

func columnsForWidth(width, cellWidth float32) int {
	if cellWidth <= 0 {
		return 1
	}
	cols := int(width / cellWidth)
	if cols < 1 {
		return 1
	}
	if cols > maxColumns {
		return maxColumns
	}
	return cols
}

func rowsFor(count, columns int) int {
	if count == 0 {
		return 0
	}
	return (count + columns - 1) / columns
}

// iconWidth widens narrow thumbnails when filenames are shown so labels have
// room to wrap.
func iconWidth(thumbMaxWidth int, showText bool, zoom float32) float32 {
	w := thumbMaxWidth
	if showText {
		w = thumbMaxWidth + thumbMaxWidth/2
		if w < thumbMinIconWidth {
			w = thumbMinIconWidth
		} else if w > thumbMaxIconWidth {
			w = thumbMaxWidth
		}
	}
	return float32(w) * zoom
}

func cellWidth(thumbMaxWidth int, showText bool, zoom float32) float32 {
	return iconWidth(thumbMaxWidth, showText, zoom) + thumbBorderPadding*6
}
