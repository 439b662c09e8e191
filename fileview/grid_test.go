package fileview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionToRowCol(t *testing.T) {
	row, col := positionToRowCol(5, 4)
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)
	assert.Equal(t, 5, rowColToPosition(row, col, 4))

	row, col = positionToRowCol(0, 1)
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)
}

func TestRowsFor(t *testing.T) {
	assert.Equal(t, 0, rowsFor(0, 4))
	assert.Equal(t, 3, rowsFor(9, 4))
	assert.Equal(t, 2, rowsFor(8, 4))
	assert.Equal(t, 7, rowsFor(7, 1))
}

func TestColumnsForWidth(t *testing.T) {
	assert.Equal(t, 1, columnsForWidth(10, 140))
	assert.Equal(t, 4, columnsForWidth(600, 140))
	assert.Equal(t, maxColumns, columnsForWidth(100000, 140))
	assert.Equal(t, 1, columnsForWidth(600, 0))
}

func TestIconWidth(t *testing.T) {
	tests := []struct {
		name     string
		thumbW   int
		showText bool
		zoom     float32
		want     float32
	}{
		{"wide thumbs keep their width", 128, true, 1, 128},
		{"narrow thumbs widen to the minimum", 80, true, 1, 128},
		{"medium thumbs widen by half", 100, true, 1, 150},
		{"no text", 128, false, 2, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, iconWidth(tt.thumbW, tt.showText, tt.zoom))
		})
	}
	assert.Equal(t, float32(140), cellWidth(128, true, 1))
}

func TestClampZoomLevelIndex(t *testing.T) {
	assert.Equal(t, 0, clampZoomLevelIndex(-3))
	assert.Equal(t, 2, clampZoomLevelIndex(2))
	assert.Equal(t, len(zoomLevels)-1, clampZoomLevelIndex(99))
}
